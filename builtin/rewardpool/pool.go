// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewardpool

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/unfoldfi/unfold/builtin/feeschedule"
	"github.com/unfoldfi/unfold/builtin/ownable"
	"github.com/unfoldfi/unfold/builtin/reverts"
	"github.com/unfoldfi/unfold/builtin/solidity"
	"github.com/unfoldfi/unfold/builtin/stakes"
	"github.com/unfoldfi/unfold/log"
	"github.com/unfoldfi/unfold/unfold"
	"github.com/unfoldfi/unfold/xenv"
)

var (
	logger = log.WithContext("pkg", "rewardpool")

	slotConfig         = unfold.BytesToBytes32([]byte("pool-config"))
	slotAccrual        = unfold.BytesToBytes32([]byte("accrual"))
	slotFeeBeneficiary = unfold.BytesToBytes32([]byte("fee-beneficiary"))
	slotCheckpoints    = unfold.BytesToBytes32([]byte("checkpoints"))
	slotDepositTimes   = unfold.BytesToBytes32([]byte("deposit-times"))
)

// SetLogger replaces the package logger.
func SetLogger(l log.Logger) {
	logger = l
}

// Config is the immutable deployment configuration of a pool.
type Config struct {
	PoolToken     unfold.Address
	RewardToken   unfold.Address
	Duration      uint64 // seconds a funding is spread over
	PublicFunding bool   // anyone may AddReward, not only the owner
	FeeSchedule   feeschedule.Schedule
}

// Pool distributes a funded reward budget to stakers in proportion to their
// stake-time share, and charges a decaying fee on withdrawal.
type Pool struct {
	addr unfold.Address
	env  *xenv.Environment
	bind TokenBinder

	ownable        *ownable.Service
	stakes         *stakes.Service
	feeBeneficiary *solidity.Address
	checkpoints    *solidity.Mapping[unfold.Address, *checkpoint]
	depositTimes   *solidity.Mapping[unfold.Address, uint64]
}

// New binds the pool deployed at addr.
func New(addr unfold.Address, env *xenv.Environment, bind TokenBinder) *Pool {
	sctx := solidity.NewContext(addr, env.State())
	return &Pool{
		addr:           addr,
		env:            env,
		bind:           bind,
		ownable:        ownable.New(sctx, env),
		stakes:         stakes.New(sctx),
		feeBeneficiary: solidity.NewAddress(sctx, slotFeeBeneficiary),
		checkpoints:    solidity.NewMapping[unfold.Address, *checkpoint](sctx, slotCheckpoints),
		depositTimes:   solidity.NewMapping[unfold.Address, uint64](sctx, slotDepositTimes),
	}
}

// Deploy initializes the pool storage.
func (p *Pool) Deploy(cfg *Config, feeBeneficiary, owner unfold.Address) error {
	existing, err := p.Config()
	if err != nil {
		return err
	}
	if !existing.PoolToken.IsZero() {
		return reverts.Errorf(reverts.ErrInvalidConfig, "pool %v already deployed", p.addr)
	}
	if cfg.PoolToken.IsZero() || cfg.RewardToken.IsZero() {
		return reverts.Errorf(reverts.ErrZeroAddress, "token is the zero address")
	}
	if cfg.Duration == 0 {
		return reverts.Errorf(reverts.ErrInvalidConfig, "zero duration")
	}
	if err := cfg.FeeSchedule.Validate(); err != nil {
		return err
	}
	if feeBeneficiary.IsZero() {
		return reverts.Errorf(reverts.ErrZeroAddress, "fee beneficiary is the zero address")
	}

	if err := p.env.State().EncodeStorage(p.addr, slotConfig, func() ([]byte, error) {
		return rlp.EncodeToBytes(cfg)
	}); err != nil {
		return err
	}
	p.feeBeneficiary.Set(feeBeneficiary)
	if err := p.ownable.Initialize(owner); err != nil {
		return err
	}
	logger.Info("pool deployed", "pool", p.addr, "poolToken", cfg.PoolToken, "rewardToken", cfg.RewardToken, "duration", cfg.Duration)
	return nil
}

//
// Getters - no state change
//

// Address returns the contract address of the pool.
func (p *Pool) Address() unfold.Address {
	return p.addr
}

// Config returns the deployment configuration. Zero valued when not deployed.
func (p *Pool) Config() (*Config, error) {
	var cfg Config
	err := p.env.State().DecodeStorage(p.addr, slotConfig, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &cfg)
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (p *Pool) Owner() (unfold.Address, error) {
	return p.ownable.Owner()
}

func (p *Pool) FeeBeneficiary() (unfold.Address, error) {
	return p.feeBeneficiary.Get()
}

func (p *Pool) TotalStaked() (*uint256.Int, error) {
	return p.stakes.TotalStaked()
}

// BalanceOf returns the staked balance of account.
func (p *Pool) BalanceOf(account unfold.Address) (*uint256.Int, error) {
	return p.stakes.BalanceOf(account)
}

// LastDepositTime returns the time of the latest stake of account.
func (p *Pool) LastDepositTime(account unfold.Address) (uint64, error) {
	return p.depositTimes.Get(account)
}

// RewardRate returns the reward tokens distributed per second.
func (p *Pool) RewardRate() (*uint256.Int, error) {
	a, err := p.loadAccrual()
	if err != nil {
		return nil, err
	}
	return a.RewardRate, nil
}

// PeriodFinish returns the end of the current reward period.
func (p *Pool) PeriodFinish() (uint64, error) {
	a, err := p.loadAccrual()
	if err != nil {
		return 0, err
	}
	return a.PeriodFinish, nil
}

// RewardPerToken returns the accumulated reward per staked token, scaled by 1e18.
func (p *Pool) RewardPerToken() (*uint256.Int, error) {
	a, err := p.loadAccrual()
	if err != nil {
		return nil, err
	}
	total, err := p.stakes.TotalStaked()
	if err != nil {
		return nil, err
	}
	return a.rewardPerToken(p.env.Now(), total)
}

// Earned returns the reward account may claim now.
func (p *Pool) Earned(account unfold.Address) (*uint256.Int, error) {
	rpt, err := p.RewardPerToken()
	if err != nil {
		return nil, err
	}
	balance, err := p.stakes.BalanceOf(account)
	if err != nil {
		return nil, err
	}
	cp, err := p.loadCheckpoint(account)
	if err != nil {
		return nil, err
	}
	return earned(balance, rpt, cp)
}

// CalculateWithdrawalFeeBp returns the fee in basis points for a deposit made at depositTime.
func (p *Pool) CalculateWithdrawalFeeBp(depositTime uint64) (uint64, error) {
	cfg, err := p.Config()
	if err != nil {
		return 0, err
	}
	return cfg.FeeSchedule.FeeBpAt(depositTime, p.env.Now()), nil
}

//
// Setters - state change
//

// Stake deposits amount pool tokens of caller, restarting its fee decay clock.
func (p *Pool) Stake(caller unfold.Address, amount *uint256.Int) error {
	logger.Debug("stake", "pool", p.addr, "account", caller, "amount", amount)
	if amount.IsZero() {
		return reverts.Errorf(reverts.ErrInvalidAmount, "cannot stake 0")
	}
	cfg, err := p.deployed()
	if err != nil {
		return err
	}
	if err := p.updateReward(&caller); err != nil {
		return err
	}
	if err := p.stakes.Stake(caller, amount); err != nil {
		return err
	}
	if err := p.depositTimes.Set(caller, p.env.Now()); err != nil {
		return err
	}

	// interactions last
	if err := p.bind(cfg.PoolToken).TransferFrom(p.addr, caller, p.addr, amount); err != nil {
		return err
	}

	p.env.Emit(p.addr, "Staked", map[string]any{"account": caller, "amount": amount.Clone()})
	metricOperationCount().AddWithLabel(1, map[string]string{"pool": p.addr.String(), "op": "stake"})
	logger.Info("staked", "pool", p.addr, "account", caller, "amount", amount)
	return nil
}

// Withdraw returns amount staked pool tokens to caller minus the withdrawal fee,
// which is sent to the fee beneficiary. amountHint is informational.
func (p *Pool) Withdraw(caller unfold.Address, amountHint, amount *uint256.Int) error {
	logger.Debug("withdraw", "pool", p.addr, "account", caller, "hint", amountHint, "amount", amount)
	cfg, err := p.deployed()
	if err != nil {
		return err
	}
	balance, err := p.stakes.BalanceOf(caller)
	if err != nil {
		return err
	}
	if amount.IsZero() || amount.Gt(balance) {
		return reverts.Errorf(reverts.ErrInsufficientBalance, "withdraw %v of staked %v", amount, balance)
	}
	if amountHint != nil && !amountHint.Eq(amount) {
		logger.Debug("withdraw amount differs from hint", "pool", p.addr, "account", caller, "hint", amountHint, "amount", amount)
	}

	if err := p.updateReward(&caller); err != nil {
		return err
	}
	depositTime, err := p.depositTimes.Get(caller)
	if err != nil {
		return err
	}
	feeBp := cfg.FeeSchedule.FeeBpAt(depositTime, p.env.Now())
	fee := feeschedule.Fee(amount, feeBp)
	net := new(uint256.Int).Sub(amount, fee)

	if err := p.stakes.Withdraw(caller, amount); err != nil {
		return err
	}
	beneficiary, err := p.feeBeneficiary.Get()
	if err != nil {
		return err
	}

	// interactions last
	token := p.bind(cfg.PoolToken)
	if !net.IsZero() {
		if err := token.Transfer(p.addr, caller, net); err != nil {
			return err
		}
	}
	if !fee.IsZero() {
		if err := token.Transfer(p.addr, beneficiary, fee); err != nil {
			return err
		}
		p.env.Emit(p.addr, "WithdrawalFeeCharged", map[string]any{"account": caller, "beneficiary": beneficiary, "fee": fee, "feeBp": feeBp})
	}

	p.env.Emit(p.addr, "Withdrawn", map[string]any{"account": caller, "amount": net})
	metricOperationCount().AddWithLabel(1, map[string]string{"pool": p.addr.String(), "op": "withdraw"})
	metricFeeBp().ObserveWithLabels(int64(feeBp), map[string]string{"pool": p.addr.String()})
	logger.Info("withdrawn", "pool", p.addr, "account", caller, "amount", amount, "fee", fee, "feeBp", feeBp)
	return nil
}

// GetReward pays out the accrued reward of caller. Nothing happens when there is none.
func (p *Pool) GetReward(caller unfold.Address) error {
	cfg, err := p.deployed()
	if err != nil {
		return err
	}
	if err := p.updateReward(&caller); err != nil {
		return err
	}
	cp, err := p.loadCheckpoint(caller)
	if err != nil {
		return err
	}
	reward := cp.Rewards
	if reward.IsZero() {
		return nil
	}
	cp.Rewards = new(uint256.Int)
	if err := p.checkpoints.Set(caller, cp); err != nil {
		return err
	}

	// interactions last
	if err := p.bind(cfg.RewardToken).Transfer(p.addr, caller, reward); err != nil {
		return err
	}

	p.env.Emit(p.addr, "RewardPaid", map[string]any{"account": caller, "reward": reward})
	metricOperationCount().AddWithLabel(1, map[string]string{"pool": p.addr.String(), "op": "reward"})
	logger.Info("reward paid", "pool", p.addr, "account", caller, "reward", reward)
	return nil
}

// Exit withdraws the whole stake of caller and claims its reward.
func (p *Pool) Exit(caller unfold.Address) error {
	balance, err := p.stakes.BalanceOf(caller)
	if err != nil {
		return err
	}
	if err := p.Withdraw(caller, balance, balance); err != nil {
		return err
	}
	return p.GetReward(caller)
}

// AddReward funds the pool with amount reward tokens from caller, spread over
// the pool duration together with what is left of the running period.
func (p *Pool) AddReward(caller unfold.Address, amount *uint256.Int) error {
	logger.Debug("add reward", "pool", p.addr, "caller", caller, "amount", amount)
	cfg, err := p.deployed()
	if err != nil {
		return err
	}
	if !cfg.PublicFunding {
		if err := p.ownable.OnlyOwner(caller); err != nil {
			return err
		}
	}
	if amount.IsZero() {
		return reverts.Errorf(reverts.ErrInvalidAmount, "cannot add 0 reward")
	}

	if err := p.updateReward(nil); err != nil {
		return err
	}
	a, err := p.loadAccrual()
	if err != nil {
		return err
	}
	if err := a.notify(p.env.Now(), cfg.Duration, amount); err != nil {
		return err
	}
	if err := p.storeAccrual(a); err != nil {
		return err
	}

	// interactions last
	rewardToken := p.bind(cfg.RewardToken)
	if err := rewardToken.TransferFrom(p.addr, caller, p.addr, amount); err != nil {
		return err
	}
	// the new rate must be covered by the funds held
	balance, err := rewardToken.BalanceOf(p.addr)
	if err != nil {
		return err
	}
	required, overflow := new(uint256.Int).MulOverflow(a.RewardRate, uint256.NewInt(cfg.Duration))
	if overflow || required.Gt(balance) {
		return reverts.Errorf(reverts.ErrRewardTooHigh, "rate %v over %d seconds exceeds balance %v", a.RewardRate, cfg.Duration, balance)
	}

	p.env.Emit(p.addr, "RewardAdded", map[string]any{"reward": amount.Clone(), "rate": a.RewardRate, "periodFinish": a.PeriodFinish})
	metricOperationCount().AddWithLabel(1, map[string]string{"pool": p.addr.String(), "op": "fund"})
	logger.Info("reward added", "pool", p.addr, "amount", amount, "rate", a.RewardRate, "periodFinish", a.PeriodFinish)
	return nil
}

// UpdateFeeBeneficiary sets the receiver of withdrawal fees.
func (p *Pool) UpdateFeeBeneficiary(caller, beneficiary unfold.Address) error {
	if err := p.ownable.OnlyOwner(caller); err != nil {
		return err
	}
	if beneficiary.IsZero() {
		return reverts.Errorf(reverts.ErrZeroAddress, "fee beneficiary is the zero address")
	}
	p.feeBeneficiary.Set(beneficiary)
	p.env.Emit(p.addr, "FeeBeneficiaryUpdated", map[string]any{"beneficiary": beneficiary})
	logger.Info("fee beneficiary updated", "pool", p.addr, "beneficiary", beneficiary)
	return nil
}

// TransferOwnership hands the owner key to newOwner.
func (p *Pool) TransferOwnership(caller, newOwner unfold.Address) error {
	return p.ownable.TransferOwnership(caller, newOwner)
}

//
// internals
//

func (p *Pool) deployed() (*Config, error) {
	cfg, err := p.Config()
	if err != nil {
		return nil, err
	}
	if cfg.PoolToken.IsZero() {
		return nil, reverts.Errorf(reverts.ErrInvalidConfig, "pool %v not deployed", p.addr)
	}
	return cfg, nil
}

// updateReward checkpoints the accumulator, and the account when given.
// It must be the first state mutation of every entry point.
func (p *Pool) updateReward(account *unfold.Address) error {
	a, err := p.loadAccrual()
	if err != nil {
		return err
	}
	total, err := p.stakes.TotalStaked()
	if err != nil {
		return err
	}
	now := p.env.Now()
	rpt, err := a.rewardPerToken(now, total)
	if err != nil {
		return err
	}
	a.RewardPerTokenStored = rpt
	// LastUpdateTime moves forward only
	a.LastUpdateTime = max(a.LastUpdateTime, a.lastTimeRewardApplicable(now))
	if err := p.storeAccrual(a); err != nil {
		return err
	}
	if account == nil {
		return nil
	}

	balance, err := p.stakes.BalanceOf(*account)
	if err != nil {
		return err
	}
	cp, err := p.loadCheckpoint(*account)
	if err != nil {
		return err
	}
	rewards, err := earned(balance, rpt, cp)
	if err != nil {
		return err
	}
	return p.checkpoints.Set(*account, &checkpoint{RewardPerTokenPaid: rpt, Rewards: rewards})
}

func (p *Pool) loadAccrual() (*accrual, error) {
	var a accrual
	err := p.env.State().DecodeStorage(p.addr, slotAccrual, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &a)
	})
	if err != nil {
		return nil, err
	}
	a.normalize()
	return &a, nil
}

func (p *Pool) storeAccrual(a *accrual) error {
	return p.env.State().EncodeStorage(p.addr, slotAccrual, func() ([]byte, error) {
		return rlp.EncodeToBytes(a)
	})
}

func (p *Pool) loadCheckpoint(account unfold.Address) (*checkpoint, error) {
	cp, err := p.checkpoints.Get(account)
	if err != nil {
		return nil, err
	}
	cp.normalize()
	return cp, nil
}
