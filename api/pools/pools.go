// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/unfoldfi/unfold/api/utils"
	"github.com/unfoldfi/unfold/builtin"
	"github.com/unfoldfi/unfold/builtin/feeschedule"
	"github.com/unfoldfi/unfold/builtin/rewardpool"
	"github.com/unfoldfi/unfold/ledger"
	"github.com/unfoldfi/unfold/unfold"
)

type Pools struct {
	svc *ledger.Service
}

func New(svc *ledger.Service) *Pools {
	return &Pools{svc}
}

func (p *Pools) getPool(c *builtin.Contracts, entry *builtin.Entry) (*Pool, error) {
	pool, err := c.Pool(entry.Address)
	if err != nil {
		return nil, err
	}
	cfg, err := pool.Config()
	if err != nil {
		return nil, err
	}
	res := &Pool{
		Address:       entry.Address,
		Name:          entry.Name,
		PoolToken:     cfg.PoolToken,
		RewardToken:   cfg.RewardToken,
		Duration:      feeschedule.Span(cfg.Duration),
		PublicFunding: cfg.PublicFunding,
		FeeSchedule:   cfg.FeeSchedule,
	}
	if res.Owner, err = pool.Owner(); err != nil {
		return nil, err
	}
	if res.FeeBeneficiary, err = pool.FeeBeneficiary(); err != nil {
		return nil, err
	}
	if res.TotalStaked, err = pool.TotalStaked(); err != nil {
		return nil, err
	}
	if res.RewardRate, err = pool.RewardRate(); err != nil {
		return nil, err
	}
	if res.PeriodFinish, err = pool.PeriodFinish(); err != nil {
		return nil, err
	}
	if res.RewardPerToken, err = pool.RewardPerToken(); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Pools) handleGetPools(w http.ResponseWriter, _ *http.Request) error {
	pools := make([]*Pool, 0)
	if err := p.svc.View(func(c *builtin.Contracts) error {
		entries, err := c.All()
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.Kind != builtin.KindPool {
				continue
			}
			pool, err := p.getPool(c, e)
			if err != nil {
				return err
			}
			pools = append(pools, pool)
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, pools)
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var pool *Pool
	if err := p.svc.View(func(c *builtin.Contracts) error {
		entry, err := c.Lookup(addr)
		if err != nil {
			return err
		}
		pool, err = p.getPool(c, entry)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, pool)
}

func (p *Pools) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	account, err := utils.AddressVar(req, "account")
	if err != nil {
		return err
	}
	acc := &Account{}
	if err := p.svc.View(func(c *builtin.Contracts) error {
		pool, err := c.Pool(addr)
		if err != nil {
			return err
		}
		if acc.Balance, err = pool.BalanceOf(account); err != nil {
			return err
		}
		if acc.Earned, err = pool.Earned(account); err != nil {
			return err
		}
		if acc.LastDepositTime, err = pool.LastDepositTime(account); err != nil {
			return err
		}
		acc.WithdrawalFeeBp, err = pool.CalculateWithdrawalFeeBp(acc.LastDepositTime)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

// handleGetFee quotes the withdrawal fee of a deposit made at the depositTime query parameter.
func (p *Pools) handleGetFee(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	depositTime, err := utils.Uint64Query(req, "depositTime", p.svc.Now())
	if err != nil {
		return err
	}
	var feeBp uint64
	if err := p.svc.View(func(c *builtin.Contracts) error {
		pool, err := c.Pool(addr)
		if err != nil {
			return err
		}
		feeBp, err = pool.CalculateWithdrawalFeeBp(depositTime)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"depositTime": depositTime, "feeBp": feeBp})
}

func (p *Pools) execute(w http.ResponseWriter, addr unfold.Address, method string, fn func(pool *rewardpool.Pool) error) error {
	receipt, err := p.svc.Execute(method, func(c *builtin.Contracts) error {
		pool, err := c.Pool(addr)
		if err != nil {
			return err
		}
		return fn(pool)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (p *Pools) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body AmountRequest
	addr, err := utils.ParseCall(req, &body)
	if err != nil {
		return err
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: required"))
	}
	return p.execute(w, addr, "stake", func(pool *rewardpool.Pool) error {
		return pool.Stake(body.Caller, body.Amount)
	})
}

func (p *Pools) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body WithdrawRequest
	addr, err := utils.ParseCall(req, &body)
	if err != nil {
		return err
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: required"))
	}
	if body.AmountHint == nil {
		body.AmountHint = body.Amount
	}
	return p.execute(w, addr, "withdraw", func(pool *rewardpool.Pool) error {
		return pool.Withdraw(body.Caller, body.AmountHint, body.Amount)
	})
}

func (p *Pools) handleExit(w http.ResponseWriter, req *http.Request) error {
	var body CallRequest
	addr, err := utils.ParseCall(req, &body)
	if err != nil {
		return err
	}
	return p.execute(w, addr, "exit", func(pool *rewardpool.Pool) error {
		return pool.Exit(body.Caller)
	})
}

func (p *Pools) handleGetReward(w http.ResponseWriter, req *http.Request) error {
	var body CallRequest
	addr, err := utils.ParseCall(req, &body)
	if err != nil {
		return err
	}
	return p.execute(w, addr, "getReward", func(pool *rewardpool.Pool) error {
		return pool.GetReward(body.Caller)
	})
}

func (p *Pools) handleAddReward(w http.ResponseWriter, req *http.Request) error {
	var body AmountRequest
	addr, err := utils.ParseCall(req, &body)
	if err != nil {
		return err
	}
	if body.Amount == nil {
		return utils.BadRequest(errors.New("amount: required"))
	}
	return p.execute(w, addr, "addReward", func(pool *rewardpool.Pool) error {
		return pool.AddReward(body.Caller, body.Amount)
	})
}

func (p *Pools) handleUpdateFeeBeneficiary(w http.ResponseWriter, req *http.Request) error {
	var body AddressRequest
	addr, err := utils.ParseCall(req, &body)
	if err != nil {
		return err
	}
	return p.execute(w, addr, "updateFeeBeneficiary", func(pool *rewardpool.Pool) error {
		return pool.UpdateFeeBeneficiary(body.Caller, body.Address)
	})
}

func (p *Pools) handleTransferOwnership(w http.ResponseWriter, req *http.Request) error {
	var body AddressRequest
	addr, err := utils.ParseCall(req, &body)
	if err != nil {
		return err
	}
	return p.execute(w, addr, "transferOwnership", func(pool *rewardpool.Pool) error {
		return pool.TransferOwnership(body.Caller, body.Address)
	})
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("pools_get_pools").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPools))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("pools_get_pool").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{address}/accounts/{account}").
		Methods(http.MethodGet).
		Name("pools_get_account").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetAccount))
	sub.Path("/{address}/fee").
		Methods(http.MethodGet).
		Name("pools_get_fee").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetFee))

	sub.Path("/{address}/stake").
		Methods(http.MethodPost).
		Name("pools_stake").
		HandlerFunc(utils.WrapHandlerFunc(p.handleStake))
	sub.Path("/{address}/withdraw").
		Methods(http.MethodPost).
		Name("pools_withdraw").
		HandlerFunc(utils.WrapHandlerFunc(p.handleWithdraw))
	sub.Path("/{address}/exit").
		Methods(http.MethodPost).
		Name("pools_exit").
		HandlerFunc(utils.WrapHandlerFunc(p.handleExit))
	sub.Path("/{address}/reward").
		Methods(http.MethodPost).
		Name("pools_get_reward").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetReward))
	sub.Path("/{address}/fund").
		Methods(http.MethodPost).
		Name("pools_add_reward").
		HandlerFunc(utils.WrapHandlerFunc(p.handleAddReward))
	sub.Path("/{address}/fee-beneficiary").
		Methods(http.MethodPost).
		Name("pools_update_fee_beneficiary").
		HandlerFunc(utils.WrapHandlerFunc(p.handleUpdateFeeBeneficiary))
	sub.Path("/{address}/owner").
		Methods(http.MethodPost).
		Name("pools_transfer_ownership").
		HandlerFunc(utils.WrapHandlerFunc(p.handleTransferOwnership))
}

