// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewardpool

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unfoldfi/unfold/builtin/feeschedule"
	"github.com/unfoldfi/unfold/builtin/token"
	"github.com/unfoldfi/unfold/lvldb"
	"github.com/unfoldfi/unfold/runtime"
	"github.com/unfoldfi/unfold/state"
	"github.com/unfoldfi/unfold/unfold"
	"github.com/unfoldfi/unfold/xenv"
)

const (
	duration  = 8640000 // 100 days
	startTime = 1_600_000_000
)

var (
	owner       = unfold.BytesToAddress([]byte("owner"))
	feeReceiver = unfold.BytesToAddress([]byte("fee"))
	wallet1     = unfold.BytesToAddress([]byte("wallet1"))
	wallet2     = unfold.BytesToAddress([]byte("wallet2"))
	wallet3     = unfold.BytesToAddress([]byte("wallet3"))
	wallet4     = unfold.BytesToAddress([]byte("wallet4"))

	poolAddr        = unfold.BytesToAddress([]byte("pool"))
	poolTokenAddr   = unfold.BytesToAddress([]byte("pool-token"))
	rewardTokenAddr = unfold.BytesToAddress([]byte("reward-token"))
)

// units returns n * 1e18.
func units(n int64) *uint256.Int {
	return uint256.MustFromBig(unfold.Units(n))
}

type testPool struct {
	*Pool
	t           *testing.T
	rt          *runtime.Runtime
	ctx         *xenv.BlockContext
	poolToken   *token.Token
	rewardToken *token.Token
	tokens      map[unfold.Address]Token
}

type option func(cfg *Config)

func withPublicFunding() option { return func(cfg *Config) { cfg.PublicFunding = true } }

func newTestPool(t *testing.T, opts ...option) *testPool {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := &xenv.BlockContext{Time: startTime}
	rt := runtime.New(state.New(db, nil), ctx)
	env := rt.Environment()

	tp := &testPool{
		t:           t,
		rt:          rt,
		ctx:         ctx,
		poolToken:   token.New(poolTokenAddr, env),
		rewardToken: token.New(rewardTokenAddr, env),
	}
	tp.tokens = map[unfold.Address]Token{
		poolTokenAddr:   tp.poolToken,
		rewardTokenAddr: tp.rewardToken,
	}
	tp.Pool = New(poolAddr, env, func(addr unfold.Address) Token { return tp.tokens[addr] })

	cfg := &Config{
		PoolToken:   poolTokenAddr,
		RewardToken: rewardTokenAddr,
		Duration:    duration,
		FeeSchedule: feeschedule.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	require.NoError(t, tp.Deploy(cfg, feeReceiver, owner))

	// mirror the funding of the original deployment
	require.NoError(t, tp.rewardToken.Mint(owner, units(1_000_000)))
	require.NoError(t, tp.rewardToken.Approve(owner, poolAddr, units(1_000_000)))
	for _, w := range []unfold.Address{wallet1, wallet2, wallet3, wallet4} {
		require.NoError(t, tp.poolToken.Mint(w, units(1000)))
		require.NoError(t, tp.poolToken.Approve(w, poolAddr, new(uint256.Int).Lsh(uint256.NewInt(1), 255)))
	}
	return tp
}

func (tp *testPool) now() uint64 { return tp.ctx.Time }

func (tp *testPool) advanceTo(ts uint64) { tp.ctx.Time = ts }

func (tp *testPool) advance(secs uint64) { tp.ctx.Time += secs }

func (tp *testPool) call(method string, fn func() error) error {
	_, err := tp.rt.Call(method, func(*xenv.Environment) error { return fn() })
	return err
}

func (tp *testPool) stake(who unfold.Address, amount *uint256.Int) {
	require.NoError(tp.t, tp.call("stake", func() error { return tp.Stake(who, amount) }))
}

func (tp *testPool) exit(who unfold.Address) {
	require.NoError(tp.t, tp.call("exit", func() error { return tp.Exit(who) }))
}

func (tp *testPool) addReward(amount *uint256.Int) {
	require.NoError(tp.t, tp.call("addReward", func() error { return tp.AddReward(owner, amount) }))
}

func (tp *testPool) earned(who unfold.Address) *uint256.Int {
	e, err := tp.Earned(who)
	require.NoError(tp.t, err)
	return e
}

func (tp *testPool) balance(tok *token.Token, who unfold.Address) *uint256.Int {
	b, err := tok.BalanceOf(who)
	require.NoError(tp.t, err)
	return b
}

// assertAlmostUnits checks that value / 1e18 is within one unit of expected.
func assertAlmostUnits(t *testing.T, expected int64, value *uint256.Int) {
	t.Helper()
	whole := new(big.Int).Div(value.ToBig(), unfold.Scale)
	diff := new(big.Int).Sub(whole, big.NewInt(expected))
	assert.Truef(t, diff.CmpAbs(big.NewInt(1)) <= 0, "expected ~%d units, got %s", expected, unfold.FormatUnits(value.ToBig(), unfold.Decimals))
}
