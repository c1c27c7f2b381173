// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unfoldfi/unfold/builtin/reverts"
	"github.com/unfoldfi/unfold/builtin/token"
	"github.com/unfoldfi/unfold/lvldb"
	"github.com/unfoldfi/unfold/runtime"
	"github.com/unfoldfi/unfold/state"
	"github.com/unfoldfi/unfold/unfold"
	"github.com/unfoldfi/unfold/xenv"
)

const start = 1_600_000_000

var (
	beneficiary = unfold.BytesToAddress([]byte("beneficiary"))
	vestingAddr = unfold.BytesToAddress([]byte("vesting"))
	tokenAddr   = unfold.BytesToAddress([]byte("token"))
)

func units(n int64) *uint256.Int {
	return uint256.MustFromBig(unfold.Units(n))
}

func newTestVesting(t *testing.T) (*Vesting, *token.Token, *runtime.Runtime) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rt := runtime.New(state.New(db, nil), &xenv.BlockContext{Time: start})
	tok := token.New(tokenAddr, rt.Environment())
	v := New(vestingAddr, rt.Environment(), func(unfold.Address) Token { return tok })
	require.NoError(t, v.Deploy(beneficiary, start, 100*unfold.Day, 400*unfold.Day))
	require.NoError(t, tok.Mint(vestingAddr, units(1000)))
	return v, tok, rt
}

func TestDeploy(t *testing.T) {
	v, _, _ := newTestVesting(t)

	s, err := v.Schedule()
	require.NoError(t, err)
	assert.Equal(t, &Schedule{Beneficiary: beneficiary, Start: start, Cliff: start + 100*unfold.Day, Duration: 400 * unfold.Day}, s)

	assert.ErrorIs(t, v.Deploy(beneficiary, start, 0, 1), reverts.ErrInvalidConfig)

	fresh := New(unfold.BytesToAddress([]byte("fresh")), v.env, nil)
	assert.ErrorIs(t, fresh.Deploy(unfold.Address{}, start, 0, 1), reverts.ErrZeroAddress)
	assert.ErrorIs(t, fresh.Deploy(beneficiary, start, 0, 0), reverts.ErrInvalidConfig)
	assert.ErrorIs(t, fresh.Deploy(beneficiary, start, 2, 1), reverts.ErrInvalidConfig)
	assert.ErrorIs(t, fresh.Release(tokenAddr), reverts.ErrInvalidConfig)
}

func TestRelease(t *testing.T) {
	v, tok, rt := newTestVesting(t)
	ctx := rt.Context()

	ctx.Time = start + 100*unfold.Day - 1
	releasable, err := v.Releasable(tokenAddr)
	require.NoError(t, err)
	assert.True(t, releasable.IsZero())
	assert.ErrorIs(t, v.Release(tokenAddr), reverts.ErrNothingVested)

	ctx.Time = start + 200*unfold.Day
	releasable, err = v.Releasable(tokenAddr)
	require.NoError(t, err)
	assert.Equal(t, units(500), releasable)

	out, err := rt.Call("release", func(*xenv.Environment) error { return v.Release(tokenAddr) })
	require.NoError(t, err)
	released := out.Events[len(out.Events)-1]
	assert.Equal(t, "TokensReleased", released.Name)
	assert.Equal(t, units(500), released.Data["amount"])

	bal, _ := tok.BalanceOf(beneficiary)
	assert.Equal(t, units(500), bal)
	assert.ErrorIs(t, v.Release(tokenAddr), reverts.ErrNothingVested)

	// the already released part counts towards the vested total
	ctx.Time = start + 300*unfold.Day
	releasable, _ = v.Releasable(tokenAddr)
	assert.Equal(t, units(250), releasable)

	ctx.Time = start + 500*unfold.Day
	require.NoError(t, v.Release(tokenAddr))
	bal, _ = tok.BalanceOf(beneficiary)
	assert.Equal(t, units(1000), bal)

	total, err := v.Released(tokenAddr)
	require.NoError(t, err)
	assert.Equal(t, units(1000), total)
	assert.ErrorIs(t, v.Release(tokenAddr), reverts.ErrNothingVested)
}
