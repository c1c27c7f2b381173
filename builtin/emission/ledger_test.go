// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package emission

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

const deployTime = 1_600_000_000

var (
	governance = unfold.BytesToAddress([]byte("governance"))
	stranger   = unfold.BytesToAddress([]byte("stranger"))
	ledgerAddr = unfold.BytesToAddress([]byte("unfold"))

	initialSupply = uint256.MustFromBig(unfold.Units(1_000_000_000))
)

func newTestLedger(t *testing.T) (*Ledger, *runtime.Runtime) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rt := runtime.New(state.New(db, nil), &xenv.BlockContext{Time: deployTime})
	l := New(ledgerAddr, rt.Environment())
	require.NoError(t, l.Deploy(&token.Metadata{Name: "Unfold", Symbol: "UNFOLD", Decimals: 18}, initialSupply, governance))
	return l, rt
}

func TestDeploy(t *testing.T) {
	l, _ := newTestLedger(t)

	bal, err := l.BalanceOf(governance)
	require.NoError(t, err)
	assert.Equal(t, initialSupply, bal)

	owner, err := l.Owner()
	require.NoError(t, err)
	assert.Equal(t, governance, owner)

	next, err := l.NextEmissionTime()
	require.NoError(t, err)
	assert.Equal(t, deployTime+1095*unfold.Day, next)

	bp, err := l.EmissionPerYearBp()
	require.NoError(t, err)
	assert.Equal(t, uint64(500), bp)

	available, err := l.AvailableEmission()
	require.NoError(t, err)
	assert.True(t, available.IsZero())

	meta, err := l.Metadata()
	require.NoError(t, err)
	assert.Equal(t, "UNFOLD", meta.Symbol)

	err = l.Deploy(nil, initialSupply, governance)
	assert.ErrorIs(t, err, reverts.ErrInvalidConfig)
	assert.Equal(t, initialSupply, mustSupply(t, l))
}

func TestSetEmissionPerYearBp(t *testing.T) {
	l, rt := newTestLedger(t)

	out, err := rt.Call("setEmissionPerYearBp", func(*xenv.Environment) error {
		return l.SetEmissionPerYearBp(governance, 100)
	})
	require.NoError(t, err)
	require.Len(t, out.Events, 1)
	assert.Equal(t, "EmissionRateUpdated", out.Events[0].Name)
	bp, _ := l.EmissionPerYearBp()
	assert.Equal(t, uint64(100), bp)

	err = l.SetEmissionPerYearBp(governance, 1000)
	assert.ErrorIs(t, err, reverts.ErrRateTooHigh)
	assert.Contains(t, err.Error(), "emission per year exceeds maximum")
	assert.ErrorIs(t, l.SetEmissionPerYearBp(governance, 5000), reverts.ErrRateTooHigh)
	assert.NoError(t, l.SetEmissionPerYearBp(governance, 999))

	assert.ErrorIs(t, l.SetEmissionPerYearBp(stranger, 500), reverts.ErrNotOwner)
}

func TestClaimEmission(t *testing.T) {
	t.Run("before the cliff", func(t *testing.T) {
		l, rt := newTestLedger(t)
		rt.Context().Time = deployTime + 1094*unfold.Day
		assert.ErrorIs(t, l.ClaimEmission(governance), reverts.ErrEmissionNotReady)
	})

	t.Run("non owner", func(t *testing.T) {
		l, rt := newTestLedger(t)
		rt.Context().Time = deployTime + 1095*unfold.Day
		assert.ErrorIs(t, l.ClaimEmission(stranger), reverts.ErrNotOwner)
	})

	t.Run("consecutive claims", func(t *testing.T) {
		l, rt := newTestLedger(t)
		ctx := rt.Context()

		ctx.Time = deployTime + 1096*unfold.Day
		amount, err := l.AvailableEmission()
		require.NoError(t, err)
		// 5% of the supply
		assert.Equal(t, uint256.MustFromBig(unfold.Units(50_000_000)), amount)

		out, err := rt.Call("claimEmission", func(*xenv.Environment) error { return l.ClaimEmission(governance) })
		require.NoError(t, err)
		claimed := out.Events[len(out.Events)-1]
		assert.Equal(t, "EmissionClaimed", claimed.Name)
		assert.Equal(t, governance, claimed.Data["owner"])
		assert.Equal(t, amount, claimed.Data["amount"])
		assert.Equal(t, deployTime+1095*unfold.Day+unfold.Year, claimed.Data["nextEmissionTime"])

		bal, _ := l.BalanceOf(governance)
		assert.Equal(t, new(uint256.Int).Add(initialSupply, amount), bal)

		// nothing left until the next grid point
		available, _ := l.AvailableEmission()
		assert.True(t, available.IsZero())
		assert.ErrorIs(t, l.ClaimEmission(governance), reverts.ErrEmissionNotReady)

		for i := 0; i < 2; i++ {
			ctx.Time += 366 * unfold.Day
			supply := mustSupply(t, l)
			amount, err = l.AvailableEmission()
			require.NoError(t, err)
			assert.Equal(t, new(uint256.Int).Div(new(uint256.Int).Mul(supply, uint256.NewInt(500)), uint256.NewInt(10000)), amount)

			require.NoError(t, l.ClaimEmission(governance))
			bal, _ = l.BalanceOf(governance)
			assert.Equal(t, new(uint256.Int).Add(supply, amount), bal)
		}
		next, _ := l.NextEmissionTime()
		assert.Equal(t, deployTime+1095*unfold.Day+3*unfold.Year, next)
	})

	t.Run("late claims advance from the schedule", func(t *testing.T) {
		l, rt := newTestLedger(t)
		// three periods overdue
		rt.Context().Time = deployTime + 1095*unfold.Day + 3*unfold.Year + 10

		for i := 1; i <= 4; i++ {
			require.NoError(t, l.ClaimEmission(governance))
			next, _ := l.NextEmissionTime()
			assert.Equal(t, deployTime+1095*unfold.Day+uint64(i)*unfold.Year, next)
		}
		assert.ErrorIs(t, l.ClaimEmission(governance), reverts.ErrEmissionNotReady)
	})
}

func TestSupplyGrowsOnlyByClaim(t *testing.T) {
	l, rt := newTestLedger(t)

	_, mintable := any(l).(interface {
		Mint(to unfold.Address, amount *uint256.Int) error
	})
	assert.False(t, mintable)

	require.NoError(t, l.Transfer(governance, stranger, uint256.NewInt(5)))
	require.NoError(t, l.Approve(stranger, governance, uint256.NewInt(5)))
	require.NoError(t, l.TransferFrom(governance, stranger, governance, uint256.NewInt(5)))
	assert.Equal(t, initialSupply, mustSupply(t, l))

	assert.ErrorIs(t, l.ClaimEmission(governance), reverts.ErrEmissionNotReady)
	assert.Equal(t, initialSupply, mustSupply(t, l))

	rt.Context().Time = deployTime + 1095*unfold.Day
	require.NoError(t, l.ClaimEmission(governance))
	want := uint256.MustFromBig(unfold.Units(1_050_000_000))
	assert.Equal(t, want, mustSupply(t, l))

	assert.ErrorIs(t, l.ClaimEmission(governance), reverts.ErrEmissionNotReady)
	assert.Equal(t, want, mustSupply(t, l))
}

func TestOwnership(t *testing.T) {
	l, _ := newTestLedger(t)

	assert.ErrorIs(t, l.TransferOwnership(stranger, stranger), reverts.ErrNotOwner)
	require.NoError(t, l.TransferOwnership(governance, stranger))
	assert.ErrorIs(t, l.SetEmissionPerYearBp(governance, 100), reverts.ErrNotOwner)
	assert.ErrorIs(t, l.ClaimEmission(governance), reverts.ErrNotOwner)
	assert.NoError(t, l.SetEmissionPerYearBp(stranger, 100))
}

func mustSupply(t *testing.T, l *Ledger) *uint256.Int {
	supply, err := l.TotalSupply()
	require.NoError(t, err)
	return supply
}
