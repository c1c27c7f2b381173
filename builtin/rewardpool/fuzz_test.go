// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewardpool

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unfoldfi/unfold/unfold"
)

type poolOp struct {
	Kind    uint8
	Who     uint8
	Amount  uint16
	Advance uint32
}

func (tp *testPool) apply(op poolOp) (funded *uint256.Int) {
	wallets := []unfold.Address{wallet1, wallet2, wallet3, wallet4}
	who := wallets[int(op.Who)%len(wallets)]
	// stake sizes in 1e16 steps keep the wallets solvent over the whole run
	amount := new(uint256.Int).Mul(uint256.NewInt(uint64(op.Amount%100)+1), uint256.NewInt(1e16))
	bal, err := tp.BalanceOf(who)
	require.NoError(tp.t, err)

	switch op.Kind % 5 {
	case 0:
		tp.stake(who, amount)
	case 1:
		if bal.IsZero() {
			return nil
		}
		if amount.Gt(bal) {
			amount = bal
		}
		require.NoError(tp.t, tp.call("withdraw", func() error { return tp.Withdraw(who, bal, amount) }))
	case 2:
		if bal.IsZero() {
			return nil
		}
		tp.exit(who)
	case 3:
		require.NoError(tp.t, tp.call("getReward", func() error { return tp.GetReward(who) }))
	case 4:
		funded = units(int64(op.Amount%1000) + 1)
		tp.addReward(funded)
	}
	return funded
}

func TestRandomInterleavings(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 1337} {
		tp := newTestPool(t)
		f := fuzz.NewWithSeed(seed).NilChance(0)

		total := new(uint256.Int)
		prev := new(uint256.Int)
		for i := 0; i < 200; i++ {
			var op poolOp
			f.Fuzz(&op)
			tp.advance(uint64(op.Advance) % (duration / 10))
			if funded := tp.apply(op); funded != nil {
				total.Add(total, funded)
			}

			rpt, err := tp.RewardPerToken()
			require.NoError(t, err)
			require.False(t, rpt.Lt(prev), "seed %d op %d: rewardPerToken decreased", seed, i)
			prev = rpt
		}

		wallets := []unfold.Address{wallet1, wallet2, wallet3, wallet4}
		staked := new(uint256.Int)
		owed := new(uint256.Int)
		paid := new(uint256.Int)
		for _, w := range wallets {
			b, err := tp.BalanceOf(w)
			require.NoError(t, err)
			staked.Add(staked, b)
			owed.Add(owed, tp.earned(w))
			paid.Add(paid, tp.balance(tp.rewardToken, w))
		}
		totalStaked, err := tp.TotalStaked()
		require.NoError(t, err)
		assert.Equal(t, totalStaked, staked, "seed %d", seed)

		// the pool can always pay what it owes
		assert.False(t, tp.balance(tp.rewardToken, poolAddr).Lt(owed), "seed %d", seed)
		assert.False(t, total.Lt(new(uint256.Int).Add(owed, paid)), "seed %d", seed)
	}
}
