// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewardpool

import (
	"github.com/holiman/uint256"

	"github.com/unfoldfi/unfold/builtin/reverts"
	"github.com/unfoldfi/unfold/unfold"
)

// accrual is the global reward accumulator of a pool.
// RewardPerTokenStored never decreases, and LastUpdateTime <= min(now, PeriodFinish).
type accrual struct {
	RewardRate           *uint256.Int // reward tokens per second
	RewardPerTokenStored *uint256.Int // scaled by unfold.Scale
	LastUpdateTime       uint64
	PeriodFinish         uint64
}

// checkpoint is the accrual snapshot of one account.
type checkpoint struct {
	RewardPerTokenPaid *uint256.Int
	Rewards            *uint256.Int
}

func (a *accrual) normalize() {
	if a.RewardRate == nil {
		a.RewardRate = new(uint256.Int)
	}
	if a.RewardPerTokenStored == nil {
		a.RewardPerTokenStored = new(uint256.Int)
	}
}

func (c *checkpoint) normalize() {
	if c.RewardPerTokenPaid == nil {
		c.RewardPerTokenPaid = new(uint256.Int)
	}
	if c.Rewards == nil {
		c.Rewards = new(uint256.Int)
	}
}

// lastTimeRewardApplicable returns min(now, PeriodFinish).
func (a *accrual) lastTimeRewardApplicable(now uint64) uint64 {
	return min(now, a.PeriodFinish)
}

// rewardPerToken returns
//
//	stored + (min(now, periodFinish) - lastUpdateTime) * rate * SCALE / totalStaked
//
// or stored while nothing is staked.
func (a *accrual) rewardPerToken(now uint64, totalStaked *uint256.Int) (*uint256.Int, error) {
	if totalStaked.IsZero() {
		return a.RewardPerTokenStored.Clone(), nil
	}
	applicable := a.lastTimeRewardApplicable(now)
	if applicable <= a.LastUpdateTime {
		return a.RewardPerTokenStored.Clone(), nil
	}

	elapsed := uint256.NewInt(applicable - a.LastUpdateTime)
	emitted, overflow := new(uint256.Int).MulOverflow(elapsed, a.RewardRate)
	if overflow {
		return nil, reverts.Errorf(reverts.ErrOverflow, "reward emitted")
	}
	inc, overflow := new(uint256.Int).MulDivOverflow(emitted, unfold.Scale256, totalStaked)
	if overflow {
		return nil, reverts.Errorf(reverts.ErrOverflow, "reward per token increment")
	}
	rpt, overflow := inc.AddOverflow(inc, a.RewardPerTokenStored)
	if overflow {
		return nil, reverts.Errorf(reverts.ErrOverflow, "reward per token")
	}
	return rpt, nil
}

// earned returns balance * (rpt - paid) / SCALE + rewards.
func earned(balance, rpt *uint256.Int, cp *checkpoint) (*uint256.Int, error) {
	delta, underflow := new(uint256.Int).SubOverflow(rpt, cp.RewardPerTokenPaid)
	if underflow {
		// paid never exceeds the accumulator
		return nil, reverts.Errorf(reverts.ErrOverflow, "reward per token paid ahead of accumulator")
	}
	accrued, overflow := new(uint256.Int).MulDivOverflow(balance, delta, unfold.Scale256)
	if overflow {
		return nil, reverts.Errorf(reverts.ErrOverflow, "earned")
	}
	total, overflow := accrued.AddOverflow(accrued, cp.Rewards)
	if overflow {
		return nil, reverts.Errorf(reverts.ErrOverflow, "earned")
	}
	return total, nil
}

// notify re-rates the accumulator for a new funding of amount over duration.
// The accumulator must be checkpointed at now before.
func (a *accrual) notify(now, duration uint64, amount *uint256.Int) error {
	total := amount.Clone()
	if now < a.PeriodFinish {
		remaining := uint256.NewInt(a.PeriodFinish - now)
		leftover, overflow := remaining.MulOverflow(remaining, a.RewardRate)
		if overflow {
			return reverts.Errorf(reverts.ErrOverflow, "leftover reward")
		}
		if _, overflow := total.AddOverflow(total, leftover); overflow {
			return reverts.Errorf(reverts.ErrOverflow, "reward")
		}
	}
	a.RewardRate = total.Div(total, uint256.NewInt(duration))
	a.LastUpdateTime = now
	a.PeriodFinish = now + duration
	return nil
}
