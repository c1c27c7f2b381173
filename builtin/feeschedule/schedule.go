// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package feeschedule computes the withdrawal fee of a pool from the time
// elapsed since the last deposit.
package feeschedule

import (
	"sort"

	"github.com/holiman/uint256"

	"github.com/unfoldfi/unfold/builtin/reverts"
	"github.com/unfoldfi/unfold/unfold"
)

// Tier applies Bp once at least After seconds have elapsed since the last deposit.
type Tier struct {
	After Span   `json:"after" yaml:"after"`
	Bp    uint64 `json:"bp" yaml:"bp"`
}

// Schedule is a list of tiers sorted by After.
type Schedule []Tier

// Default is a 10% fee stepping down by 2.5% every week, free after four weeks.
func Default() Schedule {
	return Schedule{
		{After: 0, Bp: 1000},
		{After: Span(1 * unfold.Week), Bp: 750},
		{After: Span(2 * unfold.Week), Bp: 500},
		{After: Span(3 * unfold.Week), Bp: 250},
		{After: Span(4 * unfold.Week), Bp: 0},
	}
}

// Validate checks the schedule is a non-increasing step function within [0, FeeBase],
// starting at zero elapsed time.
func (s Schedule) Validate() error {
	if len(s) == 0 {
		return reverts.Errorf(reverts.ErrInvalidConfig, "empty fee schedule")
	}
	if s[0].After != 0 {
		return reverts.Errorf(reverts.ErrInvalidConfig, "first fee tier must start at 0")
	}
	for i, tier := range s {
		if tier.Bp > unfold.FeeBase {
			return reverts.Errorf(reverts.ErrInvalidConfig, "fee tier %d: %d bp exceeds %d", i, tier.Bp, unfold.FeeBase)
		}
		if i == 0 {
			continue
		}
		prev := s[i-1]
		if tier.After <= prev.After {
			return reverts.Errorf(reverts.ErrInvalidConfig, "fee tier %d: not sorted by time", i)
		}
		if tier.Bp > prev.Bp {
			return reverts.Errorf(reverts.ErrInvalidConfig, "fee tier %d: fee increases", i)
		}
	}
	return nil
}

// FeeBp returns the fee in basis points after elapsed seconds.
func (s Schedule) FeeBp(elapsed uint64) uint64 {
	i := sort.Search(len(s), func(i int) bool {
		return uint64(s[i].After) > elapsed
	})
	if i == 0 {
		return unfold.FeeBase
	}
	return s[i-1].Bp
}

// FeeBpAt returns the fee for a deposit made at depositTime, seen at now.
// A deposit time in the future counts as zero elapsed time.
func (s Schedule) FeeBpAt(depositTime, now uint64) uint64 {
	var elapsed uint64
	if now > depositTime {
		elapsed = now - depositTime
	}
	return s.FeeBp(elapsed)
}

// Fee returns floor(amount * bp / FeeBase).
func Fee(amount *uint256.Int, bp uint64) *uint256.Int {
	// Validate caps bp at FeeBase, so fee <= amount and the overflow flag is always false.
	fee, _ := new(uint256.Int).MulDivOverflow(amount, uint256.NewInt(bp), uint256.NewInt(unfold.FeeBase))
	return fee
}
