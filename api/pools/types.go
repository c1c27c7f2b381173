// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"github.com/holiman/uint256"

	"github.com/unfoldfi/unfold/builtin/feeschedule"
	"github.com/unfoldfi/unfold/unfold"
)

// Pool is the public state of a reward pool.
type Pool struct {
	Address        unfold.Address       `json:"address"`
	Name           string               `json:"name"`
	PoolToken      unfold.Address       `json:"poolToken"`
	RewardToken    unfold.Address       `json:"rewardToken"`
	Duration       feeschedule.Span     `json:"duration"`
	PublicFunding  bool                 `json:"publicFunding"`
	FeeSchedule    feeschedule.Schedule `json:"feeSchedule"`
	Owner          unfold.Address       `json:"owner"`
	FeeBeneficiary unfold.Address       `json:"feeBeneficiary"`
	TotalStaked    *uint256.Int         `json:"totalStaked"`
	RewardRate     *uint256.Int         `json:"rewardRate"`
	PeriodFinish   uint64               `json:"periodFinish"`
	RewardPerToken *uint256.Int         `json:"rewardPerToken"`
}

// Account is the position of an account in a pool.
type Account struct {
	Balance         *uint256.Int `json:"balance"`
	Earned          *uint256.Int `json:"earned"`
	LastDepositTime uint64       `json:"lastDepositTime"`
	WithdrawalFeeBp uint64       `json:"withdrawalFeeBp"`
}

// CallRequest is the body of calls taking no argument but the caller.
type CallRequest struct {
	Caller unfold.Address `json:"caller"`
}

// AmountRequest is the body of stake and fund calls.
type AmountRequest struct {
	Caller unfold.Address `json:"caller"`
	Amount *uint256.Int   `json:"amount"`
}

// WithdrawRequest is the body of a withdraw call. AmountHint defaults to Amount.
type WithdrawRequest struct {
	Caller     unfold.Address `json:"caller"`
	AmountHint *uint256.Int   `json:"amountHint,omitempty"`
	Amount     *uint256.Int   `json:"amount"`
}

// AddressRequest is the body of calls setting an address, the fee beneficiary or the owner.
type AddressRequest struct {
	Caller  unfold.Address `json:"caller"`
	Address unfold.Address `json:"address"`
}
