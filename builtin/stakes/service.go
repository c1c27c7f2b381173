// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/holiman/uint256"

	"github.com/unfoldfi/unfold/builtin/reverts"
	"github.com/unfoldfi/unfold/builtin/solidity"
	"github.com/unfoldfi/unfold/unfold"
)

var (
	slotTotalStaked = unfold.BytesToBytes32([]byte("total-staked"))
	slotBalances    = unfold.BytesToBytes32([]byte("staked-balances"))
)

// Service keeps the staked balance of every account and their sum.
// It holds no reward logic.
type Service struct {
	total    *solidity.Uint256
	balances *solidity.Mapping[unfold.Address, *uint256.Int]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		total:    solidity.NewUint256(sctx, slotTotalStaked),
		balances: solidity.NewMapping[unfold.Address, *uint256.Int](sctx, slotBalances),
	}
}

// TotalStaked returns the sum of all staked balances.
func (s *Service) TotalStaked() (*uint256.Int, error) {
	return s.total.Get()
}

// BalanceOf returns the staked balance of account.
func (s *Service) BalanceOf(account unfold.Address) (*uint256.Int, error) {
	return s.balances.Get(account)
}

// Stake increases the balance of account and the total.
func (s *Service) Stake(account unfold.Address, amount *uint256.Int) error {
	bal, err := s.balances.Get(account)
	if err != nil {
		return err
	}
	if _, overflow := bal.AddOverflow(bal, amount); overflow {
		return reverts.ErrOverflow
	}
	if err := s.total.Add(amount); err != nil {
		return err
	}
	return s.balances.Set(account, bal)
}

// Withdraw decreases the balance of account and the total.
func (s *Service) Withdraw(account unfold.Address, amount *uint256.Int) error {
	bal, err := s.balances.Get(account)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return reverts.Errorf(reverts.ErrInsufficientBalance, "staked %v, withdraw %v", bal, amount)
	}
	if err := s.total.Sub(amount); err != nil {
		return err
	}
	return s.balances.Set(account, bal.Sub(bal, amount))
}
