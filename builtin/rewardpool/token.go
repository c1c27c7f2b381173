// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewardpool

import (
	"github.com/holiman/uint256"

	"github.com/unfoldfi/unfold/unfold"
)

// Token is the fungible token ledger a pool moves pool and reward tokens through.
// Implementations may call back into the pool.
type Token interface {
	Transfer(from, to unfold.Address, amount *uint256.Int) error
	TransferFrom(spender, from, to unfold.Address, amount *uint256.Int) error
	BalanceOf(addr unfold.Address) (*uint256.Int, error)
	Approve(owner, spender unfold.Address, amount *uint256.Int) error
}

// TokenBinder resolves the token contract deployed at an address.
type TokenBinder func(addr unfold.Address) Token
