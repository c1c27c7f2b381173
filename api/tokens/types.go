// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"github.com/holiman/uint256"

	"github.com/unfoldfi/unfold/unfold"
)

type Token struct {
	Address     unfold.Address `json:"address"`
	Kind        string         `json:"kind"`
	Name        string         `json:"name"`
	Symbol      string         `json:"symbol"`
	Decimals    uint8          `json:"decimals"`
	TotalSupply *uint256.Int   `json:"totalSupply"`
}

// Amount is a base unit amount together with its display form.
type Amount struct {
	Value     *uint256.Int `json:"value"`
	Formatted string       `json:"formatted"`
}

type TransferRequest struct {
	Caller unfold.Address `json:"caller"`
	To     unfold.Address `json:"to"`
	Amount *uint256.Int   `json:"amount"`
}

type ApproveRequest struct {
	Caller  unfold.Address `json:"caller"`
	Spender unfold.Address `json:"spender"`
	Amount  *uint256.Int   `json:"amount"`
}

// TransferFromRequest moves tokens of From, spending the allowance granted to Caller.
type TransferFromRequest struct {
	Caller unfold.Address `json:"caller"`
	From   unfold.Address `json:"from"`
	To     unfold.Address `json:"to"`
	Amount *uint256.Int   `json:"amount"`
}
