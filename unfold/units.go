// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package unfold

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// FormatUnits renders a base unit amount with the given number of decimals.
// Decimals are a display convention only; the ledger never enforces them.
func FormatUnits(amount *big.Int, decimals int32) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -decimals).String()
}

// ParseUnits parses a decimal string like "1.5" into base units.
// Fractional digits beyond decimals are rejected rather than rounded.
func ParseUnits(s string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.WithMessage(err, "parse units")
	}
	if d.IsNegative() {
		return nil, errors.New("negative amount")
	}
	shifted := d.Shift(decimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return nil, errors.Errorf("too many decimal places: %s", s)
	}
	return shifted.BigInt(), nil
}

// Units returns n whole tokens in base units.
func Units(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), Scale)
}
