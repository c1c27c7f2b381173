// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package unfold

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Time units, in seconds.
const (
	Day  uint64 = 24 * 60 * 60
	Week uint64 = 7 * Day
	Year uint64 = 365 * Day
)

// Constants of the ledger.
const (
	// FeeBase is the basis point denominator, 10000 bp == 100%.
	FeeBase uint64 = 10000

	DefaultPoolDuration uint64 = 100 * Day // reward period of a pool funding

	EmissionCliff            uint64 = 1095 * Day // delay before the first emission
	EmissionPeriod           uint64 = Year
	DefaultEmissionPerYearBp uint64 = 500  // 5%
	MaxEmissionPerYearBp     uint64 = 1000 // exclusive ceiling, 10%

	Decimals int32 = 18
)

var (
	// Scale is the fixed point base of the reward per token accumulator.
	Scale = big.NewInt(1e18)
	// Scale256 is Scale as uint256.
	Scale256 = uint256.NewInt(1e18)
)
