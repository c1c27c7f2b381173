// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewardpool

import "github.com/unfoldfi/unfold/metrics"

var (
	metricOperationCount = metrics.LazyLoadCounterVec("pool_operation_count", []string{"pool", "op"})
	metricFeeBp          = metrics.LazyLoadHistogramVec("pool_withdrawal_fee_bp", []string{"pool"}, []int64{0, 100, 250, 500, 750, 1000, 2500, 5000, 10000})
)
