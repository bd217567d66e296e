// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/vechain/pledge/metrics"

var (
	metricCalls        = metrics.LazyLoadCounterVec("runtime_calls_count", []string{"op", "result"})
	metricCallDuration = metrics.LazyLoadHistogramVec("runtime_call_duration_us", []string{"op"}, metrics.BucketCall)
	metricFeeBalance   = metrics.LazyLoadGauge("runtime_fee_balance_gwei")
)
