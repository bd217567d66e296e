// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import "github.com/vechain/pledge/metrics"

var (
	metricClaims  = metrics.LazyLoadCounterVec("staker_claims_count", []string{"outcome"})
	metricReverts = metrics.LazyLoadCounterVec("staker_reverts_count", []string{"kind"})
)
