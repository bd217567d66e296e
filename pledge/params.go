// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pledge

import (
	"math/big"
)

// Constants of the protocol.
const (
	SecondsPerDay    uint64 = 86400
	SecondsPerPeriod uint64 = SecondsPerDay / PeriodsPerDay
	PeriodsPerDay    uint64 = 2

	// OracleDecimals is the precision the price feed reports in.
	OracleDecimals uint8 = 8
	// ValueDecimals is the precision of native value and normalized USD amounts.
	ValueDecimals uint8 = 18

	EditPenaltyPercent   uint64 = 20
	DeletePenaltyPercent uint64 = 50
)

var (
	// MinStakeUSD is the minimum stake, 18-decimal USD.
	MinStakeUSD = new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(ValueDecimals)), nil) // 1 USD

	// Ether is 1e18 wei-like base units of native value.
	Ether = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
)

// Keys of params contract entries.
var (
	KeyPriceUSD = BytesToBytes32([]byte("price-usd"))
)
