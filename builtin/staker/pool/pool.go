// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/vechain/pledge/pledge"
)

// Pool is the aggregate ledger entry of all locks sharing a bucket.
type Pool struct {
	RewardRoot   pledge.Bytes32
	Finalized    bool
	TotalStaked  *big.Int
	Participants uint64
}

func newPool() *Pool {
	return &Pool{TotalStaked: new(big.Int)}
}

// IsEmpty reports whether the pool was never referenced.
func (p *Pool) IsEmpty() bool {
	return !p.Finalized && p.Participants == 0 && (p.TotalStaked == nil || p.TotalStaked.Sign() == 0)
}
