// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locks

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/pledge/pledge"
)

type CallerRequest struct {
	Caller *pledge.Address `json:"caller"`
}

type CreateRequest struct {
	Caller         *pledge.Address       `json:"caller"`
	Value          *math.HexOrDecimal256 `json:"value"`
	CommitmentTime uint64                `json:"commitmentTime"`
	Duration       uint64                `json:"duration"`
}

type EditRequest struct {
	Caller         *pledge.Address       `json:"caller"`
	Value          *math.HexOrDecimal256 `json:"value"`
	CommitmentTime uint64                `json:"commitmentTime"`
}

type ClaimRequest struct {
	Caller    *pledge.Address       `json:"caller"`
	Severity  uint8                 `json:"severity"`
	Signature hexutil.Bytes         `json:"signature"`
	Reward    *math.HexOrDecimal256 `json:"reward"`
	Proof     []pledge.Bytes32      `json:"proof"`
}
