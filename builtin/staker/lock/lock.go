// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lock

import (
	"math/big"

	"github.com/vechain/pledge/builtin/staker/bucket"
	"github.com/vechain/pledge/pledge"
)

type Status uint8

const (
	StatusNone Status = iota
	StatusActive
	StatusCompleted
	StatusDeleted
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	case StatusDeleted:
		return "deleted"
	}
	return "unknown"
}

// Lock is a user's staked, time-bound commitment. Locks are tombstoned, never removed.
type Lock struct {
	ID             uint64
	Owner          pledge.Address
	Bucket         bucket.Bucket
	Stake          *big.Int
	CommitmentTime uint64
	Duration       uint64 // zero if the commitment has no duration
	Status         Status
}

// IsEmpty reports whether the lock was never created.
func (l *Lock) IsEmpty() bool {
	return l.Status == StatusNone
}
