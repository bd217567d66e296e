// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/vechain/pledge/builtin/staker/bucket"
	"github.com/vechain/pledge/pledge"
)

type EventKind uint8

const (
	EventLockCreated EventKind = iota + 1
	EventLockEdited
	EventLockDeleted
	EventClaimSettled
	EventPoolFinalized
	EventFeeUpdated
	EventFeeWithdrawn
)

var eventNames = map[EventKind]string{
	EventLockCreated:   "LockCreated",
	EventLockEdited:    "LockEdited",
	EventLockDeleted:   "LockDeleted",
	EventClaimSettled:  "ClaimSettled",
	EventPoolFinalized: "PoolFinalized",
	EventFeeUpdated:    "FeeUpdated",
	EventFeeWithdrawn:  "FeeWithdrawn",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseEventKind is the inverse of EventKind.String.
func ParseEventKind(name string) (EventKind, bool) {
	for k, n := range eventNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Event is a record emitted by a successful call. Fields not relevant to the kind are zero.
//
//	LockCreated    User, LockID, Bucket, Amount(stake)
//	LockEdited     User, LockID, PrevBucket, Bucket, Amount(new stake), Penalty, Refund
//	LockDeleted    User, LockID, Bucket, Penalty, Refund
//	ClaimSettled   User, LockID, Bucket, Amount(stake returned), Reward, Severity
//	PoolFinalized  Bucket, Root
//	FeeUpdated     Amount(vault balance after), Penalty(credited)
//	FeeWithdrawn   User(recipient), Amount
type Event struct {
	Kind       EventKind
	User       pledge.Address
	LockID     uint64
	Bucket     bucket.Bucket
	PrevBucket bucket.Bucket
	Amount     *big.Int
	Penalty    *big.Int
	Refund     *big.Int
	Reward     *big.Int
	Severity   uint8
	Root       pledge.Bytes32
}

func (s *Staker) emit(ev *Event) {
	for _, v := range []**big.Int{&ev.Amount, &ev.Penalty, &ev.Refund, &ev.Reward} {
		if *v == nil {
			*v = new(big.Int)
		} else {
			*v = new(big.Int).Set(*v)
		}
	}
	s.events = append(s.events, ev)
}

// Events returns the records emitted by successful calls on this instance.
func (s *Staker) Events() []*Event {
	return append([]*Event(nil), s.events...)
}
