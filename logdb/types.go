// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/vechain/pledge/pledge"
)

// Event is a contract record that can be stored in db.
type Event struct {
	CallNumber uint32
	Index      uint32
	Time       uint64
	Kind       string
	User       pledge.Address
	LockID     uint64
	Day        uint64
	Period     uint8
	PrevDay    uint64
	PrevPeriod uint8
	Amount     *big.Int
	Penalty    *big.Int
	Refund     *big.Int
	Reward     *big.Int
	Severity   uint8
	Root       pledge.Bytes32
}

// Transfer is a movement of native value that can be stored in db.
type Transfer struct {
	CallNumber uint32
	Index      uint32
	Time       uint64
	Sender     pledge.Address
	Recipient  pledge.Address
	Amount     *big.Int
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive range of call numbers.
type Range struct {
	From uint32
	To   uint32
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventCriteria is a set of conditions, all of which must hold.
type EventCriteria struct {
	Kind   *string
	User   *pledge.Address
	LockID *uint64
	Day    *uint64
	Period *uint8
}

func (c *EventCriteria) toWhereCondition() (cond string, args []any) {
	cond = "1"
	if c.Kind != nil {
		cond += " AND kind = ?"
		args = append(args, *c.Kind)
	}
	if c.User != nil {
		cond += " AND user = ?"
		args = append(args, c.User.Bytes())
	}
	if c.LockID != nil {
		cond += " AND lockID = ?"
		args = append(args, *c.LockID)
	}
	if c.Day != nil {
		cond += " AND day = ?"
		args = append(args, *c.Day)
	}
	if c.Period != nil {
		cond += " AND period = ?"
		args = append(args, *c.Period)
	}
	return
}

// EventFilter matches events satisfying any of the criteria.
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}

type TransferCriteria struct {
	Sender    *pledge.Address
	Recipient *pledge.Address
}

func (c *TransferCriteria) toWhereCondition() (cond string, args []any) {
	cond = "1"
	if c.Sender != nil {
		cond += " AND sender = ?"
		args = append(args, c.Sender.Bytes())
	}
	if c.Recipient != nil {
		cond += " AND recipient = ?"
		args = append(args, c.Recipient.Bytes())
	}
	return
}

type TransferFilter struct {
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
