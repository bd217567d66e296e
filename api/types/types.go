// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/pledge/builtin/staker/bucket"
	"github.com/vechain/pledge/builtin/staker/lock"
	"github.com/vechain/pledge/builtin/staker/pool"
	"github.com/vechain/pledge/logdb"
	"github.com/vechain/pledge/pledge"
)

// Bucket is the json form of a (day, period) bucket.
type Bucket struct {
	Day    uint64 `json:"day"`
	Period string `json:"period"`
	Start  uint64 `json:"start"`
}

func ConvertBucket(b bucket.Bucket) Bucket {
	return Bucket{Day: b.Day, Period: b.Period.String(), Start: b.Start()}
}

type Lock struct {
	ID             uint64                `json:"id"`
	Owner          pledge.Address        `json:"owner"`
	Bucket         Bucket                `json:"bucket"`
	Stake          *math.HexOrDecimal256 `json:"stake"`
	CommitmentTime uint64                `json:"commitmentTime"`
	Duration       uint64                `json:"duration"`
	Status         string                `json:"status"`
	Claimed        bool                  `json:"claimed"`
}

func ConvertLock(l *lock.Lock, claimed bool) *Lock {
	return &Lock{
		ID:             l.ID,
		Owner:          l.Owner,
		Bucket:         ConvertBucket(l.Bucket),
		Stake:          Hex256(l.Stake),
		CommitmentTime: l.CommitmentTime,
		Duration:       l.Duration,
		Status:         l.Status.String(),
		Claimed:        claimed,
	}
}

type Pool struct {
	Bucket       Bucket                `json:"bucket"`
	TotalStaked  *math.HexOrDecimal256 `json:"totalStaked"`
	Participants uint64                `json:"participants"`
	Finalized    bool                  `json:"finalized"`
	RewardRoot   pledge.Bytes32        `json:"rewardRoot"`
}

func ConvertPool(b bucket.Bucket, p *pool.Pool) *Pool {
	return &Pool{
		Bucket:       ConvertBucket(b),
		TotalStaked:  Hex256(p.TotalStaked),
		Participants: p.Participants,
		Finalized:    p.Finalized,
		RewardRoot:   p.RewardRoot,
	}
}

// Contract describes the deployed contract.
type Contract struct {
	Address       pledge.Address        `json:"address"`
	Admin         pledge.Address        `json:"admin"`
	TrustedSigner pledge.Address        `json:"trustedSigner"`
	Policy        string                `json:"policy"`
	MinStakeUSD   *math.HexOrDecimal256 `json:"minStakeUSD"`
	NextLockID    uint64                `json:"nextLockID"`
	TotalLocked   *math.HexOrDecimal256 `json:"totalLocked"`
	Balance       *math.HexOrDecimal256 `json:"balance"`
	Now           uint64                `json:"now"`
}

type Account struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
}

// Hex256 converts a nil-able big integer for json output.
func Hex256(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	h := math.HexOrDecimal256(*v)
	return &h
}

// BigInt converts a json big integer back. Nil stays nil.
func BigInt(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return nil
	}
	return (*big.Int)(v)
}

//
// Logs
//

type LogMeta struct {
	CallNumber uint32 `json:"callNumber"`
	Index      uint32 `json:"index"`
	Time       uint64 `json:"time"`
}

type FilteredEvent struct {
	Kind       string                `json:"kind"`
	User       *pledge.Address       `json:"user,omitempty"`
	LockID     uint64                `json:"lockID,omitempty"`
	Bucket     *Bucket               `json:"bucket,omitempty"`
	PrevBucket *Bucket               `json:"prevBucket,omitempty"`
	Amount     *math.HexOrDecimal256 `json:"amount,omitempty"`
	Penalty    *math.HexOrDecimal256 `json:"penalty,omitempty"`
	Refund     *math.HexOrDecimal256 `json:"refund,omitempty"`
	Reward     *math.HexOrDecimal256 `json:"reward,omitempty"`
	Severity   uint8                 `json:"severity"`
	Root       *pledge.Bytes32       `json:"root,omitempty"`
	Meta       LogMeta               `json:"meta"`
}

func nonZero(v *big.Int) *math.HexOrDecimal256 {
	if v == nil || v.Sign() == 0 {
		return nil
	}
	return Hex256(v)
}

func eventBucket(day uint64, period uint8) *Bucket {
	b, err := bucket.New(day, period)
	if err != nil || day == 0 {
		return nil
	}
	jb := ConvertBucket(b)
	return &jb
}

// ConvertEvent converts a stored event into its json form, omitting fields unused by the kind.
func ConvertEvent(ev *logdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Kind:       ev.Kind,
		LockID:     ev.LockID,
		Bucket:     eventBucket(ev.Day, ev.Period),
		PrevBucket: eventBucket(ev.PrevDay, ev.PrevPeriod),
		Amount:     nonZero(ev.Amount),
		Penalty:    nonZero(ev.Penalty),
		Refund:     nonZero(ev.Refund),
		Reward:     nonZero(ev.Reward),
		Severity:   ev.Severity,
		Meta: LogMeta{
			CallNumber: ev.CallNumber,
			Index:      ev.Index,
			Time:       ev.Time,
		},
	}
	if !ev.User.IsZero() {
		user := ev.User
		fe.User = &user
	}
	if !ev.Root.IsZero() {
		root := ev.Root
		fe.Root = &root
	}
	return fe
}

type FilteredTransfer struct {
	Sender    pledge.Address        `json:"sender"`
	Recipient pledge.Address        `json:"recipient"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Meta      LogMeta               `json:"meta"`
}

func ConvertTransfer(tr *logdb.Transfer) *FilteredTransfer {
	return &FilteredTransfer{
		Sender:    tr.Sender,
		Recipient: tr.Recipient,
		Amount:    Hex256(tr.Amount),
		Meta: LogMeta{
			CallNumber: tr.CallNumber,
			Index:      tr.Index,
			Time:       tr.Time,
		},
	}
}

type Range struct {
	From *uint32 `json:"from,omitempty"`
	To   *uint32 `json:"to,omitempty"`
}

// ConvertRange converts a call number range. Missing ends are open.
func ConvertRange(r *Range) *logdb.Range {
	if r == nil {
		return nil
	}
	rng := &logdb.Range{}
	if r.From != nil {
		rng.From = *r.From
	}
	if r.To != nil {
		rng.To = *r.To
	} else {
		rng.To = rng.From - 1
		if rng.From == 0 {
			return nil
		}
	}
	return rng
}

type Options struct {
	Offset uint64 `json:"offset,omitempty"`
	Limit  uint64 `json:"limit,omitempty"`
}

type EventCriteria struct {
	Kind   *string         `json:"kind,omitempty"`
	User   *pledge.Address `json:"user,omitempty"`
	LockID *uint64         `json:"lockID,omitempty"`
	Day    *uint64         `json:"day,omitempty"`
	Period *uint8          `json:"period,omitempty"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

type TransferCriteria struct {
	Sender    *pledge.Address `json:"sender,omitempty"`
	Recipient *pledge.Address `json:"recipient,omitempty"`
}

type TransferFilter struct {
	CriteriaSet []*TransferCriteria `json:"criteriaSet"`
	Range       *Range              `json:"range"`
	Options     *Options            `json:"options"`
	Order       logdb.Order         `json:"order"`
}
