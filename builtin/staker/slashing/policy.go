// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slashing

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/pledge/pledge"
)

// Severity is the outcome attested by the trusted signer. Zero is full success.
type Severity uint8

// FullSuccess is the only severity eligible for a reward.
const FullSuccess Severity = 0

// Policy is the slashing schedule of a product variant.
type Policy interface {
	// Name identifies the variant. It is bound into outcome signatures.
	Name() string
	// ReturnPercent is the percentage of stake refunded at claim for the severity.
	ReturnPercent(severity Severity) uint64
	// AllowsEdit reports whether locks may be moved or re-staked before finalization.
	AllowsEdit() bool
	// RequiresDuration reports whether a commitment must carry a positive duration.
	RequiresDuration() bool
	EditPenaltyPercent() uint64
	DeletePenaltyPercent() uint64
}

const (
	WakeUpName    = "wake-up"
	PhoneFreeName = "phone-free"
)

// ByName returns the policy of the named variant.
func ByName(name string) (Policy, error) {
	switch name {
	case WakeUpName:
		return WakeUp{}, nil
	case PhoneFreeName:
		return PhoneFree{}, nil
	}
	return nil, errors.Errorf("unknown policy %q", name)
}

// StakeReturn computes stake × ReturnPercent(severity) / 100, rounding down.
func StakeReturn(p Policy, stake *big.Int, severity Severity) *big.Int {
	return Percent(stake, p.ReturnPercent(severity))
}

// Percent computes value × percent / 100, rounding down.
func Percent(value *big.Int, percent uint64) *big.Int {
	v := new(big.Int).Mul(value, new(big.Int).SetUint64(percent))
	return v.Quo(v, big.NewInt(100))
}

// WakeUp is the schedule of the wake-up variant: severity is the retry count.
type WakeUp struct{}

func (WakeUp) Name() string { return WakeUpName }

func (WakeUp) ReturnPercent(severity Severity) uint64 {
	switch severity {
	case 0:
		return 100
	case 1:
		return 80
	case 2:
		return 50
	default:
		return 0
	}
}

func (WakeUp) AllowsEdit() bool             { return true }
func (WakeUp) RequiresDuration() bool       { return false }
func (WakeUp) EditPenaltyPercent() uint64   { return pledge.EditPenaltyPercent }
func (WakeUp) DeletePenaltyPercent() uint64 { return pledge.DeletePenaltyPercent }

// PhoneFree is the schedule of the phone-free variant: any non-zero severity is a failure.
type PhoneFree struct{}

func (PhoneFree) Name() string { return PhoneFreeName }

func (PhoneFree) ReturnPercent(severity Severity) uint64 {
	if severity == FullSuccess {
		return 100
	}
	return 0
}

func (PhoneFree) AllowsEdit() bool             { return false }
func (PhoneFree) RequiresDuration() bool       { return true }
func (PhoneFree) EditPenaltyPercent() uint64   { return pledge.EditPenaltyPercent }
func (PhoneFree) DeletePenaltyPercent() uint64 { return pledge.DeletePenaltyPercent }
