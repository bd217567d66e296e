// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Kind classifies why a call reverted.
type Kind uint8

const (
	InputValidation Kind = iota + 1
	StateConflict
	AuthenticationFailure
	EconomicViolation
	TransferFailure
	AccessDenied
	Reentrancy
)

func (k Kind) String() string {
	switch k {
	case InputValidation:
		return "input-validation"
	case StateConflict:
		return "state-conflict"
	case AuthenticationFailure:
		return "authentication-failure"
	case EconomicViolation:
		return "economic-violation"
	case TransferFailure:
		return "transfer-failure"
	case AccessDenied:
		return "access-denied"
	case Reentrancy:
		return "reentrancy"
	}
	return "unknown"
}

// ErrRevert is a protocol level failure. Two reverts match under errors.Is when
// kind and message are equal, so a revert carrying a cause still matches its sentinel.
type ErrRevert struct {
	kind    Kind
	message string
	cause   error
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func (e *ErrRevert) Message() string {
	return e.message
}

func (e *ErrRevert) Unwrap() error {
	return e.cause
}

func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	return ok && t.kind == e.kind && t.message == e.message
}

// WithCause returns a copy of the revert carrying the cause.
func (e *ErrRevert) WithCause(cause error) *ErrRevert {
	return &ErrRevert{
		kind:    e.kind,
		message: e.message,
		cause:   cause,
	}
}

func IsRevertErr(err any) bool {
	_, ok := KindOf(err)
	return ok
}

// KindOf returns the kind of the outermost revert in the error chain.
func KindOf(err any) (Kind, bool) {
	if err == nil {
		return 0, false
	}
	e, ok := err.(error)
	if !ok {
		return 0, false
	}
	var ve *ErrRevert
	if errors.As(e, &ve) {
		return ve.kind, true
	}
	return 0, false
}
