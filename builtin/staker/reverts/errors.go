// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

var (
	ErrZeroValue        = New(InputValidation, "stake value must be positive")
	ErrCommitmentInPast = New(InputValidation, "commitment time must be in the future")
	ErrDurationRequired = New(InputValidation, "duration is required")
	ErrInvalidBucket    = New(InputValidation, "invalid bucket")
	ErrEmptyRoot        = New(InputValidation, "reward root is empty")
	ErrEditNotSupported = New(InputValidation, "edit is not supported")

	ErrPoolFinalized    = New(StateConflict, "pool is finalized")
	ErrPoolNotFinalized = New(StateConflict, "pool is not finalized")
	ErrBucketOccupied   = New(StateConflict, "bucket is occupied")
	ErrLockNotFound     = New(StateConflict, "lock not found")
	ErrLockDeleted      = New(StateConflict, "lock is deleted")
	ErrLockNotActive    = New(StateConflict, "lock is not active")
	ErrAlreadyClaimed   = New(StateConflict, "lock is already claimed")

	ErrInvalidSignature = New(AuthenticationFailure, "invalid outcome signature")
	ErrInvalidProof     = New(AuthenticationFailure, "invalid reward proof")

	ErrStakeBelowMinimum = New(EconomicViolation, "stake value is below minimum")
	ErrUnearnedReward    = New(EconomicViolation, "reward on unsuccessful outcome")
	ErrInsufficientFunds = New(EconomicViolation, "insufficient funds")

	ErrTransferFailed = New(TransferFailure, "transfer failed")

	ErrUnauthorized = New(AccessDenied, "caller is not admin")
	ErrNotLockOwner = New(AccessDenied, "caller is not lock owner")

	ErrReentrantCall = New(Reentrancy, "reentrant call")
)
