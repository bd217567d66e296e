// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New(StateConflict, "test")
	assert.Equal(t, "test", revert.message)
	assert.Equal(t, revert.Error(), revert.message)
	assert.Equal(t, StateConflict, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func TestRevertMatching(t *testing.T) {
	cause := errors.New("recipient rejected")
	err := ErrTransferFailed.WithCause(cause)

	assert.ErrorIs(t, err, ErrTransferFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "transfer failed: recipient rejected", err.Error())

	wrapped := errors.Wrap(err, "claim")
	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, TransferFailure, kind)

	// same kind, different message
	assert.NotErrorIs(t, ErrLockDeleted, ErrLockNotActive)
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{InputValidation, "input-validation"},
		{StateConflict, "state-conflict"},
		{AuthenticationFailure, "authentication-failure"},
		{EconomicViolation, "economic-violation"},
		{TransferFailure, "transfer-failure"},
		{AccessDenied, "access-denied"},
		{Reentrancy, "reentrancy"},
		{Kind(0), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}
