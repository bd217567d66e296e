// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slashing

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWakeUp(t *testing.T) {
	p := WakeUp{}
	stake := big.NewInt(1000)

	tests := []struct {
		severity Severity
		want     int64
	}{
		{0, 1000},
		{1, 800},
		{2, 500},
		{3, 0},
		{255, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StakeReturn(p, stake, tt.severity).Int64(), "severity %d", tt.severity)
	}
	assert.True(t, p.AllowsEdit())
	assert.False(t, p.RequiresDuration())
	assert.Equal(t, uint64(20), p.EditPenaltyPercent())
	assert.Equal(t, uint64(50), p.DeletePenaltyPercent())
}

func TestPhoneFree(t *testing.T) {
	p := PhoneFree{}
	stake := big.NewInt(1000)

	assert.Equal(t, big.NewInt(1000), StakeReturn(p, stake, 0))
	assert.Equal(t, 0, StakeReturn(p, stake, 1).Sign())
	assert.Equal(t, 0, StakeReturn(p, stake, 9).Sign())
	assert.False(t, p.AllowsEdit())
	assert.True(t, p.RequiresDuration())
	assert.Equal(t, uint64(50), p.DeletePenaltyPercent())
}

func TestByName(t *testing.T) {
	p, err := ByName("wake-up")
	require.NoError(t, err)
	assert.Equal(t, WakeUp{}, p)

	p, err = ByName("phone-free")
	require.NoError(t, err)
	assert.Equal(t, PhoneFree{}, p)

	_, err = ByName("sleep-in")
	assert.Error(t, err)
}

func TestPercentRoundsDown(t *testing.T) {
	assert.Equal(t, big.NewInt(1), Percent(big.NewInt(7), 20))
	assert.Equal(t, big.NewInt(3), Percent(big.NewInt(7), 50))

	// penalty plus refund always equals the stake
	stake := big.NewInt(999_999_999_999)
	penalty := Percent(stake, 20)
	refund := new(big.Int).Sub(stake, penalty)
	assert.Equal(t, stake, new(big.Int).Add(penalty, refund))
}
