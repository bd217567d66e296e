// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence(t *testing.T) {
	tests := []struct {
		callNum uint32
		index   uint32
	}{
		{0, 0},
		{1, 1},
		{math.MaxUint32, math.MaxInt32},
		{1234, 5678},
	}
	for _, tt := range tests {
		seq := newSequence(tt.callNum, tt.index)
		assert.Equal(t, tt.callNum, seq.CallNumber())
		assert.Equal(t, tt.index, seq.Index())
		assert.True(t, seq >= 0)
	}

	assert.True(t, newSequence(1, 0) > newSequence(0, math.MaxInt32))
	assert.Panics(t, func() { newSequence(0, math.MaxInt32+1) })
}
