// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bucket

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf(t *testing.T) {
	tests := []struct {
		ts   uint64
		want Bucket
	}{
		{0, Bucket{0, AM}},
		{43199, Bucket{0, AM}},
		{43200, Bucket{0, PM}},
		{86399, Bucket{0, PM}},
		{86400, Bucket{1, AM}},
		{10*86400 + 7*3600, Bucket{10, AM}},
		{10*86400 + 13*3600, Bucket{10, PM}},
		{math.MaxUint64, Bucket{math.MaxUint64 / 86400, Period((math.MaxUint64 % 86400) / 43200)}},
	}
	for _, tt := range tests {
		got := Of(tt.ts)
		assert.Equal(t, tt.want, got, "ts=%d", tt.ts)
		assert.True(t, got.Valid())
	}
}

func TestStartRoundTrip(t *testing.T) {
	for _, ts := range []uint64{0, 1, 43199, 43200, 86400, 1_700_000_000} {
		b := Of(ts)
		assert.LessOrEqual(t, b.Start(), ts)
		assert.Less(t, ts-b.Start(), uint64(43200))
		assert.Equal(t, b, Of(b.Start()))
	}
}

func TestNewAndParse(t *testing.T) {
	b, err := New(5, 1)
	require.NoError(t, err)
	assert.Equal(t, Bucket{5, PM}, b)

	_, err = New(5, 2)
	assert.Error(t, err)

	assert.Equal(t, "5/PM", b.String())
	parsed, err := Parse("5/PM")
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	parsed, err = Parse("7/0")
	require.NoError(t, err)
	assert.Equal(t, Bucket{7, AM}, parsed)

	for _, s := range []string{"", "5", "x/AM", "5/XM", "5/2"} {
		_, err := Parse(s)
		assert.Error(t, err, s)
	}
}

func TestBytes(t *testing.T) {
	assert.Len(t, Bucket{1, PM}.Bytes(), 9)
	assert.NotEqual(t, Bucket{1, AM}.Bytes(), Bucket{1, PM}.Bytes())
	assert.NotEqual(t, Bucket{1, AM}.Bytes(), Bucket{2, AM}.Bytes())
	assert.False(t, Bucket{1, Period(2)}.Valid())
}
