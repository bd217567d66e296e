// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/pledge/lvldb"
	"github.com/vechain/pledge/pledge"
	"github.com/vechain/pledge/state"
)

type testStruct struct {
	Field1 uint64
	Field2 *big.Int
	Addr1  pledge.Address
	Bytes1 pledge.Bytes32
}

func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(pledge.Address{1}, state.New(db, nil))
}

func TestMappingStruct(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[pledge.Bytes32, *testStruct](ctx, pledge.Bytes32{1})

	key := pledge.Keccak256([]byte("key"))

	// absent key yields a pointer to zero value
	v, err := m.Get(key)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, uint64(0), v.Field1)

	val := &testStruct{Field1: 100, Field2: big.NewInt(200), Addr1: pledge.Address{2}, Bytes1: pledge.Bytes32{3}}
	require.NoError(t, m.Set(key, val))

	got, err := m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val, got)

	m.Delete(key)
	got, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Field1)
}

func TestMappingScalar(t *testing.T) {
	ctx := newTestContext(t)
	flags := NewMapping[pledge.Bytes32, bool](ctx, pledge.Bytes32{2})
	other := NewMapping[pledge.Bytes32, bool](ctx, pledge.Bytes32{3})

	key := pledge.Bytes32{9}
	require.NoError(t, flags.Set(key, true))

	v, err := flags.Get(key)
	require.NoError(t, err)
	assert.True(t, v)

	// same key under a different base position is a different slot
	v, err = other.Get(key)
	require.NoError(t, err)
	assert.False(t, v)
}

func TestMappingRevert(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[pledge.Bytes32, uint64](ctx, pledge.Bytes32{4})

	require.NoError(t, m.Set(pledge.Bytes32{1}, 10))
	chk := ctx.State().NewCheckpoint()
	require.NoError(t, m.Set(pledge.Bytes32{1}, 20))
	ctx.State().RevertTo(chk)

	v, err := m.Get(pledge.Bytes32{1})
	require.NoError(t, err)
	assert.Equal(t, uint64(10), v)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, pledge.Bytes32{5})

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, u.Add(big.NewInt(100)))
	require.NoError(t, u.Sub(big.NewInt(40)))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(60), v)

	assert.ErrorIs(t, u.Sub(big.NewInt(61)), errUint256Underflow)
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(60), v)

	u.Set(new(big.Int))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())
}

func TestAddressAndBytes32(t *testing.T) {
	ctx := newTestContext(t)
	a := NewAddress(ctx, pledge.Bytes32{6})
	b := NewBytes32(ctx, pledge.Bytes32{7})

	addr := pledge.BytesToAddress([]byte("admin"))
	a.Set(addr)
	got, err := a.Get()
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	word := pledge.Keccak256([]byte("root"))
	b.Set(word)
	gotWord, err := b.Get()
	require.NoError(t, err)
	assert.Equal(t, word, gotWord)
	assert.Equal(t, pledge.Address{1}, ctx.Address())
}
