// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/pledge/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	persistent, err := New(filepath.Join(t.TempDir(), "db"), Options{16, 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persistent, mem} {
		require.NoError(t, db.Put(key, value))

		ret, err := db.Get(key)
		require.NoError(t, err)
		assert.Equal(t, value, ret)

		has, err := db.Has(key)
		require.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(inValidKey)
		require.NoError(t, err)
		assert.False(t, has)

		_, err = db.Get(inValidKey)
		assert.True(t, db.IsNotFound(err))

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestBulkAndIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	bulk := db.Bulk()
	for _, k := range []string{"a1", "a2", "b1"} {
		require.NoError(t, bulk.Put([]byte(k), []byte("v"+k)))
	}
	assert.Equal(t, 3, bulk.Len())

	// nothing visible before write
	has, err := db.Has([]byte("a1"))
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, bulk.Write())
	assert.Equal(t, 0, bulk.Len())

	it := db.Iterate(kv.Range{Start: []byte("a"), Limit: []byte("b")})
	defer it.Release()
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"a1", "a2"}, keys)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	db, err := New(path, Options{})
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	db, err = New(path, Options{})
	require.NoError(t, err)
	defer db.Close()
	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}
