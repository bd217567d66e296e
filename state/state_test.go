// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/pledge/lvldb"
	"github.com/vechain/pledge/pledge"
)

func M(a ...any) []any {
	return a
}

func newTestState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, nil), db
}

func TestStateReadWrite(t *testing.T) {
	st, _ := newTestState(t)

	addr := pledge.BytesToAddress([]byte("account1"))
	storageKey := pledge.BytesToBytes32([]byte("storageKey"))

	assert.Equal(t, M(new(big.Int), nil), M(st.GetBalance(addr)))
	assert.Equal(t, M(pledge.Bytes32{}, nil), M(st.GetStorage(addr, storageKey)))

	// make account not empty
	require.NoError(t, st.SetBalance(addr, big.NewInt(1)))
	assert.Equal(t, M(big.NewInt(1), nil), M(st.GetBalance(addr)))

	st.SetStorage(addr, storageKey, pledge.BytesToBytes32([]byte("storageValue")))
	assert.Equal(t, M(pledge.BytesToBytes32([]byte("storageValue")), nil), M(st.GetStorage(addr, storageKey)))

	assert.Error(t, st.SetBalance(addr, big.NewInt(-1)))
}

func TestStateBalanceArithmetic(t *testing.T) {
	st, _ := newTestState(t)
	addr := pledge.BytesToAddress([]byte("a"))

	require.NoError(t, st.AddBalance(addr, big.NewInt(100)))
	ok, err := st.SubBalance(addr, big.NewInt(30))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.SubBalance(addr, big.NewInt(71))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, M(big.NewInt(70), nil), M(st.GetBalance(addr)))

	// returned balance is a copy
	bal, _ := st.GetBalance(addr)
	bal.SetInt64(0)
	assert.Equal(t, M(big.NewInt(70), nil), M(st.GetBalance(addr)))
}

func TestStateRevert(t *testing.T) {
	st, _ := newTestState(t)

	addr := pledge.BytesToAddress([]byte("account1"))
	storageKey := pledge.BytesToBytes32([]byte("storageKey"))

	values := []struct {
		balance *big.Int
		storage pledge.Bytes32
	}{
		{big.NewInt(1), pledge.BytesToBytes32([]byte("v1"))},
		{big.NewInt(2), pledge.BytesToBytes32([]byte("v2"))},
		{big.NewInt(3), pledge.BytesToBytes32([]byte("v3"))},
	}

	var chk int
	for _, v := range values {
		chk = st.NewCheckpoint()
		require.NoError(t, st.SetBalance(addr, v.balance))
		st.SetStorage(addr, storageKey, v.storage)
	}

	for i := range values {
		i = len(values) - i - 1
		assert.Equal(t, M(values[i].balance, nil), M(st.GetBalance(addr)))
		assert.Equal(t, M(values[i].storage, nil), M(st.GetStorage(addr, storageKey)))
		st.RevertTo(chk)
		chk--
	}
	assert.Equal(t, M(new(big.Int), nil), M(st.GetBalance(addr)))
	assert.Equal(t, M(pledge.Bytes32{}, nil), M(st.GetStorage(addr, storageKey)))
}

func TestStageCommit(t *testing.T) {
	c, err := NewCache(64)
	require.NoError(t, err)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	addr := pledge.BytesToAddress([]byte("account1"))
	key := pledge.BytesToBytes32([]byte("k"))

	st := New(db, c)
	require.NoError(t, st.SetBalance(addr, big.NewInt(10)))
	st.SetStorage(addr, key, pledge.BytesToBytes32([]byte("v")))
	require.NoError(t, st.EncodeStorage(addr, pledge.BytesToBytes32([]byte("list")), func() ([]byte, error) {
		return rlp.EncodeToBytes([]uint64{1, 2})
	}))

	// reverted changes are never committed
	chk := st.NewCheckpoint()
	require.NoError(t, st.SetBalance(pledge.BytesToAddress([]byte("other")), big.NewInt(5)))
	st.RevertTo(chk)

	stage := st.Stage()
	assert.Equal(t, 3, stage.Len())
	require.NoError(t, stage.Commit())

	// reopen without cache reads from store
	reopened := New(db, nil)
	assert.Equal(t, M(big.NewInt(10), nil), M(reopened.GetBalance(addr)))
	assert.Equal(t, M(pledge.BytesToBytes32([]byte("v")), nil), M(reopened.GetStorage(addr, key)))
	assert.Equal(t, M(new(big.Int), nil), M(reopened.GetBalance(pledge.BytesToAddress([]byte("other")))))

	var list []uint64
	require.NoError(t, reopened.DecodeStorage(addr, pledge.BytesToBytes32([]byte("list")), func(b []byte) error {
		return rlp.DecodeBytes(b, &list)
	}))
	assert.Equal(t, []uint64{1, 2}, list)

	// cached state sees committed value
	cached := New(db, c)
	assert.Equal(t, M(big.NewInt(10), nil), M(cached.GetBalance(addr)))
	hit, _ := c.Stats()
	assert.True(t, hit > 0)

	// zeroing deletes
	require.NoError(t, reopened.SetBalance(addr, new(big.Int)))
	reopened.SetStorage(addr, key, pledge.Bytes32{})
	require.NoError(t, reopened.Stage().Commit())
	has, err := db.Has(append([]byte("b"), addr.Bytes()...))
	require.NoError(t, err)
	assert.False(t, has)

}

func TestStageHash(t *testing.T) {
	a, _ := newTestState(t)
	b, _ := newTestState(t)

	addr1 := pledge.BytesToAddress([]byte("1"))
	addr2 := pledge.BytesToAddress([]byte("2"))

	require.NoError(t, a.SetBalance(addr1, big.NewInt(1)))
	require.NoError(t, a.SetBalance(addr2, big.NewInt(2)))
	require.NoError(t, b.SetBalance(addr2, big.NewInt(2)))
	require.NoError(t, b.SetBalance(addr1, big.NewInt(1)))
	assert.Equal(t, a.Stage().Hash(), b.Stage().Hash())

	require.NoError(t, b.SetBalance(addr1, big.NewInt(3)))
	assert.NotEqual(t, a.Stage().Hash(), b.Stage().Hash())
}
