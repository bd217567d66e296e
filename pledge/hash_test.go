// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pledge

import (
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func TestKeccak256(t *testing.T) {
	data := [][]byte{[]byte("pledge"), []byte("wake"), {}}

	assert.Equal(t, Bytes32(crypto.Keccak256Hash(data...)), Keccak256(data...))
	// reusable from the pool
	assert.Equal(t, Bytes32(crypto.Keccak256Hash(data...)), Keccak256(data...))

	empty := Keccak256()
	assert.Equal(t, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", hex.EncodeToString(empty[:]))
}

func TestBlake2b(t *testing.T) {
	one := Blake2b([]byte("ab"))
	split := Blake2b([]byte("a"), []byte("b"))
	assert.Equal(t, one, split)
	assert.NotEqual(t, one, Blake2b([]byte("ba")))
}
