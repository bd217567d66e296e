// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pledge

import (
	"hash"
	"io"
	"sync"

	"github.com/ethereum/go-ethereum/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// hasherPool recycles hash states producing 32 byte digests.
type hasherPool struct {
	pool sync.Pool
}

func newHasherPool(fn func() hash.Hash) *hasherPool {
	return &hasherPool{pool: sync.Pool{New: func() any { return fn() }}}
}

func (p *hasherPool) sum(fn func(w io.Writer)) (h Bytes32) {
	hasher := p.pool.Get().(hash.Hash)
	fn(hasher)
	hasher.Sum(h[:0])
	hasher.Reset()
	p.pool.Put(hasher)
	return
}

var (
	keccakHashers  = newHasherPool(sha3.NewLegacyKeccak256)
	blake2bHashers = newHasherPool(func() hash.Hash {
		h, _ := blake2b.New256(nil)
		return h
	})
)

func writeAll(data [][]byte) func(w io.Writer) {
	return func(w io.Writer) {
		for _, b := range data {
			w.Write(b)
		}
	}
}

// Keccak256 computes the legacy keccak-256 digest of the concatenated data.
func Keccak256(data ...[]byte) Bytes32 {
	return keccakHashers.sum(writeAll(data))
}

// Blake2b computes the blake2b-256 digest of the concatenated data.
func Blake2b(data ...[]byte) Bytes32 {
	return blake2bHashers.sum(writeAll(data))
}

// Blake2bFn computes the blake2b-256 digest of whatever fn writes.
func Blake2bFn(fn func(w io.Writer)) Bytes32 {
	return blake2bHashers.sum(fn)
}
