// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/pledge/pledge"
)

// MerkleLeaf computes the reward leaf of an account, keccak256(keccak256(addr ‖ uint256(amount))).
// The double hash keeps leaves distinguishable from inner nodes.
// A negative amount or one wider than 256 bits has no leaf, the zero hash is returned
// and no tree or proof accepts it.
func MerkleLeaf(addr pledge.Address, amount *big.Int) pledge.Bytes32 {
	var word [32]byte
	if amount != nil {
		if amount.Sign() < 0 {
			return pledge.Bytes32{}
		}
		u, overflow := uint256.FromBig(amount)
		if overflow {
			return pledge.Bytes32{}
		}
		word = u.Bytes32()
	}
	inner := pledge.Keccak256(addr[:], word[:])
	return pledge.Keccak256(inner[:])
}

// VerifyMerkleProof folds the leaf with every proof element, hashing each pair in
// sorted order, and reports whether the result equals the root.
func VerifyMerkleProof(proof []pledge.Bytes32, root, leaf pledge.Bytes32) bool {
	if leaf.IsZero() {
		return false
	}
	computed := leaf
	for _, node := range proof {
		computed = hashPair(computed, node)
	}
	return computed == root
}

func hashPair(a, b pledge.Bytes32) pledge.Bytes32 {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return pledge.Keccak256(a[:], b[:])
}

// MerkleTree is a sorted-pair tree over a fixed set of leaves.
// An odd node at the end of a level is promoted unchanged.
type MerkleTree struct {
	levels [][]pledge.Bytes32
	index  map[pledge.Bytes32]int
}

// NewMerkleTree builds a tree. Leaves are sorted first so the root does not
// depend on input order.
func NewMerkleTree(leaves []pledge.Bytes32) (*MerkleTree, error) {
	if len(leaves) == 0 {
		return nil, errors.New("no leaves")
	}
	sorted := make([]pledge.Bytes32, len(leaves))
	copy(sorted, leaves)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})

	index := make(map[pledge.Bytes32]int, len(sorted))
	for i, leaf := range sorted {
		if leaf.IsZero() {
			return nil, errors.New("zero leaf")
		}
		if _, ok := index[leaf]; ok {
			return nil, errors.Errorf("duplicated leaf %v", leaf)
		}
		index[leaf] = i
	}

	levels := [][]pledge.Bytes32{sorted}
	for level := sorted; len(level) > 1; {
		next := make([]pledge.Bytes32, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
			} else {
				next = append(next, hashPair(level[i], level[i+1]))
			}
		}
		levels = append(levels, next)
		level = next
	}
	return &MerkleTree{levels: levels, index: index}, nil
}

// Root returns the tree root.
func (t *MerkleTree) Root() pledge.Bytes32 {
	return t.levels[len(t.levels)-1][0]
}

// Proof returns the sibling path of the leaf.
func (t *MerkleTree) Proof(leaf pledge.Bytes32) ([]pledge.Bytes32, error) {
	i, ok := t.index[leaf]
	if !ok {
		return nil, errors.Errorf("leaf %v not in tree", leaf)
	}
	var proof []pledge.Bytes32
	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := i ^ 1
		if sibling < len(level) {
			proof = append(proof, level[sibling])
		}
		i /= 2
	}
	return proof, nil
}
