// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"io"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/pledge/pledge"
)

// Stage abstracts changes made on a state.
type Stage struct {
	state    *State
	balances map[pledge.Address]*big.Int
	storage  map[storageKey]rlp.RawValue
}

// Len returns the count of changed entries.
func (s *Stage) Len() int {
	return len(s.balances) + len(s.storage)
}

// Hash computes a digest of all changes, independent of change order.
func (s *Stage) Hash() pledge.Bytes32 {
	keys := make([][]byte, 0, s.Len())
	values := make(map[string][]byte, s.Len())
	for addr, bal := range s.balances {
		k := append([]byte("b"), addr.Bytes()...)
		keys = append(keys, k)
		values[string(k)] = bal.Bytes()
	}
	for sk, raw := range s.storage {
		k := append([]byte("s"), sk.bytes()...)
		keys = append(keys, k)
		values[string(k)] = raw
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })

	return pledge.Blake2bFn(func(w io.Writer) {
		for _, k := range keys {
			w.Write(k)
			w.Write(pledge.Blake2b(values[string(k)]).Bytes())
		}
	})
}

// Commit writes all changes into the underlying store atomically.
func (s *Stage) Commit() error {
	bulk := s.state.balances.Bulk()
	for addr, bal := range s.balances {
		if bal.Sign() == 0 {
			if err := bulk.Delete(addr.Bytes()); err != nil {
				return err
			}
			continue
		}
		data, err := rlp.EncodeToBytes(bal)
		if err != nil {
			return errors.Wrap(err, "encode balance")
		}
		if err := bulk.Put(addr.Bytes(), data); err != nil {
			return err
		}
	}
	for k, raw := range s.storage {
		var err error
		if len(raw) == 0 {
			err = bulk.Delete(k.bytes())
		} else {
			err = bulk.Put(k.bytes(), raw)
		}
		if err != nil {
			return err
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "commit state")
	}

	if c := s.state.cache; c != nil {
		for addr, bal := range s.balances {
			c.Add(balanceKey(addr), bal)
		}
		for k, raw := range s.storage {
			c.Add(k, raw)
		}
	}
	return nil
}
