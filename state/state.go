// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/pledge/cache"
	"github.com/vechain/pledge/kv"
	"github.com/vechain/pledge/pledge"
	"github.com/vechain/pledge/stackedmap"
)

const (
	balanceBucket = kv.Bucket("b")
	storageBucket = kv.Bucket("s")
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Cache caches committed values. Every state opened on the same store must share it.
type Cache = cache.LRU[any, any]

// NewCache creates a cache of committed values.
func NewCache(size int) (*Cache, error) {
	return cache.NewLRU[any, any](size)
}

// State manages balances and contract storage.
type State struct {
	balances kv.Store
	storage  kv.Store
	cache    *Cache
	sm       *stackedmap.StackedMap
}

// New create state object. The cache is optional.
func New(store kv.Store, cache *Cache) *State {
	s := &State{
		balances: balanceBucket.NewStore(store),
		storage:  storageBucket.NewStore(store),
		cache:    cache,
	}
	s.sm = stackedmap.New(s.load)
	return s
}

type (
	balanceKey pledge.Address
	storageKey struct {
		addr pledge.Address
		key  pledge.Bytes32
	}
)

func (k storageKey) bytes() []byte {
	return append(k.addr.Bytes(), k.key[:]...)
}

// load implements stackedmap.MapGetter, reading committed values.
func (s *State) load(key any) (any, bool, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			metricCacheCounter().AddWithLabel(1, map[string]string{"event": "hit"})
			return v, true, nil
		}
		metricCacheCounter().AddWithLabel(1, map[string]string{"event": "miss"})
	}

	var (
		value any
		err   error
	)
	switch k := key.(type) {
	case balanceKey:
		value, err = s.loadBalance(pledge.Address(k))
	case storageKey:
		value, err = s.loadStorage(k)
	default:
		panic(fmt.Errorf("unexpected key type %+v", key))
	}
	if err != nil {
		return nil, false, err
	}
	if s.cache != nil {
		s.cache.Add(key, value)
	}
	return value, true, nil
}

func (s *State) loadBalance(addr pledge.Address) (*big.Int, error) {
	data, err := s.balances.Get(addr.Bytes())
	if err != nil {
		if s.balances.IsNotFound(err) {
			return new(big.Int), nil
		}
		return nil, err
	}
	var balance big.Int
	if err := rlp.DecodeBytes(data, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

func (s *State) loadStorage(k storageKey) (rlp.RawValue, error) {
	data, err := s.storage.Get(k.bytes())
	if err != nil {
		if s.storage.IsNotFound(err) {
			return rlp.RawValue(nil), nil
		}
		return nil, err
	}
	return rlp.RawValue(data), nil
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr pledge.Address) (*big.Int, error) {
	v, _, err := s.sm.Get(balanceKey(addr))
	if err != nil {
		return nil, &Error{err}
	}
	return new(big.Int).Set(v.(*big.Int)), nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr pledge.Address, balance *big.Int) error {
	if balance.Sign() < 0 {
		return &Error{fmt.Errorf("negative balance of %v", addr)}
	}
	s.sm.Put(balanceKey(addr), new(big.Int).Set(balance))
	return nil
}

// AddBalance increases the balance of addr.
func (s *State) AddBalance(addr pledge.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	bal, err := s.GetBalance(addr)
	if err != nil {
		return err
	}
	return s.SetBalance(addr, bal.Add(bal, amount))
}

// SubBalance decreases the balance of addr. It returns false without any change
// if the balance is insufficient.
func (s *State) SubBalance(addr pledge.Address, amount *big.Int) (bool, error) {
	if amount.Sign() == 0 {
		return true, nil
	}
	bal, err := s.GetBalance(addr)
	if err != nil {
		return false, err
	}
	if bal.Cmp(amount) < 0 {
		return false, nil
	}
	return true, s.SetBalance(addr, bal.Sub(bal, amount))
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr pledge.Address, key pledge.Bytes32) (pledge.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return pledge.Bytes32{}, err
	}
	if len(raw) == 0 {
		return pledge.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return pledge.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return pledge.Blake2b(raw), nil
	}
	return pledge.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr pledge.Address, key, value pledge.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr pledge.Address, key pledge.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr pledge.Address, key pledge.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr pledge.Address, key pledge.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr pledge.Address, key pledge.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage collects the final value of every changed key, ready to be committed.
func (s *State) Stage() *Stage {
	balances := make(map[pledge.Address]*big.Int)
	storage := make(map[storageKey]rlp.RawValue)

	s.sm.Journal(func(k, v any) bool {
		switch key := k.(type) {
		case balanceKey:
			balances[pledge.Address(key)] = v.(*big.Int)
		case storageKey:
			storage[key] = v.(rlp.RawValue)
		}
		return true
	})
	return &Stage{state: s, balances: balances, storage: storage}
}
