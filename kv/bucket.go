// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket provides logical bucket for kv store.
// Keys are prefixed with the bucket name.
type Bucket string

func (b Bucket) key(k []byte) []byte {
	return append(append(make([]byte, 0, len(b)+len(k)), b...), k...)
}

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{b, src}
}

type bucketStore struct {
	bucket Bucket
	src    Store
}

func (s *bucketStore) Get(key []byte) ([]byte, error) { return s.src.Get(s.bucket.key(key)) }
func (s *bucketStore) Has(key []byte) (bool, error)   { return s.src.Has(s.bucket.key(key)) }
func (s *bucketStore) IsNotFound(err error) bool      { return s.src.IsNotFound(err) }
func (s *bucketStore) Put(key, val []byte) error      { return s.src.Put(s.bucket.key(key), val) }
func (s *bucketStore) Delete(key []byte) error        { return s.src.Delete(s.bucket.key(key)) }

func (s *bucketStore) Bulk() Bulk {
	return &bucketBulk{s.bucket, s.src.Bulk()}
}

func (s *bucketStore) Iterate(r Range) Iterator {
	r.Start = s.bucket.key(r.Start)
	if len(r.Limit) == 0 {
		r.Limit = util.BytesPrefix([]byte(s.bucket)).Limit
	} else {
		r.Limit = s.bucket.key(r.Limit)
	}
	return &bucketIterator{s.src.Iterate(r), len(s.bucket)}
}

type bucketBulk struct {
	bucket Bucket
	src    Bulk
}

func (b *bucketBulk) Put(key, val []byte) error { return b.src.Put(b.bucket.key(key), val) }
func (b *bucketBulk) Delete(key []byte) error   { return b.src.Delete(b.bucket.key(key)) }
func (b *bucketBulk) Len() int                  { return b.src.Len() }
func (b *bucketBulk) Write() error              { return b.src.Write() }

type bucketIterator struct {
	Iterator
	prefixLen int
}

// Key strips the bucket.
func (it *bucketIterator) Key() []byte {
	return it.Iterator.Key()[it.prefixLen:]
}
