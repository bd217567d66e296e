// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lock

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/pledge/builtin/solidity"
	"github.com/vechain/pledge/builtin/staker/bucket"
	"github.com/vechain/pledge/pledge"
)

var (
	slotLocks     = pledge.BytesToBytes32([]byte("locks"))
	slotOccupancy = pledge.BytesToBytes32([]byte("occupancy"))
	slotClaims    = pledge.BytesToBytes32([]byte("claims"))
	slotNextID    = pledge.BytesToBytes32([]byte("next-lock-id"))
)

type id uint64

func (i id) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(i))
}

// occupancyKey returns the key of (user, bucket).
func occupancyKey(user pledge.Address, b bucket.Bucket) pledge.Bytes32 {
	return pledge.Blake2b(user.Bytes(), b.Bytes())
}

// claimKey returns the key of (user, id).
func claimKey(user pledge.Address, lockID uint64) pledge.Bytes32 {
	return pledge.Blake2b(user.Bytes(), id(lockID).Bytes())
}

// Service is the lock registry: locks by id, occupancy by (user, bucket), claims by (user, id).
type Service struct {
	locks     *solidity.Mapping[id, *Lock]
	occupancy *solidity.Mapping[pledge.Bytes32, bool]
	claims    *solidity.Mapping[pledge.Bytes32, bool]
	nextID    *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		locks:     solidity.NewMapping[id, *Lock](sctx, slotLocks),
		occupancy: solidity.NewMapping[pledge.Bytes32, bool](sctx, slotOccupancy),
		claims:    solidity.NewMapping[pledge.Bytes32, bool](sctx, slotClaims),
		nextID:    solidity.NewUint256(sctx, slotNextID),
	}
}

// Get returns the lock by id regardless of owner. An unknown id yields an empty lock.
func (s *Service) Get(lockID uint64) (*Lock, error) {
	l, err := s.locks.Get(id(lockID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get lock")
	}
	if l.Stake == nil {
		l.Stake = new(big.Int)
	}
	return l, nil
}

// GetOwned returns the lock only if owned by user, otherwise an empty lock.
func (s *Service) GetOwned(user pledge.Address, lockID uint64) (*Lock, error) {
	l, err := s.Get(lockID)
	if err != nil {
		return nil, err
	}
	if l.Owner != user {
		return &Lock{Stake: new(big.Int)}, nil
	}
	return l, nil
}

// Set stores the lock under its id.
func (s *Service) Set(l *Lock) error {
	if l.ID == 0 {
		return errors.New("lock id must be positive")
	}
	if err := s.locks.Set(id(l.ID), l); err != nil {
		return errors.Wrap(err, "failed to set lock")
	}
	return nil
}

// NextID returns the id the next created lock receives. Ids start at 1.
func (s *Service) NextID() (uint64, error) {
	n, err := s.nextID.Get()
	if err != nil {
		return 0, err
	}
	if n.Sign() == 0 {
		return 1, nil
	}
	return n.Uint64(), nil
}

// AllocateID consumes and returns the next id.
func (s *Service) AllocateID() (uint64, error) {
	next, err := s.NextID()
	if err != nil {
		return 0, err
	}
	s.nextID.Set(new(big.Int).SetUint64(next + 1))
	return next, nil
}

func (s *Service) IsOccupied(user pledge.Address, b bucket.Bucket) (bool, error) {
	return s.occupancy.Get(occupancyKey(user, b))
}

func (s *Service) SetOccupied(user pledge.Address, b bucket.Bucket, occupied bool) error {
	if !occupied {
		s.occupancy.Delete(occupancyKey(user, b))
		return nil
	}
	return s.occupancy.Set(occupancyKey(user, b), true)
}

func (s *Service) IsClaimed(user pledge.Address, lockID uint64) (bool, error) {
	return s.claims.Get(claimKey(user, lockID))
}

// MarkClaimed sets the claim flag. It is never cleared.
func (s *Service) MarkClaimed(user pledge.Address, lockID uint64) error {
	return s.claims.Set(claimKey(user, lockID), true)
}
