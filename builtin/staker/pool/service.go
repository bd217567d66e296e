// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/pledge/builtin/solidity"
	"github.com/vechain/pledge/builtin/staker/bucket"
	"github.com/vechain/pledge/builtin/staker/reverts"
	"github.com/vechain/pledge/pledge"
)

var slotPools = pledge.BytesToBytes32([]byte("pools"))

// Service maintains per-bucket pool aggregates.
type Service struct {
	pools *solidity.Mapping[bucket.Bucket, *Pool]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		pools: solidity.NewMapping[bucket.Bucket, *Pool](sctx, slotPools),
	}
}

// Get returns the pool of the bucket, zero-valued if never referenced.
func (s *Service) Get(b bucket.Bucket) (*Pool, error) {
	p, err := s.pools.Get(b)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool")
	}
	if p.TotalStaked == nil {
		p.TotalStaked = new(big.Int)
	}
	return p, nil
}

func (s *Service) set(b bucket.Bucket, p *Pool) error {
	if err := s.pools.Set(b, p); err != nil {
		return errors.Wrap(err, "failed to set pool")
	}
	return nil
}

// IsFinalized reports whether the pool of the bucket is closed.
func (s *Service) IsFinalized(b bucket.Bucket) (bool, error) {
	p, err := s.Get(b)
	if err != nil {
		return false, err
	}
	return p.Finalized, nil
}

// Join attributes a stake to the pool.
func (s *Service) Join(b bucket.Bucket, stake *big.Int) error {
	p, err := s.Get(b)
	if err != nil {
		return err
	}
	p.TotalStaked.Add(p.TotalStaked, stake)
	p.Participants++
	return s.set(b, p)
}

// Leave removes a previously attributed stake from the pool.
func (s *Service) Leave(b bucket.Bucket, stake *big.Int) error {
	p, err := s.Get(b)
	if err != nil {
		return err
	}
	if p.Participants == 0 || p.TotalStaked.Cmp(stake) < 0 {
		return errors.Errorf("pool %v underflow", b)
	}
	p.TotalStaked.Sub(p.TotalStaked, stake)
	p.Participants--
	return s.set(b, p)
}

// Restake replaces an attributed stake in place, keeping the participant count.
func (s *Service) Restake(b bucket.Bucket, oldStake, newStake *big.Int) error {
	p, err := s.Get(b)
	if err != nil {
		return err
	}
	if p.TotalStaked.Cmp(oldStake) < 0 {
		return errors.Errorf("pool %v underflow", b)
	}
	p.TotalStaked.Sub(p.TotalStaked, oldStake)
	p.TotalStaked.Add(p.TotalStaked, newStake)
	return s.set(b, p)
}

// Finalize closes the pool and attaches the reward root. It happens once per pool.
func (s *Service) Finalize(b bucket.Bucket, root pledge.Bytes32) error {
	if root.IsZero() {
		return reverts.ErrEmptyRoot
	}
	p, err := s.Get(b)
	if err != nil {
		return err
	}
	if p.Finalized {
		return reverts.ErrPoolFinalized
	}
	p.Finalized = true
	p.RewardRoot = root
	return s.set(b, p)
}
