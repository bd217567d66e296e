// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/pledge/builtin/solidity"
	"github.com/vechain/pledge/pledge"
)

var (
	slotFees   = pledge.BytesToBytes32([]byte("fee-vault"))
	slotLocked = pledge.BytesToBytes32([]byte("total-locked"))
)

// Service manages contract-wide balances: the penalty fee vault and the
// sum of stakes held by active locks.
type Service struct {
	fees   *solidity.Uint256
	locked *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		fees:   solidity.NewUint256(sctx, slotFees),
		locked: solidity.NewUint256(sctx, slotLocked),
	}
}

// Fees returns the accrued penalty fees.
func (s *Service) Fees() (*big.Int, error) {
	return s.fees.Get()
}

// Credit adds a penalty to the fee vault.
func (s *Service) Credit(amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative credit")
	}
	return s.fees.Add(amount)
}

// Drain empties the fee vault and returns what it held.
func (s *Service) Drain() (*big.Int, error) {
	balance, err := s.fees.Get()
	if err != nil {
		return nil, err
	}
	s.fees.Set(new(big.Int))
	return balance, nil
}

// Locked returns the total stake held by active locks.
func (s *Service) Locked() (*big.Int, error) {
	return s.locked.Get()
}

func (s *Service) Lock(amount *big.Int) error {
	return s.locked.Add(amount)
}

func (s *Service) Unlock(amount *big.Int) error {
	if err := s.locked.Sub(amount); err != nil {
		return errors.Wrap(err, "total locked")
	}
	return nil
}
