// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/vechain/pledge/builtin/solidity"
	"github.com/vechain/pledge/pledge"
)

var (
	slotAdmin  = nameToSlot("admin")
	slotSigner = nameToSlot("trusted-signer")
	slotPolicy = nameToSlot("policy")
)

func nameToSlot(name string) pledge.Bytes32 {
	return pledge.BytesToBytes32([]byte(name))
}

// storage holds the construction parameters of the contract.
type storage struct {
	admin  *solidity.Address
	signer *solidity.Address
	policy *solidity.Bytes32
}

func newStorage(sctx *solidity.Context) *storage {
	return &storage{
		admin:  solidity.NewAddress(sctx, slotAdmin),
		signer: solidity.NewAddress(sctx, slotSigner),
		policy: solidity.NewBytes32(sctx, slotPolicy),
	}
}

type params struct {
	admin  pledge.Address
	signer pledge.Address
	policy pledge.Bytes32
}

func (s *storage) load() (*params, error) {
	admin, err := s.admin.Get()
	if err != nil {
		return nil, err
	}
	signer, err := s.signer.Get()
	if err != nil {
		return nil, err
	}
	policy, err := s.policy.Get()
	if err != nil {
		return nil, err
	}
	return &params{admin, signer, policy}, nil
}

func (s *storage) save(p *params) {
	s.admin.Set(p.admin)
	s.signer.Set(p.signer)
	s.policy.Set(p.policy)
}

func (p *params) isEmpty() bool {
	return p.admin.IsZero() && p.signer.IsZero() && p.policy.IsZero()
}
