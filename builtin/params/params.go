// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/pledge/pledge"
	"github.com/vechain/pledge/state"
)

// Params binder of `Params` contract.
type Params struct {
	addr  pledge.Address
	state *state.State
}

func New(addr pledge.Address, state *state.State) *Params {
	return &Params{addr, state}
}

// Get native way to get param.
func (p *Params) Get(key pledge.Bytes32) (*big.Int, error) {
	var v big.Int
	err := p.state.DecodeStorage(p.addr, key, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &v)
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Set native way to set param.
func (p *Params) Set(key pledge.Bytes32, value *big.Int) error {
	return p.state.EncodeStorage(p.addr, key, func() ([]byte, error) {
		if value.Sign() == 0 {
			return nil, nil
		}
		return rlp.EncodeToBytes(value)
	})
}
