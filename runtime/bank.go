// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/pledge/builtin/staker"
	"github.com/vechain/pledge/builtin/staker/reverts"
	"github.com/vechain/pledge/logdb"
	"github.com/vechain/pledge/pledge"
	"github.com/vechain/pledge/state"
)

// Hook is code run by a contract-like recipient when it receives value. It may
// call back into the contract and reject the transfer by returning an error.
type Hook func(s *staker.Staker, from pledge.Address, amount *big.Int) error

// bank moves balances within the state of one call and records the transfers.
type bank struct {
	state     *state.State
	hooks     map[pledge.Address]Hook
	staker    *staker.Staker
	transfers []*logdb.Transfer
}

func (b *bank) Transfer(from, to pledge.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative amount")
	}
	ok, err := b.state.SubBalance(from, amount)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrInsufficientFunds
	}
	if err := b.state.AddBalance(to, amount); err != nil {
		return err
	}

	n := len(b.transfers)
	b.transfers = append(b.transfers, &logdb.Transfer{
		Sender:    from,
		Recipient: to,
		Amount:    new(big.Int).Set(amount),
	})
	if hook := b.hooks[to]; hook != nil {
		if err := hook(b.staker, from, amount); err != nil {
			b.transfers = b.transfers[:n]
			return err
		}
	}
	return nil
}
