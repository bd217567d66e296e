// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/pledge/api/types"
	"github.com/vechain/pledge/api/utils"
	"github.com/vechain/pledge/builtin/staker"
	"github.com/vechain/pledge/runtime"
)

type Accounts struct {
	rt      *runtime.Runtime
	devMode bool
}

func New(rt *runtime.Runtime, devMode bool) *Accounts {
	return &Accounts{rt: rt, devMode: devMode}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	balance, err := a.rt.Balance(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &types.Account{Balance: types.Hex256(balance)})
}

// handleGetContract responds the deployment and ledger summary of the staking contract.
func (a *Accounts) handleGetContract(w http.ResponseWriter, _ *http.Request) error {
	var out *types.Contract
	if err := a.rt.View(func(s *staker.Staker) error {
		next, err := s.NextLockID()
		if err != nil {
			return err
		}
		locked, err := s.TotalLocked()
		if err != nil {
			return err
		}
		out = &types.Contract{
			Address:       s.Address(),
			Admin:         s.Admin(),
			TrustedSigner: s.TrustedSigner(),
			Policy:        s.Policy().Name(),
			MinStakeUSD:   types.Hex256(s.MinStakeUSD()),
			NextLockID:    next,
			TotalLocked:   types.Hex256(locked),
		}
		return nil
	}); err != nil {
		return err
	}
	balance, err := a.rt.Balance(out.Address)
	if err != nil {
		return err
	}
	out.Balance = types.Hex256(balance)
	out.Now = a.rt.Now()
	return utils.WriteJSON(w, out)
}

type faucetRequest struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

func (a *Accounts) handleFaucet(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var body faucetRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.rt.Faucet(addr, types.BigInt(body.Amount)); err != nil {
		return err
	}
	balance, err := a.rt.Balance(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &types.Account{Balance: types.Hex256(balance)})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/contract").
		Methods(http.MethodGet).
		Name("GET /accounts/contract").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetContract))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))

	if a.devMode {
		sub.Path("/{address}/faucet").
			Methods(http.MethodPost).
			Name("POST /accounts/{address}/faucet").
			HandlerFunc(utils.WrapHandlerFunc(a.handleFaucet))
	}
}
