// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locks

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/pledge/api/types"
	"github.com/vechain/pledge/api/utils"
	"github.com/vechain/pledge/builtin/staker"
	"github.com/vechain/pledge/builtin/staker/slashing"
	"github.com/vechain/pledge/runtime"
)

type Locks struct {
	rt      *runtime.Runtime
	devMode bool
}

// New creates the locks api. Write operations are mounted in dev mode only,
// the caller being taken from the request body.
func New(rt *runtime.Runtime, devMode bool) *Locks {
	return &Locks{rt: rt, devMode: devMode}
}

func (l *Locks) handleGetLock(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req, "owner")
	if err != nil {
		return err
	}
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}

	var out *types.Lock
	if err := l.rt.View(func(s *staker.Staker) error {
		lk, err := s.GetLock(owner, id)
		if err != nil {
			return err
		}
		if lk.IsEmpty() {
			return nil
		}
		claimed, err := s.IsClaimed(owner, id)
		if err != nil {
			return err
		}
		out = types.ConvertLock(lk, claimed)
		return nil
	}); err != nil {
		return err
	}
	if out == nil {
		return utils.NotFound(errors.New("lock not found"))
	}
	return utils.WriteJSON(w, out)
}

func (l *Locks) handleNextID(w http.ResponseWriter, _ *http.Request) error {
	var next uint64
	if err := l.rt.View(func(s *staker.Staker) (err error) {
		next, err = s.NextLockID()
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"nextLockID": next})
}

func (l *Locks) handleCreate(w http.ResponseWriter, req *http.Request) error {
	var body CreateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Caller == nil || body.Value == nil {
		return utils.BadRequest(errors.New("body: caller and value are required"))
	}
	id, err := l.rt.CreateLock(*body.Caller, types.BigInt(body.Value), body.CommitmentTime, body.Duration)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"id": id})
}

func (l *Locks) handleEdit(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body EditRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Caller == nil || body.Value == nil {
		return utils.BadRequest(errors.New("body: caller and value are required"))
	}
	if err := l.rt.EditLock(*body.Caller, types.BigInt(body.Value), id, body.CommitmentTime); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"id": id})
}

func (l *Locks) handleDelete(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body CallerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Caller == nil {
		return utils.BadRequest(errors.New("body: caller is required"))
	}
	if err := l.rt.DeleteLock(*body.Caller, id); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"id": id})
}

func (l *Locks) handleClaim(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body ClaimRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Caller == nil {
		return utils.BadRequest(errors.New("body: caller is required"))
	}
	payout, err := l.rt.Claim(
		*body.Caller,
		id,
		slashing.Severity(body.Severity),
		body.Signature,
		types.BigInt(body.Reward),
		body.Proof,
	)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"payout": types.Hex256(payout)})
}

func (l *Locks) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/next-id").
		Methods(http.MethodGet).
		Name("GET /locks/next-id").
		HandlerFunc(utils.WrapHandlerFunc(l.handleNextID))
	sub.Path("/{owner}/{id:[0-9]+}").
		Methods(http.MethodGet).
		Name("GET /locks/{owner}/{id}").
		HandlerFunc(utils.WrapHandlerFunc(l.handleGetLock))

	if !l.devMode {
		return
	}
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /locks").
		HandlerFunc(utils.WrapHandlerFunc(l.handleCreate))
	sub.Path("/{id:[0-9]+}").
		Methods(http.MethodPut).
		Name("PUT /locks/{id}").
		HandlerFunc(utils.WrapHandlerFunc(l.handleEdit))
	sub.Path("/{id:[0-9]+}").
		Methods(http.MethodDelete).
		Name("DELETE /locks/{id}").
		HandlerFunc(utils.WrapHandlerFunc(l.handleDelete))
	sub.Path("/{id:[0-9]+}/claim").
		Methods(http.MethodPost).
		Name("POST /locks/{id}/claim").
		HandlerFunc(utils.WrapHandlerFunc(l.handleClaim))
}
