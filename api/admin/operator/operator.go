// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package operator exposes the admin-only contract operations. Requests are
// made on behalf of the configured admin account, access being restricted by
// the listener the admin server is bound to.
package operator

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/pledge/api/types"
	"github.com/vechain/pledge/api/utils"
	"github.com/vechain/pledge/builtin/staker"
	"github.com/vechain/pledge/pledge"
	"github.com/vechain/pledge/runtime"
)

type FinalizeRequest struct {
	Root *pledge.Bytes32 `json:"root"`
}

type ParamRequest struct {
	Key   string                `json:"key"`
	Value *math.HexOrDecimal256 `json:"value"`
}

type Operator struct {
	rt    *runtime.Runtime
	admin pledge.Address
}

func New(rt *runtime.Runtime) *Operator {
	return &Operator{rt: rt, admin: rt.Options().Admin}
}

func (o *Operator) handleGetFees(w http.ResponseWriter, _ *http.Request) error {
	var fees *big.Int
	if err := o.rt.View(func(s *staker.Staker) (err error) {
		fees, err = s.FeeBalance(o.admin)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"balance": types.Hex256(fees)})
}

func (o *Operator) handleSweep(w http.ResponseWriter, _ *http.Request) error {
	amount, err := o.rt.Sweep(o.admin)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"amount": types.Hex256(amount)})
}

func (o *Operator) handleFinalize(w http.ResponseWriter, req *http.Request) error {
	b, err := utils.BucketVar(req)
	if err != nil {
		return err
	}
	var body FinalizeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Root == nil {
		return utils.BadRequest(errors.New("body: root is required"))
	}
	if err := o.rt.Finalize(o.admin, b, *body.Root); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"bucket": types.ConvertBucket(b), "root": body.Root})
}

func (o *Operator) handleGetParam(w http.ResponseWriter, req *http.Request) error {
	key := mux.Vars(req)["key"]
	value, err := o.rt.Param(pledge.BytesToBytes32([]byte(key)))
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"key": key, "value": types.Hex256(value)})
}

func (o *Operator) handleSetParam(w http.ResponseWriter, req *http.Request) error {
	var body ParamRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Key == "" || len(body.Key) > 32 {
		return utils.BadRequest(errors.New("body: key must be 1 to 32 bytes"))
	}
	if err := o.rt.SetParam(o.admin, pledge.BytesToBytes32([]byte(body.Key)), types.BigInt(body.Value)); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"key": body.Key, "value": body.Value})
}

func (o *Operator) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/fees").
		Methods(http.MethodGet).
		Name("get-fees").
		HandlerFunc(utils.WrapHandlerFunc(o.handleGetFees))
	sub.Path("/fees/sweep").
		Methods(http.MethodPost).
		Name("post-fees-sweep").
		HandlerFunc(utils.WrapHandlerFunc(o.handleSweep))
	sub.Path("/pools/{day:[0-9]+}/{period}/finalize").
		Methods(http.MethodPost).
		Name("post-pool-finalize").
		HandlerFunc(utils.WrapHandlerFunc(o.handleFinalize))
	sub.Path("/params/{key}").
		Methods(http.MethodGet).
		Name("get-param").
		HandlerFunc(utils.WrapHandlerFunc(o.handleGetParam))
	sub.Path("/params").
		Methods(http.MethodPost).
		Name("post-param").
		HandlerFunc(utils.WrapHandlerFunc(o.handleSetParam))
}
