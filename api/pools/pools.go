// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/pledge/api/types"
	"github.com/vechain/pledge/api/utils"
	"github.com/vechain/pledge/builtin/staker"
	"github.com/vechain/pledge/builtin/staker/bucket"
	"github.com/vechain/pledge/runtime"
)

type Pools struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Pools {
	return &Pools{rt}
}

func (p *Pools) writePool(w http.ResponseWriter, b bucket.Bucket) error {
	var out *types.Pool
	if err := p.rt.View(func(s *staker.Staker) error {
		pl, err := s.GetPool(b)
		if err != nil {
			return err
		}
		out = types.ConvertPool(b, pl)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	b, err := utils.BucketVar(req)
	if err != nil {
		return err
	}
	return p.writePool(w, b)
}

// handleGetPoolAt responds the pool of the bucket containing the timestamp.
func (p *Pools) handleGetPoolAt(w http.ResponseWriter, req *http.Request) error {
	ts, err := strconv.ParseUint(mux.Vars(req)["timestamp"], 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "timestamp"))
	}
	return p.writePool(w, bucket.Of(ts))
}

func (p *Pools) handleGetOccupancy(w http.ResponseWriter, req *http.Request) error {
	b, err := utils.BucketVar(req)
	if err != nil {
		return err
	}
	user, err := utils.AddressVar(req, "user")
	if err != nil {
		return err
	}
	var occupied bool
	if err := p.rt.View(func(s *staker.Staker) (err error) {
		occupied, err = s.IsOccupied(user, b)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"occupied": occupied})
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/at/{timestamp:[0-9]+}").
		Methods(http.MethodGet).
		Name("GET /pools/at/{timestamp}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPoolAt))
	sub.Path("/{day:[0-9]+}/{period}").
		Methods(http.MethodGet).
		Name("GET /pools/{day}/{period}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{day:[0-9]+}/{period}/occupancy/{user}").
		Methods(http.MethodGet).
		Name("GET /pools/{day}/{period}/occupancy/{user}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetOccupancy))
}
