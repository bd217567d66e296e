// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/pledge/api/types"
	"github.com/vechain/pledge/api/utils"
	"github.com/vechain/pledge/builtin/staker"
	"github.com/vechain/pledge/logdb"
)

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Events {
	return &Events{
		db,
		logsLimit,
	}
}

// Filter query events with option
func (e *Events) filter(ctx context.Context, ef *types.EventFilter) ([]*types.FilteredEvent, error) {
	criteria := make([]*logdb.EventCriteria, len(ef.CriteriaSet))
	for i, c := range ef.CriteriaSet {
		criteria[i] = &logdb.EventCriteria{
			Kind:   c.Kind,
			User:   c.User,
			LockID: c.LockID,
			Day:    c.Day,
			Period: c.Period,
		}
	}
	events, err := e.db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: criteria,
		Range:       types.ConvertRange(ef.Range),
		Options: &logdb.Options{
			Offset: ef.Options.Offset,
			Limit:  ef.Options.Limit,
		},
		Order: ef.Order,
	})
	if err != nil {
		return nil, err
	}
	fes := make([]*types.FilteredEvent, len(events))
	for i, ev := range events {
		fes[i] = types.ConvertEvent(ev)
	}
	return fes, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter types.EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if filter.Options != nil && filter.Options.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	if filter.Range != nil && filter.Range.From != nil && filter.Range.To != nil && *filter.Range.From > *filter.Range.To {
		return utils.BadRequest(errors.New("filter.Range.To must be greater than or equal to filter.Range.From"))
	}
	if filter.Order != "" && filter.Order != logdb.ASC && filter.Order != logdb.DESC {
		return utils.BadRequest(fmt.Errorf("invalid order %q", filter.Order))
	}
	for i, criterion := range filter.CriteriaSet {
		if criterion == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
		if criterion.Kind != nil {
			if _, ok := staker.ParseEventKind(*criterion.Kind); !ok {
				return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: unknown kind %q", i, *criterion.Kind))
			}
		}
	}
	if filter.Options == nil {
		// the default limit +1 detects whether there are more logs than the limit
		filter.Options = &types.Options{
			Offset: 0,
			Limit:  e.limit + 1,
		}
	}

	fes, err := e.filter(req.Context(), &filter)
	if err != nil {
		return err
	}
	if len(fes) > int(e.limit) {
		return utils.Forbidden(fmt.Errorf("the number of filtered logs exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}
	return utils.WriteJSON(w, fes)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /logs/event").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
