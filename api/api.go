// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/pledge/api/accounts"
	"github.com/vechain/pledge/api/events"
	"github.com/vechain/pledge/api/locks"
	"github.com/vechain/pledge/api/middleware"
	"github.com/vechain/pledge/api/pools"
	"github.com/vechain/pledge/api/transfers"
	"github.com/vechain/pledge/log"
	"github.com/vechain/pledge/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins string
	PprofOn        bool
	SkipLogs       bool
	EnableMetrics  bool
	LogsLimit      uint64
	// DevMode mounts the write operations, taking the caller from the request body.
	DevMode bool
	// EnableReqLogger toggles request logging at runtime.
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
}

// NewHTTPHandler return api router
func NewHTTPHandler(rt *runtime.Runtime, opts Options) http.Handler {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(rt, opts.DevMode).
		Mount(router, "/accounts")
	locks.New(rt, opts.DevMode).
		Mount(router, "/locks")
	pools.New(rt).
		Mount(router, "/pools")

	if !opts.SkipLogs {
		events.New(rt.LogDB(), opts.LogsLimit).
			Mount(router, "/logs/event")
		transfers.New(rt.LogDB(), opts.LogsLimit).
			Mount(router, "/logs/transfer")
	}

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	reqLogs := opts.EnableReqLogger
	if reqLogs == nil {
		reqLogs = &atomic.Bool{}
	}
	router.Use(middleware.RequestLoggerMiddleware(logger, reqLogs, opts.SlowQueriesThreshold))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"content-type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader}),
	)(handler)

	return handler
}
