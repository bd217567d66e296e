// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/pledge/api/admin/apilogs"
	"github.com/vechain/pledge/api/admin/loglevel"
	"github.com/vechain/pledge/api/admin/operator"
	"github.com/vechain/pledge/runtime"
)

func NewHTTPHandler(logLevel *slog.LevelVar, rt *runtime.Runtime, apiLogs *atomic.Bool) http.HandlerFunc {
	router := mux.NewRouter()
	subRouter := router.PathPrefix("/admin").Subrouter()

	loglevel.New(logLevel).Mount(subRouter, "/loglevel")
	apilogs.New(apiLogs).Mount(subRouter, "/apilogs")
	operator.New(rt).Mount(subRouter, "/contract")

	handler := handlers.CompressHandler(router)

	return handler.ServeHTTP
}
