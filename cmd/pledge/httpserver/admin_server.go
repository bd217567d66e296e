// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/pledge/api/admin"
	"github.com/vechain/pledge/runtime"
)

func StartAdminServer(
	ctx context.Context,
	g *errgroup.Group,
	addr string,
	logLevel *slog.LevelVar,
	rt *runtime.Runtime,
	apiLogs *atomic.Bool,
) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", errors.Wrapf(err, "listen admin API addr [%v]", addr)
	}

	adminHandler := admin.NewHTTPHandler(logLevel, rt, apiLogs)

	srv := &http.Server{Handler: adminHandler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	serve(ctx, g, "admin", listener, srv)
	return "http://" + listener.Addr().String() + "/admin", nil
}
