// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/pledge/api"
	"github.com/vechain/pledge/runtime"
)

// StartAPIServer serves the REST api on addr until ctx is done.
func StartAPIServer(ctx context.Context, g *errgroup.Group, addr string, rt *runtime.Runtime, opts api.Options) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", errors.Wrapf(err, "listen API addr [%v]", addr)
	}

	srv := &http.Server{
		Handler:           api.NewHTTPHandler(rt, opts),
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	serve(ctx, g, "api", listener, srv)
	return "http://" + listener.Addr().String() + "/", nil
}
