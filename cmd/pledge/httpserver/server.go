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

	"github.com/vechain/pledge/log"
)

var logger = log.WithContext("pkg", "httpserver")

const shutdownTimeout = 5 * time.Second

// serve runs srv on listener within g until ctx is done.
func serve(ctx context.Context, g *errgroup.Group, name string, listener net.Listener, srv *http.Server) {
	g.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "serve %v", name)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("stopping server...", "name", name)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
		}
		return nil
	})
}
