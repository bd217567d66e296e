// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pborman/uuid"

	"github.com/vechain/pledge/log"
)

// RequestIDHeader carries the id correlating a response with the log entry of its request.
const RequestIDHeader = "X-Request-Id"

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestLoggerMiddleware returns a middleware logging requests. Every request is logged
// while enabled, otherwise only requests slower than the threshold and server errors are.
// A zero threshold disables slow request logging.
func RequestLoggerMiddleware(logger log.Logger, enabled *atomic.Bool, slowQueriesThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = uuid.New()
			}
			w.Header().Set(RequestIDHeader, reqID)

			// the body can be read only once, hand a copy to the next handler
			var bodyBytes []byte
			if r.Body != nil {
				var err error
				if bodyBytes, err = io.ReadAll(r.Body); err != nil {
					logger.Warn("unexpected body read error", "id", reqID, "err", err)
					http.Error(w, "unable to read body", http.StatusBadRequest)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			}

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			ctx := []any{
				"id", reqID,
				"method", r.Method,
				"uri", r.URL.String(),
				"status", sw.status,
				"durationMs", duration.Milliseconds(),
				"body", string(bodyBytes),
			}
			switch {
			case sw.status >= http.StatusInternalServerError:
				logger.Warn("api request failed", ctx...)
			case enabled.Load():
				logger.Info("api request", ctx...)
			case slowQueriesThreshold > 0 && duration > slowQueriesThreshold:
				logger.Info("slow api request", ctx...)
			}
		})
	}
}
