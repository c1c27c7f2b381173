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

	"github.com/google/uuid"

	"github.com/unfoldfi/unfold/log"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-Id"

// RequestLoggerMiddleware returns a middleware to ensure requests are syphoned into the writer
func RequestLoggerMiddleware(logger log.Logger, enabled *atomic.Bool, slowQueriesThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			// If api logging is not enabled and slow queries threshold is set to 0, api logs won't be recorded
			if !enabled.Load() && slowQueriesThreshold == time.Duration(0) {
				next.ServeHTTP(w, r)
				return
			}
			var bodyBytes []byte
			var err error
			if r.Body != nil {
				bodyBytes, err = io.ReadAll(r.Body)
				if err != nil {
					logger.Warn("unexpected body read error", "id", id, "err", err)
					return // don't pass bad request to the next handler
				}
				r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			}

			start := time.Now()
			next.ServeHTTP(w, r)

			duration := time.Since(start)
			if enabled.Load() || (slowQueriesThreshold > 0 && duration > slowQueriesThreshold) {
				logger.Info("API Request",
					"id", id,
					"DurationMs", duration.Milliseconds(),
					"URI", r.URL.String(),
					"Method", r.Method,
					"Body", string(bodyBytes),
				)
			}
		})
	}
}
