// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"time"

	xglog "github.com/edreports/attrep/internal/log"
)

// Logging emits one structured access log line per request with method,
// path, status, size and latency, correlated via the request ID.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lw := &metricsWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(lw, r)

		logger := xglog.WithComponentFromContext(r.Context(), "http")
		event := logger.Info()
		if lw.statusCode >= 500 {
			event = logger.Error()
		} else if lw.statusCode >= 400 {
			event = logger.Warn()
		}
		event.
			Str(xglog.FieldEvent, "http.request").
			Str("method", r.Method).
			Str(xglog.FieldPath, r.URL.Path).
			Int("status", lw.statusCode).
			Int("bytes", lw.bytesWritten).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("request completed")
	})
}
