// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"time"

	"github.com/go-strut/strut/log"
)

// Logging returns a middleware that emits one structured log line per
// request. The level escalates with the response status: 5xx logs at
// error, 4xx at warn, everything else at info.
func Logging() func(http.Handler) http.Handler {
	logger := log.WithComponent("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)

			next.ServeHTTP(sw, r)

			evt := logger.Info()
			switch {
			case sw.statusCode >= 500:
				evt = logger.Error()
			case sw.statusCode >= 400:
				evt = logger.Warn()
			}
			evt.
				Str("event", "request.handled").
				Str(log.FieldMethod, r.Method).
				Str(log.FieldPath, r.URL.Path).
				Int(log.FieldStatus, sw.statusCode).
				Int64(log.FieldBytes, sw.bytesWritten).
				Dur(log.FieldDurationMS, time.Since(start)).
				Str(log.FieldRemoteAddr, r.RemoteAddr).
				Str(log.FieldUserAgent, r.UserAgent()).
				Str(log.FieldRequestID, log.RequestIDFromContext(r.Context())).
				Msg("request completed")
		})
	}
}
