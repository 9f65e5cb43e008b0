// SPDX-License-Identifier: MIT

package middleware

import (
	"fmt"
	"net/http"
)

// DeprecationConfig holds configuration for endpoint deprecation warnings.
type DeprecationConfig struct {
	SunsetVersion string // Version when the deprecated endpoint will be removed
	SunsetDate    string // Date when the deprecated endpoint will be removed (RFC3339 format)
	SuccessorPath string // Path to the successor endpoint
}

// Deprecation adds deprecation headers to responses. It follows RFC 8594
// (Sunset header) and standard deprecation practices.
func Deprecation(cfg DeprecationConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Deprecation", "true")

			if cfg.SunsetDate != "" {
				// Sunset header (RFC 8594) indicates when the endpoint will be removed
				w.Header().Set("Sunset", cfg.SunsetDate)
			}

			if cfg.SuccessorPath != "" {
				w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="successor-version"`, cfg.SuccessorPath))
			}

			warningMsg := "This endpoint is deprecated"
			if cfg.SuccessorPath != "" {
				warningMsg += fmt.Sprintf(". Use %s instead", cfg.SuccessorPath)
			}
			if cfg.SunsetVersion != "" {
				warningMsg += fmt.Sprintf(". Will be removed in version %s", cfg.SunsetVersion)
			}
			w.Header().Set("Warning", fmt.Sprintf(`299 - "%s"`, warningMsg))

			next.ServeHTTP(w, r)
		})
	}
}
