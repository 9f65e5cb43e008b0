// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Default CORS values applied when the corresponding option is empty.
var (
	DefaultAllowedHeaders = []string{"Authorization", "Credentials", "X-Requested-With", "Content-Type"}
	DefaultAllowedMethods = []string{"GET", "PUT", "POST", "OPTIONS", "DELETE"}
)

// CORSOptions configures the CORS middleware.
type CORSOptions struct {
	// AllowedOrigins lists origins allowed to make cross-site requests.
	// "*" allows all origins. Empty defaults to "*".
	AllowedOrigins []string
	// AllowedHeaders lists headers clients may send. Empty uses
	// DefaultAllowedHeaders.
	AllowedHeaders []string
	// AllowedMethods lists methods clients may use. Empty uses
	// DefaultAllowedMethods.
	AllowedMethods []string
	// AllowCredentials sets Access-Control-Allow-Credentials. Forces
	// origin reflection instead of a literal "*".
	AllowCredentials bool
	// MaxAge caches preflight results in the browser. Zero omits the header.
	MaxAge time.Duration
}

// CORS returns a middleware that sets Cross-Origin Resource Sharing
// headers. Preflight requests (OPTIONS with Access-Control-Request-Method)
// are answered with 204 directly; plain OPTIONS requests pass through so
// discovery handlers still run.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[origin] = true
	}
	allowAll := allowed["*"]

	headers := opts.AllowedHeaders
	if len(headers) == 0 {
		headers = DefaultAllowedHeaders
	}
	methods := opts.AllowedMethods
	if len(methods) == 0 {
		methods = DefaultAllowedMethods
	}
	headerList := strings.Join(headers, ", ")
	methodList := strings.Join(methods, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Origin matching the allowlist is reflected back. A literal
			// "*" is only valid without credentials.
			switch {
			case origin == "":
				if allowAll && !opts.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				}
			case allowAll && !opts.AllowCredentials:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case allowAll || allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			default:
				// Origin not allowed: no CORS headers, browser blocks it.
				w.Header().Add("Vary", "Origin")
			}

			w.Header().Set("Access-Control-Allow-Headers", headerList)
			w.Header().Set("Access-Control-Allow-Methods", methodList)
			if opts.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			if opts.MaxAge > 0 {
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(int(opts.MaxAge.Seconds())))
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
