// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// StripSlashes removes all trailing slashes from the request path before
// routing, so "/users/", "/users//" and "/users" hit the same route. The
// root path "/" is left untouched.
func StripSlashes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var path string
		rctx := chi.RouteContext(r.Context())
		if rctx != nil && rctx.RoutePath != "" {
			path = rctx.RoutePath
		} else {
			path = r.URL.Path
		}
		if len(path) > 1 && path[len(path)-1] == '/' {
			stripped := strings.TrimRight(path, "/")
			if stripped == "" {
				stripped = "/"
			}
			if rctx != nil && rctx.RoutePath != "" {
				rctx.RoutePath = stripped
			} else {
				r.URL.Path = stripped
			}
		}
		next.ServeHTTP(w, r)
	})
}
