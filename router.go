// SPDX-License-Identifier: MIT

package strut

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Route is one concrete registration a Router will perform on Mount.
// Name is empty for plain handlers and carries the resource name for
// routes produced by a resource expansion.
type Route struct {
	Method  string
	Pattern string
	Name    string
}

type routerEntry struct {
	routes  []Route
	mountFn func(chi.Router)
}

// Router collects handler and resource registrations and mounts them on
// a chi router later. Registration validates eagerly, so errors surface
// where the route is declared rather than at mount time.
type Router struct {
	entries []routerEntry
}

// NewRouter returns an empty deferred router.
func NewRouter() *Router {
	return &Router{}
}

// Handle registers a handler for the given pattern and methods. With no
// methods, GET is assumed.
func (rt *Router) Handle(pattern string, handler http.Handler, methods ...string) error {
	if handler == nil {
		return fmt.Errorf("%w: %s", ErrNilHandler, pattern)
	}
	if !strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}
	if len(methods) == 0 {
		methods = []string{http.MethodGet}
	}
	upper := make([]string, len(methods))
	for i, m := range methods {
		if !validMethod(m) {
			return fmt.Errorf("%w: %q", ErrInvalidMethod, m)
		}
		upper[i] = strings.ToUpper(m)
	}

	entry := routerEntry{}
	for _, m := range upper {
		entry.routes = append(entry.routes, Route{Method: m, Pattern: pattern})
	}
	entry.mountFn = func(r chi.Router) {
		for _, m := range upper {
			r.Method(m, pattern, handler)
		}
	}
	rt.entries = append(rt.entries, entry)
	return nil
}

// HandleFunc registers a handler function, defaulting to GET.
func (rt *Router) HandleFunc(pattern string, fn http.HandlerFunc, methods ...string) error {
	if fn == nil {
		return fmt.Errorf("%w: %s", ErrNilHandler, pattern)
	}
	return rt.Handle(pattern, fn, methods...)
}

// Resource registers a resource for deferred mounting. The resource is
// expanded and validated immediately.
func (rt *Router) Resource(pattern string, res any, opts ...ResourceOption) error {
	plan, err := planResource(pattern, res, opts...)
	if err != nil {
		return err
	}
	entry := routerEntry{}
	for _, route := range plan.routes {
		entry.routes = append(entry.routes, Route{
			Method:  route.method,
			Pattern: route.pattern,
			Name:    plan.name,
		})
	}
	entry.mountFn = plan.mount
	rt.entries = append(rt.entries, entry)
	return nil
}

// Mount registers every collected route on r, in registration order.
func (rt *Router) Mount(r chi.Router) error {
	if r == nil {
		return fmt.Errorf("%w: nil router", ErrNilHandler)
	}
	for _, entry := range rt.entries {
		entry.mountFn(r)
	}
	return nil
}

// Len reports the number of concrete routes collected so far.
func (rt *Router) Len() int {
	n := 0
	for _, entry := range rt.entries {
		n += len(entry.routes)
	}
	return n
}

// Routes returns a snapshot of the collected route expansion.
func (rt *Router) Routes() []Route {
	out := make([]Route, 0, rt.Len())
	for _, entry := range rt.entries {
		out = append(out, entry.routes...)
	}
	return out
}
