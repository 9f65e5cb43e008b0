// SPDX-License-Identifier: MIT

package strut

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Verb interfaces. A resource is any value implementing one or more of
// these; MountResource registers a route for each implemented verb.
type (
	// Getter handles GET requests for a resource.
	Getter interface {
		Get(http.ResponseWriter, *http.Request)
	}
	// Poster handles POST requests for a resource.
	Poster interface {
		Post(http.ResponseWriter, *http.Request)
	}
	// Putter handles PUT requests for a resource.
	Putter interface {
		Put(http.ResponseWriter, *http.Request)
	}
	// Patcher handles PATCH requests for a resource.
	Patcher interface {
		Patch(http.ResponseWriter, *http.Request)
	}
	// Deleter handles DELETE requests for a resource.
	Deleter interface {
		Delete(http.ResponseWriter, *http.Request)
	}
	// Optioner handles OPTIONS requests for a resource, replacing the
	// synthetic discovery routes.
	Optioner interface {
		Options(http.ResponseWriter, *http.Request)
	}
)

// Param declares a URL parameter for a verb or action. Optional
// parameters expand into additional routes, cumulatively in declaration
// order: required-only first, then one more route per optional.
type Param struct {
	Name     string
	Optional bool
}

// Required declares a required URL parameter.
func Required(name string) Param { return Param{Name: name} }

// Optional declares an optional URL parameter.
func Optional(name string) Param { return Param{Name: name, Optional: true} }

// Action is a named route mounted under the resource pattern, the
// equivalent of a handler method whose name becomes part of the URL.
type Action struct {
	Name    string
	Method  string
	Handler http.HandlerFunc
	Params  []Param
	Plugins []string
}

type resourceConfig struct {
	name        string
	description string
	params      map[string][]Param
	actions     []Action
	plugins     *PluginSet
	opted       map[string][]string
	noOptions   bool
}

// ResourceOption configures how a resource is mounted.
type ResourceOption func(*resourceConfig)

// WithName overrides the resource name reported by the synthetic
// OPTIONS discovery routes. The default is the value's type name.
func WithName(name string) ResourceOption {
	return func(c *resourceConfig) { c.name = name }
}

// WithDescription sets the description reported by discovery.
func WithDescription(desc string) ResourceOption {
	return func(c *resourceConfig) { c.description = desc }
}

// WithParams declares URL parameters for one HTTP verb.
func WithParams(method string, params ...Param) ResourceOption {
	return func(c *resourceConfig) {
		if c.params == nil {
			c.params = make(map[string][]Param)
		}
		c.params[strings.ToUpper(method)] = append(c.params[strings.ToUpper(method)], params...)
	}
}

// WithActions adds named action routes under the resource pattern.
func WithActions(actions ...Action) ResourceOption {
	return func(c *resourceConfig) { c.actions = append(c.actions, actions...) }
}

// WithPlugins attaches a plugin set to the resource. Global plugins
// wrap every route; optional plugins wrap only verbs and actions that
// opt in via UsePlugins or Action.Plugins.
func WithPlugins(set *PluginSet) ResourceOption {
	return func(c *resourceConfig) { c.plugins = set }
}

// UsePlugins opts one HTTP verb into optional plugins by name.
func UsePlugins(method string, names ...string) ResourceOption {
	return func(c *resourceConfig) {
		if c.opted == nil {
			c.opted = make(map[string][]string)
		}
		m := strings.ToUpper(method)
		c.opted[m] = append(c.opted[m], names...)
	}
}

// WithoutOptions disables the synthetic OPTIONS discovery routes.
func WithoutOptions() ResourceOption {
	return func(c *resourceConfig) { c.noOptions = true }
}

// verbOrder fixes the order verbs are scanned and registered in.
var verbOrder = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodPost,
	http.MethodDelete,
	http.MethodPatch,
	http.MethodOptions,
}

func verbHandler(res any, method string) (http.HandlerFunc, bool) {
	switch method {
	case http.MethodGet:
		if v, ok := res.(Getter); ok {
			return v.Get, true
		}
	case http.MethodPut:
		if v, ok := res.(Putter); ok {
			return v.Put, true
		}
	case http.MethodPost:
		if v, ok := res.(Poster); ok {
			return v.Post, true
		}
	case http.MethodDelete:
		if v, ok := res.(Deleter); ok {
			return v.Delete, true
		}
	case http.MethodPatch:
		if v, ok := res.(Patcher); ok {
			return v.Patch, true
		}
	case http.MethodOptions:
		if v, ok := res.(Optioner); ok {
			return v.Options, true
		}
	}
	return nil, false
}

func validMethod(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodPut, http.MethodPost,
		http.MethodDelete, http.MethodPatch, http.MethodOptions:
		return true
	}
	return false
}

// plannedRoute is one concrete method+pattern registration produced by
// expanding a resource.
type plannedRoute struct {
	method  string
	pattern string
	handler http.Handler
}

// resourcePlan is the fully validated expansion of one resource. It is
// built eagerly so registration errors surface at mount (or Router
// registration) time rather than on the first request.
type resourcePlan struct {
	name   string
	routes []plannedRoute
}

// expandParams turns a pattern and its parameter declarations into the
// cumulative list of chi patterns.
func expandParams(pattern string, params []Param) ([]string, error) {
	base := strings.TrimRight(pattern, "/")
	seen := make(map[string]struct{}, len(params))
	sawOptional := false
	cur := base
	routes := make([]string, 0, len(params)+1)

	for _, p := range params {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: empty name", ErrInvalidParam)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate %q", ErrInvalidParam, p.Name)
		}
		seen[p.Name] = struct{}{}
		if p.Optional {
			if !sawOptional {
				sawOptional = true
				routes = append(routes, orRoot(cur))
			}
			cur += "/{" + p.Name + "}"
			routes = append(routes, orRoot(cur))
			continue
		}
		if sawOptional {
			return nil, fmt.Errorf("%w: required %q after optional", ErrInvalidParam, p.Name)
		}
		cur += "/{" + p.Name + "}"
	}
	if !sawOptional {
		routes = append(routes, orRoot(cur))
	}
	return routes, nil
}

func orRoot(pattern string) string {
	if pattern == "" {
		return "/"
	}
	return pattern
}

// planResource validates a resource and produces its route plan.
func planResource(pattern string, res any, opts ...ResourceOption) (*resourcePlan, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}
	if res == nil {
		return nil, fmt.Errorf("%w: nil value", ErrNotResource)
	}

	var cfg resourceConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	for method := range cfg.params {
		if !validMethod(method) {
			return nil, fmt.Errorf("%w: %q in WithParams", ErrInvalidMethod, method)
		}
	}
	for method := range cfg.opted {
		if !validMethod(method) {
			return nil, fmt.Errorf("%w: %q in UsePlugins", ErrInvalidMethod, method)
		}
	}

	plan := &resourcePlan{name: cfg.name}
	if plan.name == "" {
		plan.name = typeName(res)
	}

	var methods []string
	for _, method := range verbOrder {
		handler, ok := verbHandler(res, method)
		if !ok {
			continue
		}
		methods = append(methods, strings.ToLower(method))

		wrapped, err := cfg.plugins.wrap(handler, cfg.opted[method])
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, pattern, err)
		}
		patterns, err := expandParams(pattern, cfg.params[method])
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, pattern, err)
		}
		for _, p := range patterns {
			plan.routes = append(plan.routes, plannedRoute{method: method, pattern: p, handler: wrapped})
		}
	}

	actionNames := make(map[string]struct{}, len(cfg.actions))
	for _, action := range cfg.actions {
		if action.Name == "" || action.Handler == nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action.Name)
		}
		if _, dup := actionNames[action.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate %q", ErrInvalidAction, action.Name)
		}
		actionNames[action.Name] = struct{}{}
		method := strings.ToUpper(action.Method)
		if method == "" {
			method = http.MethodGet
		}
		if !validMethod(method) {
			return nil, fmt.Errorf("%w: %q in action %q", ErrInvalidMethod, action.Method, action.Name)
		}
		methods = append(methods, action.Name)

		wrapped, err := cfg.plugins.wrap(action.Handler, action.Plugins)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", action.Name, err)
		}
		base := strings.TrimRight(pattern, "/") + "/" + action.Name
		patterns, err := expandParams(base, action.Params)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", action.Name, err)
		}
		for _, p := range patterns {
			plan.routes = append(plan.routes, plannedRoute{method: method, pattern: p, handler: wrapped})
		}
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("%w: %T", ErrNotResource, res)
	}

	if _, hasOptions := verbHandler(res, http.MethodOptions); !hasOptions && !cfg.noOptions {
		sort.Strings(methods)
		discovery := discoveryHandler(plan.name, cfg.description, methods)
		wrapped, err := cfg.plugins.wrap(discovery, nil)
		if err != nil {
			return nil, err
		}
		plan.routes = append(plan.routes,
			plannedRoute{method: http.MethodOptions, pattern: orRoot(strings.TrimRight(pattern, "/")), handler: wrapped},
			plannedRoute{method: http.MethodOptions, pattern: strings.TrimRight(pattern, "/") + "/*", handler: wrapped},
		)
	}

	return plan, nil
}

func (p *resourcePlan) mount(r chi.Router) {
	for _, route := range p.routes {
		r.Method(route.method, route.pattern, route.handler)
	}
}

// discoveryHandler serves the synthetic OPTIONS document describing a
// resource: its name, description and the methods it answers to.
func discoveryHandler(name, desc string, methods []string) http.HandlerFunc {
	doc := struct {
		Handler struct {
			Name string `json:"name"`
			Desc string `json:"desc"`
		} `json:"handler"`
		HTTPMethods []string `json:"http_methods"`
	}{HTTPMethods: methods}
	doc.Handler.Name = name
	doc.Handler.Desc = desc

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(doc)
	}
}

func typeName(res any) string {
	t := reflect.TypeOf(res)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return fmt.Sprintf("%T", res)
	}
	return t.Name()
}

// MountResource registers every implemented verb of res on r under
// pattern, plus any named actions and the synthetic OPTIONS discovery
// routes. All validation happens before the first registration, so a
// failed mount leaves r untouched.
func MountResource(r chi.Router, pattern string, res any, opts ...ResourceOption) error {
	plan, err := planResource(pattern, res, opts...)
	if err != nil {
		return err
	}
	plan.mount(r)
	return nil
}
