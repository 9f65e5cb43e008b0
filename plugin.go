// SPDX-License-Identifier: MIT

package strut

import (
	"fmt"
	"net/http"
)

// Plugin is a named piece of middleware that resources opt into by
// name. The name is what handlers reference in UsePlugins and
// Action.Plugins, so it must be unique within a PluginSet.
type Plugin interface {
	Name() string
	Apply(http.Handler) http.Handler
}

type funcPlugin struct {
	name string
	fn   func(http.Handler) http.Handler
}

func (p funcPlugin) Name() string { return p.name }

func (p funcPlugin) Apply(next http.Handler) http.Handler { return p.fn(next) }

// NewPlugin adapts a plain middleware function into a named Plugin.
func NewPlugin(name string, fn func(http.Handler) http.Handler) Plugin {
	return funcPlugin{name: name, fn: fn}
}

// PluginSet holds the plugins available to a resource in two scopes:
// optional plugins apply only to verbs and actions that opt in by name,
// global plugins apply to every route the resource registers.
//
// Wrapping order at mount time is optional plugins innermost in
// registration order, then global plugins, so the last-registered
// global plugin runs first on each request.
type PluginSet struct {
	optional []Plugin
	global   []Plugin
	names    map[string]struct{}
}

// NewPluginSet returns an empty plugin set.
func NewPluginSet() *PluginSet {
	return &PluginSet{names: make(map[string]struct{})}
}

func (s *PluginSet) add(scope *[]Plugin, plugins []Plugin) error {
	for _, p := range plugins {
		if p == nil || p.Name() == "" {
			return fmt.Errorf("%w: nil or unnamed plugin", ErrInvalidPlugin)
		}
		if _, dup := s.names[p.Name()]; dup {
			return fmt.Errorf("%w: %q", ErrPluginConflict, p.Name())
		}
		s.names[p.Name()] = struct{}{}
		*scope = append(*scope, p)
	}
	return nil
}

// Use registers optional plugins. They apply only to verbs and actions
// that name them. A name already present in either scope is rejected
// with ErrPluginConflict.
func (s *PluginSet) Use(plugins ...Plugin) error {
	return s.add(&s.optional, plugins)
}

// UseGlobal registers plugins that wrap every route of the resource.
func (s *PluginSet) UseGlobal(plugins ...Plugin) error {
	return s.add(&s.global, plugins)
}

// Names returns the registered plugin names, optional scope first, in
// registration order.
func (s *PluginSet) Names() []string {
	out := make([]string, 0, len(s.optional)+len(s.global))
	for _, p := range s.optional {
		out = append(out, p.Name())
	}
	for _, p := range s.global {
		out = append(out, p.Name())
	}
	return out
}

// wrap applies the opted-in optional plugins and then every global
// plugin to h. Opting into a name that is not registered as optional is
// ErrUnknownPlugin.
func (s *PluginSet) wrap(h http.Handler, opted []string) (http.Handler, error) {
	if s == nil {
		if len(opted) > 0 {
			return nil, fmt.Errorf("%w: %q (no plugin set)", ErrUnknownPlugin, opted[0])
		}
		return h, nil
	}
	byName := make(map[string]struct{}, len(opted))
	for _, name := range opted {
		found := false
		for _, p := range s.optional {
			if p.Name() == name {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPlugin, name)
		}
		byName[name] = struct{}{}
	}
	for _, p := range s.optional {
		if _, ok := byName[p.Name()]; ok {
			h = p.Apply(h)
		}
	}
	for _, p := range s.global {
		h = p.Apply(h)
	}
	return h, nil
}
