// SPDX-License-Identifier: MIT

package strut

import "errors"

// Sentinel errors returned by resource mounting and route registration.
// Callers match them with errors.Is.
var (
	// ErrNotResource is returned when a value implements no verb
	// interface and carries no actions.
	ErrNotResource = errors.New("strut: value implements no verb interface")

	// ErrInvalidMethod is returned for HTTP methods outside the
	// supported set.
	ErrInvalidMethod = errors.New("strut: invalid HTTP method")

	// ErrInvalidPattern is returned for route patterns that do not
	// start with a slash.
	ErrInvalidPattern = errors.New("strut: invalid route pattern")

	// ErrNilHandler is returned when a nil handler is registered.
	ErrNilHandler = errors.New("strut: nil handler")

	// ErrInvalidParam is returned for malformed or duplicate URL
	// parameter declarations.
	ErrInvalidParam = errors.New("strut: invalid URL parameter")

	// ErrInvalidAction is returned for named actions with a missing
	// name or handler.
	ErrInvalidAction = errors.New("strut: invalid action")

	// ErrInvalidPlugin is returned when a nil or unnamed plugin is
	// registered.
	ErrInvalidPlugin = errors.New("strut: invalid plugin")

	// ErrPluginConflict is returned when two plugins share a name.
	ErrPluginConflict = errors.New("strut: plugin name already registered")

	// ErrUnknownPlugin is returned when a handler opts into a plugin
	// name that is not present in the set.
	ErrUnknownPlugin = errors.New("strut: unknown plugin")
)
