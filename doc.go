// SPDX-License-Identifier: MIT

// Package strut is a web-service toolkit for chi routers. It layers
// three conveniences on top of github.com/go-chi/chi/v5:
//
//   - Resource dispatch: a value implementing verb interfaces (Getter,
//     Poster, ...) is mounted with one route per implemented verb, with
//     optional URL parameters expanding into cumulative routes and a
//     synthetic OPTIONS document describing the resource.
//   - Plugins: named middleware gathered in a PluginSet, applied
//     globally per resource or opted into per verb and action.
//   - A deferred Router that collects registrations, validates them
//     eagerly and mounts them on a chi router in one step.
//
// The companion packages response, middleware, cache, log, telemetry,
// devreload and docgen round out the toolkit.
package strut
