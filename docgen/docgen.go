// SPDX-License-Identifier: MIT

// Package docgen renders the route expansion of a strut Router as a
// text table or JSON document, for startup banners and debugging.
package docgen

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/go-strut/strut"
)

// routeDoc is the JSON shape of one route.
type routeDoc struct {
	Method   string `json:"method"`
	Pattern  string `json:"pattern"`
	Resource string `json:"resource,omitempty"`
}

// sorted returns the routes ordered by pattern, then method, so output
// is stable regardless of registration order.
func sorted(routes []strut.Route) []strut.Route {
	out := make([]strut.Route, len(routes))
	copy(out, routes)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pattern != out[j].Pattern {
			return out[i].Pattern < out[j].Pattern
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// WriteTable renders the routes as an aligned text table.
func WriteTable(w io.Writer, routes []strut.Route) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Method", "Pattern", "Resource"})
	table.SetColMinWidth(1, 24)
	for _, route := range sorted(routes) {
		table.Append([]string{route.Method, route.Pattern, route.Name})
	}
	table.Render()
}

// JSON renders the routes as an indented JSON array.
func JSON(routes []strut.Route) ([]byte, error) {
	docs := make([]routeDoc, 0, len(routes))
	for _, route := range sorted(routes) {
		docs = append(docs, routeDoc{
			Method:   route.Method,
			Pattern:  route.Pattern,
			Resource: route.Name,
		})
	}
	return json.MarshalIndent(docs, "", "  ")
}
