// SPDX-License-Identifier: MIT

package docgen

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-strut/strut"
)

func sampleRoutes(t *testing.T) []strut.Route {
	t.Helper()
	rt := strut.NewRouter()
	require.NoError(t, rt.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	require.NoError(t, rt.HandleFunc("/jobs", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}, http.MethodPost))
	return rt.Routes()
}

func TestWriteTable(t *testing.T) {
	var sb strings.Builder
	WriteTable(&sb, sampleRoutes(t))
	out := sb.String()

	require.Contains(t, out, "/status")
	require.Contains(t, out, "/jobs")
	require.Contains(t, out, "POST")
	// Sorted by pattern: /jobs before /status
	require.Less(t, strings.Index(out, "/jobs"), strings.Index(out, "/status"))
}

func TestJSON(t *testing.T) {
	data, err := JSON(sampleRoutes(t))
	require.NoError(t, err)

	var docs []struct {
		Method   string `json:"method"`
		Pattern  string `json:"pattern"`
		Resource string `json:"resource"`
	}
	require.NoError(t, json.Unmarshal(data, &docs))
	require.Len(t, docs, 2)
	require.Equal(t, "POST", docs[0].Method)
	require.Equal(t, "/jobs", docs[0].Pattern)
	require.Equal(t, "GET", docs[1].Method)
	require.Equal(t, "/status", docs[1].Pattern)
}

func TestJSON_Empty(t *testing.T) {
	data, err := JSON(nil)
	require.NoError(t, err)
	require.JSONEq(t, "[]", string(data))
}
