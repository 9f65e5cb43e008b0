// SPDX-License-Identifier: MIT

package strut

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestRouter_HandleDefaultsToGet(t *testing.T) {
	rt := NewRouter()
	require.NoError(t, rt.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	require.Equal(t, 1, rt.Len())
	require.Equal(t, []Route{{Method: http.MethodGet, Pattern: "/ping"}}, rt.Routes())

	r := chi.NewRouter()
	require.NoError(t, rt.Mount(r))

	w := do(t, r, http.MethodGet, "/ping")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_MultipleMethods(t *testing.T) {
	rt := NewRouter()
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	require.NoError(t, rt.Handle("/jobs", h, "post", "PUT"))

	want := []Route{
		{Method: http.MethodPost, Pattern: "/jobs"},
		{Method: http.MethodPut, Pattern: "/jobs"},
	}
	if diff := cmp.Diff(want, rt.Routes()); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}

	r := chi.NewRouter()
	require.NoError(t, rt.Mount(r))
	require.Equal(t, http.StatusAccepted, do(t, r, http.MethodPut, "/jobs").Code)
}

func TestRouter_RegistrationErrors(t *testing.T) {
	rt := NewRouter()

	require.ErrorIs(t, rt.Handle("/x", nil), ErrNilHandler)
	require.ErrorIs(t, rt.HandleFunc("/x", nil), ErrNilHandler)
	require.ErrorIs(t, rt.Handle("x", okHandler(t)), ErrInvalidPattern)
	require.ErrorIs(t, rt.Handle("/x", okHandler(t), "FETCH"), ErrInvalidMethod)

	// Failed registrations leave the router empty
	require.Equal(t, 0, rt.Len())
}

func TestRouter_ResourceValidatesEagerly(t *testing.T) {
	rt := NewRouter()

	err := rt.Resource("/things", struct{}{})
	require.ErrorIs(t, err, ErrNotResource)
	require.Equal(t, 0, rt.Len())

	require.NoError(t, rt.Resource("/things", echoResource{},
		WithName("Things"),
		WithParams(http.MethodGet, Optional("uid")),
		WithoutOptions(),
	))

	// GET expands to two routes, POST and DELETE to one each.
	want := []Route{
		{Method: http.MethodGet, Pattern: "/things", Name: "Things"},
		{Method: http.MethodGet, Pattern: "/things/{uid}", Name: "Things"},
		{Method: http.MethodPost, Pattern: "/things", Name: "Things"},
		{Method: http.MethodDelete, Pattern: "/things", Name: "Things"},
	}
	if diff := cmp.Diff(want, rt.Routes()); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}

	r := chi.NewRouter()
	require.NoError(t, rt.Mount(r))
	require.Equal(t, "7", do(t, r, http.MethodGet, "/things/7").Header().Get("X-UID"))
}

func okHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRouter_MountNil(t *testing.T) {
	rt := NewRouter()
	require.Error(t, rt.Mount(nil))
}
