// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-strut/strut/cache"
)

func TestResponseCache_HitAndMiss(t *testing.T) {
	store := cache.NewMemoryCache(0)

	var calls atomic.Int64
	h := ResponseCache(store, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value":1}`))
	}))

	// First request misses and populates the cache
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/data", nil))

	if got := w.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("first request: X-Cache = %q, want MISS", got)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 handler call, got %d", calls.Load())
	}

	// Second request is served from the cache
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/data", nil))

	if got := w.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("second request: X-Cache = %q, want HIT", got)
	}
	if calls.Load() != 1 {
		t.Errorf("expected handler to be skipped on hit, got %d calls", calls.Load())
	}
	if body := w.Body.String(); body != `{"value":1}` {
		t.Errorf("cached body = %q", body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("cached Content-Type = %q", ct)
	}
}

func TestResponseCache_SkipsNonGET(t *testing.T) {
	store := cache.NewMemoryCache(0)

	var calls atomic.Int64
	h := ResponseCache(store, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusCreated)
	}))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("POST", "/data", nil))
		if w.Header().Get("X-Cache") != "" {
			t.Error("POST requests should not carry X-Cache")
		}
	}
	if calls.Load() != 2 {
		t.Errorf("expected both POSTs to reach the handler, got %d calls", calls.Load())
	}
}

func TestResponseCache_SkipsErrors(t *testing.T) {
	store := cache.NewMemoryCache(0)

	var calls atomic.Int64
	h := ResponseCache(store, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "gone wrong", http.StatusNotFound)
	}))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/broken", nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	}
	if calls.Load() != 2 {
		t.Errorf("404 responses must not be cached, got %d calls", calls.Load())
	}
}

func TestResponseCache_KeyIncludesQuery(t *testing.T) {
	store := cache.NewMemoryCache(0)

	h := ResponseCache(store, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.RawQuery))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/data?page=1", nil))
	if body := w.Body.String(); body != "page=1" {
		t.Fatalf("unexpected body %q", body)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/data?page=2", nil))
	if body := w.Body.String(); body != "page=2" {
		t.Errorf("expected distinct cache entries per query, got %q", body)
	}
}

func TestResponseCache_DropsUndecodableEntries(t *testing.T) {
	store := cache.NewMemoryCache(0)
	store.Set("resp:/data", []byte("not json"), time.Minute)

	var calls atomic.Int64
	h := ResponseCache(store, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("fresh"))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/data", nil))

	if calls.Load() != 1 {
		t.Error("expected handler to run when the cache entry is corrupt")
	}
	if body := w.Body.String(); body != "fresh" {
		t.Errorf("expected fresh body, got %q", body)
	}
}
