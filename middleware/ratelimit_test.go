// SPDX-License-Identifier: MIT

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimit_Enforced(t *testing.T) {
	h := RateLimit(RateLimitConfig{
		RequestLimit: 2,
		WindowSize:   time.Minute,
	})(okHandler())

	// First two requests pass
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/limited", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	// Third request is limited
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/limited", nil))

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "60" {
		t.Errorf("expected Retry-After 60, got %q", got)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON body: %v", err)
	}
	if body["error"] != "rate_limit_exceeded" {
		t.Errorf("unexpected error field: %q", body["error"])
	}
}

func TestRateLimit_CustomKeyFunc(t *testing.T) {
	h := RateLimit(RateLimitConfig{
		RequestLimit: 1,
		WindowSize:   time.Minute,
		KeyFunc: func(r *http.Request) (string, error) {
			return r.Header.Get("X-API-Token"), nil
		},
	})(okHandler())

	// Different tokens get independent budgets
	for _, token := range []string{"alpha", "beta"} {
		req := httptest.NewRequest("GET", "/limited", nil)
		req.Header.Set("X-API-Token", token)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("token %s: expected 200, got %d", token, w.Code)
		}
	}

	// Same token exceeds its budget
	req := httptest.NewRequest("GET", "/limited", nil)
	req.Header.Set("X-API-Token", "alpha")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 for reused token, got %d", w.Code)
	}
}
