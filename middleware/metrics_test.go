// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func findMetricFamily(t *testing.T, name string) *dto.MetricFamily {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestMetrics_RecordsRequestDuration(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics())
	r.Get("/widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("widget"))
	})

	req := httptest.NewRequest("GET", "/widgets/42", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	mf := findMetricFamily(t, "strut_http_request_duration_seconds")
	if mf == nil {
		t.Fatal("expected strut_http_request_duration_seconds to be registered")
	}

	found := false
	for _, m := range mf.GetMetric() {
		if labelValue(m, "method") == "GET" &&
			labelValue(m, "path") == "/widgets/{id}" &&
			labelValue(m, "status") == "200" {
			found = true
			if m.GetHistogram().GetSampleCount() == 0 {
				t.Error("expected at least one duration sample")
			}
		}
	}
	if !found {
		t.Error("expected a sample labeled with the route pattern /widgets/{id}")
	}
}

func TestMetrics_ResponseSizeAndStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics())
	r.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/missing", nil))

	mf := findMetricFamily(t, "strut_http_response_size_bytes")
	if mf == nil {
		t.Fatal("expected strut_http_response_size_bytes to be registered")
	}

	found := false
	for _, m := range mf.GetMetric() {
		if labelValue(m, "path") == "/missing" && labelValue(m, "status") == "404" {
			found = true
		}
	}
	if !found {
		t.Error("expected a 404 response size sample for /missing")
	}
}

func TestMetrics_InFlightReturnsToZero(t *testing.T) {
	h := Metrics()(okHandler())
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/x", nil))

	if got := testutil.ToFloat64(httpRequestsInFlight); got != 0 {
		t.Errorf("expected in-flight gauge to return to 0, got %v", got)
	}
}
