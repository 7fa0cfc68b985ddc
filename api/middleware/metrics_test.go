package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/catalog-backend/pkg/metrics"
)

func TestMetricsLabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	for _, path := range []string{"/products/1", "/products/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	var found bool
	for _, mf := range mfs {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		found = true
		if len(mf.GetMetric()) != 1 {
			t.Fatalf("expected a single series, got %d", len(mf.GetMetric()))
		}
		metric := mf.GetMetric()[0]
		labels := map[string]string{}
		for _, lp := range metric.GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		if labels["route"] != "/products/{id}" || labels["status"] != "202" {
			t.Fatalf("unexpected labels %v", labels)
		}
		if got := metric.GetCounter().GetValue(); got != 2 {
			t.Fatalf("expected 2 requests, got %f", got)
		}
	}
	if !found {
		t.Fatal("http_requests_total not exported")
	}
}
