package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)

	metrics.IncInFlight()
	metrics.ObserveRequest("GET", "/api/v1/products", 200, 120*time.Millisecond)
	metrics.ObserveRequest("GET", "/api/v1/products", 200, 80*time.Millisecond)
	metrics.ObserveRequest("POST", "/api/v1/orders", 500, 40*time.Millisecond)
	metrics.DecInFlight()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	got, err := fetchCounterValue(mfs, "http_requests_total", map[string]string{
		"method": "GET", "route": "/api/v1/products", "status": "200",
	})
	if err != nil {
		t.Fatalf("fetch requests counter: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected 2 GET requests, got %v", got)
	}

	got, err = fetchCounterValue(mfs, "http_requests_total", map[string]string{
		"method": "POST", "route": "/api/v1/orders", "status": "500",
	})
	if err != nil {
		t.Fatalf("fetch requests counter: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected 1 failed POST, got %v", got)
	}

	count, err := fetchHistogramCount(mfs, "http_request_duration_seconds", map[string]string{
		"method": "GET", "route": "/api/v1/products",
	})
	if err != nil {
		t.Fatalf("fetch duration histogram: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 duration observations, got %d", count)
	}
}

func TestHTTPMetricsNilReceiverIsSafe(t *testing.T) {
	var metrics *HTTPMetrics
	metrics.ObserveRequest("GET", "/", 200, time.Millisecond)
	metrics.IncInFlight()
	metrics.DecInFlight()

	empty := NewHTTPMetrics(nil)
	empty.ObserveRequest("GET", "/", 200, time.Millisecond)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m, labels) {
				return m.GetCounter().GetValue(), nil
			}
		}
	}
	return 0, fmt.Errorf("metric %s with labels %v not found", name, labels)
}

func fetchHistogramCount(mfs []*dto.MetricFamily, name string, labels map[string]string) (uint64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m, labels) {
				return m.GetHistogram().GetSampleCount(), nil
			}
		}
	}
	return 0, fmt.Errorf("metric %s with labels %v not found", name, labels)
}

func labelsMatch(m *dto.Metric, labels map[string]string) bool {
	found := 0
	for _, pair := range m.GetLabel() {
		if want, ok := labels[pair.GetName()]; ok {
			if pair.GetValue() != want {
				return false
			}
			found++
		}
	}
	return found == len(labels)
}
