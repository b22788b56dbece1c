package sandbox

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestInitializeMetrics(t *testing.T) {
	t.Run("initializes all metric instruments successfully", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

		metrics, err := NewMetrics(mp.Meter("test"))
		if err != nil {
			t.Fatalf("NewMetrics() failed: %v", err)
		}

		if metrics.requestDuration == nil {
			t.Error("requestDuration is nil")
		}
		if metrics.requestsTotal == nil {
			t.Error("requestsTotal is nil")
		}
		if metrics.sessionsTotal == nil {
			t.Error("sessionsTotal is nil")
		}
	})
}

func TestServerRecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}

	server := NewServer(NewHandler(DefaultCatalog(), NewSessionStore(), nil), metrics)

	requests := []*http.Request{
		httptest.NewRequest(http.MethodPost, importPath, strings.NewReader(`{"cart":[{"sku":"SKU1","quantity":1}],"retailerSlug":"acme"}`)),
		httptest.NewRequest(http.MethodGet, sessionsPath+"a", nil),
		httptest.NewRequest(http.MethodGet, sessionsPath+"b", nil),
	}
	for _, req := range requests {
		server.ServeHTTP(httptest.NewRecorder(), req)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}

	foundRequests := false
	foundSessions := false
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch m.Name {
			case "http_requests_total":
				foundRequests = true
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					t.Fatal("Expected Sum[int64] data type")
				}
				if len(sum.DataPoints) != 2 {
					t.Errorf("expected session ids to share one series, got %d data points", len(sum.DataPoints))
				}
			case "sandbox_sessions_imported_total":
				foundSessions = true
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					t.Fatal("Expected Sum[int64] data type")
				}
				if len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 1 {
					t.Errorf("expected one imported session, got %+v", sum.DataPoints)
				}
			}
		}
	}

	if !foundRequests {
		t.Error("http_requests_total metric not found")
	}
	if !foundSessions {
		t.Error("sandbox_sessions_imported_total metric not found")
	}
}

func TestRoutePath(t *testing.T) {
	tests := map[string]string{
		pricingPath:          pricingPath,
		sessionsPath + "abc": sessionsPath + "{id}",
		"/healthz":           "/healthz",
	}
	for in, want := range tests {
		if got := routePath(in); got != want {
			t.Errorf("routePath(%q) = %q, want %q", in, got, want)
		}
	}
}
