package adapters

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/sline-io/sline-go/internal/checkout/domain"
	"github.com/sline-io/sline-go/internal/checkout/metrics"
	"github.com/sline-io/sline-go/internal/checkout/ports"
	"github.com/sline-io/sline-go/internal/events"
)

type mockAPI struct {
	offers  []domain.DurationOffer
	session *ports.CheckoutSession
	err     error
}

func (m *mockAPI) FetchPricing(ctx context.Context, req ports.PricingRequest) ([]domain.DurationOffer, error) {
	return m.offers, m.err
}

func (m *mockAPI) CreateCheckout(ctx context.Context, req ports.CheckoutRequest) (*ports.CheckoutSession, error) {
	return m.session, m.err
}

type mockPublisher struct {
	calls int
	err   error
}

func (m *mockPublisher) PublishPricesReady(ctx context.Context) error {
	m.calls++
	return m.err
}

func setupTracerProvider(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(noop.NewTracerProvider())
	})
	return exporter
}

func setupMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	return reader, sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
}

func metricNames(t *testing.T, reader *sdkmetric.ManualReader) map[string]bool {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}
	names := make(map[string]bool)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}
	return names
}

func TestObservableCommerceAPI(t *testing.T) {
	t.Run("fetch pricing records span and refresh metrics", func(t *testing.T) {
		exporter := setupTracerProvider(t)
		reader, mp := setupMeter(t)
		m, err := metrics.NewMetrics(mp.Meter("test"))
		if err != nil {
			t.Fatalf("NewMetrics() failed: %v", err)
		}

		api := NewObservableCommerceAPI(&mockAPI{offers: []domain.DurationOffer{{NumberOfInstalments: 3}}}, m)
		offers, err := api.FetchPricing(context.Background(), ports.PricingRequest{RetailerSlug: "acme"})
		if err != nil || len(offers) != 1 {
			t.Fatalf("unexpected result %v %v", offers, err)
		}

		spans := exporter.GetSpans()
		if len(spans) != 1 || spans[0].Name != "PricingAPI.FetchPricing" {
			t.Fatalf("expected PricingAPI.FetchPricing span, got %v", spans)
		}
		if spans[0].Status.Code != codes.Ok {
			t.Errorf("expected Ok status, got %v", spans[0].Status.Code)
		}
		if !metricNames(t, reader)["pricing_refreshes_total"] {
			t.Error("pricing_refreshes_total not recorded")
		}
	})

	t.Run("create checkout records error on span", func(t *testing.T) {
		exporter := setupTracerProvider(t)
		_, mp := setupMeter(t)
		m, _ := metrics.NewMetrics(mp.Meter("test"))

		api := NewObservableCommerceAPI(&mockAPI{err: domain.ErrNetwork}, m)
		_, err := api.CreateCheckout(context.Background(), ports.CheckoutRequest{RetailerSlug: "acme"})
		if !errors.Is(err, domain.ErrNetwork) {
			t.Fatalf("expected ErrNetwork, got %v", err)
		}

		spans := exporter.GetSpans()
		if len(spans) != 1 || spans[0].Status.Code != codes.Error {
			t.Fatalf("expected one errored span, got %v", spans)
		}
	})

	t.Run("factory wraps produced apis", func(t *testing.T) {
		_, mp := setupMeter(t)
		m, _ := metrics.NewMetrics(mp.Meter("test"))

		inner := &mockAPI{}
		factory := ObserveFactory(func(domain.Endpoints) ports.CommerceAPI { return inner }, m)

		if _, ok := factory(domain.Endpoints{}).(*ObservableCommerceAPI); !ok {
			t.Error("expected an observable api")
		}
	})
}

func TestObservableEventPublisher(t *testing.T) {
	exporter := setupTracerProvider(t)
	reader, mp := setupMeter(t)
	m, err := events.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}

	inner := &mockPublisher{}
	pub := NewObservableEventPublisher(inner, m)
	if err := pub.PublishPricesReady(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inner.calls != 1 {
		t.Errorf("expected 1 publish, got %d", inner.calls)
	}
	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != "EventPublisher.PublishPricesReady" {
		t.Errorf("unexpected spans %v", spans)
	}
	if !metricNames(t, reader)["event_publish_latency_seconds"] {
		t.Error("event_publish_latency_seconds not recorded")
	}
}
