package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	pricingRefreshesTotal   metric.Int64Counter
	pricingRefreshDuration  metric.Float64Histogram
	pricingTriggersTotal    metric.Int64Counter
	checkoutSessionsTotal   metric.Int64Counter
	checkoutSessionDuration metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.pricingRefreshesTotal, err = meter.Int64Counter(
		"pricing_refreshes_total",
		metric.WithDescription("Total number of pricing lookups sent to the commerce API"),
		metric.WithUnit("{refresh}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create pricing_refreshes_total counter: %w", err)
	}

	m.pricingRefreshDuration, err = meter.Float64Histogram(
		"pricing_refresh_duration_seconds",
		metric.WithDescription("Duration of pricing lookups"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create pricing_refresh_duration histogram: %w", err)
	}

	m.pricingTriggersTotal, err = meter.Int64Counter(
		"pricing_triggers_total",
		metric.WithDescription("Pricing refresh triggers by outcome (scheduled, coalesced)"),
		metric.WithUnit("{trigger}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create pricing_triggers_total counter: %w", err)
	}

	m.checkoutSessionsTotal, err = meter.Int64Counter(
		"checkout_sessions_created_total",
		metric.WithDescription("Total number of checkout sessions requested"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create checkout_sessions_created_total counter: %w", err)
	}

	m.checkoutSessionDuration, err = meter.Float64Histogram(
		"checkout_session_duration_seconds",
		metric.WithDescription("Duration of checkout session creation"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create checkout_session_duration histogram: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordPricingRefresh(ctx context.Context, durationSeconds float64, success bool) {
	m.pricingRefreshesTotal.Add(ctx, 1, metric.WithAttributes(statusAttr(success)))
	m.pricingRefreshDuration.Record(ctx, durationSeconds)
}

// RecordPricingTrigger counts a refresh trigger; coalesced means it replaced
// one still waiting in the debounce window.
func (m *Metrics) RecordPricingTrigger(ctx context.Context, coalesced bool) {
	outcome := "scheduled"
	if coalesced {
		outcome = "coalesced"
	}
	m.pricingTriggersTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *Metrics) RecordCheckoutSession(ctx context.Context, durationSeconds float64, success bool) {
	m.checkoutSessionsTotal.Add(ctx, 1, metric.WithAttributes(statusAttr(success)))
	m.checkoutSessionDuration.Record(ctx, durationSeconds)
}

func statusAttr(success bool) attribute.KeyValue {
	if success {
		return attribute.String("status", "success")
	}
	return attribute.String("status", "error")
}
