package adapters

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/sline-io/sline-go/internal/checkout/domain"
	"github.com/sline-io/sline-go/internal/checkout/metrics"
	"github.com/sline-io/sline-go/internal/checkout/ports"
	"github.com/sline-io/sline-go/internal/telemetry"
)

type ObservableCommerceAPI struct {
	api     ports.CommerceAPI
	metrics *metrics.Metrics
}

func NewObservableCommerceAPI(api ports.CommerceAPI, metrics *metrics.Metrics) *ObservableCommerceAPI {
	return &ObservableCommerceAPI{
		api:     api,
		metrics: metrics,
	}
}

// ObserveFactory wraps every API produced by factory.
func ObserveFactory(factory ports.CommerceAPIFactory, metrics *metrics.Metrics) ports.CommerceAPIFactory {
	return func(endpoints domain.Endpoints) ports.CommerceAPI {
		return NewObservableCommerceAPI(factory(endpoints), metrics)
	}
}

func (a *ObservableCommerceAPI) FetchPricing(ctx context.Context, req ports.PricingRequest) ([]domain.DurationOffer, error) {
	ctx, span := telemetry.StartSpan(ctx, "PricingAPI.FetchPricing")
	defer span.End()

	telemetry.AddCartAttributes(span, req.RetailerSlug, len(req.Cart))

	start := time.Now()
	offers, err := a.api.FetchPricing(ctx, req)
	duration := time.Since(start).Seconds()

	a.metrics.RecordPricingRefresh(ctx, duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.Int("result.offers", len(offers)))
	telemetry.SetSpanSuccess(span)
	return offers, nil
}

func (a *ObservableCommerceAPI) CreateCheckout(ctx context.Context, req ports.CheckoutRequest) (*ports.CheckoutSession, error) {
	ctx, span := telemetry.StartSpan(ctx, "CheckoutAPI.CreateCheckout")
	defer span.End()

	telemetry.AddCartAttributes(span, req.RetailerSlug, len(req.Cart))
	if req.Duration != nil {
		telemetry.AddSpanAttributes(span, attribute.Int("checkout.duration", *req.Duration))
	}

	session, err := a.api.CreateCheckout(ctx, req)
	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.AddSpanAttributes(span, attribute.String("checkout.session_id", session.ID))
	telemetry.SetSpanSuccess(span)
	return session, nil
}
