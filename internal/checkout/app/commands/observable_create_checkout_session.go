package commands

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/sline-io/sline-go/internal/checkout/metrics"
	"github.com/sline-io/sline-go/internal/telemetry"
)

type ObservableCommandHandler struct {
	handler CommandHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCommandHandler(handler CommandHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableCommandHandler {
	return &ObservableCommandHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableCommandHandler) Handle(ctx context.Context, cmd CreateCheckoutSessionCommand) (*CheckoutSessionResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "CreateCheckoutSessionCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		o.metrics.RecordCheckoutSession(ctx, time.Since(start).Seconds(), success)
	}()

	telemetry.AddCartAttributes(span, cmd.Retailer, len(cmd.Cart))
	telemetry.AddSpanAttributes(span, attribute.Int("checkout.duration", cmd.Duration))

	o.logger.InfoContext(ctx, "creating checkout session",
		"retailer", cmd.Retailer,
		"items", len(cmd.Cart),
		"duration", cmd.Duration,
	)

	result, err := o.handler.Handle(ctx, cmd)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to create checkout session",
			"error", err,
			"retailer", cmd.Retailer,
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("checkout.session_id", result.Session.ID),
		attribute.String("checkout.url", result.CheckoutURL),
	)

	o.logger.InfoContext(ctx, "checkout session created",
		"session_id", result.Session.ID,
		"checkout_url", result.CheckoutURL,
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return result, nil
}
