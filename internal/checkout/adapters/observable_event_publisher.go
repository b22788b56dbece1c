package adapters

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/sline-io/sline-go/internal/checkout/ports"
	"github.com/sline-io/sline-go/internal/events"
	"github.com/sline-io/sline-go/internal/telemetry"
)

type ObservableEventPublisher struct {
	publisher ports.EventPublisher
	metrics   *events.Metrics
}

func NewObservableEventPublisher(publisher ports.EventPublisher, metrics *events.Metrics) *ObservableEventPublisher {
	return &ObservableEventPublisher{
		publisher: publisher,
		metrics:   metrics,
	}
}

func (p *ObservableEventPublisher) PublishPricesReady(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "EventPublisher.PublishPricesReady")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("event.type", ports.PricesReadyEvent),
	)

	start := time.Now()
	err := p.publisher.PublishPricesReady(ctx)
	duration := time.Since(start).Seconds()

	p.metrics.RecordPublish(ctx, ports.PricesReadyEvent, duration, err == nil)

	telemetry.SetSpanOutcome(span, err)
	return err
}
