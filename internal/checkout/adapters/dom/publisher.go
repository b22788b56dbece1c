package dom

import (
	"context"

	"github.com/sline-io/sline-go/internal/checkout/ports"
)

// EventPublisher announces SDK events on a host document.
type EventPublisher struct {
	doc ports.Document
}

func NewEventPublisher(doc ports.Document) *EventPublisher {
	return &EventPublisher{doc: doc}
}

func (p *EventPublisher) PublishPricesReady(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.doc.Dispatch(ports.PricesReadyEvent)
	return nil
}
