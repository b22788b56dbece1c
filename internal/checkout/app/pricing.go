package app

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sline-io/sline-go/internal/checkout/domain"
	"github.com/sline-io/sline-go/internal/checkout/ports"
	"github.com/sline-io/sline-go/internal/telemetry"
)

// RefreshPricing fetches prices for the current cart now, bypassing the
// debounce. Failures are returned only under ErrorPolicySurface.
func (s *Session) RefreshPricing(ctx context.Context) error {
	return s.refreshPricing(ctx)
}

// debouncedRefresh runs a coalesced refresh under the session context. Its
// span links to every UpdateCart that scheduled it.
func (s *Session) debouncedRefresh() {
	s.mu.Lock()
	links := s.triggers
	s.triggers = nil
	s.mu.Unlock()

	_ = s.refreshPricing(s.ctx, trace.WithLinks(links...))
}

// FlushPricing runs a pending debounced refresh immediately. It reports
// whether one was pending.
func (s *Session) FlushPricing() bool {
	return s.debouncer.Flush()
}

// PricingPending reports whether a debounced refresh is waiting to fire.
func (s *Session) PricingPending() bool {
	return s.debouncer.Pending()
}

func (s *Session) refreshPricing(ctx context.Context, opts ...trace.SpanStartOption) error {
	ctx, span := telemetry.StartSpan(ctx, "Session.RefreshPricing", opts...)
	defer span.End()

	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return ErrNotInitialized
	}
	s.issued++
	seq := s.issued
	sent := s.cart.Lines()
	req := ports.PricingRequest{Cart: sent, RetailerSlug: s.retailer}
	api := s.api
	s.mu.Unlock()

	telemetry.AddCartAttributes(span, req.RetailerSlug, len(sent))
	telemetry.AddSpanAttributes(span, attribute.Int64("pricing.sequence", int64(seq)))

	callCtx, cancel := s.callContext(ctx)
	offers, err := api.FetchPricing(callCtx, req)
	cancel()
	if err != nil {
		telemetry.RecordSpanError(span, err)
		return s.fail(ctx, "pricing refresh failed", err)
	}

	if !s.applyPricing(ctx, seq, sent, offers) {
		s.logger.DebugContext(ctx, "discarding stale pricing response", "sequence", seq)
		telemetry.AddSpanEvent(span, "stale_response_discarded")
		telemetry.SetSpanSuccess(span)
		return nil
	}

	if err := s.events.PublishPricesReady(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to publish prices ready", "error", err)
	}

	s.renderButtons(ctx)
	telemetry.SetSpanSuccess(span)
	return nil
}

// applyPricing merges a pricing response into the session. It reports false
// when a newer response was already applied.
func (s *Session) applyPricing(ctx context.Context, seq uint64, sent []domain.CartLine, offers []domain.DurationOffer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.applied {
		return false
	}
	s.applied = seq

	if !s.cart.IsEmpty() {
		s.durations = domain.EligibleDurations(offers, s.cart.Len())
		if s.selected == 0 && len(s.durations) > 0 {
			s.selected = s.durations[len(s.durations)-1]
		}
	}

	for _, offer := range offers {
		for i, entry := range offer.ProductsPriceBreakdown {
			sku := entry.SKU
			if sku == "" {
				// Entries without a SKU follow the order of the cart that was sent.
				if i >= len(sent) {
					s.logger.WarnContext(ctx, "skipping price without sku",
						"instalments", offer.NumberOfInstalments,
						"position", i,
					)
					continue
				}
				sku = sent[i].SKU
			}
			s.table.Set(sku, offer.NumberOfInstalments, entry.Pricing)
		}
	}
	return true
}
