package app

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// UpdateCart sets the quantity of sku, appending it when new. A SKU without
// known prices schedules a coalesced pricing refresh. The checkout button is
// re-rendered either way.
func (s *Session) UpdateCart(ctx context.Context, sku string, quantity int) error {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return ErrNotInitialized
	}
	s.cart.Upsert(sku, quantity, s.selected)
	needsPricing := !s.table.Has(sku)
	if sc := trace.SpanContextFromContext(ctx); needsPricing && sc.IsValid() {
		s.triggers = append(s.triggers, trace.Link{SpanContext: sc})
	}
	s.mu.Unlock()

	if needsPricing {
		coalesced := s.debouncer.Trigger()
		s.metrics.RecordPricingTrigger(ctx, coalesced)
		if coalesced {
			s.logger.DebugContext(ctx, "pricing refresh coalesced", "sku", sku)
		}
	}

	s.renderButtons(ctx)
	return nil
}

// AddCart is UpdateCart.
func (s *Session) AddCart(ctx context.Context, sku string, quantity int) error {
	return s.UpdateCart(ctx, sku, quantity)
}

// ResetCart empties the cart. Known prices and the selected duration are kept.
func (s *Session) ResetCart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	s.cart.Reset()
	return nil
}

// SelectDuration selects an instalment count for the whole cart and
// re-renders the checkout button. Prices are not re-fetched.
func (s *Session) SelectDuration(ctx context.Context, duration int) error {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return ErrNotInitialized
	}
	s.selected = duration
	s.cart.SetDuration(duration)
	s.mu.Unlock()

	s.renderButtons(ctx)
	return nil
}
