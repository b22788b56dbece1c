package app

import (
	"context"
	"errors"

	"github.com/sline-io/sline-go/internal/checkout/app/commands"
	"github.com/sline-io/sline-go/internal/checkout/domain"
	"github.com/sline-io/sline-go/internal/checkout/ports"
)

// CreateCheckoutSession submits the cart and selected duration and records
// the resulting checkout URL. An empty cart returns nil without a network
// call. Failures are returned only under ErrorPolicySurface.
func (s *Session) CreateCheckoutSession(ctx context.Context) (*ports.CheckoutSession, error) {
	result, err := s.createCheckoutSession(ctx)
	if errors.Is(err, domain.ErrEmptyCart) {
		return nil, nil
	}
	if errors.Is(err, ErrNotInitialized) {
		return nil, err
	}
	if err != nil {
		return nil, s.fail(ctx, "checkout session failed", err)
	}
	return result.Session, nil
}

func (s *Session) createCheckoutSession(ctx context.Context) (*commands.CheckoutSessionResult, error) {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return nil, ErrNotInitialized
	}
	if s.cart.IsEmpty() {
		s.mu.Unlock()
		return nil, domain.ErrEmptyCart
	}
	cmd := commands.CreateCheckoutSessionCommand{
		Cart:     s.cart.Lines(),
		Retailer: s.retailer,
		Duration: s.selected,
	}
	handler := s.checkout
	s.mu.Unlock()

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	result, err := handler.Handle(callCtx, cmd)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.checkoutURL = result.CheckoutURL
	s.mu.Unlock()

	return result, nil
}
