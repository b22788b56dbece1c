package ports

import (
	"context"

	"github.com/sline-io/sline-go/internal/checkout/domain"
)

// PricingRequest is the body of a pricing lookup.
type PricingRequest struct {
	Cart         []domain.CartLine `json:"cart"`
	RetailerSlug string            `json:"retailerSlug"`
}

// CheckoutRequest is the body of a checkout-session creation. Duration is nil
// while no duration is selected.
type CheckoutRequest struct {
	Cart         []domain.CartLine `json:"cart"`
	RetailerSlug string            `json:"retailerSlug"`
	Duration     *int              `json:"duration"`
}

// CheckoutSession is the answer of the checkout endpoint. Raw keeps every
// field the API returned.
type CheckoutSession struct {
	ID  string
	Raw map[string]any
}

// PricingAPI fetches installment offers for a cart.
type PricingAPI interface {
	FetchPricing(ctx context.Context, req PricingRequest) ([]domain.DurationOffer, error)
}

// CheckoutAPI creates hosted checkout sessions.
type CheckoutAPI interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// CommerceAPI is the Sline commerce API bound to one environment.
type CommerceAPI interface {
	PricingAPI
	CheckoutAPI
}

// CommerceAPIFactory binds the commerce API to the endpoints selected by the
// settings passed to Initialize.
type CommerceAPIFactory func(endpoints domain.Endpoints) CommerceAPI
