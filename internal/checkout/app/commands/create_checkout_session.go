package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/sline-io/sline-go/internal/checkout/domain"
	"github.com/sline-io/sline-go/internal/checkout/ports"
)

// CreateCheckoutSessionCommand asks the commerce API for a hosted checkout
// session. Duration is zero while no duration has been selected.
type CreateCheckoutSessionCommand struct {
	Cart     []domain.CartLine
	Retailer string
	Duration int
}

func (c CreateCheckoutSessionCommand) Validate() error {
	if len(c.Cart) == 0 {
		return domain.ErrEmptyCart
	}
	if strings.TrimSpace(c.Retailer) == "" {
		return errors.New("retailer is required")
	}
	return nil
}

// CheckoutSessionResult is a created session and the page to send the shopper to.
type CheckoutSessionResult struct {
	Session     *ports.CheckoutSession
	CheckoutURL string
}

type CommandHandler interface {
	Handle(ctx context.Context, cmd CreateCheckoutSessionCommand) (*CheckoutSessionResult, error)
}

type CreateCheckoutSessionCommandHandler struct {
	api       ports.CheckoutAPI
	endpoints domain.Endpoints
}

func NewCreateCheckoutSessionCommandHandler(
	api ports.CheckoutAPI,
	endpoints domain.Endpoints,
) *CreateCheckoutSessionCommandHandler {
	return &CreateCheckoutSessionCommandHandler{
		api:       api,
		endpoints: endpoints,
	}
}

func (h *CreateCheckoutSessionCommandHandler) Handle(ctx context.Context, cmd CreateCheckoutSessionCommand) (*CheckoutSessionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	req := ports.CheckoutRequest{
		Cart:         cmd.Cart,
		RetailerSlug: cmd.Retailer,
	}
	if cmd.Duration > 0 {
		duration := cmd.Duration
		req.Duration = &duration
	}

	session, err := h.api.CreateCheckout(ctx, req)
	if err != nil {
		return nil, err
	}

	return &CheckoutSessionResult{
		Session:     session,
		CheckoutURL: h.endpoints.CheckoutURL(session.ID),
	}, nil
}
