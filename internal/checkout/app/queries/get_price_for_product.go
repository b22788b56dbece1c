package queries

import (
	"context"
	"errors"
	"strings"

	"github.com/sline-io/sline-go/internal/checkout/domain"
)

// PriceReader is read access to the known per-SKU prices.
type PriceReader interface {
	Lookup(sku string, duration int) (domain.InstalmentPricing, bool)
	FirstCurrency(duration int) (string, bool)
}

// GetPriceForProductQuery asks for the formatted instalment price of quantity
// units of a SKU at Duration. CurrencyDuration picks the duration whose first
// priced SKU decides the currency symbol.
type GetPriceForProductQuery struct {
	SKU              string
	Quantity         int
	Duration         int
	CurrencyDuration int
}

// Validate ensures the query names a product.
func (q GetPriceForProductQuery) Validate() error {
	if strings.TrimSpace(q.SKU) == "" {
		return errors.New("sku is required")
	}
	return nil
}

// GetPriceForProductQueryHandler formats prices such as "18€" or "0$".
type GetPriceForProductQueryHandler struct {
	prices PriceReader
}

func NewGetPriceForProductQueryHandler(prices PriceReader) *GetPriceForProductQueryHandler {
	return &GetPriceForProductQueryHandler{prices: prices}
}

// Handle returns the other-instalment amount times quantity with its symbol,
// or zero with the symbol when the SKU is not priced at the duration.
func (h *GetPriceForProductQueryHandler) Handle(ctx context.Context, query GetPriceForProductQuery) (string, error) {
	if err := query.Validate(); err != nil {
		return "", err
	}

	currency, _ := h.prices.FirstCurrency(query.CurrencyDuration)
	symbol := domain.CurrencySymbol(currency)

	pricing, ok := h.prices.Lookup(query.SKU, query.Duration)
	if !ok {
		return "0" + symbol, nil
	}

	total := pricing.OtherInstalmentPrice.Amount * int64(query.Quantity)
	return domain.FormatAmount(total) + symbol, nil
}
