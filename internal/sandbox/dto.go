package sandbox

import "github.com/sline-io/sline-go/internal/checkout/domain"

type cartLineRequest struct {
	SKU      string `json:"sku" validate:"required"`
	Quantity int    `json:"quantity"`
}

type pricingRequest struct {
	Cart         []cartLineRequest `json:"cart" validate:"dive"`
	RetailerSlug string            `json:"retailerSlug" validate:"required"`
}

type importRequest struct {
	Cart         []cartLineRequest `json:"cart" validate:"required,min=1,dive"`
	RetailerSlug string            `json:"retailerSlug" validate:"required"`
	Duration     *int              `json:"duration" validate:"omitempty,gt=0"`
}

type productPrice struct {
	SKU     string                   `json:"sku"`
	Pricing domain.InstalmentPricing `json:"pricing"`
}

type durationOffer struct {
	NumberOfInstalments    int            `json:"numberOfInstalments"`
	ProductsPriceBreakdown []productPrice `json:"productsPriceBreakdown"`
}

func toCartLines(lines []cartLineRequest) []domain.CartLine {
	cart := make([]domain.CartLine, len(lines))
	for i, l := range lines {
		cart[i] = domain.CartLine{SKU: l.SKU, Quantity: l.Quantity}
	}
	return cart
}
