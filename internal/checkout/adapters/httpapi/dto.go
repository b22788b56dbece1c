package httpapi

import "github.com/sline-io/sline-go/internal/checkout/domain"

type moneyDTO struct {
	Amount   *int64 `json:"amount" validate:"required"`
	Currency string `json:"currency" validate:"required"`
}

type instalmentPricingDTO struct {
	FirstInstalmentPrice *moneyDTO `json:"firstInstalmentPrice" validate:"required"`
	OtherInstalmentPrice *moneyDTO `json:"otherInstalmentPrice" validate:"required"`
}

type productPriceDTO struct {
	SKU     string                `json:"sku"`
	Pricing *instalmentPricingDTO `json:"pricing" validate:"required"`
}

type durationOfferDTO struct {
	NumberOfInstalments    int               `json:"numberOfInstalments" validate:"gt=0"`
	ProductsPriceBreakdown []productPriceDTO `json:"productsPriceBreakdown" validate:"required,dive"`
}

type checkoutSessionDTO struct {
	ID string `json:"id" validate:"required"`
}

func (m *moneyDTO) toDomain() domain.Money {
	return domain.Money{Amount: *m.Amount, Currency: m.Currency}
}

func (o durationOfferDTO) toDomain() domain.DurationOffer {
	breakdown := make([]domain.ProductPrice, len(o.ProductsPriceBreakdown))
	for i, p := range o.ProductsPriceBreakdown {
		breakdown[i] = domain.ProductPrice{
			SKU: p.SKU,
			Pricing: domain.InstalmentPricing{
				FirstInstalmentPrice: p.Pricing.FirstInstalmentPrice.toDomain(),
				OtherInstalmentPrice: p.Pricing.OtherInstalmentPrice.toDomain(),
			},
		}
	}
	return domain.DurationOffer{
		NumberOfInstalments:    o.NumberOfInstalments,
		ProductsPriceBreakdown: breakdown,
	}
}
