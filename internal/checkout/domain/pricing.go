package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units (cents) with its ISO currency code.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// InstalmentPricing is the price breakdown of one SKU for one duration.
type InstalmentPricing struct {
	FirstInstalmentPrice Money `json:"firstInstalmentPrice"`
	OtherInstalmentPrice Money `json:"otherInstalmentPrice"`
}

// ProductPrice is one entry of a duration offer. SKU may be empty when the
// API omits it.
type ProductPrice struct {
	SKU     string
	Pricing InstalmentPricing
}

// DurationOffer lists the per-SKU prices available for a number of instalments.
type DurationOffer struct {
	NumberOfInstalments    int
	ProductsPriceBreakdown []ProductPrice
}

// EligibleDurations keeps the offers that price every item of a cart of
// cartSize items and returns their instalment counts in ascending order.
func EligibleDurations(offers []DurationOffer, cartSize int) []int {
	durations := make([]int, 0, len(offers))
	for _, offer := range offers {
		if len(offer.ProductsPriceBreakdown) == cartSize {
			durations = append(durations, offer.NumberOfInstalments)
		}
	}
	sort.Ints(durations)
	return durations
}

// PriceTable maps SKU to duration to pricing. Entries are only ever added or
// overwritten; SKUs keep their first-insertion order.
type PriceTable struct {
	entries map[string]map[int]InstalmentPricing
	order   []string
}

func NewPriceTable() *PriceTable {
	return &PriceTable{entries: make(map[string]map[int]InstalmentPricing)}
}

// Set upserts the pricing of sku for duration.
func (t *PriceTable) Set(sku string, duration int, pricing InstalmentPricing) {
	byDuration, ok := t.entries[sku]
	if !ok {
		byDuration = make(map[int]InstalmentPricing)
		t.entries[sku] = byDuration
		t.order = append(t.order, sku)
	}
	byDuration[duration] = pricing
}

// Has reports whether any price is known for sku.
func (t *PriceTable) Has(sku string) bool {
	_, ok := t.entries[sku]
	return ok
}

func (t *PriceTable) Lookup(sku string, duration int) (InstalmentPricing, bool) {
	pricing, ok := t.entries[sku][duration]
	return pricing, ok
}

// ForSKU returns a copy of every duration priced for sku.
func (t *PriceTable) ForSKU(sku string) map[int]InstalmentPricing {
	byDuration, ok := t.entries[sku]
	if !ok {
		return nil
	}
	out := make(map[int]InstalmentPricing, len(byDuration))
	for d, p := range byDuration {
		out[d] = p
	}
	return out
}

// LineTotal is the other-instalment amount of sku at duration times quantity.
// Unpriced lines contribute zero.
func (t *PriceTable) LineTotal(sku string, duration, quantity int) int64 {
	pricing, ok := t.Lookup(sku, duration)
	if !ok {
		return 0
	}
	return pricing.OtherInstalmentPrice.Amount * int64(quantity)
}

// FirstCurrency returns the other-instalment currency of the first priced SKU
// at duration.
func (t *PriceTable) FirstCurrency(duration int) (string, bool) {
	if len(t.order) == 0 {
		return "", false
	}
	pricing, ok := t.entries[t.order[0]][duration]
	if !ok {
		return "", false
	}
	return pricing.OtherInstalmentPrice.Currency, true
}

func (t *PriceTable) Len() int {
	return len(t.order)
}

func (t *PriceTable) Reset() {
	t.entries = make(map[string]map[int]InstalmentPricing)
	t.order = nil
}

// CurrencySymbol maps an ISO code to the symbol shown on buttons.
func CurrencySymbol(code string) string {
	switch code {
	case "USD":
		return "$"
	default:
		return "€"
	}
}

// FormatAmount renders minor units as a major-unit number without trailing
// zeros: 1800 -> "18", 1850 -> "18.5", 1855 -> "18.55".
func FormatAmount(minor int64) string {
	return decimal.New(minor, -2).String()
}
