// Package sandbox is a stand-in for the Sline commerce API, used for local
// development of storefront integrations and for end-to-end tests.
package sandbox

import (
	"sort"
	"sync"

	"github.com/sline-io/sline-go/internal/checkout/domain"
)

// Product is a catalog entry priced in minor units for the whole purchase.
type Product struct {
	SKU      string
	Price    int64
	Currency string
}

// Catalog holds the SKUs the sandbox knows how to price.
type Catalog struct {
	mu        sync.RWMutex
	products  map[string]Product
	durations []int
}

// NewCatalog constructs a catalog offering the given instalment counts.
// Counts below one are ignored.
func NewCatalog(durations []int, products ...Product) *Catalog {
	sorted := make([]int, 0, len(durations))
	for _, d := range durations {
		if d > 0 {
			sorted = append(sorted, d)
		}
	}
	sort.Ints(sorted)

	c := &Catalog{
		products:  make(map[string]Product, len(products)),
		durations: sorted,
	}
	for _, p := range products {
		c.products[p.SKU] = p
	}
	return c
}

// DefaultCatalog is the catalog served by cmd/sandbox.
func DefaultCatalog() *Catalog {
	return NewCatalog([]int{3, 6, 12},
		Product{SKU: "SKU1", Price: 2700, Currency: "EUR"},
		Product{SKU: "SKU2", Price: 12000, Currency: "EUR"},
		Product{SKU: "SKU3", Price: 45000, Currency: "EUR"},
		Product{SKU: "US-1", Price: 1500, Currency: "USD"},
	)
}

// Put stores or replaces a product.
func (c *Catalog) Put(p Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.SKU] = p
}

// Get fetches a single product by SKU.
func (c *Catalog) Get(sku string) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[sku]
	return p, ok
}

func (c *Catalog) Durations() []int {
	return append([]int(nil), c.durations...)
}

// Offers prices the known SKUs of a cart for every duration. Unknown SKUs
// are left out of the breakdown.
func (c *Catalog) Offers(cart []domain.CartLine) []durationOffer {
	c.mu.RLock()
	defer c.mu.RUnlock()

	offers := make([]durationOffer, 0, len(c.durations))
	for _, n := range c.durations {
		offer := durationOffer{
			NumberOfInstalments:    n,
			ProductsPriceBreakdown: make([]productPrice, 0, len(cart)),
		}
		for _, line := range cart {
			p, ok := c.products[line.SKU]
			if !ok {
				continue
			}
			offer.ProductsPriceBreakdown = append(offer.ProductsPriceBreakdown, productPrice{
				SKU:     p.SKU,
				Pricing: split(p, n),
			})
		}
		offers = append(offers, offer)
	}
	return offers
}

func (c *Catalog) offersDuration(n int) bool {
	for _, d := range c.durations {
		if d == n {
			return true
		}
	}
	return false
}

// split spreads a price over n instalments; the first one absorbs the remainder.
func split(p Product, n int) domain.InstalmentPricing {
	other := p.Price / int64(n)
	first := p.Price - other*int64(n-1)
	return domain.InstalmentPricing{
		FirstInstalmentPrice: domain.Money{Amount: first, Currency: p.Currency},
		OtherInstalmentPrice: domain.Money{Amount: other, Currency: p.Currency},
	}
}
