package sandbox

import (
	"reflect"
	"testing"

	"github.com/sline-io/sline-go/internal/checkout/domain"
)

func TestCatalog(t *testing.T) {
	t.Run("durations are sorted", func(t *testing.T) {
		c := NewCatalog([]int{12, 3, 6})
		if got := c.Durations(); !reflect.DeepEqual(got, []int{3, 6, 12}) {
			t.Errorf("expected [3 6 12], got %v", got)
		}
	})

	t.Run("non positive durations are ignored", func(t *testing.T) {
		c := NewCatalog([]int{0, 6, -3}, Product{SKU: "A", Price: 600, Currency: "EUR"})
		if got := c.Durations(); !reflect.DeepEqual(got, []int{6}) {
			t.Fatalf("expected [6], got %v", got)
		}

		offers := c.Offers([]domain.CartLine{{SKU: "A", Quantity: 1}})
		if len(offers) != 1 || offers[0].NumberOfInstalments != 6 {
			t.Errorf("expected a single 6 instalment offer, got %+v", offers)
		}
	})

	t.Run("put makes a sku priceable", func(t *testing.T) {
		c := NewCatalog([]int{3})
		cart := []domain.CartLine{{SKU: "NEW", Quantity: 1}}

		if got := c.Offers(cart)[0].ProductsPriceBreakdown; len(got) != 0 {
			t.Fatalf("expected no breakdown, got %v", got)
		}

		c.Put(Product{SKU: "NEW", Price: 300, Currency: "USD"})

		got := c.Offers(cart)[0].ProductsPriceBreakdown
		if len(got) != 1 || got[0].Pricing.OtherInstalmentPrice.Amount != 100 {
			t.Errorf("expected NEW at 100 per instalment, got %+v", got)
		}
	})

	t.Run("split keeps the total", func(t *testing.T) {
		for _, n := range []int{1, 3, 7, 12} {
			pricing := split(Product{Price: 1001, Currency: "EUR"}, n)
			total := pricing.FirstInstalmentPrice.Amount + pricing.OtherInstalmentPrice.Amount*int64(n-1)
			if total != 1001 {
				t.Errorf("n=%d: instalments add up to %d", n, total)
			}
		}
	})
}
