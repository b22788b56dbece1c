package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/sline-io/sline-go/internal/checkout/domain"
	"github.com/sline-io/sline-go/internal/checkout/ports"
)

// checkoutClickListener handles clicks on one checkout button.
func (s *Session) checkoutClickListener(button ports.Element) ports.ClickListener {
	return func(ctx context.Context, ev *ports.ClickEvent) {
		ev.PreventDefault()
		ev.StopPropagation()

		s.mu.Lock()
		if s.cart.IsEmpty() || s.inFlight {
			s.mu.Unlock()
			return
		}
		s.inFlight = true
		s.mu.Unlock()

		label := button.Text()
		button.Disable()
		button.ShowLoading()

		result, err := s.createCheckoutSession(ctx)

		s.mu.Lock()
		s.inFlight = false
		custom := s.button.CustomClickHandler
		s.mu.Unlock()

		if err != nil {
			_ = s.fail(ctx, "checkout session failed", err)
			button.SetText(label)
			button.Enable()
			s.renderButtons(ctx)
			return
		}
		if !custom {
			s.doc.Navigate(result.CheckoutURL)
		}
	}
}

// onDurationClick handles clicks delegated from the duration selector;
// only radio inputs select a duration.
func (s *Session) onDurationClick(ctx context.Context, ev *ports.ClickEvent) {
	target := ev.Target
	if target == nil {
		return
	}
	if typ, _ := target.Attribute("type"); !strings.EqualFold(typ, "radio") {
		return
	}

	raw, _ := target.Attribute("value")
	duration, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || duration <= 0 {
		s.logger.WarnContext(ctx, "ignoring invalid duration", "value", raw)
		return
	}

	_ = s.SelectDuration(ctx, duration)
}

// renderButtons refreshes the price shown on every bound checkout button.
// Buttons are left alone while a checkout is in flight.
func (s *Session) renderButtons(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized || s.inFlight {
		return
	}

	currency, _ := s.table.FirstCurrency(s.currencyDuration())
	symbol := domain.CurrencySymbol(currency)

	for _, el := range s.buttons {
		el.Disable()

		var total int64
		if s.button.ByID() {
			total = s.cartTotal()
		} else {
			total = s.buttonTotal(el)
		}

		if label, ok := s.button.Label(total, symbol); ok {
			el.SetText(label)
		}

		el.Enable()
	}

	s.logger.DebugContext(ctx, "checkout buttons rendered",
		"buttons", len(s.buttons),
		"duration", s.selected,
	)
}

// cartTotal sums the line totals of the cart at the selected duration.
// Callers hold s.mu.
func (s *Session) cartTotal() int64 {
	var total int64
	for _, item := range s.cart.Items() {
		total += s.table.LineTotal(item.SKU, s.selected, item.Quantity)
	}
	return total
}

// buttonTotal is the line total of the SKU named by the button's data-sku
// attribute, zero when that SKU is not in the cart. Callers hold s.mu.
func (s *Session) buttonTotal(el ports.Element) int64 {
	sku, _ := el.Attribute("data-sku")
	item, ok := s.cart.Find(sku)
	if !ok {
		return 0
	}
	return s.table.LineTotal(sku, s.selected, item.Quantity)
}
