package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sline-io/sline-go/internal/checkout/adapters/dom"
	"github.com/sline-io/sline-go/internal/checkout/app"
	"github.com/sline-io/sline-go/internal/checkout/domain"
	"github.com/sline-io/sline-go/internal/checkout/ports"
	"github.com/sline-io/sline-go/internal/debounce"
)

const window = app.DefaultDebounceWindow

type fakeAPI struct {
	mu            sync.Mutex
	endpoints     domain.Endpoints
	pricingCalls  []ports.PricingRequest
	checkoutCalls []ports.CheckoutRequest
	pricingFn     func(ctx context.Context, req ports.PricingRequest) ([]domain.DurationOffer, error)
	checkoutFn    func(ctx context.Context, req ports.CheckoutRequest) (*ports.CheckoutSession, error)
}

func (f *fakeAPI) factory(endpoints domain.Endpoints) ports.CommerceAPI {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endpoints = endpoints
	return f
}

func (f *fakeAPI) FetchPricing(ctx context.Context, req ports.PricingRequest) ([]domain.DurationOffer, error) {
	f.mu.Lock()
	f.pricingCalls = append(f.pricingCalls, req)
	fn := f.pricingFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return pricedCart(req, map[int]int64{3: 900}), nil
}

func (f *fakeAPI) CreateCheckout(ctx context.Context, req ports.CheckoutRequest) (*ports.CheckoutSession, error) {
	f.mu.Lock()
	f.checkoutCalls = append(f.checkoutCalls, req)
	fn := f.checkoutFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return &ports.CheckoutSession{ID: "sess_42", Raw: map[string]any{"id": "sess_42"}}, nil
}

func (f *fakeAPI) pricingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pricingCalls)
}

func (f *fakeAPI) lastPricing() ports.PricingRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pricingCalls[len(f.pricingCalls)-1]
}

func (f *fakeAPI) checkoutCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.checkoutCalls)
}

func eur(amount int64) domain.InstalmentPricing {
	return domain.InstalmentPricing{
		FirstInstalmentPrice: domain.Money{Amount: amount + 100, Currency: "EUR"},
		OtherInstalmentPrice: domain.Money{Amount: amount, Currency: "EUR"},
	}
}

// pricedCart prices every line of req at the given per-duration unit amount.
func pricedCart(req ports.PricingRequest, amounts map[int]int64) []domain.DurationOffer {
	var offers []domain.DurationOffer
	for n, amount := range amounts {
		offer := domain.DurationOffer{NumberOfInstalments: n}
		for _, line := range req.Cart {
			offer.ProductsPriceBreakdown = append(offer.ProductsPriceBreakdown, domain.ProductPrice{
				SKU:     line.SKU,
				Pricing: eur(amount),
			})
		}
		offers = append(offers, offer)
	}
	return offers
}

type fixture struct {
	session *app.Session
	doc     *dom.Document
	api     *fakeAPI
	clock   *debounce.ManualClock
}

// newPage builds a storefront with a #buy-btn button, two class-path buttons
// and a #durations selector offering 3 and 6 instalments.
func newPage() *dom.Document {
	doc := dom.NewDocument()
	body := doc.Body()

	body.AppendChild(dom.NewElement("button").WithID("buy-btn").WithText("Buy"))

	list := body.AppendChild(dom.NewElement("ul").WithClass("products"))
	list.AppendChild(dom.NewElement("li")).
		AppendChild(dom.NewElement("button").WithClass("sline-btn").WithAttr("data-sku", "A"))
	list.AppendChild(dom.NewElement("li")).
		AppendChild(dom.NewElement("button").WithClass("sline-btn").WithAttr("data-sku", "B"))

	selector := body.AppendChild(dom.NewElement("fieldset").WithID("durations"))
	selector.AppendChild(dom.NewElement("input").WithAttr("type", "radio").WithAttr("value", "3"))
	selector.AppendChild(dom.NewElement("input").WithAttr("type", "radio").WithAttr("value", "6"))
	selector.AppendChild(dom.NewElement("label").WithText("6 months"))

	return doc
}

func newFixture(t *testing.T, opts ...app.Option) *fixture {
	t.Helper()

	f := &fixture{
		doc:   newPage(),
		api:   &fakeAPI{},
		clock: debounce.NewManualClock(),
	}

	opts = append([]app.Option{app.WithClock(f.clock)}, opts...)
	session, err := app.NewSession(app.Dependencies{
		Document: f.doc,
		API:      f.api.factory,
		Events:   dom.NewEventPublisher(f.doc),
	}, opts...)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	t.Cleanup(session.Close)

	f.session = session
	return f
}

func buttonSettings() domain.Settings {
	return domain.Settings{
		Retailer: "acme",
		CheckoutButton: &domain.CheckoutButtonSettings{
			ID:     "buy-btn",
			Prefix: "Pay",
			Suffix: "/month",
		},
		DurationSelector: &domain.DurationSelectorSettings{ID: "durations"},
	}
}

func (f *fixture) initialize(t *testing.T, settings domain.Settings) {
	t.Helper()
	if err := f.session.Initialize(settings); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
}

func (f *fixture) add(t *testing.T, sku string, qty int) {
	t.Helper()
	if err := f.session.UpdateCart(context.Background(), sku, qty); err != nil {
		t.Fatalf("UpdateCart(%s, %d) failed: %v", sku, qty, err)
	}
}

// settle lets the debounce window elapse.
func (f *fixture) settle() {
	f.clock.Advance(window)
}

func (f *fixture) button(t *testing.T) *dom.Element {
	t.Helper()
	el := f.doc.Find("buy-btn")
	if el == nil {
		t.Fatal("buy-btn not found")
	}
	return el
}

func (f *fixture) radio(t *testing.T, value string) *dom.Element {
	t.Helper()
	for _, el := range f.doc.MustQuery("#durations input") {
		if v, _ := el.Attribute("value"); v == value {
			return el
		}
	}
	t.Fatalf("radio %s not found", value)
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}
