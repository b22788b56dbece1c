// Package app holds the checkout session: configuration, cart, pricing and
// the bindings that keep checkout buttons in sync with them.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/sline-io/sline-go/internal/checkout/app/commands"
	"github.com/sline-io/sline-go/internal/checkout/app/queries"
	"github.com/sline-io/sline-go/internal/checkout/domain"
	"github.com/sline-io/sline-go/internal/checkout/metrics"
	"github.com/sline-io/sline-go/internal/checkout/ports"
	"github.com/sline-io/sline-go/internal/debounce"
	"github.com/sline-io/sline-go/internal/events"
)

// ErrNotInitialized is returned by operations called before Initialize succeeded.
var ErrNotInitialized = errors.New("session not initialized")

const (
	checkoutListenerKey = "sline.checkout"
	durationListenerKey = "sline.duration"
)

// Dependencies are the collaborators a Session drives.
type Dependencies struct {
	Document ports.Document
	API      ports.CommerceAPIFactory
	Events   ports.EventPublisher
}

// Session is one embedded checkout: its settings, cart, known prices and
// the page elements bound to them. It is safe for concurrent use.
type Session struct {
	doc        ports.Document
	apiFactory ports.CommerceAPIFactory
	events     ports.EventPublisher

	logger  *slog.Logger
	metrics *metrics.Metrics
	clock   debounce.Clock
	window  time.Duration
	timeout time.Duration
	policy  ErrorPolicy
	onError func(error)

	ctx       context.Context
	cancel    context.CancelFunc
	debouncer *debounce.Debouncer
	prices    *queries.GetPriceForProductQueryHandler

	mu          sync.Mutex
	initialized bool
	retailer    string
	button      domain.CheckoutButton
	endpoints   domain.Endpoints
	api         ports.CommerceAPI
	checkout    commands.CommandHandler
	buttons     []ports.Element
	selector    ports.Element
	cart        domain.Cart
	table       *domain.PriceTable
	durations   []int
	selected    int
	checkoutURL string
	issued      uint64
	applied     uint64
	inFlight    bool
	triggers    []trace.Link
}

// NewSession builds an uninitialized session over deps. Options override the
// defaults: slog.Default, no-op metrics, DefaultDebounceWindow,
// DefaultRequestTimeout and ErrorPolicySwallow.
func NewSession(deps Dependencies, opts ...Option) (*Session, error) {
	if deps.Document == nil {
		return nil, errors.New("document is required")
	}
	if deps.API == nil {
		return nil, errors.New("commerce api factory is required")
	}

	s := &Session{
		doc:        deps.Document,
		apiFactory: deps.API,
		events:     deps.Events,
		logger:     slog.Default(),
		clock:      debounce.SystemClock,
		window:     DefaultDebounceWindow,
		timeout:    DefaultRequestTimeout,
		policy:     ErrorPolicySwallow,
		table:      domain.NewPriceTable(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.metrics == nil {
		m, err := metrics.NewMetrics(noop.NewMeterProvider().Meter("sline"))
		if err != nil {
			return nil, fmt.Errorf("create metrics: %w", err)
		}
		s.metrics = m
	}
	if s.events == nil {
		s.events = events.NewLogPublisher(s.logger)
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.debouncer = debounce.New(s.window, s.debouncedRefresh, debounce.WithClock(s.clock))
	s.prices = queries.NewGetPriceForProductQueryHandler(lockedPrices{s})

	return s, nil
}

// Initialize validates settings against the document, resets the session
// state and binds the checkout button(s) and duration selector. Errors wrap
// domain.ErrConfiguration; on error the previous state is kept.
func (s *Session) Initialize(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	button := settings.Button()

	buttons, err := s.resolveButtons(button)
	if err != nil {
		return err
	}

	var selector ports.Element
	if id := settings.DurationSelectorID(); id != "" {
		el, ok := s.doc.ElementByID(id)
		if !ok {
			return fmt.Errorf("%w: %w: %s", domain.ErrConfiguration, domain.ErrDurationSelectorNotFound, id)
		}
		selector = el
	}

	endpoints := settings.Endpoints()
	api := s.apiFactory(endpoints)
	checkout := commands.NewObservableCommandHandler(
		commands.NewCreateCheckoutSessionCommandHandler(api, endpoints),
		s.logger,
		s.metrics,
	)

	s.mu.Lock()
	s.initialized = true
	s.retailer = settings.Retailer
	s.button = button
	s.endpoints = endpoints
	s.api = api
	s.checkout = checkout
	s.buttons = buttons
	s.selector = selector
	s.cart.Reset()
	s.table.Reset()
	s.durations = nil
	s.selected = 0
	s.checkoutURL = ""
	// Responses to requests issued before this point belong to the old state.
	s.applied = s.issued
	s.inFlight = false
	s.mu.Unlock()

	for _, el := range buttons {
		el.OnClick(checkoutListenerKey, s.checkoutClickListener(el))
	}
	if selector != nil {
		selector.OnClick(durationListenerKey, s.onDurationClick)
	}

	s.logger.Info("sline session initialized",
		"retailer", settings.Retailer,
		"production", settings.Production,
		"buttons", len(buttons),
		"duration_selector", selector != nil,
	)
	return nil
}

func (s *Session) resolveButtons(button domain.CheckoutButton) ([]ports.Element, error) {
	if button.ByID() {
		el, ok := s.doc.ElementByID(button.ID)
		if !ok {
			return nil, fmt.Errorf("%w: %w: #%s", domain.ErrConfiguration, domain.ErrCheckoutButtonNotFound, button.ID)
		}
		return []ports.Element{el}, nil
	}

	buttons, err := s.doc.QuerySelectorAll(button.ClassPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", domain.ErrConfiguration, domain.ErrInvalidClassPath, err)
	}
	if len(buttons) == 0 {
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrConfiguration, domain.ErrCheckoutButtonNotFound, button.ClassPath)
	}
	return buttons, nil
}

// Close stops the pricing debounce and aborts in-flight calls.
func (s *Session) Close() {
	s.debouncer.Stop()
	s.cancel()
}

// Cart returns a copy of the cart items.
func (s *Session) Cart() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items()
}

// Durations returns the instalment counts offered for the current cart, ascending.
func (s *Session) Durations() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.durations...)
}

// SelectedDuration returns the selected instalment count, zero when unset.
func (s *Session) SelectedDuration() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// CheckoutURL returns the page of the last created checkout session.
func (s *Session) CheckoutURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkoutURL
}

// Prices returns every known duration price of sku.
func (s *Session) Prices(sku string) map[int]domain.InstalmentPricing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.ForSKU(sku)
}

// PriceForProduct formats the instalment price of qty units of sku at the
// selected duration, e.g. "18€". Unpriced products read "0€".
func (s *Session) PriceForProduct(ctx context.Context, sku string, qty int) (string, error) {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return "", ErrNotInitialized
	}
	query := queries.GetPriceForProductQuery{
		SKU:              sku,
		Quantity:         qty,
		Duration:         s.selected,
		CurrencyDuration: s.currencyDuration(),
	}
	s.mu.Unlock()

	return s.prices.Handle(ctx, query)
}

// currencyDuration is the first known duration. Callers hold s.mu.
func (s *Session) currencyDuration() int {
	if len(s.durations) == 0 {
		return 0
	}
	return s.durations[0]
}

// fail logs err and applies the error policy. It returns err only under
// ErrorPolicySurface.
func (s *Session) fail(ctx context.Context, msg string, err error) error {
	s.logger.WarnContext(ctx, msg, "error", err)
	if s.policy != ErrorPolicySurface {
		return nil
	}
	if s.onError != nil {
		s.onError(err)
	}
	return err
}

// callContext bounds a commerce API call by the request timeout and the
// session lifetime.
func (s *Session) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// lockedPrices reads the price table under the session lock.
type lockedPrices struct {
	s *Session
}

func (p lockedPrices) Lookup(sku string, duration int) (domain.InstalmentPricing, bool) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	return p.s.table.Lookup(sku, duration)
}

func (p lockedPrices) FirstCurrency(duration int) (string, bool) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	return p.s.table.FirstCurrency(duration)
}
