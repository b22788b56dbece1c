// Command sline drives a checkout session from the terminal: it prices a cart
// against the commerce API, prints what the checkout button would show and
// optionally creates the hosted checkout session.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"

	"github.com/sline-io/sline-go/internal/checkout/adapters"
	"github.com/sline-io/sline-go/internal/checkout/adapters/dom"
	"github.com/sline-io/sline-go/internal/checkout/adapters/httpapi"
	"github.com/sline-io/sline-go/internal/checkout/app"
	"github.com/sline-io/sline-go/internal/checkout/domain"
	"github.com/sline-io/sline-go/internal/checkout/metrics"
	"github.com/sline-io/sline-go/internal/config"
	"github.com/sline-io/sline-go/internal/events"
	"github.com/sline-io/sline-go/internal/telemetry"
)

type options struct {
	settingsFile string
	apiURL       string
	sandbox      bool
	duration     int
	checkout     bool
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	var opts options
	flag.StringVar(&opts.settingsFile, "settings", "", "JSON settings file; defaults to SLINE_* environment variables")
	flag.StringVar(&opts.apiURL, "api-url", "", "commerce API base URL override")
	flag.BoolVar(&opts.sandbox, "sandbox", false, "use the local sandbox commerce API")
	flag.IntVar(&opts.duration, "duration", 0, "number of instalments to select after pricing")
	flag.BoolVar(&opts.checkout, "checkout", false, "create a checkout session for the cart")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: sline [flags] SKU[=QTY]...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	level, err := telemetry.ParseLevel(cfg.Telemetry.LogLevel)
	if err != nil {
		slog.Warn("falling back to info logging", "error", err)
	}
	logger := telemetry.NewLoggerTo(os.Stderr, level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}

	if opts.sandbox && opts.apiURL == "" {
		opts.apiURL = fmt.Sprintf("http://localhost:%d/checkout/cart", cfg.Sandbox.Port)
	}

	runErr := run(ctx, cfg, opts, flag.Args(), os.Stdout, logger)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tel.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown failed", "error", err)
	}

	if runErr != nil {
		logger.Error("sline failed", "error", runErr)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, args []string, out io.Writer, logger *slog.Logger) error {
	settings := cfg.SDK.Settings
	if opts.settingsFile != "" {
		data, err := os.ReadFile(opts.settingsFile)
		if err != nil {
			return fmt.Errorf("read settings: %w", err)
		}
		if settings, err = config.ParseSettings(data); err != nil {
			return err
		}
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	items, err := parseItems(args)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return errors.New("no items given")
	}

	policy, err := app.ParseErrorPolicy(cfg.SDK.ErrorPolicy)
	if err != nil {
		return err
	}

	meter := otel.Meter("sline")
	checkoutMetrics, err := metrics.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("create checkout metrics: %w", err)
	}
	clientMetrics, err := httpapi.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("create client metrics: %w", err)
	}
	eventMetrics, err := events.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("create event metrics: %w", err)
	}

	apiURL := cfg.SDK.APIURL
	if opts.apiURL != "" {
		apiURL = opts.apiURL
	}
	client := httpapi.NewClient(settings.Endpoints().APIURL,
		httpapi.WithClientMetrics(clientMetrics),
		httpapi.WithLogger(logger),
	)

	doc := buildPage(settings, items)
	session, err := app.NewSession(app.Dependencies{
		Document: doc,
		API:      adapters.ObserveFactory(client.Factory(apiURL), checkoutMetrics),
		Events:   adapters.NewObservableEventPublisher(dom.NewEventPublisher(doc), eventMetrics),
	},
		app.WithLogger(logger),
		app.WithMetrics(checkoutMetrics),
		app.WithDebounceWindow(cfg.SDK.PricingDebounce),
		app.WithRequestTimeout(cfg.SDK.HTTPTimeout),
		app.WithErrorPolicy(policy),
		app.WithErrorHandler(func(err error) {
			fmt.Fprintf(out, "error: %v\n", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	defer session.Close()

	if err := session.Initialize(settings); err != nil {
		return err
	}

	for _, it := range items {
		if err := session.UpdateCart(ctx, it.sku, it.quantity); err != nil {
			return err
		}
	}
	if !session.FlushPricing() {
		if err := session.RefreshPricing(ctx); err != nil {
			return err
		}
	}

	if opts.duration > 0 {
		if err := session.SelectDuration(ctx, opts.duration); err != nil {
			return err
		}
	}

	printSession(ctx, out, session, doc, settings.Button(), items)

	if !opts.checkout {
		return nil
	}
	created, err := session.CreateCheckoutSession(ctx)
	if err != nil {
		return err
	}
	if created == nil {
		return errors.New("checkout session was not created")
	}
	fmt.Fprintf(out, "checkout session: %s\n", created.ID)
	fmt.Fprintf(out, "checkout url: %s\n", session.CheckoutURL())
	return nil
}

func printSession(ctx context.Context, out io.Writer, session *app.Session, doc *dom.Document, button domain.CheckoutButton, items []item) {
	fmt.Fprintf(out, "durations: %v\n", session.Durations())
	fmt.Fprintf(out, "selected duration: %d\n", session.SelectedDuration())

	for _, it := range items {
		price, err := session.PriceForProduct(ctx, it.sku, it.quantity)
		if err != nil {
			price = err.Error()
		}
		fmt.Fprintf(out, "%s x%d: %s\n", it.sku, it.quantity, price)
	}

	if button.ByID() {
		if el := doc.Find(button.ID); el != nil {
			fmt.Fprintf(out, "button: %s\n", el.Text())
		}
		return
	}
	for _, el := range doc.MustQuery(button.ClassPath) {
		sku, _ := el.Attribute("data-sku")
		fmt.Fprintf(out, "button %s: %s\n", sku, el.Text())
	}
}
