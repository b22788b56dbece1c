package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sline-io/sline-go/internal/checkout/domain"
	"github.com/sline-io/sline-go/internal/config"
	"github.com/sline-io/sline-go/internal/sandbox"
	"github.com/sline-io/sline-go/internal/telemetry"
)

func TestParseItems(t *testing.T) {
	items, err := parseItems([]string{"SKU1=2", "SKU2"})
	require.NoError(t, err)
	assert.Equal(t, []item{{sku: "SKU1", quantity: 2}, {sku: "SKU2", quantity: 1}}, items)

	_, err = parseItems([]string{"=2"})
	assert.Error(t, err)

	_, err = parseItems([]string{"SKU1=two"})
	assert.Error(t, err)
}

func TestBuildPage(t *testing.T) {
	t.Run("id button", func(t *testing.T) {
		settings := domain.Settings{
			Retailer:         "acme",
			CheckoutButton:   &domain.CheckoutButtonSettings{ID: "buy-btn"},
			DurationSelector: &domain.DurationSelectorSettings{ID: "durations"},
		}

		doc := buildPage(settings, nil)

		_, ok := doc.ElementByID("buy-btn")
		assert.True(t, ok)
		_, ok = doc.ElementByID("durations")
		assert.True(t, ok)
	})

	t.Run("class path buttons per item", func(t *testing.T) {
		settings := domain.Settings{
			Retailer:       "acme",
			CheckoutButton: &domain.CheckoutButtonSettings{ClassPath: "section.products button.sline-btn"},
		}

		doc := buildPage(settings, []item{{sku: "A", quantity: 1}, {sku: "B", quantity: 2}})

		buttons := doc.MustQuery("section.products button.sline-btn")
		require.Len(t, buttons, 2)
		sku, _ := buttons[1].Attribute("data-sku")
		assert.Equal(t, "B", sku)
	})

	t.Run("class path with child combinator and attribute", func(t *testing.T) {
		classPath := "div.cart > button.sline-btn[data-sku]"
		settings := domain.Settings{
			Retailer:       "acme",
			CheckoutButton: &domain.CheckoutButtonSettings{ClassPath: classPath},
		}

		doc := buildPage(settings, []item{{sku: "SKU1", quantity: 1}, {sku: "SKU2", quantity: 1}})

		assert.Len(t, doc.MustQuery(classPath), 2)
		assert.Len(t, doc.MustQuery(".sline-btn[data-sku='SKU1']"), 1)
	})
}

func TestRunAgainstSandbox(t *testing.T) {
	srv := httptest.NewServer(sandbox.NewServer(
		sandbox.NewHandler(sandbox.DefaultCatalog(), sandbox.NewSessionStore(), nil), nil))
	t.Cleanup(srv.Close)

	cfg := &config.Config{SDK: config.SDKConfig{
		Settings: domain.Settings{
			Retailer:       "acme",
			CheckoutButton: &domain.CheckoutButtonSettings{ID: "buy-btn", Prefix: "Pay", Suffix: "/month"},
		},
		HTTPTimeout:     5 * time.Second,
		PricingDebounce: 10 * time.Millisecond,
		ErrorPolicy:     "surface",
	}}
	logger := telemetry.NewLoggerTo(&bytes.Buffer{}, slog.LevelDebug)

	t.Run("prices the cart and creates a checkout", func(t *testing.T) {
		var out bytes.Buffer
		opts := options{apiURL: srv.URL + "/checkout/cart", duration: 3, checkout: true}

		err := run(context.Background(), cfg, opts, []string{"SKU1=2"}, &out, logger)
		require.NoError(t, err)

		output := out.String()
		assert.Contains(t, output, "durations: [3 6 12]")
		assert.Contains(t, output, "selected duration: 3")
		assert.Contains(t, output, "SKU1 x2: 18€")
		assert.Contains(t, output, "button: Pay 18€ /month")
		assert.Contains(t, output, "checkout url: https://checkout.staging.sline.io/checkout/")
	})

	t.Run("settings file overrides the environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.json")
		require.NoError(t, os.WriteFile(path,
			[]byte(`{"retailer":"acme","checkoutButton":{"classPath":".sline-btn","prefix":"From"}}`), 0o600))

		var out bytes.Buffer
		opts := options{settingsFile: path, apiURL: srv.URL + "/checkout/cart"}

		err := run(context.Background(), cfg, opts, []string{"SKU1", "US-1"}, &out, logger)
		require.NoError(t, err)

		assert.Contains(t, out.String(), "button SKU1: From 2.25€")
		assert.Contains(t, out.String(), "button US-1: From 1.25€")
	})

	t.Run("invalid settings file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.json")
		require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))

		err := run(context.Background(), cfg, options{settingsFile: path}, []string{"SKU1"}, &bytes.Buffer{}, logger)
		assert.ErrorIs(t, err, domain.ErrNotAnObject)
	})

	t.Run("unknown error policy", func(t *testing.T) {
		bad := *cfg
		bad.SDK.ErrorPolicy = "panic"

		err := run(context.Background(), &bad, options{}, []string{"SKU1"}, &bytes.Buffer{}, logger)
		assert.ErrorContains(t, err, "unknown error policy")
	})

	t.Run("requires items", func(t *testing.T) {
		err := run(context.Background(), cfg, options{}, nil, &bytes.Buffer{}, logger)
		assert.Error(t, err)
	})
}
