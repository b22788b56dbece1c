package config

import (
	"errors"
	"testing"
	"time"

	"github.com/sline-io/sline-go/internal/checkout/domain"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("SLINE_RETAILER", "acme")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}

		settings := cfg.SDK.Settings
		if settings.Retailer != "acme" || settings.Production {
			t.Errorf("unexpected settings %+v", settings)
		}
		if settings.CheckoutButton.ID != "buy-btn" {
			t.Errorf("expected default button id buy-btn, got %q", settings.CheckoutButton.ID)
		}
		if settings.DurationSelector != nil {
			t.Error("expected the duration selector to be disabled")
		}
		if cfg.SDK.HTTPTimeout != 10*time.Second {
			t.Errorf("expected 10s timeout, got %v", cfg.SDK.HTTPTimeout)
		}
		if cfg.SDK.PricingDebounce != 200*time.Millisecond {
			t.Errorf("expected 200ms debounce, got %v", cfg.SDK.PricingDebounce)
		}
		if cfg.SDK.ErrorPolicy != "swallow" {
			t.Errorf("expected swallow policy, got %q", cfg.SDK.ErrorPolicy)
		}
		if cfg.Sandbox.Port != 8090 {
			t.Errorf("expected sandbox port 8090, got %d", cfg.Sandbox.Port)
		}
		if cfg.Service.Name != "sline-sdk" || cfg.Service.Version != Version {
			t.Errorf("unexpected service config %+v", cfg.Service)
		}
		if err := settings.Validate(); err != nil {
			t.Errorf("expected valid settings, got %v", err)
		}
	})

	t.Run("reads overrides", func(t *testing.T) {
		t.Setenv("SLINE_RETAILER", "acme")
		t.Setenv("SLINE_PRODUCTION", "true")
		t.Setenv("SLINE_CHECKOUT_BUTTON_CLASS_PATH", ".products .buy")
		t.Setenv("SLINE_CHECKOUT_BUTTON_PREFIX", "Pay")
		t.Setenv("SLINE_CHECKOUT_BUTTON_SUFFIX", "/month")
		t.Setenv("SLINE_CUSTOM_ON_CLICK", "true")
		t.Setenv("SLINE_DURATION_SELECTOR_ID", "durations")
		t.Setenv("SLINE_API_URL", "http://localhost:8090/checkout/cart")
		t.Setenv("SLINE_HTTP_TIMEOUT", "3s")
		t.Setenv("SLINE_PRICING_DEBOUNCE", "50ms")
		t.Setenv("SLINE_ERROR_POLICY", "Surface")
		t.Setenv("SANDBOX_HTTP_PORT", "9000")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}

		button := cfg.SDK.Settings.CheckoutButton
		if button.ID != "" || button.ClassPath != ".products .buy" {
			t.Errorf("expected the class path locator only, got %+v", button)
		}
		if button.Prefix != "Pay" || button.Suffix != "/month" || !button.Events.CustomOnClickEvent {
			t.Errorf("unexpected button settings %+v", button)
		}
		if !cfg.SDK.Settings.Production {
			t.Error("expected production")
		}
		if cfg.SDK.Settings.DurationSelectorID() != "durations" {
			t.Errorf("expected selector durations, got %q", cfg.SDK.Settings.DurationSelectorID())
		}
		if cfg.SDK.APIURL != "http://localhost:8090/checkout/cart" {
			t.Errorf("unexpected api url %q", cfg.SDK.APIURL)
		}
		if cfg.SDK.HTTPTimeout != 3*time.Second || cfg.SDK.PricingDebounce != 50*time.Millisecond {
			t.Errorf("unexpected durations %v %v", cfg.SDK.HTTPTimeout, cfg.SDK.PricingDebounce)
		}
		if cfg.SDK.ErrorPolicy != "Surface" {
			t.Errorf("expected the raw Surface policy, got %q", cfg.SDK.ErrorPolicy)
		}
		if cfg.Sandbox.Port != 9000 {
			t.Errorf("expected port 9000, got %d", cfg.Sandbox.Port)
		}
	})

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "invalid timeout", key: "SLINE_HTTP_TIMEOUT", value: "soon"},
		{name: "negative debounce", key: "SLINE_PRICING_DEBOUNCE", value: "-1s"},
		{name: "invalid sandbox port", key: "SANDBOX_HTTP_PORT", value: "http"},
		{name: "invalid sample rate", key: "OTEL_SAMPLE_RATE", value: "all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("expected an error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestParseSettings(t *testing.T) {
	t.Run("decodes a full settings object", func(t *testing.T) {
		settings, err := ParseSettings([]byte(`{
			"retailer": "acme",
			"production": true,
			"checkoutButton": {
				"id": "buy-btn",
				"prefix": " Pay ",
				"suffix": "/month",
				"events": {"customOnClickEvent": true}
			},
			"durationSelector": {"id": "durations"}
		}`))
		if err != nil {
			t.Fatalf("ParseSettings() failed: %v", err)
		}

		if settings.Retailer != "acme" || !settings.Production {
			t.Errorf("unexpected settings %+v", settings)
		}
		button := settings.Button()
		if button.ID != "buy-btn" || button.Prefix != "Pay" || !button.CustomClickHandler {
			t.Errorf("unexpected button %+v", button)
		}
		if settings.DurationSelectorID() != "durations" {
			t.Errorf("expected selector durations, got %q", settings.DurationSelectorID())
		}
	})

	t.Run("non boolean production means staging", func(t *testing.T) {
		settings, err := ParseSettings([]byte(`{"retailer":"acme","production":"yes","checkoutButton":{"classPath":".buy"}}`))
		if err != nil {
			t.Fatalf("ParseSettings() failed: %v", err)
		}
		if settings.Production {
			t.Error("expected staging")
		}
		if settings.Endpoints().APIURL != "https://api.staging.sline.io/checkout/cart" {
			t.Errorf("unexpected endpoints %+v", settings.Endpoints())
		}
	})

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "array", input: `[1,2]`, wantErr: domain.ErrNotAnObject},
		{name: "string", input: `"acme"`, wantErr: domain.ErrNotAnObject},
		{name: "null", input: `null`, wantErr: domain.ErrNotAnObject},
		{name: "empty", input: ``, wantErr: domain.ErrNotAnObject},
		{name: "missing retailer", input: `{"checkoutButton":{"id":"buy-btn"}}`, wantErr: domain.ErrMissingRetailer},
		{name: "blank retailer", input: `{"retailer":"  ","checkoutButton":{"id":"buy-btn"}}`, wantErr: domain.ErrMissingRetailer},
		{name: "missing button", input: `{"retailer":"acme"}`, wantErr: domain.ErrMissingCheckoutButton},
		{name: "empty button", input: `{"retailer":"acme","checkoutButton":{}}`, wantErr: domain.ErrMissingCheckoutButton},
		{name: "both locators", input: `{"retailer":"acme","checkoutButton":{"id":"a","classPath":".b"}}`, wantErr: domain.ErrMissingCheckoutButton},
		{name: "blank locator", input: `{"retailer":"acme","checkoutButton":{"id":"  "}}`, wantErr: domain.ErrMissingCheckoutButton},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSettings([]byte(tt.input))

			if !errors.Is(err, domain.ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		if _, err := ParseSettings([]byte(`{"retailer":`)); !errors.Is(err, domain.ErrConfiguration) {
			t.Errorf("expected ErrConfiguration, got %v", err)
		}
	})
}
