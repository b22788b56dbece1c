package domain

import (
	"fmt"
	"strings"
)

const (
	productionAPIURL      = "https://api.sline.io/checkout/cart"
	productionCheckoutURL = "https://checkout.sline.io/checkout/"
	stagingAPIURL         = "https://api.staging.sline.io/checkout/cart"
	stagingCheckoutURL    = "https://checkout.staging.sline.io/checkout/"
)

// Settings is the caller-supplied SDK configuration.
type Settings struct {
	Retailer         string                    `json:"retailer"`
	Production       bool                      `json:"production"`
	CheckoutButton   *CheckoutButtonSettings   `json:"checkoutButton"`
	DurationSelector *DurationSelectorSettings `json:"durationSelector"`
}

// CheckoutButtonSettings locates the checkout button(s) either by element id
// or by a class-path selector.
type CheckoutButtonSettings struct {
	ID        string       `json:"id"`
	ClassPath string       `json:"classPath"`
	Prefix    string       `json:"prefix"`
	Suffix    string       `json:"suffix"`
	Events    ButtonEvents `json:"events"`
}

type ButtonEvents struct {
	CustomOnClickEvent bool `json:"customOnClickEvent"`
}

type DurationSelectorSettings struct {
	ID string `json:"id"`
}

// Validate checks the settings that do not depend on the host document.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Retailer) == "" {
		return fmt.Errorf("%w: %w", ErrConfiguration, ErrMissingRetailer)
	}

	b := s.CheckoutButton
	if b == nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, ErrMissingCheckoutButton)
	}
	hasID := strings.TrimSpace(b.ID) != ""
	hasClassPath := strings.TrimSpace(b.ClassPath) != ""
	if hasID == hasClassPath {
		return fmt.Errorf("%w: %w", ErrConfiguration, ErrMissingCheckoutButton)
	}

	return nil
}

// Button returns the normalized checkout button configuration. Call only on
// validated settings.
func (s Settings) Button() CheckoutButton {
	b := s.CheckoutButton
	return CheckoutButton{
		ID:                 strings.TrimSpace(b.ID),
		ClassPath:          strings.TrimSpace(b.ClassPath),
		Prefix:             strings.TrimSpace(b.Prefix),
		Suffix:             strings.TrimSpace(b.Suffix),
		CustomClickHandler: b.Events.CustomOnClickEvent,
	}
}

// DurationSelectorID returns the selector id, empty when the feature is off.
func (s Settings) DurationSelectorID() string {
	if s.DurationSelector == nil {
		return ""
	}
	return strings.TrimSpace(s.DurationSelector.ID)
}

// Endpoints returns the environment-selected API and checkout base URLs.
func (s Settings) Endpoints() Endpoints {
	if s.Production {
		return Endpoints{APIURL: productionAPIURL, CheckoutBaseURL: productionCheckoutURL}
	}
	return Endpoints{APIURL: stagingAPIURL, CheckoutBaseURL: stagingCheckoutURL}
}

// CheckoutButton is the normalized button configuration.
type CheckoutButton struct {
	ID                 string
	ClassPath          string
	Prefix             string
	Suffix             string
	CustomClickHandler bool
}

// ByID reports whether the button is located by element id.
func (b CheckoutButton) ByID() bool {
	return b.ID != ""
}

// Label renders the button text for a total in minor units, or false when
// neither prefix nor suffix is configured and the text must stay untouched.
func (b CheckoutButton) Label(total int64, symbol string) (string, bool) {
	if b.Prefix == "" && b.Suffix == "" {
		return "", false
	}
	return fmt.Sprintf("%s %s%s %s", b.Prefix, FormatAmount(total), symbol, b.Suffix), true
}

// Endpoints are the base URLs of the commerce API and hosted checkout page.
type Endpoints struct {
	APIURL          string
	CheckoutBaseURL string
}

func (e Endpoints) PricingURL() string {
	return e.APIURL + "/pricing"
}

func (e Endpoints) ImportURL() string {
	return e.APIURL + "/import"
}

// CheckoutURL is the hosted checkout page for a session id.
func (e Endpoints) CheckoutURL(sessionID string) string {
	return e.CheckoutBaseURL + sessionID
}
