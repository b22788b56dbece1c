package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/sline-io/sline-go/internal/checkout/domain"
)

type settingsDTO struct {
	Retailer         string               `json:"retailer" validate:"required"`
	Production       any                  `json:"production"`
	CheckoutButton   *checkoutButtonDTO   `json:"checkoutButton" validate:"required"`
	DurationSelector *durationSelectorDTO `json:"durationSelector"`
}

type checkoutButtonDTO struct {
	ID        string `json:"id" validate:"required_without=ClassPath,excluded_with=ClassPath"`
	ClassPath string `json:"classPath" validate:"required_without=ID"`
	Prefix    string `json:"prefix"`
	Suffix    string `json:"suffix"`
	Events    struct {
		CustomOnClickEvent any `json:"customOnClickEvent"`
	} `json:"events"`
}

type durationSelectorDTO struct {
	ID string `json:"id"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseSettings decodes a JSON settings object as accepted by Initialize.
// Errors wrap domain.ErrConfiguration.
func ParseSettings(data []byte) (domain.Settings, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.Settings{}, fmt.Errorf("%w: %w", domain.ErrConfiguration, domain.ErrNotAnObject)
	}

	var dto settingsDTO
	if err := json.Unmarshal(trimmed, &dto); err != nil {
		return domain.Settings{}, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}

	if err := validate.Struct(&dto); err != nil {
		return domain.Settings{}, fmt.Errorf("%w: %w", domain.ErrConfiguration, settingsError(err))
	}

	settings := dto.toDomain()
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// settingsError maps the first failed field to its configuration sentinel.
func settingsError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].StructField() == "Retailer" {
		return domain.ErrMissingRetailer
	}
	return domain.ErrMissingCheckoutButton
}

func (d settingsDTO) toDomain() domain.Settings {
	production, _ := d.Production.(bool)
	settings := domain.Settings{
		Retailer:   d.Retailer,
		Production: production,
	}

	if b := d.CheckoutButton; b != nil {
		settings.CheckoutButton = &domain.CheckoutButtonSettings{
			ID:        b.ID,
			ClassPath: b.ClassPath,
			Prefix:    b.Prefix,
			Suffix:    b.Suffix,
			Events: domain.ButtonEvents{
				CustomOnClickEvent: truthy(b.Events.CustomOnClickEvent),
			},
		}
	}
	if d.DurationSelector != nil {
		settings.DurationSelector = &domain.DurationSelectorSettings{ID: d.DurationSelector.ID}
	}
	return settings
}

// truthy follows JavaScript truthiness for decoded JSON values.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}
