package domain

import "errors"

var (
	// ErrConfiguration is returned when the SDK settings cannot be applied.
	ErrConfiguration = errors.New("invalid configuration")

	ErrNotAnObject              = errors.New("configuration options should be an object")
	ErrMissingRetailer          = errors.New("missing retailer information")
	ErrMissingCheckoutButton    = errors.New("missing checkout button id or classPath")
	ErrCheckoutButtonNotFound   = errors.New("checkout button does not exist")
	ErrInvalidClassPath         = errors.New("checkout button classPath is not a valid selector")
	ErrDurationSelectorNotFound = errors.New("duration selector does not exist")

	// ErrNetwork covers transport failures and non-2xx answers from the commerce API.
	ErrNetwork = errors.New("commerce api unreachable")

	// ErrResponse is returned when a response body does not match the expected schema.
	ErrResponse = errors.New("unexpected commerce api response")

	// ErrEmptyCart is returned by operations that need at least one cart item.
	ErrEmptyCart = errors.New("cart is empty")
)
