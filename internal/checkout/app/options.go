package app

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sline-io/sline-go/internal/checkout/metrics"
	"github.com/sline-io/sline-go/internal/debounce"
)

const (
	DefaultDebounceWindow = 200 * time.Millisecond
	DefaultRequestTimeout = 10 * time.Second
)

// ErrorPolicy decides what happens to pricing and checkout failures once
// they are logged.
type ErrorPolicy string

const (
	// ErrorPolicySwallow logs failures and keeps going.
	ErrorPolicySwallow ErrorPolicy = "swallow"
	// ErrorPolicySurface also passes failures to the error handler and
	// returns them from synchronous calls.
	ErrorPolicySurface ErrorPolicy = "surface"
)

// ParseErrorPolicy reads a policy name, ignoring case and surrounding
// space. An empty name means ErrorPolicySwallow.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch p := ErrorPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ErrorPolicySwallow, nil
	case ErrorPolicySwallow, ErrorPolicySurface:
		return p, nil
	default:
		return "", fmt.Errorf("unknown error policy %q", s)
	}
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for session events. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithMetrics sets the instruments recording pricing and checkout activity.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithClock replaces the clock driving the pricing debounce.
func WithClock(clock debounce.Clock) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithDebounceWindow sets how long UpdateCart waits for further changes
// before refreshing prices.
func WithDebounceWindow(window time.Duration) Option {
	return func(s *Session) {
		s.window = window
	}
}

// WithRequestTimeout bounds every commerce API call.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		s.timeout = timeout
	}
}

// WithErrorPolicy sets what happens to failures once they are logged.
func WithErrorPolicy(policy ErrorPolicy) Option {
	return func(s *Session) {
		s.policy = policy
	}
}

// WithErrorHandler receives pricing and checkout failures under
// ErrorPolicySurface, including those of debounced refreshes.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Session) {
		s.onError = fn
	}
}
