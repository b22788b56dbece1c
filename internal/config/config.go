package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sline-io/sline-go/internal/checkout/domain"
)

// Config captures runtime configuration for the SDK hosts.
type Config struct {
	SDK       SDKConfig
	Sandbox   SandboxConfig
	Telemetry TelemetryConfig
	Service   ServiceConfig
}

type SDKConfig struct {
	Settings domain.Settings
	// APIURL overrides the environment-selected commerce API base URL.
	APIURL          string
	HTTPTimeout     time.Duration
	PricingDebounce time.Duration
	// ErrorPolicy is passed through as written; app.ParseErrorPolicy reads it.
	ErrorPolicy     string
}

type SandboxConfig struct {
	Port          int
	ShutdownGrace int
}

type TelemetryConfig struct {
	LogLevel      string
	OTelEndpoint  string
	EnableTracing bool
	EnableMetrics bool
	SampleRate    float64
}

type ServiceConfig struct {
	Name        string
	Version     string
	Environment string
}

const (
	// Version is the SDK release.
	Version = "2.2.3"

	defaultCheckoutButtonID = "buy-btn"
	defaultHTTPTimeout      = 10 * time.Second
	defaultPricingDebounce  = 200 * time.Millisecond
	defaultErrorPolicy      = "swallow"
	defaultSandboxPort      = 8090
	defaultShutdownGrace    = 15
	defaultServiceName      = "sline-sdk"
	defaultEnvironment      = "development"
	defaultLogLevel         = "info"
	defaultOTelSampleRate   = 1.0
)

// Load reads configuration from environment variables, applying defaults when needed.
func Load() (*Config, error) {
	sdkCfg, err := loadSDKConfig()
	if err != nil {
		return nil, fmt.Errorf("loading SDK config: %w", err)
	}

	sandboxCfg, err := loadSandboxConfig()
	if err != nil {
		return nil, fmt.Errorf("loading sandbox config: %w", err)
	}

	telCfg, err := loadTelemetryConfig()
	if err != nil {
		return nil, fmt.Errorf("loading telemetry config: %w", err)
	}

	return &Config{
		SDK:       sdkCfg,
		Sandbox:   sandboxCfg,
		Telemetry: telCfg,
		Service:   loadServiceConfig(),
	}, nil
}

func loadSDKConfig() (SDKConfig, error) {
	button := &domain.CheckoutButtonSettings{
		ClassPath: os.Getenv("SLINE_CHECKOUT_BUTTON_CLASS_PATH"),
		Prefix:    os.Getenv("SLINE_CHECKOUT_BUTTON_PREFIX"),
		Suffix:    os.Getenv("SLINE_CHECKOUT_BUTTON_SUFFIX"),
		Events: domain.ButtonEvents{
			CustomOnClickEvent: getBoolEnv("SLINE_CUSTOM_ON_CLICK", false),
		},
	}
	if button.ClassPath == "" {
		button.ID = getEnvOrDefault("SLINE_CHECKOUT_BUTTON_ID", defaultCheckoutButtonID)
	} else {
		button.ID = os.Getenv("SLINE_CHECKOUT_BUTTON_ID")
	}

	settings := domain.Settings{
		Retailer:       os.Getenv("SLINE_RETAILER"),
		Production:     getBoolEnv("SLINE_PRODUCTION", false),
		CheckoutButton: button,
	}
	if id := os.Getenv("SLINE_DURATION_SELECTOR_ID"); id != "" {
		settings.DurationSelector = &domain.DurationSelectorSettings{ID: id}
	}

	httpTimeout, err := getDurationEnv("SLINE_HTTP_TIMEOUT", defaultHTTPTimeout)
	if err != nil {
		return SDKConfig{}, err
	}

	debounce, err := getDurationEnv("SLINE_PRICING_DEBOUNCE", defaultPricingDebounce)
	if err != nil {
		return SDKConfig{}, err
	}

	return SDKConfig{
		Settings:        settings,
		APIURL:          os.Getenv("SLINE_API_URL"),
		HTTPTimeout:     httpTimeout,
		PricingDebounce: debounce,
		ErrorPolicy:     getEnvOrDefault("SLINE_ERROR_POLICY", defaultErrorPolicy),
	}, nil
}

func loadSandboxConfig() (SandboxConfig, error) {
	port := defaultSandboxPort
	if value, ok := os.LookupEnv("SANDBOX_HTTP_PORT"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return SandboxConfig{}, fmt.Errorf("invalid SANDBOX_HTTP_PORT: %w", err)
		}
		port = parsed
	}

	shutdownGrace := defaultShutdownGrace
	if value, ok := os.LookupEnv("SANDBOX_SHUTDOWN_GRACE_SECONDS"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return SandboxConfig{}, fmt.Errorf("invalid SANDBOX_SHUTDOWN_GRACE_SECONDS: %w", err)
		}
		shutdownGrace = parsed
	}

	return SandboxConfig{
		Port:          port,
		ShutdownGrace: shutdownGrace,
	}, nil
}

func loadTelemetryConfig() (TelemetryConfig, error) {
	logLevel := getEnvOrDefault("LOG_LEVEL", defaultLogLevel)
	otelEndpoint := getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	enableTracing := getBoolEnv("OTEL_ENABLE_TRACING", true)
	enableMetrics := getBoolEnv("OTEL_ENABLE_METRICS", true)

	sampleRate := defaultOTelSampleRate
	if value, ok := os.LookupEnv("OTEL_SAMPLE_RATE"); ok {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return TelemetryConfig{}, fmt.Errorf("invalid OTEL_SAMPLE_RATE: %w", err)
		}
		sampleRate = parsed
	}

	return TelemetryConfig{
		LogLevel:      logLevel,
		OTelEndpoint:  otelEndpoint,
		EnableTracing: enableTracing,
		EnableMetrics: enableMetrics,
		SampleRate:    sampleRate,
	}, nil
}

func loadServiceConfig() ServiceConfig {
	return ServiceConfig{
		Name:        getEnvOrDefault("SERVICE_NAME", defaultServiceName),
		Version:     getEnvOrDefault("SERVICE_VERSION", Version),
		Environment: getEnvOrDefault("ENVIRONMENT", defaultEnvironment),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		return value == "true"
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return parsed, nil
}
