// Package httpapi talks to the Sline commerce API over HTTP.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sline-io/sline-go/internal/checkout/domain"
	"github.com/sline-io/sline-go/internal/checkout/ports"
)

const (
	// RequestIDHeader carries a fresh uuid on every request.
	RequestIDHeader = "X-Request-ID"

	maxResponseBytes = 1 << 20
)

// Client implements ports.CommerceAPI against one API base URL.
type Client struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
	logger   *slog.Logger
}

type options struct {
	transport http.RoundTripper
	metrics   *Metrics
	logger    *slog.Logger
}

type Option func(*options)

// WithTransport replaces the base transport wrapped by the client.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

func WithClientMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	o := options{transport: http.DefaultTransport, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	var rt http.RoundTripper = otelhttp.NewTransport(o.transport)
	if o.metrics != nil {
		rt = WithMetrics(rt, o.metrics)
	}

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Transport: rt},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   o.logger,
	}
}

// At returns a client for another API base URL sharing this client's transport.
func (c *Client) At(baseURL string) *Client {
	clone := *c
	clone.baseURL = strings.TrimRight(baseURL, "/")
	return &clone
}

// Factory binds clients to the environment endpoints. A non-empty override
// replaces the API base URL of every environment.
func (c *Client) Factory(override string) ports.CommerceAPIFactory {
	return func(endpoints domain.Endpoints) ports.CommerceAPI {
		if override != "" {
			return c.At(override)
		}
		return c.At(endpoints.APIURL)
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) FetchPricing(ctx context.Context, req ports.PricingRequest) ([]domain.DurationOffer, error) {
	body, err := c.post(ctx, "/pricing", req)
	if err != nil {
		return nil, err
	}

	var dtos []durationOfferDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("%w: decode pricing: %w", domain.ErrResponse, err)
	}

	offers := make([]domain.DurationOffer, 0, len(dtos))
	for i := range dtos {
		if err := c.validate.Struct(&dtos[i]); err != nil {
			return nil, fmt.Errorf("%w: pricing offer %d: %w", domain.ErrResponse, i, err)
		}
		offers = append(offers, dtos[i].toDomain())
	}
	return offers, nil
}

func (c *Client) CreateCheckout(ctx context.Context, req ports.CheckoutRequest) (*ports.CheckoutSession, error) {
	body, err := c.post(ctx, "/import", req)
	if err != nil {
		return nil, err
	}

	var dto checkoutSessionDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("%w: decode checkout session: %w", domain.ErrResponse, err)
	}
	if err := c.validate.Struct(&dto); err != nil {
		return nil, fmt.Errorf("%w: checkout session: %w", domain.ErrResponse, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode checkout session: %w", domain.ErrResponse, err)
	}

	return &ports.CheckoutSession{ID: dto.ID, Raw: raw}, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrNetwork, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", domain.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.DebugContext(ctx, "commerce api error response",
			"path", path,
			"status_code", resp.StatusCode,
			"request_id", requestID,
		)
		return nil, fmt.Errorf("%w: POST %s returned %d", domain.ErrNetwork, path, resp.StatusCode)
	}

	return body, nil
}
