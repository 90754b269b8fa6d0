// Package client provides the core catalog HTTP client with error
// classification, structured logging, and Prometheus metrics.
//
// The client is deliberately single-attempt: required fetches surface their
// failure to the caller, and enrichment fetches are recovered into sentinel
// values one layer up. There is no retry or backoff here.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public catalog API root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Prometheus metrics for catalog client operations.
var (
	dexRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dex_requests_total",
		Help: "Total upstream requests by endpoint and status",
	}, []string{"endpoint", "status"})

	dexRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dex_request_duration_seconds",
		Help:    "Upstream request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	dexErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dex_errors_total",
		Help: "Total upstream errors by class",
	}, []string{"class"})
)

// ErrorClass represents a classification of HTTP errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// Client is the upstream catalog HTTP client.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the catalog API root (e.g. "https://pokeapi.co/api/v2").
	BaseURL string

	// UserAgent identifies this consumer to the upstream.
	UserAgent string

	// Timeout is the overall per-request timeout. Callers that need a
	// tighter deadline (sub-item fetches) pass one via context.
	Timeout time.Duration

	// HTTPClient overrides the underlying transport (for testing).
	HTTPClient *http.Client
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: "pokedex-client/1.0",
		Timeout:   30 * time.Second,
	}
}

// New creates a new catalog client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := log.With().Str("component", "dex-client").Logger()

	return &Client{
		httpClient: httpClient,
		config:     cfg,
		logger:     logger,
	}, nil
}

// BaseURL returns the configured catalog API root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Get performs a single-attempt GET against an endpoint path or an absolute
// reference URL. Transport failures are returned as *UpstreamError; HTTP
// status handling is left to the caller.
func (c *Client) Get(ctx context.Context, endpoint string) (*http.Response, error) {
	url := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		url = c.config.BaseURL + "/" + strings.TrimLeft(endpoint, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	path := req.URL.Path

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	dexRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())

	if err != nil {
		c.logger.Warn().Err(err).Str("endpoint", path).Msg("Upstream request failed")
		dexErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		dexRequestsTotal.WithLabelValues(path, "network_error").Inc()
		return nil, &UpstreamError{Endpoint: path, Err: err}
	}

	dexRequestsTotal.WithLabelValues(path, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		class := classifyStatus(resp.StatusCode)
		dexErrorsTotal.WithLabelValues(string(class)).Inc()
		c.logger.Warn().
			Str("endpoint", path).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Upstream returned error status")
	}

	return resp, nil
}

// GetJSON performs a GET and decodes a 2xx JSON body into v.
// Non-2xx responses and transport failures are returned as *UpstreamError.
func (c *Client) GetJSON(ctx context.Context, endpoint string, v any) error {
	resp, err := c.Get(ctx, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &UpstreamError{
			Endpoint:   resp.Request.URL.Path,
			StatusCode: resp.StatusCode,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", resp.Request.URL.Path, err)
	}

	return nil
}

// classifyStatus categorizes an HTTP status code for observability.
func classifyStatus(status int) ErrorClass {
	switch {
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}
