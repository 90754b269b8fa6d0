// Package catalog implements the typed fetch layer over the creature-catalog
// API: paginated summary listing, single-record detail with concurrent
// sub-item enrichment, and reference identifier parsing.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dexkit/pokedex-client/pkg/cache"
	"github.com/dexkit/pokedex-client/pkg/client"
)

// Sentinel values substituted for sub-item data that could not be retrieved.
const (
	// DescriptionUnavailable replaces an ability or move description whose
	// enrichment fetch failed or timed out.
	DescriptionUnavailable = "Description unavailable."

	// TypeFallback replaces a move type whose enrichment fetch failed.
	TypeFallback = "normal"
)

// Prometheus metrics for catalog fetch operations.
var (
	dexSubItemFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dex_subitem_failures_total",
		Help: "Sub-item enrichment fetches recovered into sentinel values, by kind",
	}, []string{"kind"}) // "ability", "move"

	dexRecordFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dex_record_fetches_total",
		Help: "Record fetches by source",
	}, []string{"source"}) // "upstream", "cache"
)

// Config holds the catalog fetcher configuration.
type Config struct {
	// Client is the upstream HTTP client (required).
	Client *client.Client

	// Cache is the optional record cache. Nil disables caching.
	Cache cache.Store

	// CacheTTL bounds how long enriched records stay cached.
	CacheTTL time.Duration

	// AbilityLimit caps the bundle of enriched abilities per record.
	AbilityLimit int

	// MoveLimit caps the bundle of enriched moves per record.
	MoveLimit int

	// AbilityStagger spaces out concurrent ability fetches: fetch i waits
	// i * AbilityStagger before issuing its request.
	AbilityStagger time.Duration

	// MoveStagger spaces out concurrent move fetches the same way.
	MoveStagger time.Duration

	// MoveTimeout is the hard per-call deadline for a move fetch.
	MoveTimeout time.Duration

	// MaxConcurrency bounds parallel record fetches when resolving a page.
	MaxConcurrency int
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(c *client.Client) Config {
	return Config{
		Client:         c,
		CacheTTL:       10 * time.Minute,
		AbilityLimit:   4,
		MoveLimit:      20,
		AbilityStagger: 100 * time.Millisecond,
		MoveStagger:    50 * time.Millisecond,
		MoveTimeout:    5 * time.Second,
		MaxConcurrency: 5,
	}
}

// Catalog fetches and enriches creature-catalog records.
type Catalog struct {
	client *client.Client
	config Config
	logger zerolog.Logger
}

// New creates a new catalog fetcher.
func New(cfg Config) (*Catalog, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("client is required")
	}

	if cfg.AbilityLimit <= 0 {
		cfg.AbilityLimit = 4
	}
	if cfg.MoveLimit <= 0 {
		cfg.MoveLimit = 20
	}
	if cfg.AbilityStagger < 0 || cfg.MoveStagger < 0 {
		return nil, fmt.Errorf("stagger durations must be non-negative")
	}
	if cfg.MoveTimeout <= 0 {
		cfg.MoveTimeout = 5 * time.Second
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 5
	}
	if cfg.Cache != nil && cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}

	return &Catalog{
		client: cfg.Client,
		config: cfg,
		logger: log.With().Str("component", "catalog").Logger(),
	}, nil
}

// FetchPage retrieves one page of catalog summaries.
// limit must be > 0 and offset >= 0; failures are *client.UpstreamError.
func (c *Catalog) FetchPage(ctx context.Context, limit, offset int) (*Page, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0 (got %d)", limit)
	}
	if offset < 0 {
		return nil, fmt.Errorf("offset must be >= 0 (got %d)", offset)
	}

	var page Page
	endpoint := fmt.Sprintf("pokemon?limit=%d&offset=%d", limit, offset)
	if err := c.client.GetJSON(ctx, endpoint, &page); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("limit", limit).
		Int("offset", offset).
		Int("count", page.Count).
		Int("results", len(page.Results)).
		Msg("Fetched catalog page")

	return &page, nil
}

// sleepCtx waits for d, returning early with the context error if ctx is
// cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
