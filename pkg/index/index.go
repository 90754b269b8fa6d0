// Package index maintains the session-scoped name index: the full set of
// (name, identifier) pairs fetched once per session and queried in memory on
// every keystroke, so search never re-fetches from the upstream.
package index

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dexkit/pokedex-client/pkg/catalog"
)

// DefaultOverFetchLimit is the bulk listing size. It must exceed the known
// catalog size so the whole universe arrives in one page.
const DefaultOverFetchLimit = 10000

// Prometheus metrics for name index operations.
var (
	dexIndexEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dex_index_entries",
		Help: "Number of entries in the session name index",
	})

	dexIndexBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dex_index_builds_total",
		Help: "Name index build attempts by outcome",
	}, []string{"outcome"}) // "ok", "failed"
)

// Entry is one (name, identifier) pair of the index. Entries are immutable
// once the index is populated.
type Entry struct {
	Name string
	ID   int
}

// Lister fetches one page of catalog summaries. *catalog.Catalog satisfies it.
type Lister interface {
	FetchPage(ctx context.Context, limit, offset int) (*catalog.Page, error)
}

// Cache holds the name index with an explicit lifecycle:
// empty -> populated -> (invalidated on reload). It is written exactly once
// per lifecycle by Populate and read-only thereafter.
type Cache struct {
	mu        sync.RWMutex
	entries   []Entry
	populated bool

	overFetchLimit int
	logger         zerolog.Logger
}

// NewCache creates an empty name index cache. overFetchLimit <= 0 selects
// DefaultOverFetchLimit.
func NewCache(overFetchLimit int) *Cache {
	if overFetchLimit <= 0 {
		overFetchLimit = DefaultOverFetchLimit
	}
	return &Cache{
		overFetchLimit: overFetchLimit,
		logger:         log.With().Str("component", "name-index").Logger(),
	}
}

// Populate fetches the full universe of names in a single bulk listing and
// caches it. Population is fail-soft: on any failure the index stays empty
// and search degrades to browse semantics, which remain independently
// functional. The failure is logged, never returned.
func (c *Cache) Populate(ctx context.Context, lister Lister) {
	start := time.Now()

	page, err := lister.FetchPage(ctx, c.overFetchLimit, 0)
	if err != nil {
		dexIndexBuilds.WithLabelValues("failed").Inc()
		c.logger.Warn().
			Err(err).
			Msg("Name index build failed, search degrades to browse mode")
		c.setEntries(nil)
		return
	}

	entries := make([]Entry, 0, len(page.Results))
	for _, s := range page.Results {
		id, err := catalog.ParseRefID(s.URL)
		if err != nil {
			dexIndexBuilds.WithLabelValues("failed").Inc()
			c.logger.Warn().
				Err(err).
				Str("name", s.Name).
				Msg("Name index build hit malformed reference, keeping index empty")
			c.setEntries(nil)
			return
		}
		entries = append(entries, Entry{Name: s.Name, ID: id})
	}

	c.setEntries(entries)
	dexIndexBuilds.WithLabelValues("ok").Inc()

	c.logger.Info().
		Int("entries", len(entries)).
		Dur("duration", time.Since(start)).
		Msg("Name index built")
}

// setEntries installs the built index (possibly empty).
func (c *Cache) setEntries(entries []Entry) {
	c.mu.Lock()
	c.entries = entries
	c.populated = true
	c.mu.Unlock()
	dexIndexEntries.Set(float64(len(entries)))
}

// Invalidate resets the cache to the empty state so the next Populate
// rebuilds it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = nil
	c.populated = false
	c.mu.Unlock()
	dexIndexEntries.Set(0)
}

// Populated reports whether Populate has run for the current lifecycle.
func (c *Cache) Populated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.populated
}

// Len returns the number of indexed entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Empty reports whether the index holds no entries, either because it was
// never populated or because the build failed soft.
func (c *Cache) Empty() bool {
	return c.Len() == 0
}
