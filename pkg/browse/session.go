// Package browse implements the search/pagination engine that orchestrates
// the catalog fetchers and the session name index. A Session is a state
// machine over {Browsing, Searching}: a non-empty query with a non-empty
// index searches the cached names; everything else pages through the
// upstream listing directly.
package browse

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dexkit/pokedex-client/pkg/catalog"
	"github.com/dexkit/pokedex-client/pkg/index"
)

// DefaultPageSize is the number of records per page.
const DefaultPageSize = 12

// Mode is the engine state for the current view.
type Mode string

const (
	// ModeBrowsing pages through the upstream listing.
	ModeBrowsing Mode = "browsing"

	// ModeSearching pages through name index matches.
	ModeSearching Mode = "searching"
)

// View is the renderable snapshot handed to the presentation collaborator.
// An empty result (TotalPages 0, empty Records, nil Err) is distinguishable
// from an error state (Err non-nil).
type View struct {
	Records     []*catalog.Pokemon
	CurrentPage int
	TotalPages  int
	Query       string
	Mode        Mode
	Err         error
}

// Config holds the session configuration.
type Config struct {
	// Catalog resolves pages and records (required).
	Catalog *catalog.Catalog

	// Index is the session name index cache (required).
	Index *index.Cache

	// PageSize is the number of records per page.
	PageSize int
}

// Session owns the page/query state for one browsing session. All state
// transitions recompute the visible record page; responses of superseded
// transitions are discarded by sequence number so a slow stale fetch can
// never overwrite a newer one.
type Session struct {
	catalog  *catalog.Catalog
	idx      *index.Cache
	pageSize int
	logger   zerolog.Logger

	mu         sync.Mutex
	seq        uint64
	query      string
	page       int
	totalPages int
	records    []*catalog.Pokemon
	err        error
}

// NewSession creates a session starting at page 1 with no query.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if cfg.Index == nil {
		return nil, fmt.Errorf("index cache is required")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}

	return &Session{
		catalog:  cfg.Catalog,
		idx:      cfg.Index,
		pageSize: cfg.PageSize,
		page:     1,
		logger:   log.With().Str("component", "browse-session").Logger(),
	}, nil
}

// Start populates the name index and loads the first page.
func (s *Session) Start(ctx context.Context) View {
	s.idx.Populate(ctx, s.catalog)
	return s.refresh(ctx)
}

// SetQuery updates the search query and recomputes the view. Changing the
// query resets the current page to 1.
func (s *Session) SetQuery(ctx context.Context, query string) View {
	s.mu.Lock()
	if query != s.query {
		s.query = query
		s.page = 1
	}
	s.mu.Unlock()

	return s.refresh(ctx)
}

// SetPage moves to page p within the current mode and recomputes the view.
// Pages below 1 clamp to 1; pages beyond the last clamp to the last.
func (s *Session) SetPage(ctx context.Context, p int) View {
	if p < 1 {
		p = 1
	}

	s.mu.Lock()
	s.page = p
	s.mu.Unlock()

	return s.refresh(ctx)
}

// Reload rebuilds the name index from scratch and recomputes the view.
func (s *Session) Reload(ctx context.Context) View {
	s.idx.Invalidate()
	s.idx.Populate(ctx, s.catalog)
	return s.refresh(ctx)
}

// View returns the current snapshot without recomputing.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// refresh recomputes the visible page for the current query and page. Each
// refresh claims a new sequence number; if another refresh starts while this
// one is fetching, the late result is dropped.
func (s *Session) refresh(ctx context.Context) View {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	query := s.query
	page := s.page
	s.mu.Unlock()

	records, totalPages, err := s.compute(ctx, query, page)

	// Clamp to the last page once the total is known, recomputing for the
	// clamped page so the invariant page <= max(totalPages, 1) holds.
	if err == nil {
		if last := maxPage(totalPages); page > last {
			page = last
			records, totalPages, err = s.compute(ctx, query, page)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		s.logger.Debug().
			Uint64("seq", seq).
			Uint64("latest", s.seq).
			Msg("Discarding stale fetch result")
		return s.snapshotLocked()
	}

	s.page = page
	s.totalPages = totalPages
	s.records = records
	s.err = err

	if err != nil {
		s.logger.Error().
			Err(err).
			Str("query", query).
			Int("page", page).
			Msg("View refresh failed")
	}

	return s.snapshotLocked()
}

// compute resolves the record page for (query, page) in the mode the pair
// selects. It does not touch session state.
func (s *Session) compute(ctx context.Context, query string, page int) ([]*catalog.Pokemon, int, error) {
	if index.Normalize(query) != "" && !s.idx.Empty() {
		return s.computeSearch(ctx, query, page)
	}
	return s.computeBrowse(ctx, page)
}

// computeSearch pages through name index matches.
func (s *Session) computeSearch(ctx context.Context, query string, page int) ([]*catalog.Pokemon, int, error) {
	entries := s.idx.Search(query)
	totalPages := pageCount(len(entries), s.pageSize)

	start := (page - 1) * s.pageSize
	if start >= len(entries) {
		return []*catalog.Pokemon{}, totalPages, nil
	}

	end := start + s.pageSize
	if end > len(entries) {
		end = len(entries)
	}

	ids := make([]int, 0, end-start)
	for _, e := range entries[start:end] {
		ids = append(ids, e.ID)
	}

	records, err := s.catalog.FetchPokemonBatch(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	return records, totalPages, nil
}

// computeBrowse delegates to the upstream listing.
func (s *Session) computeBrowse(ctx context.Context, page int) ([]*catalog.Pokemon, int, error) {
	listing, err := s.catalog.FetchPage(ctx, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int, 0, len(listing.Results))
	for _, summary := range listing.Results {
		id, err := catalog.ParseRefID(summary.URL)
		if err != nil {
			return nil, 0, err
		}
		ids = append(ids, id)
	}

	records, err := s.catalog.FetchPokemonBatch(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	return records, pageCount(listing.Count, s.pageSize), nil
}

// snapshotLocked builds a View from current state. Caller holds s.mu.
func (s *Session) snapshotLocked() View {
	mode := ModeBrowsing
	if index.Normalize(s.query) != "" && !s.idx.Empty() {
		mode = ModeSearching
	}

	return View{
		Records:     s.records,
		CurrentPage: s.page,
		TotalPages:  s.totalPages,
		Query:       s.query,
		Mode:        mode,
		Err:         s.err,
	}
}

// pageCount computes ceil(total / pageSize).
func pageCount(total, pageSize int) int {
	return (total + pageSize - 1) / pageSize
}

// maxPage is the highest valid page for a total: at least 1 so an empty
// result still has a stable current page.
func maxPage(totalPages int) int {
	if totalPages < 1 {
		return 1
	}
	return totalPages
}
