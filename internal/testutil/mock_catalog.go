// Package testutil provides testing utilities for the pokedex client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockSpecies is one catalog entry served by the mock upstream.
type MockSpecies struct {
	ID        int
	Name      string
	Types     []string
	AbilityID []int
	MoveID    []int
}

// MockAbility is an ability document served by the mock upstream.
type MockAbility struct {
	ID     int
	Name   string
	Effect string
}

// MockMove is a move document served by the mock upstream.
type MockMove struct {
	ID       int
	Name     string
	Effect   string
	Type     string
	Power    *int
	Accuracy *int
}

// MockCatalog is a configurable mock of the creature-catalog API. It serves
// the paginated listing, record detail, and sub-item endpoints from an
// in-memory dataset, with per-path failure and delay injection.
type MockCatalog struct {
	server *httptest.Server

	mu        sync.RWMutex
	species   []MockSpecies
	abilities map[int]MockAbility
	moves     map[int]MockMove
	handlers  map[string]http.HandlerFunc
	failures  map[string]int
	delays    map[string]time.Duration
	requests  map[string]int
}

// NewMockCatalog creates a mock upstream pre-loaded with a small default
// dataset (bulbasaur, ivysaur, venusaur-mega).
func NewMockCatalog() *MockCatalog {
	m := &MockCatalog{
		abilities: make(map[int]MockAbility),
		moves:     make(map[int]MockMove),
		handlers:  make(map[string]http.HandlerFunc),
		failures:  make(map[string]int),
		delays:    make(map[string]time.Duration),
		requests:  make(map[string]int),
	}

	m.SetAbilities(
		MockAbility{ID: 1, Name: "overgrow", Effect: "Powers up grass moves in a pinch."},
		MockAbility{ID: 2, Name: "chlorophyll", Effect: "Boosts speed in sunshine."},
		MockAbility{ID: 3, Name: "thick-fat", Effect: "Halves fire and ice damage."},
	)
	m.SetMoves(
		MockMove{ID: 1, Name: "tackle", Effect: "A full-body charge attack.", Type: "normal", Power: intp(40), Accuracy: intp(100)},
		MockMove{ID: 2, Name: "vine-whip", Effect: "Whips the foe with slender vines.", Type: "grass", Power: intp(45), Accuracy: intp(100)},
		MockMove{ID: 3, Name: "growl", Effect: "Lowers the foe's attack.", Type: "normal", Accuracy: intp(100)},
	)
	m.SetSpecies(
		MockSpecies{ID: 1, Name: "bulbasaur", Types: []string{"grass", "poison"}, AbilityID: []int{1, 2}, MoveID: []int{1, 2, 3}},
		MockSpecies{ID: 2, Name: "ivysaur", Types: []string{"grass", "poison"}, AbilityID: []int{1, 2}, MoveID: []int{2, 3}},
		MockSpecies{ID: 3, Name: "venusaur-mega", Types: []string{"grass", "poison"}, AbilityID: []int{3}, MoveID: []int{2}},
	)

	m.server = httptest.NewServer(http.HandlerFunc(m.route))

	return m
}

// intp returns a pointer to v.
func intp(v int) *int { return &v }

// BaseURL returns the mock API root, suitable for client.Config.BaseURL.
func (m *MockCatalog) BaseURL() string {
	return m.server.URL + "/api/v2"
}

// Close shuts down the mock server.
func (m *MockCatalog) Close() {
	m.server.Close()
}

// SetSpecies replaces the catalog dataset, preserving the given order.
func (m *MockCatalog) SetSpecies(species ...MockSpecies) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.species = species
}

// SetAbilities replaces the ability dataset.
func (m *MockCatalog) SetAbilities(abilities ...MockAbility) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range abilities {
		m.abilities[a.ID] = a
	}
}

// SetMoves replaces the move dataset.
func (m *MockCatalog) SetMoves(moves ...MockMove) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mv := range moves {
		m.moves[mv.ID] = mv
	}
}

// SetHandler installs a custom handler for an exact path, overriding the
// built-in dataset routing.
func (m *MockCatalog) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// Fail makes requests to an exact path return the given status code.
// Status 0 clears the injected failure.
func (m *MockCatalog) Fail(path string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[path] = status
}

// Delay makes requests to an exact path sleep before responding.
func (m *MockCatalog) Delay(path string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[path] = d
}

// Requests returns how many requests an exact path has received.
func (m *MockCatalog) Requests(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[path]
}

// TotalRequests returns the total request count across all paths.
func (m *MockCatalog) TotalRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, n := range m.requests {
		total += n
	}
	return total
}

// route dispatches a request to injected behaviors, custom handlers, or the
// dataset endpoints.
func (m *MockCatalog) route(w http.ResponseWriter, r *http.Request) {
	// Upstream reference URLs carry a trailing slash; injection and counting
	// keys are registered without one. Normalize so both forms match.
	path := strings.TrimSuffix(r.URL.Path, "/")
	if path == "" {
		path = "/"
	}

	m.mu.Lock()
	m.requests[path]++
	delay := m.delays[path]
	failStatus := m.failures[path]
	handler := m.handlers[path]
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	if failStatus != 0 {
		http.Error(w, fmt.Sprintf(`{"error": "injected failure %d"}`, failStatus), failStatus)
		return
	}

	if handler != nil {
		handler(w, r)
		return
	}

	switch {
	case path == "/api/v2/pokemon":
		m.handleList(w, r)
	case strings.HasPrefix(path, "/api/v2/pokemon/"):
		m.handleDetail(w, r)
	case strings.HasPrefix(path, "/api/v2/ability/"):
		m.handleAbility(w, r)
	case strings.HasPrefix(path, "/api/v2/move/"):
		m.handleMove(w, r)
	default:
		http.NotFound(w, r)
	}
}

// trailingID parses the numeric identifier from ".../{id}" or ".../{id}/".
func trailingID(path string) (int, bool) {
	trimmed := strings.TrimRight(path, "/")
	seg := trimmed[strings.LastIndex(trimmed, "/")+1:]
	id, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (m *MockCatalog) handleList(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]map[string]string, 0, limit)
	for i := offset; i < len(m.species) && i < offset+limit; i++ {
		s := m.species[i]
		results = append(results, map[string]string{
			"name": s.Name,
			"url":  fmt.Sprintf("%s/api/v2/pokemon/%d/", m.server.URL, s.ID),
		})
	}

	writeJSON(w, map[string]any{
		"count":   len(m.species),
		"results": results,
	})
}

func (m *MockCatalog) handleDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := trailingID(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.species {
		if s.ID != id {
			continue
		}

		types := make([]map[string]any, 0, len(s.Types))
		for _, t := range s.Types {
			types = append(types, map[string]any{"type": map[string]string{"name": t}})
		}

		abilities := make([]map[string]any, 0, len(s.AbilityID))
		for _, aid := range s.AbilityID {
			a := m.abilities[aid]
			abilities = append(abilities, map[string]any{
				"ability": map[string]string{
					"name": a.Name,
					"url":  fmt.Sprintf("%s/api/v2/ability/%d/", m.server.URL, aid),
				},
			})
		}

		moves := make([]map[string]any, 0, len(s.MoveID))
		for _, mid := range s.MoveID {
			mv := m.moves[mid]
			moves = append(moves, map[string]any{
				"move": map[string]string{
					"name": mv.Name,
					"url":  fmt.Sprintf("%s/api/v2/move/%d/", m.server.URL, mid),
				},
			})
		}

		writeJSON(w, map[string]any{
			"id":    s.ID,
			"name":  s.Name,
			"types": types,
			"stats": []map[string]any{
				{"base_stat": 40 + s.ID, "stat": map[string]string{"name": "hp"}},
				{"base_stat": 49, "stat": map[string]string{"name": "attack"}},
				{"base_stat": 45, "stat": map[string]string{"name": "speed"}},
			},
			"abilities": abilities,
			"moves":     moves,
		})
		return
	}

	http.NotFound(w, r)
}

func (m *MockCatalog) handleAbility(w http.ResponseWriter, r *http.Request) {
	id, ok := trailingID(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	m.mu.RLock()
	a, exists := m.abilities[id]
	m.mu.RUnlock()

	if !exists {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, map[string]any{
		"effect_entries": []map[string]any{
			{
				"effect":       a.Effect,
				"short_effect": a.Effect,
				"language":     map[string]string{"name": "en"},
			},
		},
	})
}

func (m *MockCatalog) handleMove(w http.ResponseWriter, r *http.Request) {
	id, ok := trailingID(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	m.mu.RLock()
	mv, exists := m.moves[id]
	m.mu.RUnlock()

	if !exists {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, map[string]any{
		"power":    mv.Power,
		"accuracy": mv.Accuracy,
		"pp":       25,
		"type":     map[string]string{"name": mv.Type},
		"effect_entries": []map[string]any{
			{
				"effect":       mv.Effect,
				"short_effect": mv.Effect,
				"language":     map[string]string{"name": "en"},
			},
		},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

// GenerateSpecies builds n sequential species named "species-{i}" sharing the
// default ability and move sets, for pagination-heavy tests.
func GenerateSpecies(n int) []MockSpecies {
	out := make([]MockSpecies, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, MockSpecies{
			ID:        i,
			Name:      fmt.Sprintf("species-%d", i),
			Types:     []string{"normal"},
			AbilityID: []int{1},
			MoveID:    []int{1},
		})
	}
	return out
}
