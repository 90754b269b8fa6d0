package cache

import (
	"context"
	"sync"
	"time"
)

// memoryEntry is a stored payload with its expiry deadline.
type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is a session-scoped in-memory Store. Expired entries are
// dropped lazily on read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
	}
}

// Get retrieves the payload for key.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		if ok {
			s.mu.Lock()
			delete(s.entries, key)
			s.mu.Unlock()
		}
		CacheMisses.WithLabelValues("memory").Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues("memory").Inc()
	return entry.data, nil
}

// Set stores a payload under key for ttl.
func (s *MemoryStore) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	s.entries[key] = memoryEntry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	}
	s.mu.Unlock()

	return nil
}

// Delete removes a key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, including not-yet-collected
// expired ones.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
