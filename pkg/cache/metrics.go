package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks record cache hits by backend (memory, redis)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dex_cache_hits_total",
			Help: "Total number of record cache hits",
		},
		[]string{"backend"},
	)

	// CacheMisses tracks record cache misses by backend
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dex_cache_misses_total",
			Help: "Total number of record cache misses",
		},
		[]string{"backend"},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dex_cache_errors_total",
			Help: "Total number of record cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
