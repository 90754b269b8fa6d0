// Package metrics provides the centralized Prometheus metrics reference for
// the pokedex client. Metrics are defined in their respective packages
// (client, catalog, index, cache) via promauto to maintain modularity and
// avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the pokedex client.
// All metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - dex_requests_total{endpoint, status} (Counter): Upstream requests by endpoint and HTTP status
//   - dex_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - dex_errors_total{class} (Counter): Upstream errors by class (client, server, network)
//
// Fetch Metrics (pkg/catalog):
//   - dex_subitem_failures_total{kind} (Counter): Enrichment fetches recovered into sentinels (ability, move)
//   - dex_record_fetches_total{source} (Counter): Record fetches by source (upstream, cache)
//
// Index Metrics (pkg/index):
//   - dex_index_entries (Gauge): Entries in the session name index
//   - dex_index_builds_total{outcome} (Counter): Index build attempts (ok, failed)
//
// Cache Metrics (pkg/cache):
//   - dex_cache_hits_total{backend} (Counter): Record cache hits (memory, redis)
//   - dex_cache_misses_total{backend} (Counter): Record cache misses
//   - dex_cache_errors_total{operation} (Counter): Cache operation errors (get, set, delete)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(dex_cache_hits_total[5m])) /
//   (sum(rate(dex_cache_hits_total[5m])) + sum(rate(dex_cache_misses_total[5m])))
//
//   # Sentinel Substitution Rate
//   rate(dex_subitem_failures_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(dex_request_duration_seconds_bucket[5m]))
