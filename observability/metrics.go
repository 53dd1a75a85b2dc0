package observability

import (
	gu "github.com/xraph/go-utils/metrics"
)

// Metrics holds metric instruments for hookcache, backed by any go-utils
// MetricFactory (e.g. the forge-managed metrics system via fapp.Metrics()).
type Metrics struct {
	CacheHitsTotal   gu.Counter
	CacheMissesTotal gu.Counter
	FetchesTotal     gu.Counter
	FetchLatency     gu.Histogram
	ExecutesTotal    gu.Counter
	ExecuteLatency   gu.Histogram
	CachedWebhooks   gu.Gauge
}

// NewMetrics creates hookcache metric instruments using the supplied factory.
// Pass fapp.Metrics() from a forge extension, or metrics.NewMetricsCollector()
// for standalone usage.
func NewMetrics(factory gu.MetricFactory) *Metrics {
	return &Metrics{
		CacheHitsTotal:   factory.Counter("hookcache_cache_hits_total"),
		CacheMissesTotal: factory.Counter("hookcache_cache_misses_total"),
		FetchesTotal:     factory.Counter("hookcache_fetches_total"),
		FetchLatency:     factory.Histogram("hookcache_fetch_latency_seconds"),
		ExecutesTotal:    factory.Counter("hookcache_executes_total"),
		ExecuteLatency:   factory.Histogram("hookcache_execute_latency_seconds"),
		CachedWebhooks:   factory.Gauge("hookcache_cached_webhooks"),
	}
}

// RecordLookup records a cache read as a hit or a miss.
func (m *Metrics) RecordLookup(hit bool) {
	if hit {
		m.CacheHitsTotal.Inc()
		return
	}
	m.CacheMissesTotal.Inc()
}

// RecordFetch records a fill fetch with the given status and latency.
func (m *Metrics) RecordFetch(status string, latencySeconds float64) {
	m.FetchesTotal.WithLabels(map[string]string{"status": status}).Inc()
	m.FetchLatency.Observe(latencySeconds)
}

// RecordExecute records a webhook execution with the given status and latency.
func (m *Metrics) RecordExecute(status string, latencySeconds float64) {
	m.ExecutesTotal.WithLabels(map[string]string{"status": status}).Inc()
	m.ExecuteLatency.Observe(latencySeconds)
}

// RecordSize adjusts the cached-webhooks gauge by delta.
func (m *Metrics) RecordSize(delta int) {
	m.CachedWebhooks.Add(float64(delta))
}
