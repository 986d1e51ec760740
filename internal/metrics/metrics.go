// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmatch_api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the per-IP rate limiter",
		},
	)

	// Retrieval Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_recommendations_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"}, // success, not_found, invalid_shape, error
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_recommend_duration_seconds",
			Help:    "Recommendation latency by stage",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"stage"}, // rank, enrich, total
	)

	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_catalog_items",
			Help: "Number of items in the loaded similarity catalog",
		},
	)

	// Poster Enrichment Metrics
	PosterLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_poster_lookups_total",
			Help: "Total number of poster lookups by source and fallback reason",
		},
		[]string{"source", "reason"},
	)

	TMDBRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_tmdb_request_duration_seconds",
			Help:    "TMDB API request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelmatch_tmdb_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_tmdb_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_tmdb_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"}, // poster_memory, poster_disk
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	CacheGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_cache_gc_runs_total",
			Help: "Total number of disk cache value-log GC passes by result",
		},
		[]string{"result"}, // rewritten, nothing_to_do, error
	)

	// Usage Analytics Metrics
	UsageEventsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmatch_usage_events_total",
			Help: "Total number of usage events persisted",
		},
	)

	UsageWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_usage_write_failures_total",
			Help: "Total number of usage events lost to persistence failures",
		},
		[]string{"stage"}, // lock, init, encode, write
	)

	UsageCorruptReads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelmatch_usage_corrupt_reads_total",
			Help: "Total number of usage file reads that failed to parse",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records the outcome and stage latencies of one request.
func RecordRecommendation(outcome string, rank, enrich, total time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendDuration.WithLabelValues("rank").Observe(rank.Seconds())
	if enrich > 0 {
		RecommendDuration.WithLabelValues("enrich").Observe(enrich.Seconds())
	}
	RecommendDuration.WithLabelValues("total").Observe(total.Seconds())
}

// RecordPosterLookup counts one poster resolution.
func RecordPosterLookup(source, reason string) {
	if reason == "" {
		reason = "none"
	}
	PosterLookupsTotal.WithLabelValues(source, reason).Inc()
}

// RecordTMDBRequest observes a TMDB call. status is the HTTP status code or
// "error" when the request never produced a response.
func RecordTMDBRequest(status string, duration time.Duration) {
	TMDBRequestDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordCacheLookup counts a hit or miss for the named cache.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
	} else {
		CacheMisses.WithLabelValues(cache).Inc()
	}
}

// RecordUsageWriteFailure counts a usage event lost at the given stage.
func RecordUsageWriteFailure(stage string) {
	UsageWriteFailures.WithLabelValues(stage).Inc()
}
