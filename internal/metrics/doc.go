// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package metrics provides Prometheus instrumentation for Reelmatch.
//
// All collectors are package-level variables registered with the default
// registry through promauto, and exposed by the API at /metrics.
//
// # Metric Families
//
//	reelmatch_api_*              HTTP request counts, latency, in-flight, rate-limit rejections
//	reelmatch_recommendations_*  retrieval outcomes (success, not_found, invalid_shape, error)
//	reelmatch_recommend_*        latency per stage (rank, enrich, total)
//	reelmatch_poster_lookups_*   poster resolutions by source and fallback reason
//	reelmatch_tmdb_*             TMDB request latency by status
//	reelmatch_tmdb_circuit_breaker_* TMDB breaker state, requests and transitions
//	reelmatch_cache_*            poster cache hits, misses and disk GC passes
//	reelmatch_usage_*            persisted usage events, lost writes, corrupt reads
//
// # Usage
//
//	metrics.RecordPosterLookup("placeholder", "api_error")
//	metrics.RecordUsageWriteFailure("write")
package metrics
