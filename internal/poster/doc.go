// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package poster resolves poster image URLs for catalog movies from TMDB.
//
// Resolve never fails. Every lookup produces a usable URL: either the real
// poster or one of three placeholder images. The Result carries the Source
// that produced the URL and, for placeholders, the Reason.
//
// # Lookup Order
//
//  1. in-memory LRU (cache.LRU) with poster.cache_ttl
//  2. BadgerCache on disk, when poster.cache_dir is set
//  3. TMDB GET /movie/{id}
//
// Real posters and definitive "no poster" answers (HTTP 404 or an empty
// poster_path) are cached. Transport errors, non-2xx statuses, circuit
// rejections and rate-limit rejections are not, so the next request retries.
//
// # Admission Control
//
// TMDB calls pass through a client-side token bucket (golang.org/x/time/rate)
// and a circuit breaker (sony/gobreaker). Neither retries: a call the limiter
// cannot admit before the per-call deadline, or the breaker rejects, degrades
// straight to the API Error placeholder.
//
// Circuit breaker configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 5 consecutive failures, or 60% failures over 10+ requests
//
// A 404 from TMDB does not count as a breaker failure.
//
// # Reasons
//
//	""                  real poster (tmdb, memory_cache, disk_cache)
//	api_key_required    TMDB_API_KEY is not set
//	no_poster           TMDB has no poster for the movie
//	api_error           transport error, non-2xx, bad JSON or timeout
//	circuit_open        breaker rejected the call
//	rate_limited        limiter could not admit the call in time
package poster
