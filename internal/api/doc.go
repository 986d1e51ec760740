// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package api exposes the recommendation service over HTTP.
//
// Routes are mounted on a chi router:
//
//	GET /api/v1/health           liveness, catalog size, usage file and poster status
//	GET /api/v1/movies           titles for the selector (q, limit, offset)
//	GET /api/v1/recommendations  ranked similar movies with posters (title, k)
//	GET /api/v1/usage            local usage summary
//	GET /metrics                 Prometheus exposition
//
// Every JSON endpoint answers with the same envelope:
//
//	{"success": true, "data": ..., "metadata": {"request_id": "...", "timestamp": "..."}}
//	{"success": false, "error": {"code": "NOT_FOUND", "message": "...", "details": ...}, "metadata": {...}}
//
// # Error codes
//
//   - NOT_FOUND (404): the requested title is not in the catalog
//   - VALIDATION_ERROR (400): a query parameter was rejected
//   - TOO_MANY_REQUESTS (429): the per-IP rate limit was exceeded
//   - SERVICE_UNAVAILABLE (503): the request was canceled or timed out
//   - INTERNAL_ERROR (500): anything else
//
// # Middleware
//
// The global stack is request id, real IP, panic recovery, CORS and security
// headers. API routes add httprate per-IP limiting, Prometheus metrics and
// zstd/gzip compression.
package api
