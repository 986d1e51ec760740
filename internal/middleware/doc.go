// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package middleware provides HTTP middleware shared by the API router.
//
// Each middleware has the standard func(http.Handler) http.Handler shape and
// is mounted with chi's Use.
//
// # RequestID
//
// Reuses an inbound X-Request-ID or generates a UUID, echoes it in the
// response header and stores it in the request context so logging.Ctx adds
// request_id to every log line.
//
// # PrometheusMetrics
//
// Records reelmatch_api_requests_total and
// reelmatch_api_request_duration_seconds. The path label is the chi route
// pattern (for example /api/v1/recommendations), never the raw URL, so query
// strings and unknown paths cannot explode label cardinality.
//
// # Compression
//
// Negotiates zstd or gzip from Accept-Encoding using klauspost/compress, with
// pooled encoders.
//
// Usage:
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID)
//	r.Use(middleware.PrometheusMetrics)
//	r.Use(middleware.Compression)
package middleware
