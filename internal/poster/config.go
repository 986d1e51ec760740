// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package poster

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Config configures a Resolver.
type Config struct {
	// APIKey is the TMDB v3 API key. Empty disables lookups.
	APIKey string

	// APIBase is the TMDB API root, e.g. https://api.themoviedb.org/3.
	APIBase string

	// ImageBase is prefixed to poster_path, e.g. https://image.tmdb.org/t/p/w500.
	ImageBase string

	// Timeout bounds each TMDB call, including the rate limiter wait.
	Timeout time.Duration

	// RateLimit is the sustained TMDB request rate per second. 0 disables limiting.
	RateLimit float64

	// CacheSize is the in-memory LRU capacity. 0 disables the memory tier.
	CacheSize int

	// CacheTTL is how long resolved URLs stay cached.
	CacheTTL time.Duration
}

// DefaultConfig returns defaults matching the service configuration.
func DefaultConfig() Config {
	return Config{
		APIBase:   "https://api.themoviedb.org/3",
		ImageBase: "https://image.tmdb.org/t/p/w500",
		Timeout:   5 * time.Second,
		RateLimit: 20,
		CacheSize: 2048,
		CacheTTL:  24 * time.Hour,
	}
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithHTTPClient replaces the HTTP client. Its Timeout is left untouched.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		r.httpClient = c
	}
}

// WithDiskCache enables the persistent cache tier.
func WithDiskCache(d DiskCache) Option {
	return func(r *Resolver) {
		r.disk = d
	}
}

// WithLogger sets the logger. The default discards output.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l.With().Str("component", "poster").Logger()
	}
}

// WithBreakerName overrides the circuit breaker name used in metrics.
func WithBreakerName(name string) Option {
	return func(r *Resolver) {
		r.breakerName = name
	}
}
