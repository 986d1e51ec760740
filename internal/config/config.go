// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import "time"

// Config holds all application configuration.
// Values are layered by LoadWithKoanf: defaults, optional YAML file, then
// environment variables.
type Config struct {
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Poster    PosterConfig    `koanf:"poster"`
	Usage     UsageConfig     `koanf:"usage"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DataConfig locates the precomputed input files loaded once at startup.
type DataConfig struct {
	// ItemsPath is the item table (.csv or .json, optionally .zst/.lz4 compressed).
	ItemsPath string `koanf:"items_path"`

	// MatrixPath is the RMX1 similarity matrix (optionally .zst/.lz4 compressed).
	MatrixPath string `koanf:"matrix_path"`

	// RejectDuplicateTitles fails the load when two rows share a title.
	// When false, the first row wins and duplicates are logged.
	RejectDuplicateTitles bool `koanf:"reject_duplicate_titles"`
}

// RecommendConfig controls the retrieval engine.
type RecommendConfig struct {
	DefaultK int `koanf:"default_k"`
	MaxK     int `koanf:"max_k"`
}

// PosterConfig controls TMDB poster enrichment.
type PosterConfig struct {
	APIKey      string        `koanf:"api_key"`    // TMDB v3 API key; empty means placeholders only
	APIBase     string        `koanf:"api_base"`   // e.g. https://api.themoviedb.org/3
	ImageBase   string        `koanf:"image_base"` // e.g. https://image.tmdb.org/t/p/w500
	Timeout     time.Duration `koanf:"timeout"`
	RateLimit   float64       `koanf:"rate_limit"` // requests per second, 0 disables
	Parallelism int           `koanf:"parallelism"`
	CacheSize   int           `koanf:"cache_size"`
	CacheTTL    time.Duration `koanf:"cache_ttl"`
	CacheDir    string        `koanf:"cache_dir"`   // badger directory; empty disables the disk cache
	GCInterval  time.Duration `koanf:"gc_interval"` // badger value-log GC cadence
}

// UsageConfig locates the local usage analytics file.
type UsageConfig struct {
	Path        string `koanf:"path"`
	MaxSessions int    `koanf:"max_sessions"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	Timeout           time.Duration `koanf:"timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig mirrors logging.Config for file and env loading.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
