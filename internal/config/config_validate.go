// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/reelmatch/internal/logging"
)

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateData(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validatePoster(); err != nil {
		return err
	}
	if err := c.validateUsage(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateData() error {
	if strings.TrimSpace(c.Data.ItemsPath) == "" {
		return fmt.Errorf("ITEMS_PATH is required")
	}
	if strings.TrimSpace(c.Data.MatrixPath) == "" {
		return fmt.Errorf("MATRIX_PATH is required")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.DefaultK < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_K must be at least 1, got %d", c.Recommend.DefaultK)
	}
	if c.Recommend.MaxK < c.Recommend.DefaultK {
		return fmt.Errorf("RECOMMEND_MAX_K (%d) must be >= RECOMMEND_DEFAULT_K (%d)",
			c.Recommend.MaxK, c.Recommend.DefaultK)
	}
	return nil
}

// validatePoster validates TMDB settings. An empty API key is allowed:
// every poster then resolves to the "API Key Required" placeholder.
func (c *Config) validatePoster() error {
	if err := validateHTTPURL(c.Poster.APIBase, "TMDB_API_BASE"); err != nil {
		return err
	}
	if err := validateHTTPURL(c.Poster.ImageBase, "TMDB_IMAGE_BASE"); err != nil {
		return err
	}
	if c.Poster.Timeout <= 0 || c.Poster.Timeout > time.Minute {
		return fmt.Errorf("TMDB_TIMEOUT must be between 1ns and 1m, got %v", c.Poster.Timeout)
	}
	if c.Poster.RateLimit < 0 {
		return fmt.Errorf("TMDB_RATE_LIMIT must not be negative, got %v", c.Poster.RateLimit)
	}
	if c.Poster.Parallelism < 1 || c.Poster.Parallelism > 64 {
		return fmt.Errorf("POSTER_PARALLELISM must be between 1 and 64, got %d", c.Poster.Parallelism)
	}
	if c.Poster.CacheSize < 0 {
		return fmt.Errorf("POSTER_CACHE_SIZE must not be negative, got %d", c.Poster.CacheSize)
	}
	if c.Poster.CacheDir != "" && c.Poster.GCInterval <= 0 {
		return fmt.Errorf("POSTER_GC_INTERVAL must be positive when POSTER_CACHE_DIR is set")
	}
	return nil
}

func (c *Config) validateUsage() error {
	if strings.TrimSpace(c.Usage.Path) == "" {
		return fmt.Errorf("USAGE_PATH is required")
	}
	if c.Usage.MaxSessions < 1 {
		return fmt.Errorf("USAGE_MAX_SESSIONS must be at least 1, got %d", c.Usage.MaxSessions)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.RateLimitRequests < 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must not be negative")
	}
	if c.Server.RateLimitRequests > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ToLogging converts to the logging package's configuration.
func (l LoggingConfig) ToLogging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = l.Level
	cfg.Format = l.Format
	cfg.Caller = l.Caller
	return cfg
}
