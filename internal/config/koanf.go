// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelmatch/config.yaml",
	"/etc/reelmatch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			ItemsPath:             "./data/movies.csv",
			MatrixPath:            "./data/similarity.rmx.zst",
			RejectDuplicateTitles: false,
		},
		Recommend: RecommendConfig{
			DefaultK: 5,
			MaxK:     50,
		},
		Poster: PosterConfig{
			APIKey:      "",
			APIBase:     "https://api.themoviedb.org/3",
			ImageBase:   "https://image.tmdb.org/t/p/w500",
			Timeout:     5 * time.Second,
			RateLimit:   20,
			Parallelism: 5,
			CacheSize:   2048,
			CacheTTL:    24 * time.Hour,
			CacheDir:    "",
			GCInterval:  10 * time.Minute,
		},
		Usage: UsageConfig{
			Path:        "./data/app_usage.json",
			MaxSessions: 100,
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8501,
			Timeout:           30 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults. The result is validated before return.
func LoadWithKoanf() (*Config, error) {
	return load(findConfigFile())
}

// load runs the koanf layering with an explicit config file path ("" for none).
func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// TMDB_API_KEY -> poster.api_key, USAGE_PATH -> usage.path
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf config paths.
// Variables not listed here are ignored so unrelated environment does not leak
// into the configuration.
var envMappings = map[string]string{
	// Input data
	"items_path":              "data.items_path",
	"matrix_path":             "data.matrix_path",
	"reject_duplicate_titles": "data.reject_duplicate_titles",

	// Retrieval engine
	"recommend_default_k": "recommend.default_k",
	"recommend_max_k":     "recommend.max_k",

	// TMDB poster enrichment
	"tmdb_api_key":       "poster.api_key",
	"tmdb_api_base":      "poster.api_base",
	"tmdb_image_base":    "poster.image_base",
	"tmdb_timeout":       "poster.timeout",
	"tmdb_rate_limit":    "poster.rate_limit",
	"poster_parallelism": "poster.parallelism",
	"poster_cache_size":  "poster.cache_size",
	"poster_cache_ttl":   "poster.cache_ttl",
	"poster_cache_dir":   "poster.cache_dir",
	"poster_gc_interval": "poster.gc_interval",

	// Usage analytics
	"usage_path":         "usage.path",
	"usage_max_sessions": "usage.max_sessions",

	// Server
	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_timeout":        "server.timeout",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - TMDB_API_KEY -> poster.api_key
//   - USAGE_PATH -> usage.path
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
