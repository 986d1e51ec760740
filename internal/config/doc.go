// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package config provides centralized configuration management for Reelmatch.

Configuration is loaded with Koanf v2 from three layers, lowest priority first:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml or /etc/reelmatch/config.yaml
 3. Environment variables, mapped explicitly by envTransformFunc

# Sections

  - data: item table and similarity matrix locations
  - recommend: default and maximum K
  - poster: TMDB credential, endpoints, timeout, rate limit, caches
  - usage: analytics file path and session log bound
  - server: listen address, CORS origins, per-IP rate limit
  - logging: level, format, caller

# Environment Variables

	ITEMS_PATH, MATRIX_PATH, REJECT_DUPLICATE_TITLES
	RECOMMEND_DEFAULT_K, RECOMMEND_MAX_K
	TMDB_API_KEY, TMDB_API_BASE, TMDB_IMAGE_BASE, TMDB_TIMEOUT, TMDB_RATE_LIMIT
	POSTER_PARALLELISM, POSTER_CACHE_SIZE, POSTER_CACHE_TTL, POSTER_CACHE_DIR, POSTER_GC_INTERVAL
	USAGE_PATH, USAGE_MAX_SESSIONS
	HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, CORS_ORIGINS, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW
	LOG_LEVEL, LOG_FORMAT, LOG_CALLER

A missing TMDB_API_KEY is not an error. Posters degrade to a placeholder image.

# Example

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.Logging.ToLogging())
*/
package config
