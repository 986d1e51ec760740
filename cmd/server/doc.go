// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package main is the entry point for the Reelmatch server.

Reelmatch serves "movies similar to this one" recommendations from a
precomputed item-to-item similarity matrix, decorates each result with a TMDB
poster, and keeps a small local record of what was searched.

# Application Architecture

	RootSupervisor ("reelmatch")
	├── DataSupervisor ("data-layer")
	│   └── Poster cache GC (when POSTER_CACHE_DIR is set)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi JSON API + /metrics)

Initialization order:

 1. Configuration: Koanf v2 (defaults, optional YAML file, environment)
 2. Logging: zerolog, JSON or console
 3. Catalog: item table and similarity matrix; any failure is fatal
 4. Engine: top-k ranking over the catalog
 5. Posters: TMDB client with LRU, optional badger cache, rate limiter and breaker
 6. Usage: analytics file, created on first start and never overwritten
 7. Supervisor tree with the HTTP server

# Configuration

	ITEMS_PATH=./data/movies.csv
	MATRIX_PATH=./data/similarity.rmx.zst
	TMDB_API_KEY=...                 # optional; placeholders without it
	POSTER_CACHE_DIR=./data/posters  # optional badger cache
	USAGE_PATH=./data/app_usage.json
	HTTP_PORT=8501
	LOG_LEVEL=info LOG_FORMAT=json

A YAML file is read from CONFIG_PATH, ./config.yaml, ./config.yml or
/etc/reelmatch/config.yaml.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor context. The HTTP server drains
in-flight requests for up to 10s, then the poster cache and usage store are
closed.
*/
package main
