// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"fmt"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/poster"
)

// initPosters builds the poster resolver and, when a cache directory is
// configured, the badger disk cache behind it.
func initPosters(cfg *config.Config) (*poster.Resolver, *poster.BadgerCache, error) {
	logger := logging.WithComponent("poster")

	opts := []poster.Option{poster.WithLogger(logger)}

	var disk *poster.BadgerCache
	if cfg.Poster.CacheDir != "" {
		var err error
		disk, err = poster.OpenBadgerCache(cfg.Poster.CacheDir, cfg.Poster.CacheTTL, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open poster cache: %w", err)
		}
		opts = append(opts, poster.WithDiskCache(disk))
	}

	resolver := poster.NewResolver(poster.Config{
		APIKey:    cfg.Poster.APIKey,
		APIBase:   cfg.Poster.APIBase,
		ImageBase: cfg.Poster.ImageBase,
		Timeout:   cfg.Poster.Timeout,
		RateLimit: cfg.Poster.RateLimit,
		CacheSize: cfg.Poster.CacheSize,
		CacheTTL:  cfg.Poster.CacheTTL,
	}, opts...)

	if !resolver.Enabled() {
		logging.Warn().Msg("TMDB_API_KEY not set, posters will use placeholders")
	} else {
		logging.Info().
			Str("api_base", cfg.Poster.APIBase).
			Float64("rate_limit", cfg.Poster.RateLimit).
			Bool("disk_cache", disk != nil).
			Msg("Poster resolver configured")
	}

	return resolver, disk, nil
}
