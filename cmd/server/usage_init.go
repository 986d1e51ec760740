// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"fmt"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/usage"
)

// initUsage opens the analytics store and creates the file if it does not
// exist yet. An existing file is never overwritten.
func initUsage(cfg *config.Config) (*usage.Store, error) {
	store, err := usage.Open(cfg.Usage.Path,
		usage.WithMaxSessions(cfg.Usage.MaxSessions),
		usage.WithLogger(logging.WithComponent("usage")),
	)
	if err != nil {
		return nil, fmt.Errorf("open usage store: %w", err)
	}

	if err := store.EnsureInitialized(); err != nil {
		// Recording absorbs its own failures, so a read-only data dir only
		// costs analytics.
		logging.Warn().Err(err).Str("path", cfg.Usage.Path).Msg("Usage file could not be initialized")
	}

	logging.Info().Str("path", cfg.Usage.Path).Int("max_sessions", cfg.Usage.MaxSessions).Msg("Usage store ready")
	return store, nil
}
