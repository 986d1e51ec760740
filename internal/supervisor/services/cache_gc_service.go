// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Poster cache GC defaults.
const (
	DefaultGCInterval     = 10 * time.Minute
	DefaultGCDiscardRatio = 0.5
)

// ValueLogCollector runs one value-log GC pass. *poster.BadgerCache
// satisfies it.
type ValueLogCollector interface {
	RunGC(discardRatio float64) (bool, error)
}

// CacheGCService periodically compacts the poster disk cache.
type CacheGCService struct {
	cache        ValueLogCollector
	interval     time.Duration
	discardRatio float64
	name         string
	logger       zerolog.Logger
}

// NewCacheGCService creates a GC service. A non-positive interval uses
// DefaultGCInterval.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheGCService(cache ValueLogCollector, interval time.Duration, logger zerolog.Logger) *CacheGCService {
	if interval <= 0 {
		interval = DefaultGCInterval
	}
	return &CacheGCService{
		cache:        cache,
		interval:     interval,
		discardRatio: DefaultGCDiscardRatio,
		name:         "poster-cache-gc",
		logger:       logger,
	}
}

// Serve implements suture.Service. It runs until ctx is canceled.
func (s *CacheGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *CacheGCService) runOnce() {
	start := time.Now()
	rewritten, err := s.cache.RunGC(s.discardRatio)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Poster cache GC failed")
		return
	}
	s.logger.Debug().
		Bool("rewritten", rewritten).
		Dur("duration", time.Since(start)).
		Msg("Poster cache GC pass complete")
}

func (s *CacheGCService) String() string {
	return s.name
}
