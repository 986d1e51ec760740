// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/poster"
)

// PosterResolver resolves a poster URL for a movie id. Implementations must
// not fail: every problem is reported through the Result.
type PosterResolver interface {
	Resolve(ctx context.Context, movieID int64) poster.Result
}

// UsageRecorder persists one recommendation event. Implementations absorb
// their own failures.
type UsageRecorder interface {
	RecordEvent(title string)
}

// Service runs ranking, poster enrichment and usage recording for one request.
type Service struct {
	engine      *Engine
	posters     PosterResolver
	usage       UsageRecorder
	parallelism int
	logger      zerolog.Logger
}

// NewService wires the engine to its collaborators. A nil posters resolver
// leaves PosterURL empty; a nil usage recorder disables event recording.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(engine *Engine, posters PosterResolver, usage UsageRecorder, logger zerolog.Logger) *Service {
	return &Service{
		engine:      engine,
		posters:     posters,
		usage:       usage,
		parallelism: engine.Config().Parallelism,
		logger:      logger.With().Str("component", "recommend_service").Logger(),
	}
}

// Engine returns the underlying engine.
func (s *Service) Engine() *Engine { return s.engine }

// Recommend ranks the neighbours of title, attaches posters in ranked order
// and records the event. Unknown titles return ErrNotFound without recording.
func (s *Service) Recommend(ctx context.Context, title string, k int) ([]EnrichedItem, error) {
	start := time.Now()
	log := logging.Ctx(ctx)

	recs, err := s.engine.Recommend(ctx, title, k)
	rankDur := time.Since(start)
	if err != nil {
		metrics.RecordRecommendation(outcomeFor(err), rankDur, 0, time.Since(start))
		return nil, err
	}

	enrichStart := time.Now()
	items := s.enrich(ctx, recs)
	enrichDur := time.Since(enrichStart)

	if s.usage != nil {
		s.usage.RecordEvent(title)
	}

	total := time.Since(start)
	metrics.RecordRecommendation(OutcomeSuccess, rankDur, enrichDur, total)

	log.Info().
		Str("title", title).
		Int("returned", len(items)).
		Dur("rank", rankDur).
		Dur("enrich", enrichDur).
		Msg("recommendations served")

	return items, nil
}

// enrich resolves posters concurrently. Each goroutine owns one slot of the
// output, so ranked order is kept without extra sorting.
func (s *Service) enrich(ctx context.Context, recs []Recommendation) []EnrichedItem {
	out := make([]EnrichedItem, len(recs))
	if s.posters == nil {
		for i, rec := range recs {
			out[i] = enrich(rec, poster.Result{})
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(s.parallelism)
	for i, rec := range recs {
		i, rec := i, rec
		g.Go(func() error {
			out[i] = enrich(rec, s.posters.Resolve(ctx, rec.MovieID))
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrInvalidShape):
		return OutcomeInvalidShape
	default:
		return OutcomeError
	}
}
