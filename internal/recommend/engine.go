// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/catalog"
)

// Engine ranks catalog items by similarity to a query title.
// It is safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
	config  EngineConfig
	logger  zerolog.Logger

	requestCount  atomic.Int64
	notFoundCount atomic.Int64
	errorCount    atomic.Int64
}

// NewEngine creates an engine over a loaded catalog.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cat *catalog.Catalog, cfg EngineConfig, logger zerolog.Logger) (*Engine, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, catalog.ErrDataUnavailable
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cat.Matrix() == nil || cat.Matrix().N() != cat.Len() {
		return nil, fmt.Errorf("%w: matrix does not cover %d items", ErrInvalidShape, cat.Len())
	}

	return &Engine{
		catalog: cat,
		config:  cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Catalog returns the catalog the engine ranks over.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Config returns the engine configuration.
func (e *Engine) Config() EngineConfig { return e.config }

// Recommend returns the top k items most similar to title, excluding title
// itself. k <= 0 selects the configured default and k is capped at MaxK.
// The result holds min(k, N-1) items.
func (e *Engine) Recommend(ctx context.Context, title string, k int) ([]Recommendation, error) {
	e.requestCount.Add(1)

	if err := ctx.Err(); err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	item, err := e.catalog.Lookup(title)
	if err != nil {
		e.notFoundCount.Add(1)
		e.logger.Debug().Str("title", title).Msg("title not in catalog")
		return nil, err
	}

	k = e.config.effectiveK(k)
	recs, err := rankRow(item.Row, e.catalog.Items(), e.catalog.Matrix(), k)
	if err != nil {
		e.errorCount.Add(1)
		e.logger.Error().Err(err).Str("title", title).Msg("ranking failed")
		return nil, err
	}

	e.logger.Debug().
		Str("title", title).
		Int("row", item.Row).
		Int("k", k).
		Int("returned", len(recs)).
		Msg("recommendation complete")

	return recs, nil
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests: e.requestCount.Load(),
		NotFound: e.notFoundCount.Load(),
		Errors:   e.errorCount.Load(),
		Items:    e.catalog.Len(),
	}
}

// Recommend ranks items by their similarity to title. The first item whose
// title matches exactly is the query row. k <= 0 selects DefaultK.
func Recommend(title string, items []catalog.Item, m *catalog.Matrix, k int) ([]Recommendation, error) {
	row := -1
	for i := range items {
		if items[i].Title == title {
			row = i
			break
		}
	}
	if row < 0 {
		return nil, fmt.Errorf("%w: title %q", ErrNotFound, title)
	}
	if k <= 0 {
		k = DefaultK
	}
	return rankRow(row, items, m, k)
}

type scored struct {
	idx   int
	score float64
}

// compareScored orders by descending score, NaN last, then ascending index.
func compareScored(a, b scored) int {
	aNaN, bNaN := math.IsNaN(a.score), math.IsNaN(b.score)
	switch {
	case aNaN && !bNaN:
		return 1
	case bNaN && !aNaN:
		return -1
	case !aNaN && a.score != b.score:
		if a.score > b.score {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.idx, b.idx)
}

func rankRow(row int, items []catalog.Item, m *catalog.Matrix, k int) ([]Recommendation, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: no similarity matrix", ErrInvalidShape)
	}
	if m.N() != len(items) {
		return nil, fmt.Errorf("%w: matrix has %d rows, item table has %d", ErrInvalidShape, m.N(), len(items))
	}
	if row < 0 || row >= len(items) {
		return nil, errors.New("query row out of range")
	}

	scores := m.Row(row)
	if len(scores) != len(items) {
		return nil, fmt.Errorf("%w: row %d has %d scores, want %d", ErrInvalidShape, row, len(scores), len(items))
	}

	ranked := make([]scored, 0, len(scores))
	for i, s := range scores {
		ranked = append(ranked, scored{idx: i, score: s})
	}
	slices.SortStableFunc(ranked, compareScored)

	n := min(k, len(items)-1)
	if n <= 0 {
		return []Recommendation{}, nil
	}

	out := make([]Recommendation, 0, n)
	for _, s := range ranked {
		if s.idx == row {
			continue
		}
		it := items[s.idx]
		out = append(out, Recommendation{
			Title:   it.Title,
			MovieID: it.ID,
			Score:   s.score,
			Row:     s.idx,
		})
		if len(out) == n {
			break
		}
	}
	return out, nil
}
