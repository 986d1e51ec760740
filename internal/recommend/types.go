// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/poster"
)

// Errors returned by the engine. These are the catalog sentinels, so callers
// can match against either package with errors.Is.
var (
	// ErrNotFound is returned when the query title is not in the catalog.
	ErrNotFound = catalog.ErrNotFound

	// ErrInvalidShape is returned when the matrix does not match the item table.
	ErrInvalidShape = catalog.ErrInvalidShape
)

// Outcome labels recorded for each recommendation request.
const (
	OutcomeSuccess      = "success"
	OutcomeNotFound     = "not_found"
	OutcomeInvalidShape = "invalid_shape"
	OutcomeError        = "error"
)

// Recommendation is one ranked neighbour of the query title.
type Recommendation struct {
	Title   string  `json:"title"`
	MovieID int64   `json:"movie_id"`
	Score   float64 `json:"score"`

	// Row is the catalog row of the item.
	Row int `json:"-"`
}

// EnrichedItem is a Recommendation with its resolved poster.
type EnrichedItem struct {
	Title        string        `json:"title"`
	MovieID      int64         `json:"movie_id"`
	Score        float64       `json:"score"`
	PosterURL    string        `json:"poster_url"`
	PosterSource poster.Source `json:"poster_source"`
	PosterReason poster.Reason `json:"poster_reason,omitempty"`
}

// Stats is a snapshot of engine counters.
type Stats struct {
	Requests int64 `json:"requests"`
	NotFound int64 `json:"not_found"`
	Errors   int64 `json:"errors"`
	Items    int   `json:"items"`
}

func enrich(rec Recommendation, res poster.Result) EnrichedItem {
	return EnrichedItem{
		Title:        rec.Title,
		MovieID:      rec.MovieID,
		Score:        rec.Score,
		PosterURL:    res.URL,
		PosterSource: res.Source,
		PosterReason: res.Reason,
	}
}
