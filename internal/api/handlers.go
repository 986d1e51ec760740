// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/usage"
	"github.com/tomtom215/reelmatch/internal/validation"
)

// Recommender produces enriched recommendations. *recommend.Service
// satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, title string, k int) ([]recommend.EnrichedItem, error)
}

// UsageSource reads the local usage summary. *usage.Store satisfies it.
type UsageSource interface {
	Summary(recent int) usage.Summary
	Path() string
}

// PosterStatus reports poster lookup health. *poster.Resolver satisfies it.
type PosterStatus interface {
	Enabled() bool
	BreakerState() string
}

// HandlerConfig lists a Handler's collaborators. Usage and Posters may be nil.
type HandlerConfig struct {
	Catalog     *catalog.Catalog
	Recommender Recommender
	Usage       UsageSource
	Posters     PosterStatus
	MaxK        int
	Version     string
}

// Handler serves the JSON endpoints.
type Handler struct {
	catalog     *catalog.Catalog
	recommender Recommender
	usage       UsageSource
	posters     PosterStatus
	maxK        int
	version     string
	startTime   time.Time
}

// NewHandler creates a handler from its collaborators.
func NewHandler(cfg HandlerConfig) *Handler {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		catalog:     cfg.Catalog,
		recommender: cfg.Recommender,
		usage:       cfg.Usage,
		posters:     cfg.Posters,
		maxK:        cfg.MaxK,
		version:     version,
		startTime:   time.Now(),
	}
}

// intParam parses an optional integer query parameter. A missing or empty
// value yields 0.
func intParam(r *http.Request, key string) (int, *validation.RequestValidationError) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validation.FieldError(key, "integer", raw, key+" must be an integer")
	}
	return n, nil
}
