// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package validation

import (
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Input bounds for the public endpoints.
const (
	MaxTitleLength = 500
	MaxQueryLength = 200
	MaxListLimit   = 1000
)

// RecommendRequest holds GET /api/v1/recommendations parameters.
// K of zero selects the engine default. MaxK is server configuration and is
// never read from the request.
type RecommendRequest struct {
	Title string `query:"title" validate:"required,notblank,max=500"`
	K     int    `query:"k" validate:"gte=0"`
	MaxK  int    `query:"-" validate:"-"`
}

// MoviesRequest holds GET /api/v1/movies parameters.
type MoviesRequest struct {
	Query  string `query:"q" validate:"max=200"`
	Limit  int    `query:"limit" validate:"gte=0,lte=1000"`
	Offset int    `query:"offset" validate:"gte=0"`
}

// validateRecommendRequest enforces the configured upper bound on k.
func validateRecommendRequest(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(RecommendRequest)
	if !ok {
		return
	}
	if req.MaxK > 0 && req.K > req.MaxK {
		sl.ReportError(req.K, "k", "K", "lte", strconv.Itoa(req.MaxK))
	}
}
