// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/validation"
)

// Recommendations returns the top-k movies most similar to title, each with
// a poster URL. The title must match a catalog title exactly. A successful
// call records one usage event; a miss records nothing.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := validation.RecommendRequest{
		Title: r.URL.Query().Get("title"),
		MaxK:  h.maxK,
	}
	var verr *validation.RequestValidationError
	if req.K, verr = intParam(r, "k"); verr != nil {
		rw.Validation(verr)
		return
	}
	if verr = validation.ValidateStruct(&req); verr != nil {
		rw.Validation(verr)
		return
	}

	if h.recommender == nil {
		rw.ServiceUnavailable("Recommendations are not available")
		return
	}

	items, err := h.recommender.Recommend(r.Context(), req.Title, req.K)
	switch {
	case err == nil:
	case errors.Is(err, recommend.ErrNotFound):
		rw.ErrorWithDetails(http.StatusNotFound, ErrCodeNotFound,
			"Movie not found in catalog", map[string]string{"title": req.Title})
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		rw.ServiceUnavailable("Request canceled")
		return
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("title", req.Title).Msg("Recommendation failed")
		rw.InternalError("Failed to generate recommendations")
		return
	}

	if items == nil {
		items = []recommend.EnrichedItem{}
	}
	count := len(items)
	rw.SuccessWithMeta(items, &Metadata{Count: &count})
}
