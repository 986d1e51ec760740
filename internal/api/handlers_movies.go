// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/validation"
)

// Movies lists catalog titles in catalog order, optionally filtered by a
// case-insensitive substring q. A limit of 0 returns every match.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := validation.MoviesRequest{Query: r.URL.Query().Get("q")}
	var verr *validation.RequestValidationError
	if req.Limit, verr = intParam(r, "limit"); verr != nil {
		rw.Validation(verr)
		return
	}
	if req.Offset, verr = intParam(r, "offset"); verr != nil {
		rw.Validation(verr)
		return
	}
	if verr = validation.ValidateStruct(&req); verr != nil {
		rw.Validation(verr)
		return
	}

	if h.catalog == nil {
		rw.ServiceUnavailable("Catalog is not loaded")
		return
	}

	page, total := h.catalog.Search(req.Query, req.Limit, req.Offset)
	if page == nil {
		page = []catalog.Item{}
	}

	rw.SuccessWithMeta(page, &Metadata{
		Pagination: &PaginationMeta{
			Total:   total,
			Count:   len(page),
			Offset:  req.Offset,
			Limit:   req.Limit,
			HasMore: req.Offset+len(page) < total,
		},
	})
}
