// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"

	"github.com/tomtom215/reelmatch/internal/usage"
)

// noUsageData is the body returned when nothing has been recorded yet or the
// file cannot be read.
var noUsageData = map[string]bool{"has_data": false}

// Usage returns the local usage summary with the most recent searches.
func (h *Handler) Usage(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.usage == nil {
		rw.Success(noUsageData)
		return
	}

	summary := h.usage.Summary(usage.DefaultRecent)
	if !summary.HasData {
		rw.Success(noUsageData)
		return
	}
	rw.Success(summary)
}
