// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import "errors"

var (
	// ErrDataUnavailable indicates an input file is missing, unreadable or corrupt.
	ErrDataUnavailable = errors.New("catalog data unavailable")

	// ErrInvalidShape indicates the matrix and item table disagree structurally.
	ErrInvalidShape = errors.New("similarity matrix shape does not match item table")

	// ErrNotFound indicates a title or id is absent from the item table.
	ErrNotFound = errors.New("item not found")
)
