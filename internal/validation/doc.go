// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps a thread-safe singleton validator with a custom notblank tag,
// query-parameter field naming and human-readable messages, and converts
// failures into the API's VALIDATION_ERROR format.
//
// # Request types
//
// RecommendRequest and MoviesRequest describe the query parameters of the
// recommendation and movie listing endpoints. RecommendRequest carries the
// configured MaxK and is checked by a struct-level rule, so the bound follows
// configuration rather than a static tag.
//
// # Quick Start
//
//	req := validation.RecommendRequest{Title: title, K: k, MaxK: cfg.MaxK}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // write 400 with apiErr.Code, apiErr.Message, apiErr.Details
//	}
//
// # Field names
//
// Error messages use the `query` struct tag when present, so a failure on
// RecommendRequest.K reads "k must be less than or equal to 50".
package validation
