// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package recommend ranks catalog items by precomputed similarity and
// enriches the ranking with poster metadata.
//
// # Engine
//
// Engine answers "which items are most similar to this title" from a loaded
// catalog.Catalog. For a query row r it orders every index by descending
// score, breaks ties by ascending index, drops r itself and returns the first
// k entries. The engine performs no I/O and holds no mutable state beyond
// request counters, so identical inputs always produce identical output.
//
// NaN scores rank after every real score.
//
// # Service
//
// Service is the request path used by the API:
//
//	items, err := svc.Recommend(ctx, "The Matrix", 5)
//
// It runs the engine, resolves poster URLs for the ranked items in parallel
// (bounded by EngineConfig.Parallelism) while keeping ranked order, and then
// records a usage event. Unknown titles return ErrNotFound and record
// nothing. Poster and usage failures never fail a request.
//
// # Thread Safety
//
// Engine and Service are safe for concurrent use.
package recommend
