// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package catalog loads and serves the immutable similarity store: the movie
// item table and the N×N pairwise similarity matrix computed offline.
//
// # Input Files
//
// The item table lists movies in matrix row order:
//
//	movie_id,title          (.csv, header required)
//	[{"movie_id":1,"title":"Avatar"}]   (.json)
//
// The matrix uses the RMX1 binary layout:
//
//	offset  size  field
//	0       4     magic "RMX1"
//	4       1     element width in bytes (4 = float32, 8 = float64)
//	5       3     reserved, zero
//	8       4     N (uint32, little endian)
//	12      ...   N*N little-endian IEEE-754 values, row-major
//
// Either file may be compressed; the suffix selects the codec:
// ".zst" (zstd) or ".lz4" (lz4 frame). Anything else is read raw.
//
// Titles are stored with surrounding whitespace trimmed, and Lookup trims
// its argument the same way, so " Heat " in the source file and a query for
// "Heat" or " Heat " all resolve to the same row. Inner whitespace and case
// are matched exactly.
//
// # Errors
//
// Load wraps every failure to open, decompress or parse an input in
// ErrDataUnavailable. A matrix whose dimension disagrees with the item count
// yields ErrInvalidShape. Both are fatal at startup.
//
// # Duplicate Titles
//
// Lookup resolves a title to the first row that carries it. Later rows with
// the same title are reported through Duplicates and logged at load time;
// Options.RejectDuplicateTitles turns them into a load error instead.
package catalog
