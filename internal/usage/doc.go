// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package usage keeps local recommendation analytics in a single JSON file.
//
// The file holds a running total, the set of distinct titles searched, a
// bounded FIFO log of recent sessions and two timestamps:
//
//	{
//	  "total_recommendations": 3,
//	  "unique_movies_searched": ["Alien", "Heat"],
//	  "sessions": [
//	    {"timestamp": "2026-03-01T20:15:04+01:00", "movie_searched": "Heat", "session_id": "..."}
//	  ],
//	  "first_used": "2026-03-01T20:14:55+01:00",
//	  "last_updated": "2026-03-01T20:15:04+01:00"
//	}
//
// # Durability
//
// Every mutation is a read-modify-write under an exclusive advisory lock on
// "<path>.lock" (flock on Unix, LockFileEx on Windows) plus an in-process
// mutex. The new contents are written to a temporary file in the same
// directory, fsynced and renamed over the old file, so readers only ever see
// a complete record.
//
// # Failure Semantics
//
// Analytics never break the request path. RecordEvent returns nothing: lock,
// read, encode and write failures are logged and counted in
// reelmatch_usage_write_failures_total. A file that cannot be parsed reads as
// "no data", and the next event starts a fresh record that keeps the
// original first_used when it can be salvaged.
package usage
