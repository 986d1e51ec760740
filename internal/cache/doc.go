// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package cache provides an in-memory LRU cache with per-entry TTL.
//
// LRU is the first tier of poster lookups: resolved URLs are kept for
// poster.cache_ttl so repeated recommendations for the same titles do not
// reach TMDB.
//
// # Operations
//
//   - Get, Add, Remove: O(1) via a hashmap over a doubly-linked list
//   - eviction: O(1), least recently used first, once capacity is reached
//   - expiry: lazy on Get, or in bulk with CleanupExpired
//
// # Usage
//
//	c := cache.NewLRU[string](2048, 24*time.Hour)
//	c.Add("603", "https://image.tmdb.org/t/p/w500/abc.jpg")
//	if url, ok := c.Get("603"); ok {
//	    // ...
//	}
//
// All methods are safe for concurrent use.
package cache
