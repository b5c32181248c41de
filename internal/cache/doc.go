// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

/*
Package cache provides a bounded, thread-safe LRU cache with per-entry TTL.

The API layer uses it to memoise catalogue searches. Keys carry the dataset
snapshot, so entries built from a replaced table are never served; they
age out through normal eviction or expiry.

Usage:

	c := cache.NewLRU[string, []models.TitleEntry](256, 5*time.Minute)
	if v, ok := c.Get(key); ok {
	    return v
	}
	c.Add(key, compute())

All operations are O(1) except CleanupExpired, which walks the list once.
*/
package cache
