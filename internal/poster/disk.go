// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package poster

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/metrics"
)

const posterKeyPrefix = "poster:"

// DiskCache is the persistent cache tier. Implementations log and absorb
// their own errors.
type DiskCache interface {
	Get(movieID int64) (Entry, bool)
	Set(movieID int64, e Entry)
}

// Entry is a cached lookup answer.
type Entry struct {
	URL      string    `json:"url"`
	Reason   Reason    `json:"reason,omitempty"`
	StoredAt time.Time `json:"stored_at"`
}

func (e Entry) result(source Source) Result {
	if e.Reason != ReasonNone {
		return Result{URL: e.URL, Source: SourcePlaceholder, Reason: e.Reason}
	}
	return Result{URL: e.URL, Source: source}
}

// BadgerCache stores lookup answers in BadgerDB with a TTL per key.
type BadgerCache struct {
	db     *badger.DB
	ttl    time.Duration
	logger zerolog.Logger
}

// OpenBadgerCache opens (or creates) a cache directory.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func OpenBadgerCache(dir string, ttl time.Duration, logger zerolog.Logger) (*BadgerCache, error) {
	if dir == "" {
		return nil, errors.New("poster cache directory is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("poster cache ttl must be positive, got %v", ttl)
	}

	opts := badger.DefaultOptions(dir)
	opts.NumVersionsToKeep = 1
	opts.MemTableSize = 8 << 20
	opts.ValueLogFileSize = 16 << 20

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	return &BadgerCache{
		db:     db,
		ttl:    ttl,
		logger: logger.With().Str("component", "poster_cache").Logger(),
	}, nil
}

func posterKey(movieID int64) []byte {
	return []byte(posterKeyPrefix + strconv.FormatInt(movieID, 10))
}

// Get returns the cached entry for a movie.
func (c *BadgerCache) Get(movieID int64) (Entry, bool) {
	var entry Entry
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(posterKey(movieID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Entry{}, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Int64("movie_id", movieID).Msg("Poster cache read failed")
		return Entry{}, false
	}
	return entry, true
}

// Set stores an entry for the configured TTL.
func (c *BadgerCache) Set(movieID int64, e Entry) {
	data, err := json.Marshal(e)
	if err != nil {
		c.logger.Warn().Err(err).Int64("movie_id", movieID).Msg("Poster cache encode failed")
		return
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(posterKey(movieID), data).WithTTL(c.ttl))
	})
	if err != nil {
		c.logger.Warn().Err(err).Int64("movie_id", movieID).Msg("Poster cache write failed")
	}
}

// RunGC rewrites value log files until badger reports nothing left to
// reclaim. It reports whether any file was rewritten.
func (c *BadgerCache) RunGC(discardRatio float64) (bool, error) {
	rewritten := false
	for {
		err := c.db.RunValueLogGC(discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			break
		}
		if err != nil {
			metrics.CacheGCRuns.WithLabelValues("error").Inc()
			return rewritten, fmt.Errorf("value log gc: %w", err)
		}
		rewritten = true
	}

	if rewritten {
		metrics.CacheGCRuns.WithLabelValues("rewritten").Inc()
	} else {
		metrics.CacheGCRuns.WithLabelValues("nothing_to_do").Inc()
	}
	return rewritten, nil
}

// Close closes the database.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}
