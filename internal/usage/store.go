// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package usage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/metrics"
)

// DefaultMaxSessions bounds the session log.
const DefaultMaxSessions = 100

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("usage: store is closed")

// Failure stages recorded in metrics.
const (
	stageClosed = "closed"
	stageLock   = "lock"
	stageInit   = "init"
	stageRead   = "read"
	stageEncode = "encode"
	stageWrite  = "write"
)

// Store persists usage records to one JSON file. It is safe for concurrent
// use within a process, and across processes via the advisory file lock.
type Store struct {
	path        string
	lockPath    string
	maxSessions int
	logger      zerolog.Logger
	now         func() time.Time
	newID       func() string

	// mu orders in-process access; the file lock orders processes.
	mu     sync.RWMutex
	closed bool
}

// Option customizes a Store.
type Option func(*Store)

// WithMaxSessions sets the session log bound.
func WithMaxSessions(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithLogger sets the logger. The default discards output.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = l.With().Str("component", "usage").Logger()
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator replaces the session id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// Open prepares a store at path without touching the filesystem. The parent
// directory and lock file are created by the first write; see EnsureInitialized.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("usage: path is required")
	}

	s := &Store{
		path:        path,
		lockPath:    path + ".lock",
		maxSessions: DefaultMaxSessions,
		logger:      zerolog.Nop(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// lockExclusive creates the parent directory if needed and takes the
// exclusive file lock.
func (s *Store) lockExclusive() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("create usage directory: %w", err)
	}
	return lockFile(s.lockPath, true)
}

// Path returns the analytics file path.
func (s *Store) Path() string { return s.path }

// Close marks the store closed. Later calls are no-ops or return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// EnsureInitialized creates the analytics file with an empty record if it
// does not exist. An existing file is never overwritten.
func (s *Store) EnsureInitialized() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	unlock, err := s.lockExclusive()
	if err != nil {
		return err
	}
	defer unlock()

	return s.initLocked()
}

// initLocked must be called with the exclusive lock held.
func (s *Store) initLocked() error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create usage file: %w", err)
	}

	data, err := encodeRecord(newRecord(formatTimestamp(s.now())))
	if err == nil {
		_, err = f.Write(data)
	}
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(s.path)
		return fmt.Errorf("write initial usage record: %w", err)
	}

	if err := syncDir(filepath.Dir(s.path)); err != nil {
		s.logger.Debug().Err(err).Msg("Usage directory sync failed")
	}
	s.logger.Info().Str("path", s.path).Msg("Usage analytics file created")
	return nil
}

// RecordEvent counts one recommendation for title. Failures are logged and
// counted, never returned.
func (s *Store) RecordEvent(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.fail(stageClosed, ErrClosed, title)
		return
	}

	unlock, err := s.lockExclusive()
	if err != nil {
		s.fail(stageLock, err, title)
		return
	}
	defer unlock()

	if err := s.initLocked(); err != nil {
		s.fail(stageInit, err, title)
		return
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.fail(stageRead, err, title)
		return
	}

	rec, err := decodeRecord(data)
	if err != nil {
		// A corrupt file is left as is for the operator.
		metrics.UsageCorruptReads.Inc()
		s.fail(stageRead, fmt.Errorf("decode usage file: %w", err), title)
		return
	}

	now := s.now()
	rec.apply(title, now, s.newID(), s.maxSessions)

	if err := s.writeLocked(rec); err != nil {
		return
	}

	metrics.UsageEventsTotal.Inc()
	s.logger.Debug().
		Str("title", title).
		Int64("total", rec.TotalRecommendations).
		Int("sessions", len(rec.Sessions)).
		Msg("Usage event recorded")
}

// Save replaces the stored record with rec, stamping last_updated.
func (s *Store) Save(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	unlock, err := s.lockExclusive()
	if err != nil {
		return err
	}
	defer unlock()

	rec.LastUpdated = formatTimestamp(s.now())
	if rec.FirstUsed == "" {
		rec.FirstUsed = rec.LastUpdated
	}
	return s.writeLocked(rec)
}

// writeLocked encodes and atomically replaces the file. Failures are logged
// and counted before being returned.
func (s *Store) writeLocked(rec *Record) error {
	data, err := encodeRecord(rec)
	if err != nil {
		s.fail(stageEncode, err, "")
		return err
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		s.fail(stageWrite, err, "")
		return err
	}
	return nil
}

// LoadSummary reads the current record. A missing, unreadable or malformed
// file yields (nil, false).
func (s *Store) LoadSummary() (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false
	}

	unlock, err := lockFile(s.lockPath, false)
	if err != nil {
		// The rename in writeFileAtomic keeps an unlocked read consistent.
		s.logger.Debug().Err(err).Msg("Usage shared lock unavailable, reading without it")
	} else {
		defer unlock()
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("Usage file read failed")
		}
		return nil, false
	}

	rec, err := decodeRecord(data)
	if err != nil {
		metrics.UsageCorruptReads.Inc()
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Usage file is corrupt")
		return nil, false
	}
	return rec, true
}

func (s *Store) fail(stage string, err error, title string) {
	metrics.RecordUsageWriteFailure(stage)
	ev := s.logger.Error().Err(err).Str("stage", stage).Str("path", s.path)
	if title != "" {
		ev = ev.Str("title", title)
	}
	ev.Msg("Usage event not recorded")
}

// writeFileAtomic writes data to a temp file in the target directory, syncs
// it and renames it over path.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return syncDir(dir)
}
