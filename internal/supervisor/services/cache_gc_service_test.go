// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/poster"
)

type fakeCollector struct {
	runs  atomic.Int32
	ratio atomic.Value
	err   error
}

func (f *fakeCollector) RunGC(discardRatio float64) (bool, error) {
	f.runs.Add(1)
	f.ratio.Store(discardRatio)
	return f.err == nil, f.err
}

func TestNewCacheGCService_Defaults(t *testing.T) {
	t.Parallel()

	svc := NewCacheGCService(&fakeCollector{}, 0, zerolog.Nop())
	if svc.interval != DefaultGCInterval {
		t.Errorf("expected default interval %v, got %v", DefaultGCInterval, svc.interval)
	}
	if svc.discardRatio != DefaultGCDiscardRatio {
		t.Errorf("expected discard ratio %v, got %v", DefaultGCDiscardRatio, svc.discardRatio)
	}
	if svc.String() != "poster-cache-gc" {
		t.Errorf("unexpected name %q", svc.String())
	}
}

func TestCacheGCService_RunsOnInterval(t *testing.T) {
	t.Parallel()

	collector := &fakeCollector{}
	svc := NewCacheGCService(collector, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Serve(ctx)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for collector.runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if collector.runs.Load() < 3 {
		t.Errorf("expected at least 3 GC passes, got %d", collector.runs.Load())
	}
	if got := collector.ratio.Load(); got != DefaultGCDiscardRatio {
		t.Errorf("expected discard ratio %v, got %v", DefaultGCDiscardRatio, got)
	}
}

func TestCacheGCService_ErrorsDoNotStopService(t *testing.T) {
	t.Parallel()

	collector := &fakeCollector{err: errors.New("value log busy")}
	svc := NewCacheGCService(collector, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Serve(ctx)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for collector.runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case err := <-errCh:
		t.Fatalf("expected service to keep running after GC errors, returned %v", err)
	default:
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCacheGCService_BadgerCache(t *testing.T) {
	t.Parallel()

	cache, err := poster.OpenBadgerCache(t.TempDir(), time.Hour, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenBadgerCache: %v", err)
	}
	defer cache.Close()

	cache.Set(603, poster.Entry{URL: "https://image.test/w500/matrix.jpg", StoredAt: time.Now()})

	svc := NewCacheGCService(cache, time.Hour, zerolog.Nop())
	svc.runOnce()

	if _, ok := cache.Get(603); !ok {
		t.Error("expected entry to survive a GC pass")
	}
}
