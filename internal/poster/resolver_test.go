// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package poster

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// tmdbStub serves GET /movie/{id} from a handler function and counts hits.
type tmdbStub struct {
	server *httptest.Server
	hits   atomic.Int32
}

func newTMDBStub(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *tmdbStub {
	t.Helper()
	stub := &tmdbStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func testConfig(apiBase string) Config {
	return Config{
		APIKey:    "test-key",
		APIBase:   apiBase,
		ImageBase: "https://image.test/t/p/w500",
		Timeout:   2 * time.Second,
		RateLimit: 0,
		CacheSize: 64,
		CacheTTL:  time.Hour,
	}
}

func posterJSON(path string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":603,"title":"The Matrix","poster_path":%q}`, path)
	}
}

func TestResolve_NoAPIKey(t *testing.T) {
	t.Parallel()

	stub := newTMDBStub(t, posterJSON("/abc.jpg"))
	cfg := testConfig(stub.server.URL)
	cfg.APIKey = ""
	r := NewResolver(cfg, WithBreakerName(t.Name()))

	res := r.Resolve(context.Background(), 603)

	if res.Reason != ReasonAPIKeyRequired {
		t.Errorf("expected reason %q, got %q", ReasonAPIKeyRequired, res.Reason)
	}
	if res.URL != PlaceholderAPIKeyRequired {
		t.Errorf("expected %s, got %s", PlaceholderAPIKeyRequired, res.URL)
	}
	if stub.hits.Load() != 0 {
		t.Errorf("expected no TMDB calls, got %d", stub.hits.Load())
	}
}

func TestResolve_Success(t *testing.T) {
	t.Parallel()

	var gotPath, gotKey, gotLang string
	var mu sync.Mutex
	stub := newTMDBStub(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		gotLang = r.URL.Query().Get("language")
		mu.Unlock()
		posterJSON("/abc.jpg")(w, r)
	})
	r := NewResolver(testConfig(stub.server.URL), WithBreakerName(t.Name()))

	res := r.Resolve(context.Background(), 603)

	if res.URL != "https://image.test/t/p/w500/abc.jpg" {
		t.Errorf("expected image URL, got %s", res.URL)
	}
	if res.Source != SourceTMDB || res.Reason != ReasonNone {
		t.Errorf("expected tmdb source with no reason, got %+v", res)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotPath != "/movie/603" {
		t.Errorf("expected path /movie/603, got %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("expected api_key test-key, got %s", gotKey)
	}
	if gotLang != "en-US" {
		t.Errorf("expected language en-US, got %s", gotLang)
	}
}

func TestResolve_MemoryCache(t *testing.T) {
	t.Parallel()

	stub := newTMDBStub(t, posterJSON("/abc.jpg"))
	r := NewResolver(testConfig(stub.server.URL), WithBreakerName(t.Name()))

	first := r.Resolve(context.Background(), 603)
	second := r.Resolve(context.Background(), 603)

	if first.Source != SourceTMDB {
		t.Errorf("expected first lookup from tmdb, got %s", first.Source)
	}
	if second.Source != SourceMemoryCache {
		t.Errorf("expected second lookup from memory_cache, got %s", second.Source)
	}
	if second.URL != first.URL {
		t.Errorf("expected cached URL %s, got %s", first.URL, second.URL)
	}
	if stub.hits.Load() != 1 {
		t.Errorf("expected 1 TMDB call, got %d", stub.hits.Load())
	}
}

func TestResolve_NoPoster(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler func(w http.ResponseWriter, r *http.Request)
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"status_code":34}`, http.StatusNotFound)
		}},
		{"null poster path", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":1,"title":"x","poster_path":null}`))
		}},
		{"empty poster path", posterJSON("")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub := newTMDBStub(t, tt.handler)
			r := NewResolver(testConfig(stub.server.URL), WithBreakerName(t.Name()))

			res := r.Resolve(context.Background(), 1)
			if res.Reason != ReasonNoPoster {
				t.Errorf("expected reason %q, got %q", ReasonNoPoster, res.Reason)
			}
			if res.URL != PlaceholderNoPoster {
				t.Errorf("expected %s, got %s", PlaceholderNoPoster, res.URL)
			}

			// Definitive answers are cached.
			again := r.Resolve(context.Background(), 1)
			if again.Reason != ReasonNoPoster || again.Source != SourcePlaceholder {
				t.Errorf("expected cached no_poster placeholder, got %+v", again)
			}
			if stub.hits.Load() != 1 {
				t.Errorf("expected 1 TMDB call, got %d", stub.hits.Load())
			}
		})
	}
}

func TestResolve_APIErrorNotCached(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler func(w http.ResponseWriter, r *http.Request)
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"poster_path":`))
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub := newTMDBStub(t, tt.handler)
			r := NewResolver(testConfig(stub.server.URL), WithBreakerName(t.Name()))

			res := r.Resolve(context.Background(), 7)
			if res.Reason != ReasonAPIError {
				t.Errorf("expected reason %q, got %q", ReasonAPIError, res.Reason)
			}
			if res.URL != PlaceholderAPIError {
				t.Errorf("expected %s, got %s", PlaceholderAPIError, res.URL)
			}

			_ = r.Resolve(context.Background(), 7)
			if stub.hits.Load() != 2 {
				t.Errorf("expected errors not to be cached (2 calls), got %d", stub.hits.Load())
			}
		})
	}
}

func TestResolve_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	stub := newTMDBStub(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(release) })

	cfg := testConfig(stub.server.URL)
	cfg.Timeout = 50 * time.Millisecond
	r := NewResolver(cfg, WithBreakerName(t.Name()))

	start := time.Now()
	res := r.Resolve(context.Background(), 9)
	if res.Reason != ReasonAPIError {
		t.Errorf("expected reason %q, got %q", ReasonAPIError, res.Reason)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("expected lookup bounded by timeout, took %v", elapsed)
	}
}

func TestResolve_CircuitOpens(t *testing.T) {
	t.Parallel()

	stub := newTMDBStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	r := NewResolver(testConfig(stub.server.URL), WithBreakerName(t.Name()))

	for i := 0; i < 5; i++ {
		if res := r.Resolve(context.Background(), int64(i+1)); res.Reason != ReasonAPIError {
			t.Fatalf("call %d: expected api_error, got %q", i, res.Reason)
		}
	}

	res := r.Resolve(context.Background(), 100)
	if res.Reason != ReasonCircuitOpen {
		t.Errorf("expected reason %q, got %q", ReasonCircuitOpen, res.Reason)
	}
	if res.URL != PlaceholderAPIError {
		t.Errorf("expected %s, got %s", PlaceholderAPIError, res.URL)
	}
	if stub.hits.Load() != 5 {
		t.Errorf("expected open circuit to skip TMDB (5 calls), got %d", stub.hits.Load())
	}
	if state := r.BreakerState(); state != "open" {
		t.Errorf("expected breaker state open, got %s", state)
	}
}

func TestResolve_NotFoundDoesNotTrip(t *testing.T) {
	t.Parallel()

	stub := newTMDBStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	cfg := testConfig(stub.server.URL)
	cfg.CacheSize = 0
	r := NewResolver(cfg, WithBreakerName(t.Name()))

	for i := 0; i < 12; i++ {
		if res := r.Resolve(context.Background(), int64(i+1)); res.Reason != ReasonNoPoster {
			t.Fatalf("call %d: expected no_poster, got %q", i, res.Reason)
		}
	}
	if state := r.BreakerState(); state != "closed" {
		t.Errorf("expected breaker to stay closed, got %s", state)
	}
}

func TestResolve_RateLimited(t *testing.T) {
	t.Parallel()

	stub := newTMDBStub(t, posterJSON("/abc.jpg"))
	cfg := testConfig(stub.server.URL)
	cfg.RateLimit = 0.01 // one token every 100s, burst 1
	cfg.Timeout = 100 * time.Millisecond
	r := NewResolver(cfg, WithBreakerName(t.Name()))

	if res := r.Resolve(context.Background(), 1); res.Source != SourceTMDB {
		t.Fatalf("expected first call admitted, got %+v", res)
	}

	res := r.Resolve(context.Background(), 2)
	if res.Reason != ReasonRateLimited {
		t.Errorf("expected reason %q, got %q", ReasonRateLimited, res.Reason)
	}
	if stub.hits.Load() != 1 {
		t.Errorf("expected 1 TMDB call, got %d", stub.hits.Load())
	}
}

// memDisk is an in-memory DiskCache.
type memDisk struct {
	mu      sync.Mutex
	entries map[int64]Entry
}

func newMemDisk() *memDisk { return &memDisk{entries: make(map[int64]Entry)} }

func (m *memDisk) Get(id int64) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	return e, ok
}

func (m *memDisk) Set(id int64, e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = e
}

func TestResolve_DiskCacheTier(t *testing.T) {
	t.Parallel()

	stub := newTMDBStub(t, posterJSON("/disk.jpg"))
	disk := newMemDisk()

	first := NewResolver(testConfig(stub.server.URL), WithDiskCache(disk), WithBreakerName(t.Name()+"-1"))
	if res := first.Resolve(context.Background(), 42); res.Source != SourceTMDB {
		t.Fatalf("expected tmdb source, got %s", res.Source)
	}
	if _, ok := disk.Get(42); !ok {
		t.Fatal("expected result written to disk cache")
	}

	// A fresh resolver (empty memory tier) reads from disk.
	second := NewResolver(testConfig(stub.server.URL), WithDiskCache(disk), WithBreakerName(t.Name()+"-2"))
	res := second.Resolve(context.Background(), 42)
	if res.Source != SourceDiskCache {
		t.Errorf("expected disk_cache source, got %s", res.Source)
	}
	if !strings.HasSuffix(res.URL, "/disk.jpg") {
		t.Errorf("expected disk cached URL, got %s", res.URL)
	}

	// And promotes it to memory.
	if res := second.Resolve(context.Background(), 42); res.Source != SourceMemoryCache {
		t.Errorf("expected memory_cache after promotion, got %s", res.Source)
	}
	if stub.hits.Load() != 1 {
		t.Errorf("expected 1 TMDB call, got %d", stub.hits.Load())
	}
}

func TestResolve_ConcurrentNeverFails(t *testing.T) {
	t.Parallel()

	stub := newTMDBStub(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "0") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		posterJSON("/p.jpg")(w, r)
	})
	r := NewResolver(testConfig(stub.server.URL), WithBreakerName(t.Name()))

	var wg sync.WaitGroup
	for i := 1; i <= 40; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			res := r.Resolve(context.Background(), id)
			if res.URL == "" {
				t.Errorf("id %d: expected a URL, got empty", id)
			}
		}(int64(i))
	}
	wg.Wait()
}

func TestPlaceholderURL(t *testing.T) {
	t.Parallel()

	tests := map[Reason]string{
		ReasonAPIKeyRequired: PlaceholderAPIKeyRequired,
		ReasonNoPoster:       PlaceholderNoPoster,
		ReasonAPIError:       PlaceholderAPIError,
		ReasonCircuitOpen:    PlaceholderAPIError,
		ReasonRateLimited:    PlaceholderAPIError,
	}
	for reason, want := range tests {
		if got := PlaceholderURL(reason); got != want {
			t.Errorf("PlaceholderURL(%q): expected %s, got %s", reason, want, got)
		}
	}
}

func TestResult_Cacheable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		reason Reason
		want   bool
	}{
		{ReasonNone, true},
		{ReasonNoPoster, true},
		{ReasonAPIError, false},
		{ReasonCircuitOpen, false},
		{ReasonRateLimited, false},
		{ReasonAPIKeyRequired, false},
	}
	for _, tt := range tests {
		if got := (Result{Reason: tt.reason}).Cacheable(); got != tt.want {
			t.Errorf("Cacheable(%q): expected %v, got %v", tt.reason, tt.want, got)
		}
	}
}
