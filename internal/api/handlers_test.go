// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/poster"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/usage"
)

type envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Error    *APIError       `json:"error"`
	Metadata *Metadata       `json:"metadata"`
}

type testServer struct {
	handler http.Handler
	usage   *usage.Store
	catalog *catalog.Catalog
}

// newTestServer wires the real engine, service and usage store over the
// four-item example catalog. Posters resolve without an API key, so every
// item gets the api_key_required placeholder and no network is used.
func newTestServer(t *testing.T, mwCfg *ChiMiddlewareConfig) *testServer {
	t.Helper()

	m, err := catalog.NewMatrix([][]float64{
		{1.0, 0.9, 0.9, 0.1},
		{0.9, 1.0, 0.2, 0.8},
		{0.9, 0.2, 1.0, 0.3},
		{0.1, 0.8, 0.3, 1.0},
	})
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}
	cat, err := catalog.New([]catalog.Item{
		{ID: 11, Title: "Alien"},
		{ID: 22, Title: "Aliens"},
		{ID: 33, Title: "Blade Runner"},
		{ID: 44, Title: "Heat"},
	}, m, catalog.Options{})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}

	engine, err := recommend.NewEngine(cat, recommend.DefaultEngineConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	store, err := usage.Open(filepath.Join(t.TempDir(), "app_usage.json"), usage.WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("usage.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureInitialized(); err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}

	resolver := poster.NewResolver(poster.Config{}, poster.WithLogger(zerolog.Nop()))
	svc := recommend.NewService(engine, resolver, store, zerolog.Nop())

	h := NewHandler(HandlerConfig{
		Catalog:     cat,
		Recommender: svc,
		Usage:       store,
		Posters:     resolver,
		MaxK:        recommend.DefaultMaxK,
		Version:     "test",
	})
	if mwCfg == nil {
		mwCfg = DefaultChiMiddlewareConfig()
		mwCfg.RateLimitRequests = 0
	}
	return &testServer{
		handler: NewRouter(h, mwCfg).SetupChi(),
		usage:   store,
		catalog: cat,
	}
}

func (s *testServer) get(t *testing.T, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s: %v (body %q)", target, err, rec.Body.String())
		}
	}
	return rec, env
}

func TestRecommendations_Success(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	rec, env := s.get(t, "/api/v1/recommendations?title=Alien&k=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !env.Success {
		t.Fatal("expected success envelope")
	}

	var items []recommend.EnrichedItem
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "Aliens" || items[1].Title != "Blade Runner" {
		t.Errorf("expected [Aliens Blade Runner], got [%s %s]", items[0].Title, items[1].Title)
	}
	if items[0].MovieID != 22 || items[0].Score != 0.9 {
		t.Errorf("unexpected first item %+v", items[0])
	}
	for _, it := range items {
		if it.PosterSource != poster.SourcePlaceholder {
			t.Errorf("expected placeholder source without API key, got %q", it.PosterSource)
		}
		if it.PosterURL != poster.PlaceholderURL(poster.ReasonAPIKeyRequired) {
			t.Errorf("expected api key placeholder, got %q", it.PosterURL)
		}
	}
	if env.Metadata == nil || env.Metadata.Count == nil || *env.Metadata.Count != 2 {
		t.Errorf("expected metadata.count 2, got %+v", env.Metadata)
	}
	if env.Metadata.RequestID == "" {
		t.Error("expected request id in metadata")
	}
	if rec.Header().Get("X-Request-ID") != env.Metadata.RequestID {
		t.Error("expected metadata request id to match header")
	}

	summary := s.usage.Summary(usage.DefaultRecent)
	if summary.TotalRecommendations != 1 || summary.MoviesSearched != 1 {
		t.Errorf("expected one recorded event, got %+v", summary)
	}
}

func TestRecommendations_DefaultK(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	_, env := s.get(t, "/api/v1/recommendations?title=Heat")
	var items []recommend.EnrichedItem
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	// Default k is 5 but only 3 other items exist.
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	want := []string{"Aliens", "Blade Runner", "Alien"}
	for i, title := range want {
		if items[i].Title != title {
			t.Errorf("position %d: expected %q, got %q", i, title, items[i].Title)
		}
	}
}

func TestRecommendations_NotFound(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	rec, env := s.get(t, "/api/v1/recommendations?title=alien")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if env.Success || env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Fatalf("expected NOT_FOUND envelope, got %+v", env)
	}

	if summary := s.usage.Summary(usage.DefaultRecent); summary.TotalRecommendations != 0 || summary.TotalSessions != 0 {
		t.Errorf("expected no usage recorded for a miss, got %+v", summary)
	}
}

func TestRecommendations_Validation(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	tests := []struct {
		name  string
		query string
		field string
	}{
		{"missing title", "", "title"},
		{"blank title", "?title=%20%20", "title"},
		{"k not integer", "?title=Alien&k=ten", "k"},
		{"negative k", "?title=Alien&k=-1", "k"},
		{"k above max", "?title=Alien&k=51", "k"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, env := s.get(t, "/api/v1/recommendations"+tt.query)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if env.Error == nil || env.Error.Code != ErrCodeValidation {
				t.Fatalf("expected VALIDATION_ERROR, got %+v", env.Error)
			}
			details, ok := env.Error.Details.(map[string]any)
			if !ok {
				t.Fatalf("expected details object, got %T", env.Error.Details)
			}
			if details["field"] != tt.field {
				t.Errorf("expected field %q, got %v", tt.field, details["field"])
			}
		})
	}
}

type errRecommender struct{ err error }

func (e errRecommender) Recommend(context.Context, string, int) ([]recommend.EnrichedItem, error) {
	return nil, e.err
}

func TestRecommendations_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"canceled", context.Canceled, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"invalid shape", recommend.ErrInvalidShape, http.StatusInternalServerError, ErrCodeInternalError},
		{"other", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewHandler(HandlerConfig{Recommender: errRecommender{err: tt.err}, MaxK: 50})
			rec := httptest.NewRecorder()
			h.Recommendations(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?title=X", nil))

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			var env envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error == nil || env.Error.Code != tt.code {
				t.Errorf("expected code %s, got %+v", tt.code, env.Error)
			}
		})
	}
}

func TestMovies(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	tests := []struct {
		name    string
		query   string
		want    []string
		total   int
		hasMore bool
	}{
		{"all in catalog order", "", []string{"Alien", "Aliens", "Blade Runner", "Heat"}, 4, false},
		{"substring filter", "?q=alien", []string{"Alien", "Aliens"}, 2, false},
		{"contains match", "?q=runner", []string{"Blade Runner"}, 1, false},
		{"paged", "?limit=2&offset=1", []string{"Aliens", "Blade Runner"}, 4, true},
		{"offset past end", "?offset=10", []string{}, 4, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, env := s.get(t, "/api/v1/movies"+tt.query)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			var items []catalog.Item
			if err := json.Unmarshal(env.Data, &items); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(items) != len(tt.want) {
				t.Fatalf("expected %d items, got %d", len(tt.want), len(items))
			}
			for i, title := range tt.want {
				if items[i].Title != title {
					t.Errorf("position %d: expected %q, got %q", i, title, items[i].Title)
				}
			}
			p := env.Metadata.Pagination
			if p == nil || p.Total != tt.total || p.HasMore != tt.hasMore {
				t.Errorf("unexpected pagination %+v", p)
			}
		})
	}
}

func TestMovies_Validation(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	for _, q := range []string{"?limit=abc", "?limit=5000", "?offset=-1"} {
		rec, env := s.get(t, "/api/v1/movies"+q)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, rec.Code)
			continue
		}
		if env.Error == nil || env.Error.Code != ErrCodeValidation {
			t.Errorf("%s: expected VALIDATION_ERROR, got %+v", q, env.Error)
		}
	}
}

func TestUsage(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	_, env := s.get(t, "/api/v1/usage")
	var fresh usage.Summary
	if err := json.Unmarshal(env.Data, &fresh); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !fresh.HasData || fresh.TotalRecommendations != 0 || len(fresh.RecentSearches) != 0 {
		t.Errorf("expected an empty initialized summary, got %+v", fresh)
	}

	s.get(t, "/api/v1/recommendations?title=Alien")
	s.get(t, "/api/v1/recommendations?title=Heat")
	s.get(t, "/api/v1/recommendations?title=Alien")

	_, env = s.get(t, "/api/v1/usage")
	var summary usage.Summary
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !summary.HasData {
		t.Fatal("expected has_data true")
	}
	if summary.TotalRecommendations != 3 || summary.MoviesSearched != 2 || summary.TotalSessions != 3 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if len(summary.RecentSearches) != 3 || summary.RecentSearches[0].Title != "Alien" {
		t.Errorf("expected newest search first, got %+v", summary.RecentSearches)
	}
}

func TestUsage_MissingFile(t *testing.T) {
	t.Parallel()

	store, err := usage.Open(filepath.Join(t.TempDir(), "app_usage.json"), usage.WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("usage.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	h := NewHandler(HandlerConfig{Usage: store})
	rec := httptest.NewRecorder()
	h.Usage(rec, httptest.NewRequest(http.MethodGet, "/api/v1/usage", nil))

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(env.Data) != `{"has_data":false}` {
		t.Errorf("expected has_data false without a usage file, got %s", env.Data)
	}
}

func TestUsage_NilStore(t *testing.T) {
	t.Parallel()

	h := NewHandler(HandlerConfig{})
	rec := httptest.NewRecorder()
	h.Usage(rec, httptest.NewRequest(http.MethodGet, "/api/v1/usage", nil))

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(env.Data) != `{"has_data":false}` {
		t.Errorf("expected has_data false, got %s", env.Data)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	rec, env := s.get(t, "/api/v1/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var health HealthStatus
	if err := json.Unmarshal(env.Data, &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != statusHealthy {
		t.Errorf("expected healthy, got %q", health.Status)
	}
	if health.CatalogItems != 4 {
		t.Errorf("expected 4 catalog items, got %d", health.CatalogItems)
	}
	if !health.Usage.Enabled || !health.Usage.Exists {
		t.Errorf("expected initialized usage file, got %+v", health.Usage)
	}
	if health.Posters.Enabled {
		t.Error("expected posters disabled without API key")
	}
	if health.Posters.BreakerState != "closed" {
		t.Errorf("expected closed breaker, got %q", health.Posters.BreakerState)
	}
	if health.Version != "test" {
		t.Errorf("expected version test, got %q", health.Version)
	}
}

type openBreaker struct{}

func (openBreaker) Enabled() bool        { return true }
func (openBreaker) BreakerState() string { return "open" }

func TestHealth_DegradedWhenBreakerOpen(t *testing.T) {
	t.Parallel()

	h := NewHandler(HandlerConfig{Posters: openBreaker{}})
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var health HealthStatus
	if err := json.Unmarshal(env.Data, &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != statusDegraded {
		t.Errorf("expected degraded, got %q", health.Status)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 while degraded, got %d", rec.Code)
	}
}

func TestHealth_UptimeAdvances(t *testing.T) {
	t.Parallel()

	h := NewHandler(HandlerConfig{})
	h.startTime = time.Now().Add(-time.Minute)
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var health HealthStatus
	if err := json.Unmarshal(env.Data, &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.UptimeSeconds < 59 {
		t.Errorf("expected uptime of about 60s, got %v", health.UptimeSeconds)
	}
	if health.Version != "dev" {
		t.Errorf("expected default version dev, got %q", health.Version)
	}
}
