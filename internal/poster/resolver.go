// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package poster

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/reelmatch/internal/cache"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

// Cache names used in metrics.
const (
	cacheMemory = "poster_memory"
	cacheDisk   = "poster_disk"
)

// Resolver maps movie ids to poster URLs. It is safe for concurrent use.
type Resolver struct {
	cfg         Config
	httpClient  *http.Client
	client      *tmdbClient
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker[string]
	breakerName string
	memory      *cache.LRU[Result]
	disk        DiskCache
	logger      zerolog.Logger
	now         func() time.Time
}

// NewResolver creates a resolver. A zero Timeout falls back to the default.
func NewResolver(cfg Config, opts ...Option) *Resolver {
	defaults := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.APIBase == "" {
		cfg.APIBase = defaults.APIBase
	}
	if cfg.ImageBase == "" {
		cfg.ImageBase = defaults.ImageBase
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaults.CacheTTL
	}

	r := &Resolver{
		cfg:         cfg,
		breakerName: DefaultBreakerName,
		logger:      zerolog.Nop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.httpClient == nil {
		r.httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	r.client = &tmdbClient{httpClient: r.httpClient, apiBase: cfg.APIBase, apiKey: cfg.APIKey}

	if cfg.RateLimit > 0 {
		burst := int(math.Max(1, math.Ceil(cfg.RateLimit)))
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	} else {
		r.limiter = rate.NewLimiter(rate.Inf, 0)
	}

	r.breaker = newBreaker(r.breakerName, r.logger)

	if cfg.CacheSize > 0 {
		r.memory = cache.NewLRU[Result](cfg.CacheSize, cfg.CacheTTL)
	}

	return r
}

// Enabled reports whether an API key is configured.
func (r *Resolver) Enabled() bool {
	return r.cfg.APIKey != ""
}

// BreakerState returns the circuit breaker state: closed, half-open or open.
func (r *Resolver) BreakerState() string {
	return stateToString(r.breaker.State())
}

// Resolve returns the poster for a movie. It never fails; problems produce
// a placeholder with a Reason.
func (r *Resolver) Resolve(ctx context.Context, movieID int64) Result {
	res := r.resolve(ctx, movieID)
	metrics.RecordPosterLookup(string(res.Source), string(res.Reason))
	return res
}

func (r *Resolver) resolve(ctx context.Context, movieID int64) Result {
	if !r.Enabled() {
		return placeholder(ReasonAPIKeyRequired)
	}

	key := strconv.FormatInt(movieID, 10)

	if r.memory != nil {
		if cached, ok := r.memory.Get(key); ok {
			metrics.RecordCacheLookup(cacheMemory, true)
			if cached.Reason == ReasonNone {
				cached.Source = SourceMemoryCache
			}
			return cached
		}
		metrics.RecordCacheLookup(cacheMemory, false)
	}

	if r.disk != nil {
		if entry, ok := r.disk.Get(movieID); ok {
			metrics.RecordCacheLookup(cacheDisk, true)
			res := entry.result(SourceDiskCache)
			if r.memory != nil {
				r.memory.Add(key, res)
			}
			return res
		}
		metrics.RecordCacheLookup(cacheDisk, false)
	}

	res := r.fetch(ctx, movieID)
	if res.Cacheable() {
		if r.memory != nil {
			r.memory.Add(key, res)
		}
		if r.disk != nil {
			r.disk.Set(movieID, Entry{URL: res.URL, Reason: res.Reason, StoredAt: r.now()})
		}
	}
	return res
}

// fetch calls TMDB under the rate limiter and circuit breaker. The timeout
// covers both the limiter wait and the HTTP round trip.
func (r *Resolver) fetch(ctx context.Context, movieID int64) Result {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	lc := r.logger.With().Int64("movie_id", movieID)
	if requestID := logging.RequestIDFromContext(ctx); requestID != "" {
		lc = lc.Str("request_id", requestID)
	}
	log := lc.Logger()

	if err := r.limiter.Wait(ctx); err != nil {
		log.Debug().Err(err).Msg("TMDB call not admitted by rate limiter")
		return placeholder(ReasonRateLimited)
	}

	path, err := r.breaker.Execute(func() (string, error) {
		return r.client.posterPath(ctx, movieID)
	})

	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(r.breakerName, "success").Inc()
		return Result{URL: r.imageURL(path), Source: SourceTMDB}

	case errors.Is(err, ErrMovieNotFound), errors.Is(err, ErrNoPosterPath):
		metrics.CircuitBreakerRequests.WithLabelValues(r.breakerName, "success").Inc()
		log.Debug().Err(err).Msg("No poster available")
		return placeholder(ReasonNoPoster)

	case isRejection(err):
		metrics.CircuitBreakerRequests.WithLabelValues(r.breakerName, "rejected").Inc()
		log.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		return placeholder(ReasonCircuitOpen)

	default:
		metrics.CircuitBreakerRequests.WithLabelValues(r.breakerName, "failure").Inc()
		log.Warn().Str("error", logging.RedactError(err)).Msg("TMDB poster lookup failed")
		return placeholder(ReasonAPIError)
	}
}

func (r *Resolver) imageURL(posterPath string) string {
	return strings.TrimRight(r.cfg.ImageBase, "/") + "/" + strings.TrimLeft(posterPath, "/")
}
