// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package poster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelmatch/internal/metrics"
)

// maxResponseBytes caps how much of a TMDB response body is read.
const maxResponseBytes = 1 << 20

// TMDB lookup errors.
var (
	// ErrMovieNotFound is returned for HTTP 404.
	ErrMovieNotFound = errors.New("tmdb: movie not found")

	// ErrNoPosterPath is returned when the movie exists but has no poster.
	ErrNoPosterPath = errors.New("tmdb: movie has no poster_path")
)

// StatusError is returned for any non-2xx status other than 404.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb: unexpected status %d", e.Code)
}

// tmdbMovie is the subset of GET /movie/{id} the resolver needs.
type tmdbMovie struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path"`
}

type tmdbClient struct {
	httpClient *http.Client
	apiBase    string
	apiKey     string
}

func (c *tmdbClient) movieURL(movieID int64) string {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("language", "en-US")
	return strings.TrimRight(c.apiBase, "/") + "/movie/" + strconv.FormatInt(movieID, 10) + "?" + q.Encode()
}

// posterPath fetches the poster_path of a movie.
func (c *tmdbClient) posterPath(ctx context.Context, movieID int64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.movieURL(movieID), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordTMDBRequest("error", time.Since(start))
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordTMDBRequest(strconv.Itoa(resp.StatusCode), time.Since(start))

	body := io.LimitReader(resp.Body, maxResponseBytes)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, body)
		return "", ErrMovieNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		_, _ = io.Copy(io.Discard, body)
		return "", &StatusError{Code: resp.StatusCode}
	}

	var movie tmdbMovie
	if err := json.NewDecoder(body).Decode(&movie); err != nil {
		return "", fmt.Errorf("decode tmdb response: %w", err)
	}
	if strings.TrimSpace(movie.PosterPath) == "" {
		return "", ErrNoPosterPath
	}
	return movie.PosterPath, nil
}
