// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"time"
)

// Health status values.
const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status        string       `json:"status"`
	Version       string       `json:"version"`
	UptimeSeconds float64      `json:"uptime_seconds"`
	CatalogItems  int          `json:"catalog_items"`
	Usage         UsageHealth  `json:"usage"`
	Posters       PosterHealth `json:"posters"`
}

// UsageHealth reports the analytics file.
type UsageHealth struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
	Exists  bool   `json:"exists"`
}

// PosterHealth reports the metadata client.
type PosterHealth struct {
	Enabled      bool   `json:"enabled"`
	BreakerState string `json:"breaker_state,omitempty"`
}

// Health reports liveness. It is degraded, but still 200, when the usage file
// is missing or the poster circuit breaker is open.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{
		Status:        statusHealthy,
		Version:       h.version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
	if h.catalog != nil {
		health.CatalogItems = h.catalog.Len()
	}

	if h.usage != nil {
		health.Usage.Enabled = true
		health.Usage.Path = h.usage.Path()
		_, err := os.Stat(health.Usage.Path)
		health.Usage.Exists = err == nil
		if errors.Is(err, fs.ErrNotExist) {
			health.Status = statusDegraded
		}
	}

	if h.posters != nil {
		health.Posters.Enabled = h.posters.Enabled()
		health.Posters.BreakerState = h.posters.BreakerState()
		if health.Posters.BreakerState == "open" {
			health.Status = statusDegraded
		}
	}

	NewResponseWriter(w, r).Success(health)
}
