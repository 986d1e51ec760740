// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import "fmt"

// Default values for EngineConfig.
const (
	DefaultK           = 5
	DefaultMaxK        = 50
	DefaultParallelism = 5
)

// EngineConfig controls result sizing and enrichment fan-out.
type EngineConfig struct {
	// DefaultK is used when a caller passes k <= 0.
	DefaultK int `json:"default_k"`

	// MaxK caps k. Larger values are clamped by the engine.
	MaxK int `json:"max_k"`

	// Parallelism bounds concurrent poster lookups per request.
	Parallelism int `json:"parallelism"`
}

// DefaultEngineConfig returns the default configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DefaultK:    DefaultK,
		MaxK:        DefaultMaxK,
		Parallelism: DefaultParallelism,
	}
}

// Validate checks the configuration for errors.
func (c EngineConfig) Validate() error {
	if c.DefaultK < 1 {
		return fmt.Errorf("default_k must be at least 1, got %d", c.DefaultK)
	}
	if c.MaxK < c.DefaultK {
		return fmt.Errorf("max_k (%d) must be >= default_k (%d)", c.MaxK, c.DefaultK)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism)
	}
	return nil
}

// effectiveK applies the default and the cap.
func (c EngineConfig) effectiveK(k int) int {
	if k <= 0 {
		k = c.DefaultK
	}
	if k > c.MaxK {
		k = c.MaxK
	}
	return k
}
