// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package poster

// Source names where a Result URL came from.
type Source string

// Sources.
const (
	SourceTMDB        Source = "tmdb"
	SourceMemoryCache Source = "memory_cache"
	SourceDiskCache   Source = "disk_cache"
	SourcePlaceholder Source = "placeholder"
)

// Reason explains why a placeholder was returned. It is empty for real posters.
type Reason string

// Reasons.
const (
	ReasonNone           Reason = ""
	ReasonAPIKeyRequired Reason = "api_key_required"
	ReasonNoPoster       Reason = "no_poster"
	ReasonAPIError       Reason = "api_error"
	ReasonCircuitOpen    Reason = "circuit_open"
	ReasonRateLimited    Reason = "rate_limited"
)

// Placeholder images.
const (
	PlaceholderNoPoster       = "https://via.placeholder.com/500x750.png?text=No+Poster"
	PlaceholderAPIError       = "https://via.placeholder.com/500x750.png?text=API+Error"
	PlaceholderAPIKeyRequired = "https://via.placeholder.com/500x750.png?text=API+Key+Required"
)

// Result is the outcome of a poster lookup.
type Result struct {
	URL    string `json:"url"`
	Source Source `json:"source"`
	Reason Reason `json:"reason,omitempty"`
}

// IsPlaceholder reports whether the URL is a placeholder image.
func (r Result) IsPlaceholder() bool {
	return r.Source == SourcePlaceholder
}

// Cacheable reports whether the result is a definitive answer worth caching.
func (r Result) Cacheable() bool {
	return r.Reason == ReasonNone || r.Reason == ReasonNoPoster
}

// PlaceholderURL returns the placeholder image for a reason.
func PlaceholderURL(reason Reason) string {
	switch reason {
	case ReasonAPIKeyRequired:
		return PlaceholderAPIKeyRequired
	case ReasonNoPoster:
		return PlaceholderNoPoster
	default:
		return PlaceholderAPIError
	}
}

func placeholder(reason Reason) Result {
	return Result{URL: PlaceholderURL(reason), Source: SourcePlaceholder, Reason: reason}
}
