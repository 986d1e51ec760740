// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package usage

// DefaultRecent is how many recent searches Summary returns by default.
const DefaultRecent = 5

// RecentSearch is one entry of the recent-activity list.
type RecentSearch struct {
	Title     string `json:"title"`
	Time      string `json:"time"` // HH:MM
	Timestamp string `json:"timestamp"`
}

// Summary is the sidebar view of the analytics file.
type Summary struct {
	HasData              bool           `json:"has_data"`
	TotalRecommendations int64          `json:"total_recommendations"`
	MoviesSearched       int            `json:"movies_searched"`
	TotalSessions        int            `json:"total_sessions"`
	RecentSearches       []RecentSearch `json:"recent_searches"`
	FirstUsed            string         `json:"first_used"`
	LastUpdated          string         `json:"last_updated"`
}

// Summary loads the record and condenses it. recent <= 0 uses DefaultRecent.
// HasData is false when LoadSummary reports no data.
func (s *Store) Summary(recent int) Summary {
	rec, ok := s.LoadSummary()
	if !ok {
		return Summary{}
	}
	return Summarize(rec, recent)
}

// Summarize condenses a record, listing the newest recent sessions first.
func Summarize(rec *Record, recent int) Summary {
	if recent <= 0 {
		recent = DefaultRecent
	}

	sum := Summary{
		HasData:              true,
		TotalRecommendations: rec.TotalRecommendations,
		MoviesSearched:       len(rec.UniqueMoviesSearched),
		TotalSessions:        len(rec.Sessions),
		RecentSearches:       make([]RecentSearch, 0, min(recent, len(rec.Sessions))),
		FirstUsed:            rec.FirstUsed,
		LastUpdated:          rec.LastUpdated,
	}

	for i := len(rec.Sessions) - 1; i >= 0 && len(sum.RecentSearches) < recent; i-- {
		sess := rec.Sessions[i]
		rs := RecentSearch{Title: sess.MovieSearched, Timestamp: sess.Timestamp}
		if t, err := parseTimestamp(sess.Timestamp); err == nil {
			rs.Time = t.Format("15:04")
		}
		sum.RecentSearches = append(sum.RecentSearches, rs)
	}
	return sum
}
