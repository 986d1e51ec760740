// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package usage

import (
	"errors"
	"sort"
	"time"

	"github.com/goccy/go-json"
)

// errMissingField marks a record that parses but lacks required keys.
var errMissingField = errors.New("usage record is missing required fields")

// errNegativeTotal marks a record whose counter went below zero.
var errNegativeTotal = errors.New("usage record has a negative total")

// Session is one recommendation event.
type Session struct {
	Timestamp     string `json:"timestamp"`
	MovieSearched string `json:"movie_searched"`
	SessionID     string `json:"session_id"`
}

// Time parses Timestamp. It returns the zero time if it cannot be parsed.
func (s Session) Time() time.Time {
	t, _ := parseTimestamp(s.Timestamp)
	return t
}

// Record is the persisted analytics state.
type Record struct {
	TotalRecommendations int64
	UniqueMoviesSearched map[string]struct{}
	Sessions             []Session
	FirstUsed            string
	LastUpdated          string
}

// recordJSON is the on-disk shape. Pointers distinguish absent keys.
type recordJSON struct {
	TotalRecommendations *int64    `json:"total_recommendations"`
	UniqueMoviesSearched *[]string `json:"unique_movies_searched"`
	Sessions             []Session `json:"sessions"`
	FirstUsed            string    `json:"first_used"`
	LastUpdated          string    `json:"last_updated"`
}

func newRecord(firstUsed string) *Record {
	return &Record{
		UniqueMoviesSearched: make(map[string]struct{}),
		Sessions:             []Session{},
		FirstUsed:            firstUsed,
		LastUpdated:          firstUsed,
	}
}

// Titles returns the searched titles in sorted order.
func (r *Record) Titles() []string {
	titles := make([]string, 0, len(r.UniqueMoviesSearched))
	for t := range r.UniqueMoviesSearched {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

// MarshalJSON encodes the title set as a sorted list.
func (r *Record) MarshalJSON() ([]byte, error) {
	total := r.TotalRecommendations
	titles := r.Titles()
	sessions := r.Sessions
	if sessions == nil {
		sessions = []Session{}
	}
	return json.Marshal(recordJSON{
		TotalRecommendations: &total,
		UniqueMoviesSearched: &titles,
		Sessions:             sessions,
		FirstUsed:            r.FirstUsed,
		LastUpdated:          r.LastUpdated,
	})
}

// UnmarshalJSON rejects records missing the counter, title list or session log,
// and records with a negative counter.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.TotalRecommendations == nil || raw.UniqueMoviesSearched == nil || raw.Sessions == nil {
		return errMissingField
	}
	if *raw.TotalRecommendations < 0 {
		return errNegativeTotal
	}

	r.TotalRecommendations = *raw.TotalRecommendations
	r.UniqueMoviesSearched = make(map[string]struct{}, len(*raw.UniqueMoviesSearched))
	for _, t := range *raw.UniqueMoviesSearched {
		r.UniqueMoviesSearched[t] = struct{}{}
	}
	r.Sessions = raw.Sessions
	r.FirstUsed = raw.FirstUsed
	r.LastUpdated = raw.LastUpdated
	return nil
}

// apply records one event and trims the session log to maxSessions.
func (r *Record) apply(title string, at time.Time, sessionID string, maxSessions int) {
	stamp := formatTimestamp(at)

	r.TotalRecommendations++
	if r.UniqueMoviesSearched == nil {
		r.UniqueMoviesSearched = make(map[string]struct{})
	}
	r.UniqueMoviesSearched[title] = struct{}{}
	r.Sessions = append(r.Sessions, Session{
		Timestamp:     stamp,
		MovieSearched: title,
		SessionID:     sessionID,
	})
	if over := len(r.Sessions) - maxSessions; over > 0 {
		r.Sessions = append([]Session(nil), r.Sessions[over:]...)
	}
	r.LastUpdated = stamp
}

func decodeRecord(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func encodeRecord(rec *Record) ([]byte, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func formatTimestamp(t time.Time) string {
	return t.Truncate(time.Second).Format(time.RFC3339)
}

// timestampLayouts accepts RFC 3339 and offset-less ISO-8601, which older
// files contain.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func parseTimestamp(s string) (time.Time, error) {
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
