// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Paths locates the catalog input files.
type Paths struct {
	Items  string
	Matrix string
}

// Options controls catalog construction.
type Options struct {
	// RejectDuplicateTitles fails construction when two rows share a title.
	RejectDuplicateTitles bool

	// Logger receives load diagnostics. The zero value discards them.
	Logger zerolog.Logger
}

// Duplicate records a title that appears on more than one row.
type Duplicate struct {
	Title string `json:"title"`
	Rows  []int  `json:"rows"`
}

// Catalog is the immutable item table plus similarity matrix.
// All methods are safe for concurrent use.
type Catalog struct {
	items      []Item
	matrix     *Matrix
	byTitle    map[string]int
	byID       map[int64]int
	duplicates []Duplicate
}

// New validates items against matrix and indexes them. Item.Row is
// reassigned to the slice position and titles are trimmed.
func New(items []Item, matrix *Matrix, opts Options) (*Catalog, error) {
	if matrix == nil {
		return nil, fmt.Errorf("%w: nil matrix", ErrDataUnavailable)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: item table has no rows", ErrDataUnavailable)
	}
	if matrix.N() != len(items) {
		return nil, fmt.Errorf("%w: matrix is %dx%d but item table has %d rows",
			ErrInvalidShape, matrix.N(), matrix.N(), len(items))
	}

	c := &Catalog{
		items:   make([]Item, len(items)),
		matrix:  matrix,
		byTitle: make(map[string]int, len(items)),
		byID:    make(map[int64]int, len(items)),
	}

	dupRows := make(map[string][]int)
	trimmed := 0
	for i, it := range items {
		it.Row = i
		if t := strings.TrimSpace(it.Title); t != it.Title {
			it.Title = t
			trimmed++
		}
		c.items[i] = it

		if first, ok := c.byTitle[it.Title]; ok {
			if len(dupRows[it.Title]) == 0 {
				dupRows[it.Title] = []int{first}
			}
			dupRows[it.Title] = append(dupRows[it.Title], i)
		} else {
			c.byTitle[it.Title] = i
		}

		if first, ok := c.byID[it.ID]; ok {
			opts.Logger.Warn().
				Int64("movie_id", it.ID).
				Int("first_row", first).
				Int("row", i).
				Msg("Duplicate movie_id in item table, first row wins")
		} else {
			c.byID[it.ID] = i
		}
	}

	if trimmed > 0 {
		opts.Logger.Warn().
			Int("titles", trimmed).
			Msg("Trimmed surrounding whitespace from item titles")
	}

	for title, rows := range dupRows {
		c.duplicates = append(c.duplicates, Duplicate{Title: title, Rows: rows})
	}
	sort.Slice(c.duplicates, func(i, j int) bool {
		return c.duplicates[i].Rows[0] < c.duplicates[j].Rows[0]
	})

	if len(c.duplicates) > 0 {
		if opts.RejectDuplicateTitles {
			d := c.duplicates[0]
			return nil, fmt.Errorf("%w: title %q appears on rows %v (%d duplicated titles)",
				ErrInvalidShape, d.Title, d.Rows, len(c.duplicates))
		}
		for _, d := range c.duplicates {
			opts.Logger.Warn().
				Str("title", d.Title).
				Ints("rows", d.Rows).
				Msg("Duplicate title in item table, first row wins")
		}
	}

	return c, nil
}

// Load reads both input files and builds the catalog. Any read or parse
// failure wraps ErrDataUnavailable; a dimension mismatch wraps ErrInvalidShape.
func Load(ctx context.Context, paths Paths, opts Options) (*Catalog, error) {
	start := time.Now()

	items, err := ReadItemsFile(paths.Items)
	if err != nil {
		return nil, fmt.Errorf("%w: item table %s: %v", ErrDataUnavailable, paths.Items, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matrix, err := ReadMatrixFile(paths.Matrix)
	if err != nil {
		return nil, fmt.Errorf("%w: similarity matrix %s: %v", ErrDataUnavailable, paths.Matrix, err)
	}

	c, err := New(items, matrix, opts)
	if err != nil {
		return nil, err
	}

	opts.Logger.Info().
		Int("items", c.Len()).
		Int("element_width", matrix.Width()).
		Str("items_compression", CompressionFor(paths.Items).String()).
		Str("matrix_compression", CompressionFor(paths.Matrix).String()).
		Dur("duration", time.Since(start)).
		Msg("Catalog loaded")

	return c, nil
}

// ReadItemsFile reads an item table, choosing format and compression from the suffix.
func ReadItemsFile(path string) ([]Item, error) {
	format, err := ItemFormatFor(path)
	if err != nil {
		return nil, err
	}
	rc, err := openDecompressed(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return ReadItems(rc, format)
}

// ReadMatrixFile decodes an RMX1 matrix, decompressing according to the suffix.
func ReadMatrixFile(path string) (*Matrix, error) {
	rc, err := openDecompressed(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return DecodeMatrix(rc)
}

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// Items returns the item table in row order. Callers must not modify it.
func (c *Catalog) Items() []Item { return c.items }

// Titles returns every title in row order.
func (c *Catalog) Titles() []string {
	titles := make([]string, len(c.items))
	for i, it := range c.items {
		titles[i] = it.Title
	}
	return titles
}

// Matrix returns the similarity matrix.
func (c *Catalog) Matrix() *Matrix { return c.matrix }

// Duplicates returns titles that appear on more than one row.
func (c *Catalog) Duplicates() []Duplicate { return c.duplicates }

// Lookup resolves an exact title to its first item. Surrounding whitespace
// is ignored, matching how titles are stored.
func (c *Catalog) Lookup(title string) (Item, error) {
	row, ok := c.byTitle[strings.TrimSpace(title)]
	if !ok {
		return Item{}, fmt.Errorf("%w: title %q", ErrNotFound, title)
	}
	return c.items[row], nil
}

// ByID resolves a movie id to its first item.
func (c *Catalog) ByID(id int64) (Item, error) {
	row, ok := c.byID[id]
	if !ok {
		return Item{}, fmt.Errorf("%w: movie_id %d", ErrNotFound, id)
	}
	return c.items[row], nil
}

// Search returns items whose title contains q (case-insensitive), prefix
// matches first, each group in row order. An empty q matches every item.
// It returns the page and the total number of matches.
func (c *Catalog) Search(q string, limit, offset int) ([]Item, int) {
	q = strings.ToLower(strings.TrimSpace(q))

	var prefix, contains []Item
	for _, it := range c.items {
		if q == "" {
			prefix = append(prefix, it)
			continue
		}
		title := strings.ToLower(it.Title)
		switch {
		case strings.HasPrefix(title, q):
			prefix = append(prefix, it)
		case strings.Contains(title, q):
			contains = append(contains, it)
		}
	}

	matches := append(prefix, contains...)
	total := len(matches)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []Item{}, total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return matches[offset:end], total
}
