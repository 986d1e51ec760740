// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Item is one movie in the catalog. Row is its index in the item table and
// in both dimensions of the similarity matrix.
type Item struct {
	ID    int64  `json:"movie_id"`
	Title string `json:"title"`
	Row   int    `json:"-"`
}

// itemRecord is the on-disk shape of an item table row.
type itemRecord struct {
	MovieID int64  `json:"movie_id"`
	Title   string `json:"title"`
}

// ItemFormat identifies the item table encoding.
type ItemFormat int

const (
	ItemFormatCSV ItemFormat = iota
	ItemFormatJSON
)

// ItemFormatFor picks the table format from the path, ignoring any compression suffix.
func ItemFormatFor(path string) (ItemFormat, error) {
	switch strings.ToLower(filepath.Ext(baseName(path))) {
	case ".csv":
		return ItemFormatCSV, nil
	case ".json":
		return ItemFormatJSON, nil
	default:
		return 0, fmt.Errorf("unsupported item table extension for %s (want .csv or .json)", path)
	}
}

// ReadItems reads an item table in the given format. Rows keep file order and
// titles are returned as written; New trims them.
func ReadItems(r io.Reader, format ItemFormat) ([]Item, error) {
	var records []itemRecord
	var err error

	switch format {
	case ItemFormatJSON:
		err = json.NewDecoder(r).Decode(&records)
	default:
		records, err = readItemCSV(r)
	}
	if err != nil {
		return nil, err
	}

	items := make([]Item, len(records))
	for i, rec := range records {
		title := rec.Title
		if strings.TrimSpace(title) == "" {
			return nil, fmt.Errorf("row %d: empty title", i)
		}
		if rec.MovieID <= 0 {
			return nil, fmt.Errorf("row %d (%q): movie_id must be positive, got %d", i, title, rec.MovieID)
		}
		items[i] = Item{ID: rec.MovieID, Title: title, Row: i}
	}
	return items, nil
}

// readItemCSV parses "movie_id,title" rows. Extra columns are ignored, but a
// malformed row is an error rather than skipped: dropping a row would shift
// every later item against the matrix.
func readItemCSV(r io.Reader) ([]itemRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("item table is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := headerIndex(header)

	idCol, ok := idx["movie_id"]
	if !ok {
		return nil, errors.New("missing column movie_id")
	}
	titleCol, ok := idx["title"]
	if !ok {
		return nil, errors.New("missing column title")
	}

	var records []itemRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if idCol >= len(row) || titleCol >= len(row) {
			return nil, fmt.Errorf("line %d: expected at least %d fields, got %d", line, max(idCol, titleCol)+1, len(row))
		}
		id, err := strconv.ParseInt(strings.TrimSpace(row[idCol]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid movie_id %q", line, row[idCol])
		}
		records = append(records, itemRecord{MovieID: id, Title: row[titleCol]})
	}
	return records, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if _, dup := idx[col]; !dup {
			idx[col] = i
		}
	}
	return idx
}

// WriteItems writes items in the given format.
func WriteItems(w io.Writer, items []Item, format ItemFormat) error {
	if format == ItemFormatJSON {
		records := make([]itemRecord, len(items))
		for i, it := range items {
			records[i] = itemRecord{MovieID: it.ID, Title: it.Title}
		}
		return json.NewEncoder(w).Encode(records)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"movie_id", "title"}); err != nil {
		return err
	}
	for _, it := range items {
		if err := cw.Write([]string{strconv.FormatInt(it.ID, 10), it.Title}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteItemsFile writes items to path, choosing format and compression from the suffix.
func WriteItemsFile(path string, items []Item) error {
	format, err := ItemFormatFor(path)
	if err != nil {
		return err
	}
	return writeCompressedFile(path, func(w io.Writer) error {
		return WriteItems(w, items, format)
	})
}

// writeCompressedFile writes path atomically through the codec named by its suffix.
func writeCompressedFile(path string, fill func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	cw, err := compressWriter(tmp, CompressionFor(path))
	if err != nil {
		return err
	}
	if err = fill(cw); err != nil {
		return err
	}
	if err = cw.Close(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
