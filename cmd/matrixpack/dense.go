// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tomtom215/reelmatch/internal/catalog"
)

// denseOptions describes the layout of a dense CSV matrix export.
type denseOptions struct {
	SkipHeader bool // first row holds column labels
	SkipIndex  bool // first column holds row labels
}

// readDenseCSV parses a square matrix with one row per line.
// Non-finite scores are rejected.
func readDenseCSV(r io.Reader, opts denseOptions) (*catalog.Matrix, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	if opts.SkipHeader {
		if _, err := reader.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.New("matrix file is empty")
			}
			return nil, fmt.Errorf("read header: %w", err)
		}
	}

	var rows [][]float64
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if opts.SkipIndex {
			if len(record) == 0 {
				return nil, fmt.Errorf("line %d: missing index column", line)
			}
			record = record[1:]
		}

		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %d: invalid score %q", line, j+1, field)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("line %d column %d: non-finite score", line, j+1)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, errors.New("matrix file has no rows")
	}
	return catalog.NewMatrix(rows)
}

func readDenseCSVFile(path string, opts denseOptions) (*catalog.Matrix, error) {
	f, err := os.Open(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return readDenseCSV(f, opts)
}
