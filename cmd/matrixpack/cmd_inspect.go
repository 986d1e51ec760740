// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/logging"
)

// inspectReport summarizes a prepared item table and matrix pair.
type inspectReport struct {
	Items             int                 `json:"items"`
	ElementWidth      int                 `json:"element_width"`
	ItemsCompression  string              `json:"items_compression"`
	MatrixCompression string              `json:"matrix_compression"`
	MaxAsymmetry      float64             `json:"max_asymmetry"`
	DiagonalMismatch  int                 `json:"diagonal_mismatch"`
	Duplicates        []catalog.Duplicate `json:"duplicates,omitempty"`
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load an item table and matrix the way the server does",
		Long: `Load an item table and similarity matrix with the server's loader and
report their shape, compression, duplicate titles and matrix health.

A row whose diagonal is not its maximum is counted as a diagonal mismatch:
the server still excludes the query row, but such a matrix was probably
exported with the wrong orientation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			itemsPath, _ := cmd.Flags().GetString("items")
			matrixPath, _ := cmd.Flags().GetString("matrix")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cat, err := catalog.Load(cmd.Context(), catalog.Paths{Items: itemsPath, Matrix: matrixPath},
				catalog.Options{Logger: logging.WithComponent("catalog")})
			if err != nil {
				return err
			}

			report := inspectMatrix(cat.Matrix())
			report.Items = cat.Len()
			report.ItemsCompression = catalog.CompressionFor(itemsPath).String()
			report.MatrixCompression = catalog.CompressionFor(matrixPath).String()
			report.Duplicates = cat.Duplicates()

			if jsonOut {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Items:              %d\n", report.Items)
			fmt.Fprintf(out, "Element width:      %d bytes\n", report.ElementWidth)
			fmt.Fprintf(out, "Compression:        items=%s matrix=%s\n", report.ItemsCompression, report.MatrixCompression)
			fmt.Fprintf(out, "Max asymmetry:      %g\n", report.MaxAsymmetry)
			fmt.Fprintf(out, "Diagonal mismatch:  %d rows\n", report.DiagonalMismatch)
			fmt.Fprintf(out, "Duplicate titles:   %d\n", len(report.Duplicates))
			for _, d := range report.Duplicates {
				fmt.Fprintf(out, "  %q rows %v\n", d.Title, d.Rows)
			}
			return nil
		},
	}

	cmd.Flags().String("items", "", "Item table path (.csv or .json, optionally .zst/.lz4)")
	cmd.Flags().String("matrix", "", "RMX1 matrix path (optionally .zst/.lz4)")
	_ = cmd.MarkFlagRequired("items")
	_ = cmd.MarkFlagRequired("matrix")
	return cmd
}

// inspectMatrix scans every pair once.
func inspectMatrix(m *catalog.Matrix) inspectReport {
	report := inspectReport{ElementWidth: m.Width()}
	n := m.N()
	for i := 0; i < n; i++ {
		diag := m.Score(i, i)
		mismatch := false
		for j := 0; j < n; j++ {
			if j > i {
				if d := math.Abs(m.Score(i, j) - m.Score(j, i)); d > report.MaxAsymmetry {
					report.MaxAsymmetry = d
				}
			}
			if j != i && m.Score(i, j) > diag {
				mismatch = true
			}
		}
		if mismatch {
			report.DiagonalMismatch++
		}
	}
	return report
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
