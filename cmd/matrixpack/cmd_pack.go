// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/logging"
)

// packResult is the machine-readable summary of a pack run.
type packResult struct {
	Output      string `json:"output"`
	Dimension   int    `json:"dimension"`
	Width       int    `json:"element_width"`
	Compression string `json:"compression"`
	Bytes       int64  `json:"bytes"`
}

func newPackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack <input.csv> <output>",
		Short: "Pack a dense CSV similarity matrix into RMX1",
		Long: `Pack a dense N×N CSV similarity matrix into the RMX1 binary format.

The output is compressed when its name ends in .zst or .lz4. Width 4 stores
float32 scores and halves the file size.

Examples:
  matrixpack pack similarity.csv similarity.rmx
  matrixpack pack --skip-header --skip-index export.csv similarity.rmx.zst`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			width, _ := cmd.Flags().GetInt("width")
			skipHeader, _ := cmd.Flags().GetBool("skip-header")
			skipIndex, _ := cmd.Flags().GetBool("skip-index")
			jsonOut, _ := cmd.Flags().GetBool("json")

			if width != 4 && width != 8 {
				return fmt.Errorf("--width must be 4 or 8, got %d", width)
			}

			start := time.Now()
			m, err := readDenseCSVFile(args[0], denseOptions{SkipHeader: skipHeader, SkipIndex: skipIndex})
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			if err := catalog.WriteMatrixFile(args[1], m, width); err != nil {
				return fmt.Errorf("write %s: %w", args[1], err)
			}

			info, err := os.Stat(args[1])
			if err != nil {
				return err
			}
			res := packResult{
				Output:      args[1],
				Dimension:   m.N(),
				Width:       width,
				Compression: catalog.CompressionFor(args[1]).String(),
				Bytes:       info.Size(),
			}
			logging.Debug().Dur("duration", time.Since(start)).Int("dimension", m.N()).Msg("Matrix packed")

			if jsonOut {
				return writeJSON(cmd, res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Packed %dx%d matrix (%d-byte scores, %s) into %s (%d bytes)\n",
				res.Dimension, res.Dimension, res.Width, res.Compression, res.Output, res.Bytes)
			return nil
		},
	}

	cmd.Flags().Int("width", 4, "Element width in bytes (4 or 8)")
	cmd.Flags().Bool("skip-header", false, "Ignore the first row (column labels)")
	cmd.Flags().Bool("skip-index", false, "Ignore the first column (row labels)")
	return cmd
}
