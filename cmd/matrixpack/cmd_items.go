// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/reelmatch/internal/catalog"
)

func newItemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "items <input> <output>",
		Short: "Convert an item table between CSV and JSON",
		Long: `Convert an item table, validating every row on the way.

Formats and compression are chosen from the file suffixes, so the same
command can recompress a table without changing its format.

Examples:
  matrixpack items movies.json movies.csv
  matrixpack items movies.csv movies.csv.zst`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			items, err := catalog.ReadItemsFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			if err := catalog.WriteItemsFile(args[1], items); err != nil {
				return fmt.Errorf("write %s: %w", args[1], err)
			}

			if jsonOut {
				return writeJSON(cmd, map[string]any{"output": args[1], "items": len(items)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d items to %s\n", len(items), args[1])
			return nil
		},
	}
}
