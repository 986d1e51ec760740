// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Command matrixpack prepares the server's input files offline: it packs a
// dense CSV similarity matrix into RMX1, converts item tables between CSV and
// JSON, and inspects a prepared pair before deployment.
//
// Output compression follows the file suffix (.zst or .lz4), matching what
// the server accepts at startup.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/reelmatch/internal/logging"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "matrixpack",
		Short: "Prepare item tables and similarity matrices for reelmatch",
		Long: `matrixpack converts precomputed recommendation data into the files the
reelmatch server loads at startup.

Examples:
  matrixpack pack similarity.csv similarity.rmx.zst --width 4
  matrixpack items movies.json movies.csv.lz4
  matrixpack inspect --items movies.csv --matrix similarity.rmx.zst`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, _ := cmd.Flags().GetString("log-level")
			logging.Init(logging.Config{
				Level:  level,
				Format: "console",
				Output: cmd.ErrOrStderr(),
			})
		},
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newPackCmd(),
		newItemsCmd(),
		newInspectCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return writeJSON(cmd, map[string]string{"version": version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "matrixpack version %s\n", version)
			return nil
		},
	}
}
