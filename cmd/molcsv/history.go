// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/molcsv/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past conversion runs",
	Long: `History lists conversion runs recorded in the SQLite run-history
database, most recent first, with counts and artifact paths. Use --json
for machine-readable output.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("history-db", "molcsv-history.db", "SQLite run-history database")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("history-db")
	limit, _ := cmd.Flags().GetInt("limit")

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no history database at %s", path)
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-4s  %-24s  %9s  %6s  %s\n",
		"Run", "Timestamp", "Via", "Source", "Converted", "Failed", "CSV")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 120))

	for _, r := range runs {
		source := r.SourceFile
		if len(source) > 24 {
			source = source[:21] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-4s  %-24s  %9d  %6d  %s\n",
			r.ID, r.RunTimestampUTC, r.Frontend, source,
			r.RecordsConverted, r.RecordsFailed, r.CSVPath)
	}
	return nil
}
