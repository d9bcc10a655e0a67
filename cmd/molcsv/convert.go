// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/molcsv/internal/chem"
	"github.com/pdiddy/molcsv/internal/engine"
	"github.com/pdiddy/molcsv/internal/history"
	"github.com/pdiddy/molcsv/internal/report"
	"github.com/pdiddy/molcsv/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.sdf>",
	Short: "Convert an SDF/SD file to a CSV table",
	Long: `Convert reads an SDF/SD file and writes one CSV row per record: the
canonical SMILES string, provenance columns, and the record's data items.
Records that fail to parse or canonicalize are counted, reported, and
optionally written verbatim to a bad-record SD file.

With --alcoa, every row carries the ALCOA+ audit column block; operator,
contact, and purpose are then required.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("out-csv", "", "output CSV path (default: <input>.csv)")
	convertCmd.Flags().String("bad-sdf", "", "write failed records verbatim to this SD file")
	convertCmd.Flags().String("summary-json", "", "write the run summary as JSON to this path")
	convertCmd.Flags().String("summary-yaml", "", "write the run summary as YAML to this path")

	convertCmd.Flags().Bool("alcoa", false, "append ALCOA+ audit columns to every row")
	convertCmd.Flags().String("operator", "", "audit: analyst running the conversion")
	convertCmd.Flags().String("contact", "", "audit: operator contact, typically an email")
	convertCmd.Flags().String("purpose", "", "audit: purpose of processing")
	convertCmd.Flags().String("dataset-id", "", "audit: dataset identifier (default: derived from input and run timestamp)")
	convertCmd.Flags().String("storage-plan", "", "audit: long-term storage label")

	convertCmd.Flags().String("history-db", "molcsv-history.db", "SQLite run-history database")
	convertCmd.Flags().Bool("no-history", false, "skip recording this run in the history database")

	rootCmd.AddCommand(convertCmd)
}

// convertConfigFromFlags assembles the run configuration, deriving the
// CSV destination from the input path when --out-csv is not given.
func convertConfigFromFlags(cmd *cobra.Command, inputPath string) types.ConvertConfig {
	cfg := types.ConvertConfig{InputPath: inputPath}

	cfg.OutputCSV, _ = cmd.Flags().GetString("out-csv")
	if cfg.OutputCSV == "" {
		cfg.OutputCSV = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".csv"
	}
	cfg.BadSDF, _ = cmd.Flags().GetString("bad-sdf")
	cfg.SummaryJSON, _ = cmd.Flags().GetString("summary-json")
	cfg.SummaryYAML, _ = cmd.Flags().GetString("summary-yaml")

	cfg.Audit.Enabled, _ = cmd.Flags().GetBool("alcoa")
	cfg.Audit.Operator, _ = cmd.Flags().GetString("operator")
	cfg.Audit.Contact, _ = cmd.Flags().GetString("contact")
	cfg.Audit.Purpose, _ = cmd.Flags().GetString("purpose")
	cfg.Audit.DatasetID, _ = cmd.Flags().GetString("dataset-id")
	cfg.Audit.StoragePlan, _ = cmd.Flags().GetString("storage-plan")

	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		cfg.HistoryPath, _ = cmd.Flags().GetString("history-db")
	}
	return cfg
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := convertConfigFromFlags(cmd, args[0])

	input, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", cfg.InputPath, err)
	}

	res, err := engine.Run(chem.Default, input, filepath.Base(cfg.InputPath), engine.Options{
		Audit: cfg.Audit,
	}, os.Stdout)
	if err != nil {
		return err
	}
	res.Summary.Input = cfg.InputPath

	if err := report.SaveCSV(cfg.OutputCSV, res.Columns, res.Rows); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %s (%d rows, %d columns)\n", cfg.OutputCSV, len(res.Rows), len(res.Columns))

	if cfg.BadSDF != "" {
		if err := report.SaveFailedSDF(cfg.BadSDF, res.Failed); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote %s (%d failed records)\n", cfg.BadSDF, len(res.Failed))
	}
	if cfg.SummaryJSON != "" {
		if err := report.SaveSummaryJSON(cfg.SummaryJSON, res.Summary); err != nil {
			return err
		}
	}
	if cfg.SummaryYAML != "" {
		if err := report.SaveSummaryYAML(cfg.SummaryYAML, res.Summary); err != nil {
			return err
		}
	}

	if cfg.HistoryPath != "" {
		if err := recordRun(cfg, res); err != nil {
			// History is an audit convenience; the conversion itself
			// succeeded and its outputs are on disk.
			fmt.Fprintf(os.Stderr, "Warning: run not recorded in history: %v\n", err)
		}
	}
	return nil
}

func recordRun(cfg types.ConvertConfig, res *engine.Result) error {
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	artifacts := history.Artifacts{
		CSVPath:     cfg.OutputCSV,
		SummaryPath: cfg.SummaryJSON,
		BadSDFPath:  cfg.BadSDF,
	}
	return store.Record(context.Background(), res.Summary, artifacts, "cli")
}
