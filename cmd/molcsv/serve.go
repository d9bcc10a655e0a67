// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/molcsv/internal/chem"
	"github.com/pdiddy/molcsv/internal/history"
	"github.com/pdiddy/molcsv/internal/web"
	"github.com/pdiddy/molcsv/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interactive web front-end",
	Long: `Serve starts an HTTP server with an upload form: drop in an SDF/SD
file, optionally fill in the ALCOA+ audit fields, and download the
resulting CSV and run summary. Conversions run through the same engine
as the convert subcommand and are recorded in the run history.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().String("work-dir", "", "artifact staging directory (default: under the system temp dir)")
	serveCmd.Flags().String("history-db", "molcsv-history.db", "SQLite run-history database")
	serveCmd.Flags().Bool("no-history", false, "disable run-history recording")
	serveCmd.Flags().Int64("max-upload-bytes", 100<<20, "maximum accepted upload size")
	serveCmd.Flags().Int("preview-rows", 500, "maximum rows in the browser preview")

	rootCmd.AddCommand(serveCmd)
}

func serveConfigFromFlags(cmd *cobra.Command) (types.ServeConfig, error) {
	var cfg types.ServeConfig
	cfg.Addr, _ = cmd.Flags().GetString("addr")
	cfg.WorkDir, _ = cmd.Flags().GetString("work-dir")
	cfg.MaxUploadBytes, _ = cmd.Flags().GetInt64("max-upload-bytes")
	cfg.PreviewRows, _ = cmd.Flags().GetInt("preview-rows")

	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		cfg.HistoryPath, _ = cmd.Flags().GetString("history-db")
	}

	if cfg.WorkDir == "" {
		dir, err := os.MkdirTemp("", "molcsv-serve-")
		if err != nil {
			return cfg, fmt.Errorf("creating work directory: %w", err)
		}
		cfg.WorkDir = dir
	} else if err := os.MkdirAll(cfg.WorkDir, 0o755); err != nil {
		return cfg, fmt.Errorf("creating work directory %s: %w", cfg.WorkDir, err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := serveConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var store *history.Store
	if cfg.HistoryPath != "" {
		store, err = history.Open(cfg.HistoryPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	handler := web.NewHandler(cfg, chem.Default, store, logger)
	server := web.NewServer(cfg.Addr, handler)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	logger.Info("molcsv web front-end listening",
		"addr", cfg.Addr,
		"work_dir", filepath.Clean(cfg.WorkDir),
		"history", cfg.HistoryPath != "",
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		if err := server.Stop(context.Background()); err != nil {
			return err
		}
		return <-errCh
	}
}
