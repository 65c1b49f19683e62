// Package commands implements the leapqa subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapqa/internal/cli/output"
	"github.com/leapstack-labs/leapqa/internal/config"
	"github.com/leapstack-labs/leapqa/internal/engine"
	"github.com/leapstack-labs/leapqa/internal/loader"
)

// ErrValidationFailed signals a completed run whose report failed the
// severity threshold. It maps to a non-zero exit code without an error
// banner; the report itself is the diagnostic.
var ErrValidationFailed = errors.New("validation failed")

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Data       string // Dataset path (.csv, .json, .duckdb)
	Table      string // Table name for DuckDB sources
	Schema     string // Schema description path
	Rules      string // Rule-set description path
	ReportJSON string // Optional path for a JSON report file
	Watch      bool   // Re-validate when inputs change
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(cfgFile *string) *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a dataset against a schema and rules",
		Long: `Validate a dataset against a schema description and a rule-set
description, printing a severity-ranked report.

The exit code is non-zero when any violation meets or exceeds the
configured severity threshold (default: error).`,
		Example: `  # Validate a CSV file
  leapqa validate --data reviews.csv --schema schema.yaml --rules rules.yaml

  # Validate a DuckDB table and write a JSON report
  leapqa validate --data warehouse.duckdb --table reviews \
    --schema schema.yaml --rules rules.yaml --report-json report.json

  # Re-validate whenever the inputs change
  leapqa validate --data reviews.csv --schema schema.yaml --rules rules.yaml --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)

			if opts.Watch {
				return watchAndValidate(cmd.Context(), cmd, cfg, logger, opts)
			}
			return runValidation(cmd.Context(), cmd, cfg, logger, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Data, "data", "", "dataset file to validate (.csv, .json, .duckdb)")
	flags.StringVar(&opts.Table, "table", "", "table name (DuckDB sources)")
	flags.StringVar(&opts.Schema, "schema", "", "schema description file (YAML/JSON)")
	flags.StringVar(&opts.Rules, "rules", "", "rule-set description file (YAML/JSON)")
	flags.StringVar(&opts.ReportJSON, "report-json", "", "write a JSON report to this path")
	flags.BoolVar(&opts.Watch, "watch", false, "re-validate when data, schema, or rules change")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}

// runValidation performs one load-validate-render cycle.
func runValidation(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, opts *ValidateOptions) error {
	sch, err := loader.LoadSchema(opts.Schema)
	if err != nil {
		return err
	}
	set, err := loader.LoadRules(opts.Rules)
	if err != nil {
		return err
	}
	ds, err := loader.ReadDataset(ctx, opts.Data, opts.Table)
	if err != nil {
		return err
	}
	logger.Debug("dataset loaded", "rows", ds.NumRows(), "columns", ds.NumColumns())

	eng := engine.New(cfg.EngineConfig(logger))
	rep, err := eng.Run(ctx, ds, sch, set)
	if err != nil {
		return err
	}

	if err := output.Write(cmd.OutOrStdout(), rep, cfg.OutputFormat); err != nil {
		return err
	}
	if opts.ReportJSON != "" {
		if err := output.WriteJSONFile(opts.ReportJSON, rep); err != nil {
			return fmt.Errorf("writing JSON report: %w", err)
		}
	}

	if !rep.Passed {
		return ErrValidationFailed
	}
	return nil
}

// watchAndValidate re-runs validation whenever any input file changes.
// A failing report keeps the watch alive; only setup errors end it.
func watchAndValidate(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, opts *ValidateOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, path := range []string{opts.Data, opts.Schema, opts.Rules} {
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
	}

	run := func() {
		if err := runValidation(ctx, cmd, cfg, logger, opts); err != nil && !errors.Is(err, ErrValidationFailed) {
			logger.Error("validation run failed", "error", err)
		}
	}

	run()
	logger.Info("watching for changes", "data", opts.Data, "schema", opts.Schema, "rules", opts.Rules)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("input changed", "file", event.Name)
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "error", err)
		}
	}
}

// newLogger builds the CLI logger; debug level when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
