// Package cmd contains the command-line interface logic for the sqlite2jsonl tool.
//
// This file provides the helpers shared by every command: resolving the
// configuration, building the logger, opening a database source with
// signal-aware context, and running an export with its final report.
//
// Settings can come from an HCL file, environment variables (optionally from
// a .env file) or flags:
//   - SQLITE2JSONL_DRIVER:     sqlite3 (default) or sqlite
//   - SQLITE2JSONL_SUFFIX:     output file name suffix
//   - SQLITE2JSONL_EXTENSIONS: comma separated database file extensions
//   - SQLITE2JSONL_LOG_LEVEL:  debug, info, warn, error
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sqlite2jsonl/config"
	"sqlite2jsonl/dbexport"
)

// runContext carries what a command needs after flags are parsed.
type runContext struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRunContext(cmd *cobra.Command) (*runContext, error) {
	cfg, err := config.Resolve(config.Flags{
		ConfigPath: FlagConfig,
		Driver:     FlagDriver,
		Suffix:     FlagSuffix,
		LogLevel:   FlagLogLevel,
	})
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat).With("run_id", uuid.NewString())
	return &runContext{cfg: cfg, logger: logger}, nil
}

// newLogger builds a slog logger; cfg.Validate has already checked level and format.
func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.ToLower(format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// withSource resolves the dialect for the database file at path, sets up
// signal handling and calls fn with a context cancelled on SIGINT/SIGTERM.
func withSource(path string, cfg *config.Config, fn func(ctx context.Context, src dbexport.Source) error) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot open database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot open database file: %s is a directory", path)
	}
	src, err := dbexport.NewSource(path, cfg.Driver)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return fn(ctx, src)
}

// export runs the orchestrator and prints its report. It fails on a fatal
// output error and when not a single selected table could be exported.
func (rc *runContext) export(ctx context.Context, out io.Writer, src dbexport.Source, tables []string, outPath string) error {
	if err := checkDistinctOutput(src.Path, outPath); err != nil {
		return err
	}
	if len(tables) > 0 {
		fmt.Fprintln(out, strings.Repeat("-", 50))
		fmt.Fprintf(out, "Converting %d table(s). Output file: %s\n", len(tables), outPath)
		fmt.Fprintln(out, strings.Repeat("-", 50))
	}
	exporter := dbexport.NewExporter(rc.logger, out)
	summary, err := exporter.Run(ctx, src, tables, outPath)
	fmt.Fprint(out, dbexport.Report(summary, err))
	for _, r := range summary.Failed() {
		if isInvalidTableError(r.Err, rc.logger) {
			fmt.Fprintf(out, "   hint: check that table '%s' exists in %s and is spelled correctly\n", r.Table, src.Path)
		}
	}
	if err != nil {
		return fmt.Errorf("[%s] %w", dbexport.AsGoError(err).TextCode, err)
	}
	if summary.Outcome() == dbexport.OutcomeFailed {
		return errors.New("no table was exported")
	}
	return nil
}

// checkDistinctOutput refuses an output path that names the database file
// itself; opening the output truncates it before any table is read.
func checkDistinctOutput(dbPath, outPath string) error {
	dbAbs, err := filepath.Abs(dbPath)
	if err != nil {
		return fmt.Errorf("cannot resolve database path: %w", err)
	}
	outAbs, err := filepath.Abs(outPath)
	if err != nil {
		return fmt.Errorf("cannot resolve output path: %w", err)
	}
	same := dbAbs == outAbs
	if !same {
		dbInfo, dbErr := os.Stat(dbAbs)
		outInfo, outErr := os.Stat(outAbs)
		same = dbErr == nil && outErr == nil && os.SameFile(dbInfo, outInfo)
	}
	if same {
		return fmt.Errorf("output file %s is the database file; choose another --output", outPath)
	}
	return nil
}
