package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sqlite2jsonl/cli"
	"sqlite2jsonl/dbexport"
)

// Version is set at build time with -ldflags "-X sqlite2jsonl/cmd.Version=...".
var Version = "1.0.0"

// exitFunc is swapped in tests.
var exitFunc = os.Exit

var (
	FlagConfig   string
	FlagDriver   string
	FlagSuffix   string
	FlagLogLevel string
	flagDir      string
)

var rootCmd = &cobra.Command{
	Use:   "sqlite2jsonl",
	Short: "Export SQLite tables to a JSONL file",
	Long: `Interactively pick a SQLite (or DuckDB) database file in the current
directory, pick tables, and stream every row into one JSONL file written next
to the database.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInteractive,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitFunc(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&FlagConfig, "config", "", "HCL config file (env: SQLITE2JSONL_CONFIG, default ./sqlite2jsonl.hcl)")
	rootCmd.PersistentFlags().StringVar(&FlagDriver, "driver", "", "SQLite driver: sqlite3 (cgo) or sqlite (pure Go) (env: SQLITE2JSONL_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&FlagSuffix, "suffix", "", "Output file name suffix (env: SQLITE2JSONL_SUFFIX)")
	rootCmd.PersistentFlags().StringVar(&FlagLogLevel, "log-level", "", "Log level: debug, info, warn, error (env: SQLITE2JSONL_LOG_LEVEL)")
	rootCmd.Flags().StringVar(&flagDir, "dir", ".", "Directory to look for database files in")
}

// runInteractive is the menu driven export: file, tables, export, summary.
func runInteractive(cmd *cobra.Command, args []string) error {
	rc, err := newRunContext(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	cli.PrintBanner(out, Version)

	prompter := cli.NewPrompter(cmd.InOrStdin(), out)
	path, err := prompter.SelectSource(flagDir, rc.cfg.Extensions)
	if errors.Is(err, cli.ErrCancelled) {
		fmt.Fprintln(out, "File selection cancelled. Exiting.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nSelected file: %s\n", path)

	return withSource(path, rc.cfg, func(ctx context.Context, src dbexport.Source) error {
		tables, err := dbexport.ListTables(ctx, src)
		if err != nil {
			return fmt.Errorf("cannot read tables of %s: %w", path, err)
		}
		selected, err := prompter.SelectTables(tables)
		if err != nil {
			return err
		}
		return rc.export(ctx, out, src, selected, dbexport.OutputPath(path, rc.cfg.OutputSuffix))
	})
}
