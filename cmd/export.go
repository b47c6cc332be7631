package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"sqlite2jsonl/dbexport"
)

var (
	exportAll    bool
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <dbfile> [table...]",
	Short: "Export tables to JSONL without the menus",
	Long: `Export the named tables, in the given order, into one JSONL file.
Duplicate names are exported once. With --all every table of the catalog is
exported. The output defaults to <dbfile base name><suffix>.jsonl next to the
database file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !exportAll && len(args) < 2 {
			return errors.New("no tables given; name at least one table or use --all")
		}
		rc, err := newRunContext(cmd)
		if err != nil {
			return err
		}
		path := args[0]
		outPath := exportOutput
		if outPath == "" {
			outPath = dbexport.OutputPath(path, rc.cfg.OutputSuffix)
		}
		return withSource(path, rc.cfg, func(ctx context.Context, src dbexport.Source) error {
			tables := dedupe(args[1:])
			if exportAll {
				all, err := dbexport.ListTables(ctx, src)
				if err != nil {
					return err
				}
				tables = all
			}
			return rc.export(ctx, cmd.OutOrStdout(), src, tables, outPath)
		})
	},
}

// dedupe keeps the first occurrence of every name.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func init() {
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every table in the database")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: derived from the database file name)")
	rootCmd.AddCommand(exportCmd)
}
