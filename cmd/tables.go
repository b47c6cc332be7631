package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sqlite2jsonl/dbexport"
)

var tablesCmd = &cobra.Command{
	Use:   "tables <dbfile>",
	Short: "List all tables in the database file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rc, err := newRunContext(cmd)
		if err != nil {
			return err
		}
		return withSource(args[0], rc.cfg, func(ctx context.Context, src dbexport.Source) error {
			tables, err := dbexport.ListTables(ctx, src)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Tables in the database:")
			for _, t := range tables {
				fmt.Fprintln(out, t)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
