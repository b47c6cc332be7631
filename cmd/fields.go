package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sqlite2jsonl/dbexport"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields <dbfile> <table>",
	Short: "List all fields in the specified table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rc, err := newRunContext(cmd)
		if err != nil {
			return err
		}
		table := args[1]
		return withSource(args[0], rc.cfg, func(ctx context.Context, src dbexport.Source) error {
			cols, err := dbexport.ListFields(ctx, src, table)
			if err != nil {
				if isInvalidTableError(err, rc.logger) {
					return fmt.Errorf("%v.\n\ncheck that the table exists in the database and is spelled correctly", err)
				}
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Fields in table '%s':\n", table)
			fmt.Fprintln(out, "Column Name\tType\tNullable")
			for _, c := range cols {
				fmt.Fprintf(out, "%s\t%s\t%s\n", c.Name, c.Type, c.Nullable)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}
