// sqlite2jsonl exports tables of a SQLite database file into a single JSONL file.
//
// Usage:
//
//	sqlite2jsonl
//	  Pick a database file in the current directory and the tables to export
//	sqlite2jsonl tables <dbfile>
//	  List all tables in the database file
//	sqlite2jsonl fields <dbfile> <table>
//	  List all fields in the specified table
//	sqlite2jsonl export [--all] [--output <file>] <dbfile> [table...]
//	  Export tables without the interactive menus
//	sqlite2jsonl config init [path]
//	  Write the default HCL configuration file
package main

import (
	"sqlite2jsonl/cmd"

	_ "github.com/marcboeker/go-duckdb"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

func main() {
	cmd.Execute()
}
