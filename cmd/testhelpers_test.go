package cmd

import (
	"bytes"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"sqlite2jsonl/config"
)

// containsAll returns true if all substrings in subs are present in s.
func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// resetFlags puts every package level flag back to its default so commands
// can be executed repeatedly on the shared rootCmd.
func resetFlags() {
	FlagConfig, FlagDriver, FlagSuffix, FlagLogLevel = "", "", "", ""
	flagDir = "."
	exportAll, exportOutput = false, ""
	configForce = false
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		if f := c.Flags().Lookup("help"); f != nil {
			f.Value.Set("false")
			f.Changed = false
		}
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}

// isolate runs the test in an empty working directory with no config variables set.
func isolate(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvConfig, config.EnvDriver, config.EnvSuffix, config.EnvExtensions, config.EnvLogLevel, config.EnvLogFormat} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Chdir(t.TempDir())
}

// runCLI executes rootCmd with args and stdin and returns what it printed on stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	rootCmd.SetArgs([]string{})
	rootCmd.SetIn(nil)
	rootCmd.SetOut(nil)
	rootCmd.SetErr(nil)
	return out.String(), err
}

// fixtureDB writes a database with users and orders into dir.
func fixtureDB(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open sqlite3: %v", err)
	}
	defer db.Close()
	for _, stmt := range []string{
		"CREATE TABLE users (id INTEGER NOT NULL, name TEXT)",
		"INSERT INTO users VALUES (1, 'Alice'), (2, 'Bob')",
		"CREATE TABLE orders (id INTEGER, total REAL)",
		"INSERT INTO orders VALUES (7, 19.5)",
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to exec %q: %v", stmt, err)
		}
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}
