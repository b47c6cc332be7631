package dbexport

import (
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// newSQLiteFile creates a database file in a temp dir and runs stmts on it.
func newSQLiteFile(t *testing.T, name string, stmts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open sqlite3: %v", err)
	}
	defer db.Close()
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to exec %q: %v", stmt, err)
		}
	}
	return path
}

// fixtureDB holds users, a (2 rows), b (3 rows) and bad (an infinite REAL in its second row).
func fixtureDB(t *testing.T) string {
	t.Helper()
	return newSQLiteFile(t, "fixture.db",
		"CREATE TABLE users (id INTEGER, name TEXT)",
		"INSERT INTO users VALUES (1, 'Alice'), (2, 'Bob')",
		"CREATE TABLE a (n INTEGER)",
		"INSERT INTO a VALUES (1), (2)",
		"CREATE TABLE b (n INTEGER)",
		"INSERT INTO b VALUES (10), (20), (30)",
		"CREATE TABLE bad (id INTEGER, v REAL)",
		"INSERT INTO bad VALUES (1, 1.5), (2, 9e999), (3, 2.5)",
	)
}

func sqliteSource(t *testing.T, path string) Source {
	t.Helper()
	src, err := NewSource(path, "sqlite3")
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	return src
}

func quietExporter() *Exporter {
	return NewExporter(slog.New(slog.NewTextHandler(io.Discard, nil)), io.Discard)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
