package dbexport

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func runExport(t *testing.T, src Source, tables []string, outPath string) (Summary, error) {
	t.Helper()
	return quietExporter().Run(context.Background(), src, tables, outPath)
}

func TestRun_UsersScenario(t *testing.T) {
	src := sqliteSource(t, fixtureDB(t))
	out := filepath.Join(t.TempDir(), "users.jsonl")
	summary, err := runExport(t, src, []string{"users"}, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\"id\": 1, \"name\": \"Alice\"}\n{\"id\": 2, \"name\": \"Bob\"}\n"
	if got := readFile(t, out); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if summary.Outcome() != OutcomeSuccess || summary.TotalRows != 2 || summary.Succeeded != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestRun_TwoTablesInSelectionOrder(t *testing.T) {
	src := sqliteSource(t, fixtureDB(t))
	out := filepath.Join(t.TempDir(), "ab.jsonl")
	summary, err := runExport(t, src, []string{"a", "b"}, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		`{"n": 1}`, `{"n": 2}`,
		`{"n": 10}`, `{"n": 20}`, `{"n": 30}`,
	}
	if diff := cmp.Diff(want, lines(readFile(t, out))); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if summary.Attempted != 2 || summary.Succeeded != 2 || summary.TotalRows != 5 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestRun_MissingTableIsPartial(t *testing.T) {
	src := sqliteSource(t, fixtureDB(t))
	out := filepath.Join(t.TempDir(), "partial.jsonl")
	summary, err := runExport(t, src, []string{"a", "nope"}, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Outcome() != OutcomePartial {
		t.Errorf("expected partial outcome, got %s", summary.Outcome())
	}
	if summary.TotalRows != 2 || summary.Results[1].Rows != 0 || summary.Results[1].Succeeded() {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if got := len(lines(readFile(t, out))); got != 2 {
		t.Errorf("expected 2 lines, got %d", got)
	}
}

func TestRun_FailedTableLinesStayButAreNotCounted(t *testing.T) {
	src := sqliteSource(t, fixtureDB(t))
	out := filepath.Join(t.TempDir(), "bad.jsonl")
	summary, err := runExport(t, src, []string{"a", "bad", "b"}, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	physical := lines(readFile(t, out))
	// 2 from a, 1 written by bad before its failure, 3 from b
	if len(physical) != 6 {
		t.Fatalf("expected 6 physical lines, got %d: %q", len(physical), physical)
	}
	if physical[2] != `{"id": 1, "v": 1.5}` {
		t.Errorf("expected the partial line of the failed table, got %q", physical[2])
	}
	if summary.TotalRows != 5 {
		t.Errorf("total must only count succeeded tables, got %d", summary.TotalRows)
	}
	if summary.Succeeded != 2 || summary.Outcome() != OutcomePartial {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestRun_Idempotent(t *testing.T) {
	src := sqliteSource(t, fixtureDB(t))
	out := filepath.Join(t.TempDir(), "twice.jsonl")
	if _, err := runExport(t, src, []string{"users", "b"}, out); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := readFile(t, out)
	if _, err := runExport(t, src, []string{"users", "b"}, out); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second := readFile(t, out); first != second {
		t.Errorf("runs differ:\n%q\n%q", first, second)
	}
}

func TestRun_TruncatesExistingOutput(t *testing.T) {
	src := sqliteSource(t, fixtureDB(t))
	out := filepath.Join(t.TempDir(), "old.jsonl")
	if err := os.WriteFile(out, []byte("stale line\nstale line\nstale line\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runExport(t, src, []string{"a"}, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readFile(t, out); got != "{\"n\": 1}\n{\"n\": 2}\n" {
		t.Errorf("output not truncated: %q", got)
	}
}

func TestRun_EmptySelectionIsNoOp(t *testing.T) {
	src := sqliteSource(t, fixtureDB(t))
	out := filepath.Join(t.TempDir(), "none.jsonl")
	summary, err := runExport(t, src, nil, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Outcome() != OutcomeNoOp {
		t.Errorf("expected no-op, got %s", summary.Outcome())
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected no output file, stat err: %v", err)
	}
}

func TestRun_UnwritableDestinationIsFatal(t *testing.T) {
	origOpen := openDB
	defer func() { openDB = origOpen }()
	openDB = func(driver, dsn string) (*sql.DB, error) {
		t.Fatal("no table may be queried when the output cannot be opened")
		return nil, nil
	}
	out := filepath.Join(t.TempDir(), "missing", "out.jsonl")
	summary, err := runExport(t, Source{Path: "x.db", Dialect: SQLite3}, []string{"a"}, out)
	if err == nil || !IsFatal(err) {
		t.Fatalf("expected fatal output error, got: %v", err)
	}
	if summary.Attempted != 0 {
		t.Errorf("expected no table attempted, got %d", summary.Attempted)
	}
	if _, statErr := os.Stat(out); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("expected no output file, stat err: %v", statErr)
	}
	if !strings.Contains(Report(summary, err), "FATAL") {
		t.Errorf("report must flag the fatal failure: %q", Report(summary, err))
	}
}

func TestRun_AllTablesFail(t *testing.T) {
	src := sqliteSource(t, fixtureDB(t))
	out := filepath.Join(t.TempDir(), "fail.jsonl")
	summary, err := runExport(t, src, []string{"nope", "bad"}, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Outcome() != OutcomeFailed || summary.TotalRows != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestOutputPath(t *testing.T) {
	cases := []struct{ in, want string }{
		{filepath.Join("data", "BTI.sqlite3"), filepath.Join("data", "BTI_export.jsonl")},
		{filepath.Join("data", "x.tar.db"), filepath.Join("data", "x.tar_export.jsonl")},
		{"plain.sqlite", "plain_export.jsonl"},
		{filepath.Join("/srv", "w h", "a.db"), filepath.Join("/srv", "w h", "a_export.jsonl")},
	}
	for _, tc := range cases {
		if got := OutputPath(tc.in, DefaultOutputSuffix); got != tc.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSummaryAdd_FailedRowsNeverCounted(t *testing.T) {
	var s Summary
	s.Add(Result{Table: "ok", Rows: 3})
	s.Add(Result{Table: "broken", Rows: 7, Err: errors.New("boom")})
	if s.TotalRows != 3 || s.Results[1].Rows != 0 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if got := s.Failed(); len(got) != 1 || got[0].Table != "broken" {
		t.Errorf("unexpected failed list: %+v", got)
	}
}

func TestReport(t *testing.T) {
	success := Summary{Output: "out.jsonl"}
	success.Add(Result{Table: "a", Rows: 2})
	partial := Summary{Output: "out.jsonl"}
	partial.Add(Result{Table: "a", Rows: 2})
	partial.Add(Result{Table: "b", Err: errors.New("no such table: b")})

	cases := []struct {
		name string
		s    Summary
		want []string
	}{
		{"noop", Summary{}, []string{"No tables selected"}},
		{"success", success, []string{"EXPORT COMPLETE", "Total rows: 2", "out.jsonl"}},
		{"partial", partial, []string{"PARTIAL SUCCESS: 1 of 2", "Failed: b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Report(tc.s, nil)
			for _, w := range tc.want {
				if !strings.Contains(out, w) {
					t.Errorf("report %q missing %q", out, w)
				}
			}
		})
	}
}
