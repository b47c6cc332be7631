package dbexport

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultOutputSuffix is appended to the source base name to form the output file name.
const DefaultOutputSuffix = "_export"

// OutputPath derives the JSONL destination for a source file: same directory,
// base name without extension, suffix, ".jsonl".
func OutputPath(sourcePath, suffix string) string {
	base := filepath.Base(sourcePath)
	root := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(sourcePath), root+suffix+".jsonl")
}

// Run exports tables, in order, into a single JSONL file at outPath.
//
// An empty selection is a no-op and leaves outPath untouched. The destination
// is truncated before the first table; if it cannot be opened the run is
// aborted with a KindOutput error before any table is queried. Table
// failures never abort the run, they are recorded in the Summary.
func (e *Exporter) Run(ctx context.Context, src Source, tables []string, outPath string) (Summary, error) {
	summary := Summary{Output: outPath}
	if len(tables) == 0 {
		e.logger().Info("no tables selected, nothing to export")
		return summary, nil
	}

	file, err := createOutput(outPath)
	if err != nil {
		e.logger().Error("cannot open output file", "output", outPath, "error", err)
		return summary, NewError(KindOutput, "", "error creating output file "+outPath, err)
	}
	e.logger().Info("export started", "source", src.Path, "output", outPath, "tables", len(tables), "driver", src.Dialect.Driver)

	out := bufio.NewWriter(file)
	for _, table := range tables {
		res := e.ExportTable(ctx, src, table, out)
		if err := out.Flush(); err != nil && res.Succeeded() {
			res = Result{Table: table, Err: NewError(KindOutput, table, "error flushing output", err)}
			e.logger().Error("table export failed", "table", table, "kind", KindOutput, "error", err)
		}
		summary.Add(res)
	}

	if err := file.Close(); err != nil {
		return summary, NewError(KindOutput, "", "error closing output file "+outPath, err)
	}
	e.logger().Info("export finished",
		"outcome", summary.Outcome(),
		"tables_attempted", summary.Attempted,
		"tables_succeeded", summary.Succeeded,
		"total_rows", summary.TotalRows,
	)
	return summary, nil
}

// Report writes the human-readable run summary.
func Report(s Summary, runErr error) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("-", 50) + "\n")
	if runErr != nil && IsFatal(runErr) && s.Attempted == 0 {
		fmt.Fprintf(&b, "FATAL: cannot write output file: %v\n", runErr)
		return b.String()
	}
	switch s.Outcome() {
	case OutcomeNoOp:
		b.WriteString("No tables selected. Nothing exported.\n")
	case OutcomeSuccess:
		b.WriteString("EXPORT COMPLETE\n")
		fmt.Fprintf(&b, "   Tables exported: %d\n", s.Succeeded)
		fmt.Fprintf(&b, "   Total rows: %d\n", s.TotalRows)
		fmt.Fprintf(&b, "   Output file: %s\n", s.Output)
	case OutcomePartial, OutcomeFailed:
		if s.Outcome() == OutcomePartial {
			b.WriteString("PARTIAL SUCCESS")
		} else {
			b.WriteString("EXPORT FAILED")
		}
		fmt.Fprintf(&b, ": %d of %d tables exported.\n", s.Succeeded, s.Attempted)
		fmt.Fprintf(&b, "   Total rows: %d\n", s.TotalRows)
		for _, r := range s.Failed() {
			fmt.Fprintf(&b, "   Failed: %s (%v)\n", r.Table, r.Err)
		}
		fmt.Fprintf(&b, "   Output file: %s\n", s.Output)
	}
	if runErr != nil {
		fmt.Fprintf(&b, "WARNING: %v\n", runErr)
	}
	return b.String()
}
