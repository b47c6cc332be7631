package dbexport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// Exporter streams tables of one database file into JSONL.
type Exporter struct {
	// Logger receives structured table events; defaults to slog.Default().
	Logger *slog.Logger
	// Progress receives the human-readable progress lines; defaults to os.Stdout.
	Progress io.Writer
}

// NewExporter creates an Exporter. Nil arguments fall back to the defaults.
func NewExporter(logger *slog.Logger, progress io.Writer) *Exporter {
	return &Exporter{Logger: logger, Progress: progress}
}

func (e *Exporter) logger() *slog.Logger {
	if e == nil || e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func (e *Exporter) progress() io.Writer {
	if e == nil || e.Progress == nil {
		return os.Stdout
	}
	return e.Progress
}

// ExportTable runs a full scan of table and appends one line per row to w.
//
// The database handle is opened for this call only and always closed before
// returning. Failures are logged and reported in the Result with Rows = 0;
// lines already appended to w before a failure are not removed.
func (e *Exporter) ExportTable(ctx context.Context, src Source, table string, w io.Writer) Result {
	start := time.Now()
	log := e.logger().With("table", table, "source", src.Path)
	fmt.Fprintf(e.progress(), "   [--] processing table '%s'...\n", table)

	rows, err := e.exportTable(ctx, src, table, w)
	if err != nil {
		log.Error("table export failed", "kind", KindFromError(err), "rows_before_failure", rows, "error", err)
		fmt.Fprintf(e.progress(), "   [!!] table '%s' failed: %v\n", table, err)
		return Result{Table: table, Rows: 0, Err: err}
	}
	log.Info("table exported", "rows", rows, "elapsed", time.Since(start))
	fmt.Fprintf(e.progress(), "   [--] done: table '%s', rows: %d\n", table, rows)
	return Result{Table: table, Rows: rows}
}

// exportTable returns the number of lines it appended, also when it fails.
func (e *Exporter) exportTable(ctx context.Context, src Source, table string, w io.Writer) (rowCount int, err error) {
	if err := ctx.Err(); err != nil {
		return 0, NewError(KindCanceled, table, "export canceled", err)
	}
	db, err := openDB(src.Dialect.Driver, src.Dialect.DSN(src.Path))
	if err != nil {
		return 0, NewError(KindQuery, table, "error opening database", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			e.logger().Debug("error closing database", "table", table, "error", cerr)
		}
	}()

	cols, err := tableColumns(ctx, db, src.Dialect, table)
	if err != nil {
		return 0, NewError(KindQuery, table, "error reading table columns", err)
	}
	rows, err := db.QueryContext(ctx, src.Dialect.SelectQuery(table, cols))
	if err != nil {
		return 0, NewError(KindQuery, table, "error querying table rows", err)
	}
	defer rows.Close()

	return WriteRows(ctx, rows, table, w)
}

// WriteRows serializes every remaining row of rows into w and returns the
// number of lines written. The first scan, serialization or write error stops
// the loop; the rest of the table is skipped.
func WriteRows(ctx context.Context, rows Rows, table string, w io.Writer) (int, error) {
	cols, err := rows.Columns()
	if err != nil {
		return 0, NewError(KindQuery, table, "error getting columns", err)
	}
	rowCount := 0
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return rowCount, NewError(KindCanceled, table, "export canceled", err)
		}
		row, err := ScanRow(rows, cols)
		if err != nil {
			return rowCount, NewError(KindQuery, table, "error reading row", err)
		}
		line, err := SerializeRow(row)
		if err != nil {
			if ee, ok := err.(*ExportError); ok {
				ee.Table = table
			}
			return rowCount, err
		}
		if _, err := w.Write(line); err != nil {
			return rowCount, NewError(KindOutput, table, "error writing row", err)
		}
		rowCount++
	}
	if err := rows.Err(); err != nil {
		return rowCount, NewError(KindQuery, table, "row error", err)
	}
	return rowCount, nil
}
