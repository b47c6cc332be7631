package dbexport

import (
	"context"
	"database/sql"
	"fmt"
)

// Column describes one column of a table as reported by the catalog.
type Column struct {
	Name     string
	Type     string
	Nullable string
}

// withSourceDB opens a handle for src, runs fn and closes the handle.
func withSourceDB(src Source, fn func(db *sql.DB) error) error {
	db, err := openDB(src.Dialect.Driver, src.Dialect.DSN(src.Path))
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer db.Close()
	return fn(db)
}

// ListTables returns the table names of src in catalog order.
func ListTables(ctx context.Context, src Source) ([]string, error) {
	var tables []string
	err := withSourceDB(src, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, src.Dialect.TablesQuery)
		if err != nil {
			return fmt.Errorf("error querying tables: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var tableName string
			if err := rows.Scan(&tableName); err != nil {
				return fmt.Errorf("error scanning table name: %w", err)
			}
			tables = append(tables, tableName)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("row error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// ListFields returns the columns of table in declaration order. A table with
// no columns in the catalog does not exist.
func ListFields(ctx context.Context, src Source, table string) ([]Column, error) {
	var cols []Column
	err := withSourceDB(src, func(db *sql.DB) error {
		var err error
		cols, err = tableColumns(ctx, db, src.Dialect, table)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cols, nil
}

// tableColumns reads the catalog entry of table on an open handle.
func tableColumns(ctx context.Context, db *sql.DB, d Dialect, table string) ([]Column, error) {
	rows, err := db.QueryContext(ctx, d.FieldsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("error querying fields: %w", err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var c Column
		if err := rows.Scan(&c.Name, &c.Type, &c.Nullable); err != nil {
			return nil, fmt.Errorf("error scanning field: %w", err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error: %w", err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no such table: %s", table)
	}
	return cols, nil
}
