package dbexport

import (
	"database/sql"
	"os"
)

// Package-level hooks so tests can swap the database and file layers.
var openDB = func(driver, dsn string) (*sql.DB, error) {
	return sql.Open(driver, dsn)
}
var createOutput = func(path string) (*os.File, error) {
	return os.Create(path)
}
