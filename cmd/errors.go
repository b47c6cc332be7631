package cmd

import (
	"log/slog"
	"strings"
)

// isInvalidTableError checks recursively for substrings indicating a missing/invalid table in any wrapped error.
// It matches the messages of the SQLite and DuckDB drivers. Misses are logged at debug level on logger.
func isInvalidTableError(err error, logger *slog.Logger) bool {
	var patterns = []string{
		"no such table",
		"does not exist",
		"table does not exist",
		"invalid table name",
		"table with name",
		"catalog error",
	}
	origErr := err
	for err != nil {
		errStr := strings.ToLower(err.Error())
		for _, pat := range patterns {
			if strings.Contains(errStr, pat) {
				return true
			}
		}
		type unwrapper interface{ Unwrap() error }
		if u, ok := err.(unwrapper); ok {
			err = u.Unwrap()
		} else {
			break
		}
	}
	if origErr != nil && logger != nil {
		logger.Debug("isInvalidTableError: no match", "error", origErr)
	}
	return false
}
