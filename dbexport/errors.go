package dbexport

import (
	"context"
	"errors"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind defines export error kinds.
type ErrorKind string

const (
	// KindOutput means the destination could not be opened or closed; fatal for the run.
	KindOutput ErrorKind = "output"
	// KindQuery means a table could not be opened, queried or iterated.
	KindQuery ErrorKind = "query"
	// KindSerialization means a row held a value with no JSON representation.
	KindSerialization ErrorKind = "serialization"
	// KindCanceled means the run context was cancelled.
	KindCanceled ErrorKind = "canceled"
)

// ExportError wraps errors with a kind and the table they belong to.
type ExportError struct {
	Kind  ErrorKind
	Table string
	Msg   string
	Err   error
}

func (e *ExportError) Error() string {
	msg := e.Msg
	if e.Table != "" {
		msg = msg + " (table '" + e.Table + "')"
	}
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewError creates a new export error.
func NewError(kind ErrorKind, table, msg string, err error) *ExportError {
	return &ExportError{Kind: kind, Table: table, Msg: msg, Err: err}
}

// KindFromError maps an error to its export error kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr.Kind
	}
	return KindQuery
}

// IsFatal reports whether err aborts the whole run.
func IsFatal(err error) bool {
	return KindFromError(err) == KindOutput
}

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	msg := err.Error()
	switch KindFromError(err) {
	case KindOutput:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("output")
	case KindSerialization:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("serialization")
	case KindCanceled:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("canceled")
	default:
		return errorslib.New(msg, errorslib.CategoryExternal).WithTextCode("query")
	}
}
