package dbexport

// Rows is a minimal interface for *sql.Rows and test wrappers
// Used for dependency injection and testability in the table exporter.
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Columns() ([]string, error)
	Close() error
	Err() error
}

// Field is one column of a row.
type Field struct {
	Name  string
	Value interface{}
}

// Row is an ordered column-name to value mapping, in query column order.
type Row []Field

// Result is the outcome of exporting a single table.
type Result struct {
	Table string
	Rows  int
	Err   error
}

// Succeeded reports whether the table was exported without error.
func (r Result) Succeeded() bool {
	return r.Err == nil
}

// Outcome classifies a whole run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
	OutcomeNoOp    Outcome = "noop"
)

// Summary aggregates the per-table results of a run.
type Summary struct {
	Output    string
	Attempted int
	Succeeded int
	TotalRows int
	Results   []Result
}

// Add records a table result. Rows of failed tables are never counted.
func (s *Summary) Add(r Result) {
	if !r.Succeeded() {
		r.Rows = 0
	}
	s.Attempted++
	if r.Succeeded() {
		s.Succeeded++
		s.TotalRows += r.Rows
	}
	s.Results = append(s.Results, r)
}

// Outcome derives the run outcome from the recorded results.
func (s Summary) Outcome() Outcome {
	switch {
	case s.Attempted == 0:
		return OutcomeNoOp
	case s.Succeeded == s.Attempted:
		return OutcomeSuccess
	case s.Succeeded > 0:
		return OutcomePartial
	default:
		return OutcomeFailed
	}
}

// Failed returns the results of the tables that did not export.
func (s Summary) Failed() []Result {
	var failed []Result
	for _, r := range s.Results {
		if !r.Succeeded() {
			failed = append(failed, r)
		}
	}
	return failed
}
