package merge

import (
	"errors"
	"fmt"

	"github.com/rickgao/sensor-data/internal/model"
)

// ErrEmptyInput is returned when there is nothing to merge.
var ErrEmptyInput = errors.New("no input files")

// SchemaMismatchError reports an input whose header differs from the
// expected one, or which lacks the timestamp column.
type SchemaMismatchError struct {
	Path   string
	Want   model.Header
	Got    model.Header
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("schema mismatch in %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("schema mismatch in %s: header %q, want %q", e.Path, []string(e.Got), []string(e.Want))
}

// UnreadableFileError reports an input that could not be opened or parsed.
// Line is 0 when the failure is not tied to a row.
type UnreadableFileError struct {
	Path string
	Line int
	Err  error
}

func (e *UnreadableFileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("unreadable file %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("unreadable file %s: %v", e.Path, e.Err)
}

func (e *UnreadableFileError) Unwrap() error {
	return e.Err
}

// WriteError reports a failure to write the combined output.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ErrorKind names the failure kind of err for operator-facing messages.
// It returns "" for errors outside the merge taxonomy.
func ErrorKind(err error) string {
	var (
		schemaErr     *SchemaMismatchError
		unreadableErr *UnreadableFileError
		writeErr      *WriteError
	)
	switch {
	case errors.Is(err, ErrEmptyInput):
		return "EmptyInputError"
	case errors.As(err, &schemaErr):
		return "SchemaMismatchError"
	case errors.As(err, &unreadableErr):
		return "UnreadableFileError"
	case errors.As(err, &writeErr):
		return "WriteError"
	default:
		return ""
	}
}
