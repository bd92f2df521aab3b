package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDate reports a due or done value that is not a valid
	// YYYY-MM-DD calendar date.
	ErrMalformedDate = errors.New("malformed date")
	// ErrMalformedRecurrence reports a rec value outside [+]N{d,w,m,y}.
	ErrMalformedRecurrence = errors.New("malformed recurrence")
	// ErrMissingAnchor reports a recurring task without the date its
	// recurrence is computed from.
	ErrMissingAnchor = errors.New("missing recurrence anchor")
	// ErrOrphanContinuation reports a description line with no task above it.
	ErrOrphanContinuation = errors.New("description line without a task")
)

// FieldError is a task-level condition attributed to one meta field.
type FieldError struct {
	Path  string // File the task came from, if known
	Line  int    // 1-based line of the task, 0 if generated
	Field string // Meta key, e.g. "due"
	Value string // Raw value as written
	Err   error  // One of the Err* sentinels
}

func (e *FieldError) Error() string {
	loc := e.location()
	if e.Value != "" {
		return fmt.Sprintf("%s%s: %s %q", loc, e.Field, e.Err, e.Value)
	}
	return fmt.Sprintf("%s%s: %s", loc, e.Field, e.Err)
}

func (e *FieldError) location() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: ", e.Path, e.Line)
	case e.Path != "":
		return e.Path + ": "
	case e.Line > 0:
		return fmt.Sprintf("line %d: ", e.Line)
	}
	return ""
}

// Unwrap returns the underlying sentinel.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// LineError reports a structural problem at a line of the input.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *LineError) Unwrap() error {
	return e.Err
}

// withPath attributes a condition to a file.
func withPath(err error, path string) error {
	var fe *FieldError
	if path != "" && errors.As(err, &fe) && fe.Path == "" {
		copied := *fe
		copied.Path = path
		return &copied
	}
	return err
}
