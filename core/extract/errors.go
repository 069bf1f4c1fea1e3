package extract

import (
	"errors"
	"fmt"
)

// ErrMaxDepth is reported for a folder nested deeper than the configured limit.
var ErrMaxDepth = errors.New("materials folder nesting exceeds max depth")

// ExtractionError reports a page whose structure does not match its schema.
// Row is the zero-based row index, or -1 when the page as a whole is affected.
type ExtractionError struct {
	Schema string
	Row    int
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	msg := e.Schema
	if e.Row >= 0 {
		msg += fmt.Sprintf(" row %d", e.Row)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// FetchError wraps a failure of the Fetcher while descending into a folder.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func rowError(schema string, row int, reason string, err error) *ExtractionError {
	return &ExtractionError{Schema: schema, Row: row, Reason: reason, Err: err}
}

func pageError(schema string, reason string, err error) *ExtractionError {
	return &ExtractionError{Schema: schema, Row: -1, Reason: reason, Err: err}
}
