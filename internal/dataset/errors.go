package dataset

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord marks a tuple that is not a 3- or 4-element array of the
// expected field types.
var ErrMalformedRecord = errors.New("malformed record")

// LoadError reports a dataset that could not be read. Index is the zero-based
// position of the offending record, or -1 when the failure is not tied to a
// record (for example a missing file).
type LoadError struct {
	Path  string
	Index int
	Err   error
}

func (e *LoadError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("load dataset %s: record %d: %v", e.Path, e.Index, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// DimensionMismatchError reports a record whose mean, covariance, or aux
// length disagrees with the dataset's established dimensions.
type DimensionMismatchError struct {
	Field string
	Got   string
	Want  string
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s dimension mismatch: got %s, want %s", e.Field, e.Got, e.Want)
}

// Issue is a per-record problem that caused the record to be skipped.
type Issue struct {
	Index int
	Err   error
}

func (i Issue) Error() string {
	return fmt.Sprintf("record %d: %v", i.Index, i.Err)
}

func (i Issue) Unwrap() error { return i.Err }
