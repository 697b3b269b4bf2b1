package knn

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyLoaded is returned when a classifier is loaded twice.
	ErrAlreadyLoaded = errors.New("classifier already loaded")
	// ErrNotLoaded is returned by queries issued before a successful load.
	ErrNotLoaded = errors.New("classifier not loaded")
	// ErrEmptyTestSet is returned when evaluating zero instances.
	ErrEmptyTestSet = errors.New("empty test set")
	// ErrInvalidSplit is returned for a split probability outside [0,1].
	ErrInvalidSplit = errors.New("split probability must be within [0,1]")
)

// InsufficientDataError reports a candidate pool smaller than k.
type InsufficientDataError struct {
	Pool int
	K    int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d candidates, need at least %d", e.Pool, e.K)
}
