// Package runstore keeps a local SQLite history of evaluation runs.
//
// Each run records the dataset and classifier settings that produced it,
// the partition sizes, and the resulting accuracy and confusion matrix, so
// results from different seeds or k values can be compared later. The
// database runs in WAL mode and retries briefly when another process holds
// the write lock.
package runstore
