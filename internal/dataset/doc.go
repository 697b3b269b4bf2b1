// Package dataset reads and writes the persisted feature-record store.
//
// The store is a stream of MessagePack arrays, one per record, appended back
// to back with no length prefix or footer: a clean EOF before the next array
// header ends the stream. Each array is either
//
//	[mean []float64, covariance [][]float64, label int]
//	[mean []float64, covariance [][]float64, aux []float64, label int]
//
// Readers accept both arities. Load validates every record against the
// dimensions established by the first accepted one, zero-fills a missing aux
// vector, and collects per-record problems as Issues instead of aborting. A
// stream that cannot be decoded at all is a LoadError.
//
// Writers take an exclusive advisory lock on "<path>.lock" and readers a
// shared one, so a record appended by an external extractor is never
// observed half written.
package dataset
