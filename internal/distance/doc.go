// Package distance computes the dissimilarity between two Gaussian feature
// summaries.
//
// Prepare factorizes a record's covariance once and caches its inverse and
// log-determinant. OneWay is a KL-divergence-style directional term plus the
// squared auxiliary distance, offset by the engine's bias. Symmetric adds both
// directions. The result is not a metric and may be negative; only the
// ordering across candidates matters to the classifier.
package distance
