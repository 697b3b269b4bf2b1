// Package knn implements the nearest-neighbor genre classifier.
//
// A Classifier is constructed with a neighbor count k and loaded exactly
// once, from a dataset file or from in-memory records. Loading splits the
// records into training and test partitions with one Bernoulli draw per
// record and prepares every covariance up front. After that the classifier
// is read-only: Predict and Evaluate may be called concurrently.
//
// Neighbor search computes the symmetric distance from every training
// candidate to the query across parallel shards, then stably sorts the
// merged result so equal distances keep candidate order. The vote picks the
// most frequent label; among tied labels the one encountered first wins.
package knn
