// Package main hosts the timbre CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, builds the slog logger,
// and hands off to the internal packages: evaluate and predict drive the knn
// classifier, dataset inspects or builds the record store, runs lists the
// evaluation history, and check runs the preflight checks. Commands stay thin;
// behavior belongs in internal/.
package main
