package knn

import (
	"log/slog"
	"math/rand/v2"
	"runtime"

	"timbre/internal/logging"
)

// RandomSource supplies the uniform draws used to split a dataset.
// *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// NewSeededSource returns a deterministic source for seed.
func NewSeededSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ProgressFunc observes batch predictions. done counts finished instances.
type ProgressFunc func(done, total int)

// Option configures a Classifier.
type Option func(*Classifier)

// WithWorkers sets the number of parallel distance shards. Values below 1
// select runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(c *Classifier) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		c.workers = n
	}
}

// WithLogger sets the classifier's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		c.logger = logging.NewComponentLogger(logger, "knn")
	}
}

// WithProgress registers a callback for Evaluate and PredictAll.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Classifier) {
		c.progress = fn
	}
}
