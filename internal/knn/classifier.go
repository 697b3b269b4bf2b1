package knn

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"slices"
	"sync"

	"timbre/internal/dataset"
	"timbre/internal/distance"
	"timbre/internal/features"
	"timbre/internal/logging"
)

// Classifier is a memory-based k-nearest-neighbor classifier over prepared
// Gaussian feature summaries.
type Classifier struct {
	k        int
	workers  int
	engine   distance.Engine
	logger   *slog.Logger
	progress ProgressFunc

	mu       sync.RWMutex
	loaded   bool
	training []*distance.Gaussian
	test     []*distance.Gaussian
	issues   []dataset.Issue
}

// New returns an unloaded classifier voting over k neighbors.
func New(k int, opts ...Option) (*Classifier, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	c := &Classifier{
		k:       k,
		workers: runtime.NumCPU(),
		engine:  distance.NewEngine(k),
		logger:  logging.NewComponentLogger(nil, "knn"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// K returns the neighbor count.
func (c *Classifier) K() int { return c.k }

// LoadDataset reads the store at path, splits it with rng, and prepares every
// record. Malformed streams fail with *dataset.LoadError; per-record problems
// are skipped and reported through Issues. An empty store loads as (0, 0).
func (c *Classifier) LoadDataset(ctx context.Context, path string, splitProbability float64, rng RandomSource) (int, int, error) {
	if err := validateSplit(splitProbability); err != nil {
		return 0, 0, err
	}
	if c.Loaded() {
		return 0, 0, ErrAlreadyLoaded
	}

	ds, err := dataset.Load(ctx, path)
	if err != nil {
		return 0, 0, err
	}
	logger := c.logger.With(logging.String(logging.FieldDataset, path))
	return c.load(ctx, logger, ds, splitProbability, rng)
}

// LoadRecords is LoadDataset for records already in memory.
func (c *Classifier) LoadRecords(ctx context.Context, records []features.Record, splitProbability float64, rng RandomSource) (int, int, error) {
	if err := validateSplit(splitProbability); err != nil {
		return 0, 0, err
	}
	return c.load(ctx, c.logger, dataset.FromRecords(records), splitProbability, rng)
}

func (c *Classifier) load(ctx context.Context, logger *slog.Logger, ds *dataset.Dataset, split float64, rng RandomSource) (int, int, error) {
	if rng == nil {
		rng = globalSource{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return 0, 0, ErrAlreadyLoaded
	}

	issues := slices.Clone(ds.Issues)
	var training, test []*distance.Gaussian
	total := ds.Total
	if n := len(ds.Indices); n > 0 {
		total = max(total, ds.Indices[n-1]+1)
	}
	// One draw per stream position, skipped records included, so a rejected
	// record never shifts the membership of the records after it.
	next := 0
	for pos := range total {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}
		inTraining := rng.Float64() < split
		if next >= len(ds.Records) || ds.Indices[next] != pos {
			continue
		}
		rec := ds.Records[next]
		next++
		g, err := distance.Prepare(rec)
		if err != nil {
			issues = append(issues, dataset.Issue{Index: pos, Err: err})
			continue
		}
		if inTraining {
			training = append(training, g)
		} else {
			test = append(test, g)
		}
	}
	slices.SortStableFunc(issues, func(a, b dataset.Issue) int { return a.Index - b.Index })

	for _, issue := range issues {
		logger.Warn("skipped record",
			logging.Int(logging.FieldRecordIndex, issue.Index),
			logging.Error(issue.Err),
		)
	}

	c.training = training
	c.test = test
	c.issues = issues
	c.loaded = true

	logger.Info("dataset loaded",
		logging.Int("training", len(training)),
		logging.Int("test", len(test)),
		logging.Int("skipped", len(issues)),
		logging.Int("dimension", ds.Dim),
		logging.Int("aux_length", ds.AuxLen),
	)
	return len(training), len(test), nil
}

func validateSplit(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidSplit, p)
	}
	return nil
}

// Loaded reports whether a load has completed.
func (c *Classifier) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Training returns the prepared training partition.
func (c *Classifier) Training() []*distance.Gaussian {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.training)
}

// Test returns the prepared test partition.
func (c *Classifier) Test() []*distance.Gaussian {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.test)
}

// Issues returns the records skipped during load, ordered by stream index.
func (c *Classifier) Issues() []dataset.Issue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.issues)
}

func (c *Classifier) snapshot() ([]*distance.Gaussian, []*distance.Gaussian, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return nil, nil, ErrNotLoaded
	}
	return c.training, c.test, nil
}

// Predict classifies rec against the training partition.
func (c *Classifier) Predict(ctx context.Context, rec features.Record) (int, error) {
	training, _, err := c.snapshot()
	if err != nil {
		return 0, err
	}
	query, err := distance.Prepare(rec)
	if err != nil {
		return 0, fmt.Errorf("prepare query: %w", err)
	}
	return c.predict(ctx, training, query)
}

func (c *Classifier) predict(ctx context.Context, training []*distance.Gaussian, query *distance.Gaussian) (int, error) {
	labels, err := c.Neighbors(ctx, training, query)
	if err != nil {
		return 0, err
	}
	return MajorityVote(labels), nil
}
