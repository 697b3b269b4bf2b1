package knn

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"timbre/internal/distance"
)

// minShardSize keeps tiny pools on a single goroutine.
const minShardSize = 32

// Neighbor is one ranked candidate.
type Neighbor struct {
	Label    int
	Distance float64
	// Index is the candidate's position in the pool.
	Index int
}

// Neighbors returns the labels of the k candidates closest to instance,
// nearest first.
func (c *Classifier) Neighbors(ctx context.Context, pool []*distance.Gaussian, instance *distance.Gaussian) ([]int, error) {
	ranked, err := c.RankNeighbors(ctx, pool, instance)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(ranked))
	for i, n := range ranked {
		labels[i] = n.Label
	}
	return labels, nil
}

// RankNeighbors returns the k candidates closest to instance by symmetric
// distance. Equal distances keep pool order.
func (c *Classifier) RankNeighbors(ctx context.Context, pool []*distance.Gaussian, instance *distance.Gaussian) ([]Neighbor, error) {
	if len(pool) < c.k {
		return nil, &InsufficientDataError{Pool: len(pool), K: c.k}
	}

	ranked := make([]Neighbor, len(pool))
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range shards(len(pool), c.workers) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := s.lo; i < s.hi; i++ {
				d, err := c.engine.Symmetric(pool[i], instance)
				if err != nil {
					return fmt.Errorf("candidate %d: %w", i, err)
				}
				ranked[i] = Neighbor{Label: pool[i].Label(), Distance: d, Index: i}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(ranked, func(a, b Neighbor) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return ranked[:c.k:c.k], nil
}

type shard struct{ lo, hi int }

func shards(n, workers int) []shard {
	if workers < 1 {
		workers = 1
	}
	workers = min(workers, (n+minShardSize-1)/minShardSize)
	if workers < 1 {
		return nil
	}
	size := (n + workers - 1) / workers
	out := make([]shard, 0, workers)
	for lo := 0; lo < n; lo += size {
		out = append(out, shard{lo: lo, hi: min(lo+size, n)})
	}
	return out
}
