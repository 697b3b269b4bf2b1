package knn

import (
	"context"
	"fmt"
	"slices"
	"time"

	"timbre/internal/distance"
	"timbre/internal/features"
	"timbre/internal/logging"
)

// Report summarizes an evaluation.
type Report struct {
	Total    int
	Correct  int
	Accuracy float64
	// Confusion counts predictions per actual label: Confusion[actual][predicted].
	Confusion map[int]map[int]int
}

// Labels returns every label seen as actual or predicted, ascending.
func (r *Report) Labels() []int {
	seen := make(map[int]struct{})
	for actual, row := range r.Confusion {
		seen[actual] = struct{}{}
		for predicted := range row {
			seen[predicted] = struct{}{}
		}
	}
	labels := make([]int, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}

// Support returns the number of evaluated instances whose actual label is label.
func (r *Report) Support(label int) int {
	total := 0
	for _, n := range r.Confusion[label] {
		total += n
	}
	return total
}

// Recall returns the fraction of label's instances predicted as label, or 0
// when label has no instances.
func (r *Report) Recall(label int) float64 {
	support := r.Support(label)
	if support == 0 {
		return 0
	}
	return float64(r.Confusion[label][label]) / float64(support)
}

// Evaluate returns the fraction of testSet predicted correctly. A nil
// testSet evaluates the loaded test partition.
func (c *Classifier) Evaluate(ctx context.Context, testSet []features.Record) (float64, error) {
	report, err := c.EvaluateReport(ctx, testSet)
	if err != nil {
		return 0, err
	}
	return report.Accuracy, nil
}

// EvaluateReport is Evaluate with the full confusion matrix.
func (c *Classifier) EvaluateReport(ctx context.Context, testSet []features.Record) (*Report, error) {
	training, loadedTest, err := c.snapshot()
	if err != nil {
		return nil, err
	}

	queries := loadedTest
	if testSet != nil {
		queries = make([]*distance.Gaussian, len(testSet))
		for i, rec := range testSet {
			g, err := distance.Prepare(rec)
			if err != nil {
				return nil, fmt.Errorf("prepare test instance %d: %w", i, err)
			}
			queries[i] = g
		}
	}
	if len(queries) == 0 {
		return nil, ErrEmptyTestSet
	}

	started := time.Now()
	report := &Report{Total: len(queries), Confusion: make(map[int]map[int]int)}
	for i, query := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		predicted, err := c.predict(ctx, training, query)
		if err != nil {
			return nil, fmt.Errorf("test instance %d: %w", i, err)
		}
		actual := query.Label()
		if predicted == actual {
			report.Correct++
		}
		row := report.Confusion[actual]
		if row == nil {
			row = make(map[int]int)
			report.Confusion[actual] = row
		}
		row[predicted]++
		c.report(i+1, len(queries))
	}
	report.Accuracy = float64(report.Correct) / float64(report.Total)

	logging.WithContext(ctx, c.logger).Info("evaluation complete",
		logging.Int("total", report.Total),
		logging.Int("correct", report.Correct),
		logging.Float64("accuracy", report.Accuracy),
		logging.Duration("elapsed", time.Since(started)),
	)
	return report, nil
}

// PredictAll classifies every record in order.
func (c *Classifier) PredictAll(ctx context.Context, records []features.Record) ([]int, error) {
	training, _, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	predictions := make([]int, len(records))
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		query, err := distance.Prepare(rec)
		if err != nil {
			return nil, fmt.Errorf("prepare record %d: %w", i, err)
		}
		if predictions[i], err = c.predict(ctx, training, query); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		c.report(i+1, len(records))
	}
	return predictions, nil
}

// Dominant predicts every record and returns the majority-voted label (0 for
// no records) together with the per-record predictions.
func (c *Classifier) Dominant(ctx context.Context, records []features.Record) (int, []int, error) {
	predictions, err := c.PredictAll(ctx, records)
	if err != nil {
		return 0, nil, err
	}
	return MajorityVote(predictions), predictions, nil
}

func (c *Classifier) report(done, total int) {
	if c.progress != nil {
		c.progress(done, total)
	}
}
