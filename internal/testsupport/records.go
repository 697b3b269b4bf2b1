package testsupport

import (
	"context"
	"testing"

	"gonum.org/v1/gonum/mat"

	"timbre/internal/dataset"
	"timbre/internal/features"
)

// Record returns a record with an identity covariance centered on mean.
func Record(label int, mean ...float64) features.Record {
	d := len(mean)
	cov := mat.NewDense(d, d, nil)
	for i := range d {
		cov.Set(i, i, 1)
	}
	return features.Record{Mean: mean, Covariance: cov, Label: label}
}

// Clusters returns perLabel records for each label, centered at label*spread
// on the first axis with small deterministic offsets. Records interleave
// labels so any split keeps every label represented.
func Clusters(labels, perLabel, dim int, spread float64) []features.Record {
	var records []features.Record
	for i := range perLabel {
		for label := 1; label <= labels; label++ {
			mean := make([]float64, dim)
			mean[0] = float64(label) * spread
			for j := 1; j < dim; j++ {
				mean[j] = float64((i+j)%5) * 0.1
			}
			mean[0] += float64(i%3) * 0.05
			records = append(records, Record(label, mean...))
		}
	}
	return records
}

// WriteDataset replaces the store at path with records.
func WriteDataset(t testing.TB, path string, records ...features.Record) {
	t.Helper()
	if err := dataset.Create(context.Background(), path, records...); err != nil {
		t.Fatalf("write dataset %s: %v", path, err)
	}
}
