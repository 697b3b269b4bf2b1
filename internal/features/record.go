package features

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Record is the Gaussian feature summary of one audio clip.
type Record struct {
	Mean       []float64
	Covariance *mat.Dense
	// Aux is the optional auxiliary state summary. Empty means absent and is
	// treated as a zero vector by the distance.
	Aux   []float64
	Label int
}

// Dim returns the feature dimension D.
func (r Record) Dim() int {
	return len(r.Mean)
}

// Validate checks the record's internal shape: a non-empty mean, a D×D
// covariance, and a positive label.
func (r Record) Validate() error {
	d := len(r.Mean)
	if d == 0 {
		return fmt.Errorf("mean: empty vector")
	}
	if r.Covariance == nil {
		return fmt.Errorf("covariance: missing")
	}
	rows, cols := r.Covariance.Dims()
	if rows != d || cols != d {
		return fmt.Errorf("covariance: got %dx%d, want %dx%d", rows, cols, d, d)
	}
	if r.Label < 1 {
		return fmt.Errorf("label: must be positive, got %d", r.Label)
	}
	return nil
}

// WithAuxLength returns a copy whose Aux is zero-filled to n entries when it
// was absent. A non-empty Aux is returned unchanged.
func (r Record) WithAuxLength(n int) Record {
	if len(r.Aux) > 0 || n == 0 {
		return r
	}
	r.Aux = make([]float64, n)
	return r
}

// CovarianceRows returns the covariance as row slices.
func (r Record) CovarianceRows() [][]float64 {
	if r.Covariance == nil {
		return nil
	}
	rows, _ := r.Covariance.Dims()
	out := make([][]float64, rows)
	for i := range rows {
		out[i] = mat.Row(nil, i, r.Covariance)
	}
	return out
}

// CovarianceFromRows builds a dense covariance from row slices. All rows must
// share the length of the first row.
func CovarianceFromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("covariance: no rows")
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, fmt.Errorf("covariance: empty row")
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("covariance: row %d has %d columns, want %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}
