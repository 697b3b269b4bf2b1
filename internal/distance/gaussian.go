package distance

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"timbre/internal/features"
)

// Gaussian is a feature record with its covariance inverse and
// log-determinant precomputed. It is immutable after Prepare.
type Gaussian struct {
	record features.Record
	mean   *mat.VecDense
	inv    *mat.Dense
	logDet float64
}

// Prepare factorizes the record's covariance. It fails when the covariance is
// not D×D, numerically singular, or has a non-positive determinant.
func Prepare(rec features.Record) (*Gaussian, error) {
	d := len(rec.Mean)
	if d == 0 {
		return nil, &DimensionMismatchError{Field: "mean", Got: 0, Want: 1}
	}
	if rec.Covariance == nil {
		return nil, &DimensionMismatchError{Field: "covariance", Got: 0, Want: d}
	}
	rows, cols := rec.Covariance.Dims()
	if rows != cols {
		return nil, &DimensionMismatchError{Field: "covariance columns", Got: cols, Want: rows}
	}
	if rows != d {
		return nil, &DimensionMismatchError{Field: "covariance", Got: rows, Want: d}
	}

	var lu mat.LU
	lu.Factorize(rec.Covariance)
	if cond := lu.Cond(); math.IsInf(cond, 1) || math.IsNaN(cond) || cond > mat.ConditionTolerance {
		return nil, &SingularCovarianceError{Condition: cond}
	}
	logDet, sign := lu.LogDet()
	if sign <= 0 {
		return nil, &NonPositiveDeterminantError{Sign: sign}
	}

	// Solving against the identity reuses the factorization for the inverse.
	ones := make([]float64, d)
	for i := range ones {
		ones[i] = 1
	}
	inv := mat.NewDense(d, d, nil)
	if err := lu.SolveTo(inv, false, mat.NewDiagDense(d, ones)); err != nil {
		return nil, &SingularCovarianceError{Condition: lu.Cond(), Err: err}
	}

	return &Gaussian{
		record: rec,
		mean:   mat.NewVecDense(d, append([]float64(nil), rec.Mean...)),
		inv:    inv,
		logDet: logDet,
	}, nil
}

// MustPrepare is Prepare for fixtures known to be well conditioned.
func MustPrepare(rec features.Record) *Gaussian {
	g, err := Prepare(rec)
	if err != nil {
		panic(err)
	}
	return g
}

// Record returns the underlying feature record.
func (g *Gaussian) Record() features.Record { return g.record }

// Label returns the record's genre label.
func (g *Gaussian) Label() int { return g.record.Label }

// Dim returns the feature dimension.
func (g *Gaussian) Dim() int { return len(g.record.Mean) }

// LogDet returns ln(det(covariance)).
func (g *Gaussian) LogDet() float64 { return g.logDet }
