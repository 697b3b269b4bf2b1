package distance

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"timbre/internal/features"
)

// Engine computes distances between prepared Gaussians. Bias is subtracted
// from every one-way distance; the classifier sets it to its neighbor count.
type Engine struct {
	Bias float64
}

// NewEngine returns an engine whose bias equals the neighbor count k.
func NewEngine(k int) Engine {
	return Engine{Bias: float64(k)}
}

// OneWay returns the directional distance from a to b:
//
//	tr(Σb⁻¹Σa) + (μb−μa)ᵀ Σb⁻¹ (μb−μa) + ln|Σb| − ln|Σa| + ‖auxa−auxb‖² − Bias
func (e Engine) OneWay(a, b *Gaussian) (float64, error) {
	if a.Dim() != b.Dim() {
		return 0, &DimensionMismatchError{Field: "mean", Got: a.Dim(), Want: b.Dim()}
	}

	var product mat.Dense
	product.Mul(b.inv, a.record.Covariance)
	trace := mat.Trace(&product)

	diff := mat.NewVecDense(b.Dim(), nil)
	diff.SubVec(b.mean, a.mean)
	mahalanobis := mat.Inner(diff, b.inv, diff)

	logDetRatio := b.logDet - a.logDet

	aux, err := auxDistance(a.record.Aux, b.record.Aux)
	if err != nil {
		return 0, err
	}

	total := trace + mahalanobis + logDetRatio + aux - e.Bias
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, &NonFiniteDistanceError{Value: total}
	}
	return total, nil
}

// Symmetric returns OneWay(a, b) + OneWay(b, a).
func (e Engine) Symmetric(a, b *Gaussian) (float64, error) {
	ab, err := e.OneWay(a, b)
	if err != nil {
		return 0, err
	}
	ba, err := e.OneWay(b, a)
	if err != nil {
		return 0, err
	}
	return ab + ba, nil
}

// Distance prepares both records and returns their symmetric distance.
func (e Engine) Distance(a, b features.Record) (float64, error) {
	ga, err := Prepare(a)
	if err != nil {
		return 0, err
	}
	gb, err := Prepare(b)
	if err != nil {
		return 0, err
	}
	return e.Symmetric(ga, gb)
}

// auxDistance is the squared Euclidean distance between two auxiliary
// vectors. An empty vector stands for zeros of the other's length.
func auxDistance(a, b []float64) (float64, error) {
	switch {
	case len(a) == 0 && len(b) == 0:
		return 0, nil
	case len(a) == 0:
		return floats.Dot(b, b), nil
	case len(b) == 0:
		return floats.Dot(a, a), nil
	case len(a) != len(b):
		return 0, &DimensionMismatchError{Field: "aux", Got: len(a), Want: len(b)}
	}
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	return floats.Dot(diff, diff), nil
}
