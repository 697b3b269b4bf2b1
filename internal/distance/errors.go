package distance

import "fmt"

// SingularCovarianceError reports a covariance that cannot be inverted.
type SingularCovarianceError struct {
	Condition float64
	Err       error
}

func (e *SingularCovarianceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("singular covariance (condition %g): %v", e.Condition, e.Err)
	}
	return fmt.Sprintf("singular covariance (condition %g)", e.Condition)
}

func (e *SingularCovarianceError) Unwrap() error { return e.Err }

// NonPositiveDeterminantError reports a covariance whose determinant is zero
// or negative, which leaves its logarithm undefined.
type NonPositiveDeterminantError struct {
	Sign float64
}

func (e *NonPositiveDeterminantError) Error() string {
	if e.Sign == 0 {
		return "covariance determinant is zero"
	}
	return "covariance determinant is negative"
}

// DimensionMismatchError reports vectors or matrices of incompatible shape.
type DimensionMismatchError struct {
	Field string
	Got   int
	Want  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s dimension mismatch: got %d, want %d", e.Field, e.Got, e.Want)
}

// NonFiniteDistanceError reports a distance that evaluated to NaN or ±Inf.
type NonFiniteDistanceError struct {
	Value float64
}

func (e *NonFiniteDistanceError) Error() string {
	return fmt.Sprintf("distance is not finite: %v", e.Value)
}
