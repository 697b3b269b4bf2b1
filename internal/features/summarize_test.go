package features

import (
	"errors"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSummarizeMeanAndCovariance(t *testing.T) {
	frames := mat.NewDense(4, 2, []float64{
		1, 2,
		3, 6,
		5, 10,
		7, 14,
	})

	rec, err := Summarize(frames, 3)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if rec.Label != 3 {
		t.Fatalf("label = %d, want 3", rec.Label)
	}
	if rec.Mean[0] != 4 || rec.Mean[1] != 8 {
		t.Fatalf("mean = %v, want [4 8]", rec.Mean)
	}

	// Unbiased covariance: var(x) = 20/3, cov(x, 2x) = 40/3, var(2x) = 80/3.
	want := [][]float64{{20.0 / 3, 40.0 / 3}, {40.0 / 3, 80.0 / 3}}
	for i := range 2 {
		for j := range 2 {
			if got := rec.Covariance.At(i, j); math.Abs(got-want[i][j]) > 1e-12 {
				t.Fatalf("cov[%d][%d] = %v, want %v", i, j, got, want[i][j])
			}
		}
	}
}

func TestSummarizeRejectsSingleFrame(t *testing.T) {
	_, err := Summarize(mat.NewDense(1, 3, []float64{1, 2, 3}), 1)
	if !errors.Is(err, ErrTooFewFrames) {
		t.Fatalf("expected ErrTooFewFrames, got %v", err)
	}
}

func TestSummarizeRejectsNonPositiveLabel(t *testing.T) {
	frames := mat.NewDense(2, 1, []float64{1, 2})
	if _, err := Summarize(frames, 0); err == nil {
		t.Fatal("expected label validation error")
	}
}

func TestReadFramesCSV(t *testing.T) {
	input := "# frames x coefficients\n1.5, 2\n3,4.25\n\n-1,0\n"
	frames, err := ReadFramesCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadFramesCSV: %v", err)
	}
	r, c := frames.Dims()
	if r != 3 || c != 2 {
		t.Fatalf("dims = %dx%d, want 3x2", r, c)
	}
	if frames.At(0, 0) != 1.5 || frames.At(1, 1) != 4.25 || frames.At(2, 0) != -1 {
		t.Fatalf("unexpected values: %v", mat.Formatted(frames))
	}
}

func TestReadFramesCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"ragged", "1,2\n3\n"},
		{"not a number", "1,abc\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadFramesCSV(strings.NewReader(tt.input)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRecordValidate(t *testing.T) {
	good := Record{Mean: []float64{0, 0}, Covariance: mat.NewDense(2, 2, []float64{1, 0, 0, 1}), Label: 1}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected valid record: %v", err)
	}

	tests := []struct {
		name string
		rec  Record
	}{
		{"empty mean", Record{Covariance: mat.NewDense(1, 1, []float64{1}), Label: 1}},
		{"missing covariance", Record{Mean: []float64{1}, Label: 1}},
		{"wrong covariance size", Record{Mean: []float64{1, 2}, Covariance: mat.NewDense(3, 3, nil), Label: 1}},
		{"zero label", Record{Mean: []float64{1}, Covariance: mat.NewDense(1, 1, []float64{1}), Label: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.rec.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCovarianceRowsRoundTrip(t *testing.T) {
	rows := [][]float64{{2, 0.5}, {0.5, 3}}
	cov, err := CovarianceFromRows(rows)
	if err != nil {
		t.Fatalf("CovarianceFromRows: %v", err)
	}
	rec := Record{Mean: []float64{0, 0}, Covariance: cov, Label: 1}
	got := rec.CovarianceRows()
	for i := range rows {
		for j := range rows[i] {
			if got[i][j] != rows[i][j] {
				t.Fatalf("row %d col %d = %v, want %v", i, j, got[i][j], rows[i][j])
			}
		}
	}

	if _, err := CovarianceFromRows([][]float64{{1, 2}, {3}}); err == nil {
		t.Fatal("expected ragged rows error")
	}
}

func TestWithAuxLength(t *testing.T) {
	rec := Record{Mean: []float64{1}}
	filled := rec.WithAuxLength(4)
	if len(filled.Aux) != 4 {
		t.Fatalf("aux length = %d, want 4", len(filled.Aux))
	}
	for _, v := range filled.Aux {
		if v != 0 {
			t.Fatalf("expected zero aux, got %v", filled.Aux)
		}
	}
	withAux := Record{Mean: []float64{1}, Aux: []float64{1, 2}}
	if got := withAux.WithAuxLength(4); len(got.Aux) != 2 {
		t.Fatalf("existing aux should be kept, got %v", got.Aux)
	}
}
