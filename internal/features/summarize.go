package features

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrTooFewFrames reports a frame matrix that cannot yield a sample covariance.
var ErrTooFewFrames = errors.New("at least two frames are required")

// Summarize reduces a frame matrix (rows are time frames, columns are
// coefficients) to its column-wise mean and unbiased covariance.
func Summarize(frames mat.Matrix, label int) (Record, error) {
	if frames == nil {
		return Record{}, fmt.Errorf("summarize: %w", ErrTooFewFrames)
	}
	n, d := frames.Dims()
	if n < 2 {
		return Record{}, fmt.Errorf("summarize: %w (got %d)", ErrTooFewFrames, n)
	}
	if d == 0 {
		return Record{}, errors.New("summarize: frame matrix has no coefficients")
	}

	mean := make([]float64, d)
	col := make([]float64, n)
	for j := range d {
		mat.Col(col, j, frames)
		mean[j] = stat.Mean(col, nil)
	}

	var sym mat.SymDense
	stat.CovarianceMatrix(&sym, frames, nil)
	cov := mat.NewDense(d, d, nil)
	cov.Copy(&sym)

	rec := Record{Mean: mean, Covariance: cov, Label: label}
	if err := rec.Validate(); err != nil {
		return Record{}, fmt.Errorf("summarize: %w", err)
	}
	return rec, nil
}

// ReadFramesCSV parses a frame×coefficient matrix. Blank lines and lines
// starting with '#' are ignored. Every row must have the same column count.
func ReadFramesCSV(r io.Reader) (*mat.Dense, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true

	var (
		data []float64
		cols int
		rows int
	)
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read frames: %w", err)
		}
		if rows == 0 {
			cols = len(fields)
		}
		for j, field := range fields {
			value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("read frames: row %d column %d: %w", rows+1, j+1, err)
			}
			data = append(data, value)
		}
		rows++
	}
	if rows == 0 {
		return nil, fmt.Errorf("read frames: %w (got 0)", ErrTooFewFrames)
	}
	return mat.NewDense(rows, cols, data), nil
}
