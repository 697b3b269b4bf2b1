package dataset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/mat"

	"timbre/internal/features"
)

func testRecord(label int, mean ...float64) features.Record {
	d := len(mean)
	cov := mat.NewDense(d, d, nil)
	for i := range d {
		cov.Set(i, i, 1+float64(i)/3)
	}
	return features.Record{Mean: mean, Covariance: cov, Label: label}
}

func TestAppendLoadRoundTripIsBitExact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.dat")
	ctx := context.Background()

	first := testRecord(1, 0.1, 1.0/3, math.Pi)
	first.Covariance.Set(0, 2, 1e-300)
	first.Covariance.Set(2, 0, 1e-300)
	second := testRecord(2, -2.5, math.SmallestNonzeroFloat64, 7)
	second.Aux = []float64{0.2, 0.3}

	if err := Append(ctx, path, first); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := Append(ctx, path, second); err != nil {
		t.Fatalf("Append: %v", err)
	}

	ds, err := Load(ctx, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Len() != 2 || len(ds.Issues) != 0 {
		t.Fatalf("got %d records and issues %v", ds.Len(), ds.Issues)
	}
	if ds.Dim != 3 || ds.AuxLen != 2 {
		t.Fatalf("dim %d aux %d, want 3 and 2", ds.Dim, ds.AuxLen)
	}

	for i, want := range []features.Record{first, second} {
		got := ds.Records[i]
		if got.Label != want.Label {
			t.Fatalf("record %d label = %d, want %d", i, got.Label, want.Label)
		}
		for j := range want.Mean {
			if got.Mean[j] != want.Mean[j] {
				t.Fatalf("record %d mean[%d] = %v, want %v", i, j, got.Mean[j], want.Mean[j])
			}
		}
		if !mat.Equal(got.Covariance, want.Covariance) {
			t.Fatalf("record %d covariance differs:\n%v", i, mat.Formatted(got.Covariance))
		}
	}
	// The 3-field record is zero-filled to the established aux length.
	if aux := ds.Records[0].Aux; len(aux) != 2 || aux[0] != 0 || aux[1] != 0 {
		t.Fatalf("expected zero aux, got %v", aux)
	}
	if aux := ds.Records[1].Aux; aux[0] != 0.2 || aux[1] != 0.3 {
		t.Fatalf("aux = %v", aux)
	}
}

func TestCreateTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.dat")
	ctx := context.Background()
	if err := Append(ctx, path, testRecord(1, 1), testRecord(2, 2)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := Create(ctx, path, testRecord(3, 3)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	ds, err := Load(ctx, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Len() != 1 || ds.Records[0].Label != 3 {
		t.Fatalf("expected single record with label 3, got %+v", ds.Records)
	}
}

func TestAppendRejectsInvalidRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.dat")
	bad := features.Record{Mean: []float64{1}, Label: 1}
	if err := Append(context.Background(), path, bad); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected no file after rejected append, got %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dat")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Len() != 0 || len(ds.Issues) != 0 {
		t.Fatalf("expected empty dataset, got %+v", ds)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.dat"))
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if loadErr.Index != -1 || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("unexpected load error: %v", loadErr)
	}
}

func TestParseTruncatedStream(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for _, rec := range []features.Record{testRecord(1, 1, 2), testRecord(2, 3, 4)} {
		if err := enc.Encode(rec); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}
	data := buf.Bytes()[:buf.Len()-3]

	_, err := Parse(bytes.NewReader(data))
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if loadErr.Index != 1 {
		t.Fatalf("expected failure at record 1, got %d", loadErr.Index)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}
}

func TestParseRejectsBadArity(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.Encode([]any{[]float64{1}, 2}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, err := Parse(&buf)
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestParseRejectsNonArray(t *testing.T) {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode("not a record"); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := Parse(&buf); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestParseSkipsMismatchedRecords(t *testing.T) {
	withAux := testRecord(1, 1, 2)
	withAux.Aux = []float64{1, 1, 1}
	wrongAux := testRecord(2, 3, 4)
	wrongAux.Aux = []float64{1}
	zeroLabel := testRecord(1, 1, 1)
	zeroLabel.Label = 0

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for _, rec := range []features.Record{
		testRecord(1, 0, 0),
		testRecord(2, 1, 2, 3),
		withAux,
		wrongAux,
		testRecord(3, 5, 6),
	} {
		if err := enc.Encode(rec); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}
	// Bypass Encode's validation for a record with an invalid label.
	raw := msgpack.NewEncoder(&buf)
	if err := raw.Encode([]any{zeroLabel.Mean, zeroLabel.CovarianceRows(), 0}); err != nil {
		t.Fatalf("encode raw: %v", err)
	}
	// Ragged covariance rows.
	if err := raw.Encode([]any{[]float64{1, 2}, [][]float64{{1, 0}, {0}}, 2}); err != nil {
		t.Fatalf("encode raw: %v", err)
	}

	ds, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("expected 3 accepted records, got %d", ds.Len())
	}
	if ds.Total != 7 {
		t.Fatalf("total = %d, want 7", ds.Total)
	}
	wantSkipped := []int{1, 3, 5, 6}
	if len(ds.Issues) != len(wantSkipped) {
		t.Fatalf("issues = %v, want indices %v", ds.Issues, wantSkipped)
	}
	for i, idx := range wantSkipped {
		if ds.Issues[i].Index != idx {
			t.Fatalf("issue %d index = %d, want %d", i, ds.Issues[i].Index, idx)
		}
	}
	var mismatch *DimensionMismatchError
	if !errors.As(ds.Issues[0], &mismatch) || mismatch.Field != "mean" {
		t.Fatalf("expected mean mismatch, got %v", ds.Issues[0])
	}
	if !errors.As(ds.Issues[1], &mismatch) || mismatch.Field != "aux" {
		t.Fatalf("expected aux mismatch, got %v", ds.Issues[1])
	}
	for _, rec := range ds.Records {
		if len(rec.Aux) != 3 {
			t.Fatalf("expected aux length 3, got %v", rec.Aux)
		}
	}
}

func TestLabelsAndCounts(t *testing.T) {
	ds := &Dataset{Records: []features.Record{testRecord(3, 1), testRecord(1, 1), testRecord(3, 2)}}
	labels := ds.Labels()
	if len(labels) != 2 || labels[0] != 1 || labels[1] != 3 {
		t.Fatalf("labels = %v", labels)
	}
	if ds.LabelCounts()[3] != 2 {
		t.Fatalf("counts = %v", ds.LabelCounts())
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	ok, err := Exists(filepath.Join(dir, "missing.dat"))
	if err != nil || ok {
		t.Fatalf("Exists(missing) = %v, %v", ok, err)
	}
	path := filepath.Join(dir, "present.dat")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if ok, err := Exists(path); err != nil || !ok {
		t.Fatalf("Exists(present) = %v, %v", ok, err)
	}
}

func TestFromRecordsTracksIndices(t *testing.T) {
	ds := FromRecords([]features.Record{
		testRecord(1, 0, 0),
		testRecord(2, 1),
		testRecord(2, 3, 4),
	})
	if ds.Len() != 2 || len(ds.Issues) != 1 {
		t.Fatalf("got %d records, issues %v", ds.Len(), ds.Issues)
	}
	if ds.Indices[0] != 0 || ds.Indices[1] != 2 {
		t.Fatalf("indices = %v, want [0 2]", ds.Indices)
	}
	if ds.Total != 3 {
		t.Fatalf("total = %d, want 3", ds.Total)
	}
}
