package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strconv"

	"timbre/internal/features"
)

// Dataset is the validated content of a record store.
type Dataset struct {
	Path    string
	Records []features.Record
	// Indices holds the stream position of each accepted record.
	Indices []int
	// Total counts every record in the stream, accepted or skipped.
	Total int
	// Issues lists records that were skipped, in stream order.
	Issues []Issue
	// Dim is the feature dimension of every accepted record.
	Dim int
	// AuxLen is the aux length of every accepted record, 0 when no record
	// carries aux.
	AuxLen int
}

// Len returns the number of accepted records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// LabelCounts returns the number of accepted records per label.
func (d *Dataset) LabelCounts() map[int]int {
	counts := make(map[int]int)
	if d == nil {
		return counts
	}
	for _, rec := range d.Records {
		counts[rec.Label]++
	}
	return counts
}

// Labels returns the distinct labels in ascending order.
func (d *Dataset) Labels() []int {
	counts := d.LabelCounts()
	labels := make([]int, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}

// Load reads and validates the store at path under a shared lock. A missing
// file or an undecodable stream is a *LoadError; an empty file yields an
// empty dataset.
func Load(ctx context.Context, path string) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &LoadError{Path: path, Index: -1, Err: err}
	}

	unlock, err := acquire(ctx, path, false)
	if err != nil {
		return nil, &LoadError{Path: path, Index: -1, Err: err}
	}
	defer unlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Index: -1, Err: err}
	}
	defer f.Close()

	ds, err := Parse(f)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
		}
		return nil, err
	}
	ds.Path = path
	return ds, nil
}

// Parse decodes and validates a record stream. The first accepted record
// fixes the dataset dimension; the first record carrying aux fixes the aux
// length. Records that disagree are skipped and reported as Issues. Records
// without aux are zero-filled to the aux length.
func Parse(r io.Reader) (*Dataset, error) {
	dec := NewDecoder(r)
	ds := &Dataset{}
	for index := 0; ; index++ {
		rec, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var mismatch *DimensionMismatchError
			if errors.As(err, &mismatch) {
				ds.Issues = append(ds.Issues, Issue{Index: index, Err: err})
				continue
			}
			return nil, &LoadError{Index: index, Err: err}
		}
		if err := ds.accept(rec); err != nil {
			ds.Issues = append(ds.Issues, Issue{Index: index, Err: err})
			continue
		}
		ds.Records = append(ds.Records, rec)
		ds.Indices = append(ds.Indices, index)
	}
	ds.Total = dec.Index()
	ds.fillAux()
	return ds, nil
}

// FromRecords validates in-memory records with the same rules as Parse.
func FromRecords(records []features.Record) *Dataset {
	ds := &Dataset{Total: len(records)}
	for index, rec := range records {
		if err := ds.accept(rec); err != nil {
			ds.Issues = append(ds.Issues, Issue{Index: index, Err: err})
			continue
		}
		ds.Records = append(ds.Records, rec)
		ds.Indices = append(ds.Indices, index)
	}
	ds.fillAux()
	return ds
}

func (d *Dataset) fillAux() {
	if d.AuxLen == 0 {
		return
	}
	for i := range d.Records {
		d.Records[i] = d.Records[i].WithAuxLength(d.AuxLen)
	}
}

func (d *Dataset) accept(rec features.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if d.Dim == 0 {
		d.Dim = rec.Dim()
	} else if rec.Dim() != d.Dim {
		return &DimensionMismatchError{
			Field: "mean",
			Got:   strconv.Itoa(rec.Dim()),
			Want:  strconv.Itoa(d.Dim),
		}
	}
	if n := len(rec.Aux); n > 0 {
		if d.AuxLen == 0 {
			d.AuxLen = n
		} else if n != d.AuxLen {
			return &DimensionMismatchError{
				Field: "aux",
				Got:   strconv.Itoa(n),
				Want:  strconv.Itoa(d.AuxLen),
			}
		}
	}
	return nil
}

// Exists reports whether a store exists at path.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat dataset: %w", err)
}
