package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"timbre/internal/features"
)

// Encoder writes records as MessagePack tuples.
type Encoder struct {
	enc *msgpack.Encoder
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: msgpack.NewEncoder(w)}
}

// Encode writes one record. Records without aux use the 3-element form.
func (e *Encoder) Encode(rec features.Record) error {
	fields := 3
	if len(rec.Aux) > 0 {
		fields = 4
	}
	if err := e.enc.EncodeArrayLen(fields); err != nil {
		return fmt.Errorf("encode record header: %w", err)
	}
	if err := e.enc.Encode(rec.Mean); err != nil {
		return fmt.Errorf("encode mean: %w", err)
	}
	if err := e.enc.Encode(rec.CovarianceRows()); err != nil {
		return fmt.Errorf("encode covariance: %w", err)
	}
	if fields == 4 {
		if err := e.enc.Encode(rec.Aux); err != nil {
			return fmt.Errorf("encode aux: %w", err)
		}
	}
	if err := e.enc.EncodeInt(int64(rec.Label)); err != nil {
		return fmt.Errorf("encode label: %w", err)
	}
	return nil
}

// Decoder reads MessagePack tuples back into records.
type Decoder struct {
	dec   *msgpack.Decoder
	index int
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	if _, ok := r.(io.ByteScanner); !ok {
		r = bufio.NewReader(r)
	}
	return &Decoder{dec: msgpack.NewDecoder(r)}
}

// Index returns the zero-based index of the next record to be decoded.
func (d *Decoder) Index() int { return d.index }

// Decode reads the next record. It returns io.EOF only at a clean boundary
// between records; a stream cut inside a record yields io.ErrUnexpectedEOF.
// The record's shape is not validated beyond what decoding requires.
func (d *Decoder) Decode() (features.Record, error) {
	if _, err := d.dec.PeekCode(); err != nil {
		if errors.Is(err, io.EOF) {
			return features.Record{}, io.EOF
		}
		return features.Record{}, err
	}
	defer func() { d.index++ }()

	n, err := d.dec.DecodeArrayLen()
	if err != nil {
		return features.Record{}, truncated(fmt.Errorf("%w: header: %w", ErrMalformedRecord, err))
	}
	if n != 3 && n != 4 {
		return features.Record{}, fmt.Errorf("%w: %d fields, want 3 or 4", ErrMalformedRecord, n)
	}

	var (
		rec  features.Record
		rows [][]float64
	)
	if err := d.dec.Decode(&rec.Mean); err != nil {
		return features.Record{}, truncated(fmt.Errorf("%w: mean: %w", ErrMalformedRecord, err))
	}
	if err := d.dec.Decode(&rows); err != nil {
		return features.Record{}, truncated(fmt.Errorf("%w: covariance: %w", ErrMalformedRecord, err))
	}
	if n == 4 {
		if err := d.dec.Decode(&rec.Aux); err != nil {
			return features.Record{}, truncated(fmt.Errorf("%w: aux: %w", ErrMalformedRecord, err))
		}
	}
	if rec.Label, err = d.dec.DecodeInt(); err != nil {
		return features.Record{}, truncated(fmt.Errorf("%w: label: %w", ErrMalformedRecord, err))
	}

	if len(rows) > 0 {
		cov, err := features.CovarianceFromRows(rows)
		if err != nil {
			return features.Record{}, &DimensionMismatchError{Field: "covariance", Got: err.Error(), Want: "rectangular rows"}
		}
		rec.Covariance = cov
	}
	return rec, nil
}

// truncated maps an EOF inside a record to io.ErrUnexpectedEOF so callers
// never mistake it for the end of the stream.
func truncated(err error) error {
	if errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", io.ErrUnexpectedEOF, err)
	}
	return err
}
