// Package source reads the tabular puzzle corpus.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// Reader yields raw puzzle records from a CSV stream. The first row is
// treated as the header and skipped.
type Reader struct {
	csv    *csv.Reader
	header []string
}

// New creates a reader and consumes the header row.
func New(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	return &Reader{
		csv:    cr,
		header: header,
	}, nil
}

// Header returns the corpus header row.
func (r *Reader) Header() []string {
	return r.header
}

// Next returns the next record or io.EOF at the end of the corpus.
// A malformed row yields an error but does not invalidate the reader,
// callers skip the row and continue.
func (r *Reader) Next() ([]string, error) {
	record, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("reading CSV record: %w", err)
	}
	return record, nil
}
