package expense

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidInput indicates the input could not be parsed into a table at all:
// empty bytes, no header row, or malformed CSV. A table with a header but zero
// data rows is NOT invalid; it summarizes to a degenerate profile.
var ErrInvalidInput = errors.New("invalid input table")

// Row is one record keyed by the original header names.
type Row map[string]string

// Table is a parsed delimited export with an arbitrary, caller-defined schema.
// Headers preserves the original column order; Rows preserves record order.
type Table struct {
	Headers []string
	Rows    []Row
}

// ReadTable parses CSV bytes into a Table. The first record is treated as the
// header row. Short records are padded with empty fields so every row exposes
// every header.
func ReadTable(data []byte) (*Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("ReadTable: empty file: %w", ErrInvalidInput)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // bank exports are frequently ragged
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("ReadTable: reading header: %v: %w", err, ErrInvalidInput)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	t := &Table{Headers: headers, Rows: []Row{}}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ReadTable: reading record: %v: %w", err, ErrInvalidInput)
		}

		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// HasColumn reports whether the table carries the given header.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}
