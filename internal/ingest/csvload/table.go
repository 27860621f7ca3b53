// Package csvload reads and writes the knowledge CSV format.
package csvload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kailas-cloud/supportqa/internal/domain"
)

const bom = "\ufeff"

// Row is one data line of a CSV table, addressed by header name.
type Row struct {
	Line   int
	fields map[string]string
}

// Get returns the trimmed value of column, or "" when the column is absent.
func (r Row) Get(column string) string {
	return r.fields[column]
}

// Has reports whether the row's table has column.
func (r Row) Has(column string) bool {
	_, ok := r.fields[column]
	return ok
}

// ReadTable reads a headed CSV table. Header names are trimmed and lowercased,
// a leading UTF-8 BOM is dropped, and every name in required must be present.
// Blank lines are skipped; short rows read missing cells as "".
func ReadTable(r io.Reader, required ...string) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty csv: missing header: %w", domain.ErrParse)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w: %w", domain.ErrParse, err)
	}

	columns := make([]string, len(header))
	present := make(map[string]bool, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, bom)
		}
		columns[i] = strings.ToLower(strings.TrimSpace(h))
		present[columns[i]] = true
	}
	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns %s: %w", strings.Join(missing, ", "), domain.ErrParse)
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &RowError{Line: pe.StartLine, Err: err}
			}
			return nil, fmt.Errorf("read csv: %w: %w", domain.ErrParse, err)
		}

		line, _ := cr.FieldPos(0)
		fields := make(map[string]string, len(columns))
		for i, col := range columns {
			if col == "" {
				continue
			}
			if i < len(rec) {
				fields[col] = strings.TrimSpace(rec[i])
			} else {
				fields[col] = ""
			}
		}
		rows = append(rows, Row{Line: line, fields: fields})
	}
}

// RowError reports the first malformed data row. It matches domain.ErrParse.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap exposes both domain.ErrParse and the underlying cause.
func (e *RowError) Unwrap() []error {
	return []error{domain.ErrParse, e.Err}
}
