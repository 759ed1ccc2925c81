// Package dataset provides the tabular model and the treatment transforms
// (concat, dedup, language filter, exclusion filter, coverage) the study
// pipelines share. Columns are dynamic and user-named; nothing here assumes
// a fixed schema
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	perr "edgeminer/internal/platform/errors"
)

// Table is an ordered-columns view over CSV records
type Table struct {
	Columns []string
	Rows    [][]string
}

// New returns an empty table with the given header
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of data rows
func (t *Table) Len() int { return len(t.Rows) }

// Col returns the index of a named column, or -1 when missing
func (t *Table) Col(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns row[col] or "" when the index is out of range
func (t *Table) Value(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// Append adds a row, padding or truncating it to the header width
func (t *Table) Append(row []string) {
	switch {
	case len(row) < len(t.Columns):
		padded := make([]string, len(t.Columns))
		copy(padded, row)
		t.Rows = append(t.Rows, padded)
	case len(row) > len(t.Columns):
		t.Rows = append(t.Rows, row[:len(t.Columns)])
	default:
		t.Rows = append(t.Rows, row)
	}
}

// Read parses CSV from r. The first record is the header; a UTF-8 BOM on
// the first column name is stripped. Short or long rows are tolerated
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, perr.CSVErrf("empty csv input")
	}
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeCSV, "read csv header")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := New(header...)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeCSV, "read csv row")
		}
		t.Append(rec)
	}
	return t, nil
}

// ReadFile reads a CSV table from disk
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "open csv %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Write emits the table as CSV
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeCSV, "write csv header")
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeCSV, "write csv row")
		}
	}
	cw.Flush()
	return perr.WrapIf(cw.Error(), perr.ErrorCodeCSV, "flush csv")
}

// WriteFile writes the table to path, creating parent directories
func (t *Table) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "mkdir %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "create %s", path)
	}
	if err := t.Write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Timestamp returns the filename timestamp used by every output writer
func Timestamp() string {
	return time.Now().Format("2006-01-02_150405")
}
