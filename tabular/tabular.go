// Package tabular reads broker CSV exports into column-addressed tables and
// parses their sloppy numerics: thousands separators, currency signs, "-"
// placeholders for missing values, Y/N booleans.
//
// It deliberately stops at typed cells. Turning rows into typed records is
// the loaders' job; reconciliation never touches this package.
package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// Table is one CSV table with a header row.
type Table struct {
	cols map[string]int
	rows [][]string
}

// Read parses a whole CSV table. Blank lines are skipped; rows may have
// fewer cells than the header (missing cells read as empty).
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty table: missing header row")
	}
	t := &Table{cols: make(map[string]int, len(records[0]))}
	for i, name := range records[0] {
		t.cols[strings.TrimSpace(stripBOM(name))] = i
	}
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

// ReadSkip is Read with the first skip lines of preamble discarded. Some
// exports prepend account metadata before the actual header row.
func ReadSkip(r io.Reader, skip int) (*Table, error) {
	br := bufio.NewReader(r)
	for i := 0; i < skip; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			return nil, fmt.Errorf("skipping preamble: %w", err)
		}
	}
	return Read(br)
}

// Has reports whether the table has a column with that header.
func (t *Table) Has(col string) bool { _, ok := t.cols[col]; return ok }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Reverse flips the row order in place. Some brokers export newest-first.
func (t *Table) Reverse() {
	for i, j := 0, len(t.rows)-1; i < j; i, j = i+1, j-1 {
		t.rows[i], t.rows[j] = t.rows[j], t.rows[i]
	}
}

// Row is one data row of a table.
type Row struct {
	t *Table
	n int // 0-based data row number
}

// Rows iterates the data rows in order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i := range t.rows {
		out[i] = Row{t: t, n: i}
	}
	return out
}

// N returns the 1-based row number in the source table, header excluded.
func (r Row) N() int { return r.n + 1 }

// Text returns the trimmed cell under col, with the "-" placeholder
// normalized to empty. Unknown columns and missing cells read as empty.
func (r Row) Text(col string) string {
	i, ok := r.t.cols[col]
	if !ok {
		return ""
	}
	row := r.t.rows[r.n]
	if i >= len(row) {
		return ""
	}
	s := strings.TrimSpace(row[i])
	if s == "-" || s == "--" {
		return ""
	}
	return s
}

// Dec parses the cell under col as a decimal, after removing thousands
// separators and currency signs. An empty cell is an error.
func (r Row) Dec(col string) (decimal.Decimal, error) {
	s := cleanNumber(r.Text(col))
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("row %d: column %q: missing number", r.N(), col)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("row %d: column %q: %w", r.N(), col, err)
	}
	return d, nil
}

// OptDec is like Dec but an empty cell yields an invalid NullDecimal.
func (r Row) OptDec(col string) (decimal.NullDecimal, error) {
	if cleanNumber(r.Text(col)) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := r.Dec(col)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// Bool parses the Y/N convention. Empty reads as false.
func (r Row) Bool(col string) (bool, error) {
	switch r.Text(col) {
	case "Y":
		return true, nil
	case "N", "":
		return false, nil
	default:
		return false, fmt.Errorf("row %d: column %q: want Y or N, got %q", r.N(), col, r.Text(col))
	}
}

// Require errors unless every named column exists.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if !t.Has(c) {
			return fmt.Errorf("missing column %q", c)
		}
	}
	return nil
}

func cleanNumber(s string) string {
	return strings.NewReplacer(",", "", "$", "").Replace(s)
}

// stripBOM drops a UTF-8 byte order mark; IBKR statements start with one.
func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
