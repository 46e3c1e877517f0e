package ibkr

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledgerconv/ledgerconv/date"
	"github.com/ledgerconv/ledgerconv/tabular"
)

// sectionHeader matches the first cell pattern that starts a new table
// inside an activity statement. Every line of a statement belongs to some
// section and repeats the section name in its first cell.
var sectionHeader = regexp.MustCompile(`^([^,]+),Header,`)

// Section is one table of an activity statement. The same name can occur
// more than once (the Trades section restarts per asset class).
type Section struct {
	Name  string
	Table *tabular.Table
}

// Split cuts an activity statement into its sections. The file is a
// concatenation of CSV tables, each introduced by a `<name>,Header,` line
// and often starting with a byte order mark.
func Split(r io.Reader) ([]Section, error) {
	var sections []Section
	var name string
	var lines strings.Builder

	flush := func() error {
		if name == "" {
			return nil
		}
		t, err := tabular.Read(strings.NewReader(lines.String()))
		if err != nil {
			return fmt.Errorf("section %q: %w", name, err)
		}
		sections = append(sections, Section{Name: name, Table: t})
		return nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		if m := sectionHeader.FindStringSubmatch(line); m != nil {
			if err := flush(); err != nil {
				return nil, err
			}
			name = m[1]
			lines.Reset()
		}
		lines.WriteString(line)
		lines.WriteString("\n")
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return sections, nil
}

// LoadStatement reads an activity statement and extracts the sections this
// engine reconciles. Subtotal rows, which repeat the word Total in the
// currency column, are dropped.
func LoadStatement(r io.Reader) (Statement, error) {
	sections, err := Split(r)
	if err != nil {
		return Statement{}, fmt.Errorf("reading activity statement: %w", err)
	}

	var st Statement
	for _, s := range sections {
		switch s.Name {
		case "Deposits & Withdrawals":
			rows, err := loadCash(s.Table)
			if err != nil {
				return Statement{}, fmt.Errorf("section %q: %w", s.Name, err)
			}
			st.Cash = append(st.Cash, rows...)
		case "Fees":
			rows, err := loadFees(s.Table)
			if err != nil {
				return Statement{}, fmt.Errorf("section %q: %w", s.Name, err)
			}
			st.Fees = append(st.Fees, rows...)
		}
	}
	return st, nil
}

func loadCash(t *tabular.Table) ([]CashRow, error) {
	if err := t.Require("Currency", "Settle Date", "Description", "Amount"); err != nil {
		return nil, err
	}
	var rows []CashRow
	for _, row := range t.Rows() {
		if isTotal(row.Text("Currency")) {
			continue
		}
		c := CashRow{
			Index:       row.N(),
			Currency:    row.Text("Currency"),
			Description: row.Text("Description"),
		}
		var err error
		if c.SettleDate, err = date.Parse(date.LayoutIbkr, row.Text("Settle Date")); err != nil {
			return nil, fmt.Errorf("row %d: %w", row.N(), err)
		}
		if c.Amount, err = row.Dec("Amount"); err != nil {
			return nil, err
		}
		rows = append(rows, c)
	}
	return rows, nil
}

func loadFees(t *tabular.Table) ([]FeeRow, error) {
	if err := t.Require("Subtitle", "Currency", "Date", "Description", "Amount"); err != nil {
		return nil, err
	}
	var rows []FeeRow
	for _, row := range t.Rows() {
		if isTotal(row.Text("Currency")) || isTotal(row.Text("Subtitle")) {
			continue
		}
		f := FeeRow{
			Index:       row.N(),
			Subtitle:    row.Text("Subtitle"),
			Currency:    row.Text("Currency"),
			Description: row.Text("Description"),
		}
		var err error
		if f.Date, err = date.Parse(date.LayoutIbkr, row.Text("Date")); err != nil {
			return nil, fmt.Errorf("row %d: %w", row.N(), err)
		}
		if f.Amount, err = row.Dec("Amount"); err != nil {
			return nil, err
		}
		rows = append(rows, f)
	}
	return rows, nil
}

func isTotal(s string) bool {
	return strings.HasPrefix(s, "Total")
}
