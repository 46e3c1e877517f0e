// Package date parses and compares the timestamps found in brokerage
// exports.
//
// Brokers disagree on everything about time: layouts, column splits (IG
// keeps date and time in separate columns), and offsets (eToro timestamps
// are probably some US timezone). Whatever time a source supplies is
// treated as UTC; the problem of what "same day" means for tax purposes is
// not one this engine can solve, and using the supplied wall time is the
// least surprising option.
package date

import (
	"fmt"
	"time"
)

// Layouts of the supported brokerage exports.
const (
	LayoutEtoro   = "02/01/2006 15:04:05" // eToro account statements
	LayoutIG      = "02-01-2006 15:04:05" // IG trade blotter, date + time columns joined
	LayoutIGUTC   = "2006-01-02T15:04:05" // IG transaction ledger DateUtc column
	LayoutSchwab  = "01/02/2006"          // Schwab CSVs, date only
	LayoutIbkr    = "2006-01-02"          // IBKR settle dates
	LayoutDayOnly = "2006-01-02"
)

// Parse parses a broker timestamp in the given layout, pinned to UTC.
func Parse(layout, s string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q for layout %q: %w", s, layout, err)
	}
	return t, nil
}

// MustParse is like Parse but panics on error. For tests and literals.
func MustParse(layout, s string) time.Time {
	t, err := Parse(layout, s)
	if err != nil {
		panic(err.Error())
	}
	return t
}

// AlmostEqual reports whether two timestamps are within offset of each
// other. Brokers occasionally disagree with themselves by a second between
// two views of the same event, so exact equality is too strict for
// cross-table consistency checks.
func AlmostEqual(a, b time.Time, offset time.Duration) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= offset
}
