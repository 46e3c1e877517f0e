package schwab

import (
	"fmt"
	"io"
	"sort"

	"github.com/ledgerconv/ledgerconv/date"
	"github.com/ledgerconv/ledgerconv/tabular"
)

// LoadBrokerageFile reads a brokerage transaction export. Amounts carry
// dollar signs and thousands separators; rows come back sorted by date.
func LoadBrokerageFile(r io.Reader) ([]BrokerageRow, error) {
	t, err := tabular.Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading brokerage file: %w", err)
	}
	if err := t.Require("Date", "Action", "Symbol", "Description", "Quantity", "Price", "Fees & Comm", "Amount"); err != nil {
		return nil, fmt.Errorf("brokerage file: %w", err)
	}

	var rows []BrokerageRow
	for _, row := range t.Rows() {
		b := BrokerageRow{
			Index:       row.N(),
			Action:      row.Text("Action"),
			Symbol:      row.Text("Symbol"),
			Description: row.Text("Description"),
		}
		if b.Date, err = date.Parse(date.LayoutSchwab, row.Text("Date")); err != nil {
			return nil, fmt.Errorf("brokerage file: row %d: %w", row.N(), err)
		}
		if b.Quantity, err = row.OptDec("Quantity"); err != nil {
			return nil, fmt.Errorf("brokerage file: %w", err)
		}
		if b.Price, err = row.OptDec("Price"); err != nil {
			return nil, fmt.Errorf("brokerage file: %w", err)
		}
		if b.Fees, err = row.OptDec("Fees & Comm"); err != nil {
			return nil, fmt.Errorf("brokerage file: %w", err)
		}
		if b.Amount, err = row.OptDec("Amount"); err != nil {
			return nil, fmt.Errorf("brokerage file: %w", err)
		}
		rows = append(rows, b)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}

// LoadEquityAwardsFile reads an equity-award export. Each vesting event
// occupies two physical rows: the first names the award, the second the
// settlement numbers. The pair is folded into one record.
func LoadEquityAwardsFile(r io.Reader) ([]EquityAwardRow, error) {
	t, err := tabular.Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading equity awards file: %w", err)
	}
	if err := t.Require("Date", "Action", "Symbol", "Description", "Quantity", "AwardDate",
		"FairMarketValuePrice", "SharesSoldWithheldForTaxes", "NetSharesDeposited", "Taxes"); err != nil {
		return nil, fmt.Errorf("equity awards file: %w", err)
	}
	all := t.Rows()
	if len(all)%2 != 0 {
		return nil, fmt.Errorf("equity awards file: expected paired rows, got %d rows", len(all))
	}

	var rows []EquityAwardRow
	for i := 0; i < len(all); i += 2 {
		head, tail := all[i], all[i+1]
		a := EquityAwardRow{
			Index:       head.N(),
			Action:      head.Text("Action"),
			Symbol:      head.Text("Symbol"),
			Description: head.Text("Description"),
		}
		if a.Date, err = date.Parse(date.LayoutSchwab, head.Text("Date")); err != nil {
			return nil, fmt.Errorf("equity awards file: row %d: %w", head.N(), err)
		}
		if a.Quantity, err = head.Dec("Quantity"); err != nil {
			return nil, fmt.Errorf("equity awards file: %w", err)
		}
		if a.AwardDate, err = date.Parse(date.LayoutSchwab, tail.Text("AwardDate")); err != nil {
			return nil, fmt.Errorf("equity awards file: row %d: %w", tail.N(), err)
		}
		if a.FairMarketValuePrice, err = tail.Dec("FairMarketValuePrice"); err != nil {
			return nil, fmt.Errorf("equity awards file: %w", err)
		}
		if a.SharesSoldWithheldForTaxes, err = tail.Dec("SharesSoldWithheldForTaxes"); err != nil {
			return nil, fmt.Errorf("equity awards file: %w", err)
		}
		if a.NetSharesDeposited, err = tail.Dec("NetSharesDeposited"); err != nil {
			return nil, fmt.Errorf("equity awards file: %w", err)
		}
		if a.Taxes, err = tail.Dec("Taxes"); err != nil {
			return nil, fmt.Errorf("equity awards file: %w", err)
		}
		rows = append(rows, a)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}

// LoadOptionsFile reads an option trade export.
func LoadOptionsFile(r io.Reader) ([]OptionRow, error) {
	t, err := tabular.Read(r)
	if err != nil {
		return nil, fmt.Errorf("reading options file: %w", err)
	}
	if err := t.Require("Date", "Action", "Symbol", "Description", "Quantity", "Proceeds",
		"Fees & Comm", "Cost Basis", "Realized P/L"); err != nil {
		return nil, fmt.Errorf("options file: %w", err)
	}

	var rows []OptionRow
	for _, row := range t.Rows() {
		o := OptionRow{
			Index:       row.N(),
			Action:      row.Text("Action"),
			Symbol:      row.Text("Symbol"),
			Description: row.Text("Description"),
		}
		if o.Date, err = date.Parse(date.LayoutSchwab, row.Text("Date")); err != nil {
			return nil, fmt.Errorf("options file: row %d: %w", row.N(), err)
		}
		if o.Quantity, err = row.Dec("Quantity"); err != nil {
			return nil, fmt.Errorf("options file: %w", err)
		}
		if o.Proceeds, err = row.Dec("Proceeds"); err != nil {
			return nil, fmt.Errorf("options file: %w", err)
		}
		if o.Commission, err = row.Dec("Fees & Comm"); err != nil {
			return nil, fmt.Errorf("options file: %w", err)
		}
		if o.Basis, err = row.Dec("Cost Basis"); err != nil {
			return nil, fmt.Errorf("options file: %w", err)
		}
		if o.RealizedPL, err = row.OptDec("Realized P/L"); err != nil {
			return nil, fmt.Errorf("options file: %w", err)
		}
		rows = append(rows, o)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}
