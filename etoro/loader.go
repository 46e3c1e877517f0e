package etoro

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/ledgerconv/ledgerconv/date"
	"github.com/ledgerconv/ledgerconv/tabular"
)

// LoadStatement reads the CSV exports of the "Account Activity" and "Closed
// Positions" sheets into a typed statement. accountCurrency is the base
// currency from the statement's account summary; the converter rejects
// anything but USD.
func LoadStatement(activity, positions io.Reader, accountCurrency string) (Statement, error) {
	st := Statement{BaseCurrency: accountCurrency}

	at, err := tabular.Read(activity)
	if err != nil {
		return st, fmt.Errorf("account activity: %w", err)
	}
	if err := at.Require("Date", "Type", "Details", "Amount", "Units",
		"Realized Equity Change", "Realized Equity", "Balance", "Position ID", "Asset type", "NWA"); err != nil {
		return st, fmt.Errorf("account activity: %w", err)
	}
	for _, row := range at.Rows() {
		tx, err := loadTransaction(row)
		if err != nil {
			return st, fmt.Errorf("account activity: %w", err)
		}
		st.Transactions = append(st.Transactions, tx)
	}

	pt, err := tabular.Read(positions)
	if err != nil {
		return st, fmt.Errorf("closed positions: %w", err)
	}
	if err := pt.Require("Position ID", "Action", "Amount", "Units", "Open Date", "Close Date",
		"Leverage", "Profit", "Rollover Fees and Dividends", "Type"); err != nil {
		return st, fmt.Errorf("closed positions: %w", err)
	}
	for _, row := range pt.Rows() {
		pos, err := loadPosition(row)
		if err != nil {
			return st, fmt.Errorf("closed positions: %w", err)
		}
		st.Positions = append(st.Positions, pos)
	}

	return st, nil
}

func loadTransaction(row tabular.Row) (TransactionRow, error) {
	tx := TransactionRow{
		Index:      row.N(),
		Type:       row.Text("Type"),
		Details:    row.Text("Details"),
		PositionID: row.Text("Position ID"),
		AssetType:  row.Text("Asset type"),
	}
	var err error
	if tx.Date, err = date.Parse(date.LayoutEtoro, row.Text("Date")); err != nil {
		return tx, fmt.Errorf("row %d: %w", row.N(), err)
	}
	if tx.Amount, err = row.Dec("Amount"); err != nil {
		return tx, err
	}
	if tx.Units, err = row.OptDec("Units"); err != nil {
		return tx, err
	}
	if tx.RealizedEquityChange, err = row.Dec("Realized Equity Change"); err != nil {
		return tx, err
	}
	if tx.RealizedEquity, err = row.Dec("Realized Equity"); err != nil {
		return tx, err
	}
	if tx.Balance, err = row.Dec("Balance"); err != nil {
		return tx, err
	}
	if tx.NWA, err = row.Dec("NWA"); err != nil {
		return tx, err
	}
	return tx, nil
}

func loadPosition(row tabular.Row) (PositionRow, error) {
	pos := PositionRow{
		ID:         row.Text("Position ID"),
		Action:     row.Text("Action"),
		CopiedFrom: row.Text("Copied From"),
		Type:       row.Text("Type"),
		ISIN:       row.Text("ISIN"),
		Notes:      row.Text("Notes"),
	}
	var err error
	if pos.OpenDate, err = date.Parse(date.LayoutEtoro, row.Text("Open Date")); err != nil {
		return pos, fmt.Errorf("row %d: %w", row.N(), err)
	}
	if pos.CloseDate, err = date.Parse(date.LayoutEtoro, row.Text("Close Date")); err != nil {
		return pos, fmt.Errorf("row %d: %w", row.N(), err)
	}
	for _, f := range []decimalField{
		{"Amount", &pos.Amount, true},
		{"Units", &pos.Units, true},
		{"Leverage", &pos.Leverage, true},
		{"Spread", &pos.Spread, false},
		{"Profit", &pos.Profit, true},
		{"Open Rate", &pos.OpenRate, false},
		{"Close Rate", &pos.CloseRate, false},
		{"Take profit rate", &pos.TakeProfitRate, false},
		{"Stop lose rate", &pos.StopLossRate, false},
		{"Rollover Fees and Dividends", &pos.RolloverFeesAndDividends, true},
	} {
		if err := f.parse(row); err != nil {
			return pos, err
		}
	}
	return pos, nil
}

// decimalField parses one optional-or-required decimal column.
type decimalField struct {
	col      string
	dst      *decimal.Decimal
	required bool
}

func (f decimalField) parse(row tabular.Row) error {
	if !f.required {
		nd, err := row.OptDec(f.col)
		if err != nil {
			return err
		}
		*f.dst = nd.Decimal
		return nil
	}
	d, err := row.Dec(f.col)
	if err != nil {
		return err
	}
	*f.dst = d
	return nil
}
