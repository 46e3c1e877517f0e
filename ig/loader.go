package ig

import (
	"fmt"
	"io"

	"github.com/ledgerconv/ledgerconv/date"
	"github.com/ledgerconv/ledgerconv/tabular"
	"github.com/shopspring/decimal"
)

// LoadSharesFiles reads a share-dealing export pair. IG produces two files,
// "TradeHistory" and "TransactionHistory", and users pass them in either
// order; the headers decide which is which. Both files list newest first
// and are flipped to chronological order.
func LoadSharesFiles(a, b io.Reader) (SharesStatement, error) {
	first, err := tabular.Read(a)
	if err != nil {
		return SharesStatement{}, fmt.Errorf("reading first file: %w", err)
	}
	second, err := tabular.Read(b)
	if err != nil {
		return SharesStatement{}, fmt.Errorf("reading second file: %w", err)
	}

	var trades, transactions *tabular.Table
	switch {
	case first.Has("Activity") && second.Has("Summary"):
		trades, transactions = first, second
	case first.Has("Summary") && second.Has("Activity"):
		trades, transactions = second, first
	default:
		return SharesStatement{}, fmt.Errorf("the files do not look like a TradeHistory and a TransactionHistory export")
	}
	trades.Reverse()
	transactions.Reverse()

	var st SharesStatement
	if err := trades.Require("Date", "Time", "Activity", "Market", "Direction", "Quantity", "Price",
		"Currency", "Consideration", "Commission", "Charges", "Cost/Proceeds", "Conversion rate",
		"Order type", "Venue ID", "Settled?", "Settlement date", "Order ID"); err != nil {
		return SharesStatement{}, fmt.Errorf("trade file: %w", err)
	}
	for _, row := range trades.Rows() {
		tr, err := loadTrade(row)
		if err != nil {
			return SharesStatement{}, fmt.Errorf("trade file: %w", err)
		}
		st.Trades = append(st.Trades, tr)
	}

	if err := transactions.Require("Summary", "MarketName", "Period", "ProfitAndLoss",
		"Transaction type", "Reference", "Open level", "Close level", "Size", "Currency",
		"PL Amount", "Cash transaction", "DateUtc", "OpenDateUtc", "CurrencyIsoCode"); err != nil {
		return SharesStatement{}, fmt.Errorf("transaction file: %w", err)
	}
	for _, row := range transactions.Rows() {
		tx, err := loadTransaction(row)
		if err != nil {
			return SharesStatement{}, fmt.Errorf("transaction file: %w", err)
		}
		st.Transactions = append(st.Transactions, tx)
	}
	return st, nil
}

func loadTrade(row tabular.Row) (TradeRow, error) {
	tr := TradeRow{
		Index:          row.N(),
		Activity:       row.Text("Activity"),
		Market:         row.Text("Market"),
		Direction:      row.Text("Direction"),
		Currency:       row.Text("Currency"),
		OrderType:      row.Text("Order type"),
		VenueID:        row.Text("Venue ID"),
		SettlementDate: row.Text("Settlement date"),
		OrderID:        row.Text("Order ID"),
	}
	var err error
	if tr.Date, err = date.Parse(date.LayoutIG, row.Text("Date")+" "+row.Text("Time")); err != nil {
		return tr, fmt.Errorf("row %d: %w", row.N(), err)
	}
	if tr.Quantity, err = row.Dec("Quantity"); err != nil {
		return tr, err
	}
	if tr.Price, err = row.Dec("Price"); err != nil {
		return tr, err
	}
	if tr.Consideration, err = row.Dec("Consideration"); err != nil {
		return tr, err
	}
	if tr.Commission, err = row.OptDec("Commission"); err != nil {
		return tr, err
	}
	if tr.Charges, err = row.OptDec("Charges"); err != nil {
		return tr, err
	}
	if tr.CostProceeds, err = row.OptDec("Cost/Proceeds"); err != nil {
		return tr, err
	}
	if tr.ConversionRate, err = row.OptDec("Conversion rate"); err != nil {
		return tr, err
	}
	if tr.Settled, err = row.Bool("Settled?"); err != nil {
		return tr, err
	}
	return tr, nil
}

func loadTransaction(row tabular.Row) (TransactionRow, error) {
	tx := TransactionRow{
		Index:           row.N(),
		Summary:         row.Text("Summary"),
		MarketName:      row.Text("MarketName"),
		Period:          row.Text("Period"),
		ProfitAndLoss:   row.Text("ProfitAndLoss"),
		TransactionType: row.Text("Transaction type"),
		Reference:       row.Text("Reference"),
		Currency:        row.Text("Currency"),
		OpenDateUTC:     row.Text("OpenDateUtc"),
		CurrencyISO:     row.Text("CurrencyIsoCode"),
	}
	var err error
	if tx.OpenLevel, err = row.OptDec("Open level"); err != nil {
		return tx, err
	}
	if tx.CloseLevel, err = row.Dec("Close level"); err != nil {
		return tx, err
	}
	if tx.Size, err = row.OptDec("Size"); err != nil {
		return tx, err
	}
	if tx.PLAmount, err = row.Dec("PL Amount"); err != nil {
		return tx, err
	}
	if tx.CashTransaction, err = row.Bool("Cash transaction"); err != nil {
		return tx, err
	}
	if tx.DateUTC, err = date.Parse(date.LayoutIGUTC, row.Text("DateUtc")); err != nil {
		return tx, fmt.Errorf("row %d: %w", row.N(), err)
	}
	return tx, nil
}

// cfdPreamble is the number of account-summary lines before the CFD
// ledger's header row.
const cfdPreamble = 5

// LoadCFDFile reads a CFD trade ledger. Rows without a closing timestamp
// are opening trades; they carry no result and are dropped here.
func LoadCFDFile(r io.Reader) ([]CFDTradeRow, error) {
	t, err := tabular.ReadSkip(r, cfdPreamble)
	if err != nil {
		return nil, fmt.Errorf("reading CFD file: %w", err)
	}
	if err := t.Require("Closing Ref", "Closed", "Opening Ref", "Opened", "Market", "Period",
		"Direction", "Size", "Opening", "Closing", "Trade Ccy.", "P/L", "Funding", "Borrowing",
		"Dividends", "LR Prem.", "Others", "Comm. Ccy.", "Comm.", "Total"); err != nil {
		return nil, fmt.Errorf("CFD file: %w", err)
	}

	var trades []CFDTradeRow
	for _, row := range t.Rows() {
		if row.Text("Closed") == "" {
			continue
		}
		tr, err := loadCFDTrade(row)
		if err != nil {
			return nil, fmt.Errorf("CFD file: %w", err)
		}
		trades = append(trades, tr)
	}
	return trades, nil
}

func loadCFDTrade(row tabular.Row) (CFDTradeRow, error) {
	tr := CFDTradeRow{
		Index:      row.N(),
		ClosingRef: row.Text("Closing Ref"),
		OpeningRef: row.Text("Opening Ref"),
		Market:     row.Text("Market"),
		Period:     row.Text("Period"),
		Direction:  row.Text("Direction"),
		TradeCcy:   row.Text("Trade Ccy."),
		CommCcy:    row.Text("Comm. Ccy."),
	}
	var err error
	if tr.Closed, err = date.Parse(date.LayoutIG, row.Text("Closed")); err != nil {
		return tr, fmt.Errorf("row %d: %w", row.N(), err)
	}
	if tr.Opened, err = date.Parse(date.LayoutIG, row.Text("Opened")); err != nil {
		return tr, fmt.Errorf("row %d: %w", row.N(), err)
	}
	for _, f := range []struct {
		col string
		dst *decimal.Decimal
	}{
		{"Size", &tr.Size},
		{"Opening", &tr.Opening},
		{"Closing", &tr.Closing},
		{"P/L", &tr.PL},
		{"Funding", &tr.Funding},
		{"Borrowing", &tr.Borrowing},
		{"Dividends", &tr.Dividends},
		{"LR Prem.", &tr.LRPrem},
		{"Others", &tr.Others},
		{"Comm.", &tr.Commission},
		{"Total", &tr.Total},
	} {
		if *f.dst, err = row.Dec(f.col); err != nil {
			return tr, err
		}
	}
	return tr, nil
}
