package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerconv/ledgerconv"
)

func sample() *ledgerconv.Ledger {
	l := ledgerconv.NewLedger()
	l.Append(
		ledgerconv.Entry{
			Time: time.Date(2023, 1, 2, 9, 0, 0, 0, time.UTC),
			Kind: ledgerconv.FiatDeposit, BaseCurrency: "USD",
			BaseAmount: decimal.RequireFromString("1000"),
			From:       ledgerconv.Bank, To: "eToro", Description: "eToro Deposit",
		},
		ledgerconv.Entry{
			Time: time.Date(2023, 1, 3, 9, 0, 0, 0, time.UTC),
			Kind: ledgerconv.Buy, BaseCurrency: "AAPL:STOCK",
			BaseAmount:    decimal.RequireFromString("2.5"),
			QuoteCurrency: "USD", QuoteAmount: decimal.RequireFromString("350.75"),
			From: "eToro", To: "eToro", Description: "eToro Buy AAPL: Open Position",
		},
		ledgerconv.Entry{
			Time: time.Date(2023, 2, 1, 9, 0, 0, 0, time.UTC),
			Kind: ledgerconv.Fee, BaseCurrency: "USD",
			BaseAmount: decimal.RequireFromString("24"),
			From:       "eToro", To: "eToro", Description: "Custody fee",
		},
	)
	l.Sort()
	return l
}

func TestSummaryMarkdown(t *testing.T) {
	md := SummaryMarkdown("eToro", sample())

	for _, want := range []string{
		"# eToro Conversion",
		"3 entries from 2023-01-02 09:00:00 to 2023-02-01 09:00:00.",
		"| fiat-deposit | 1 |",
		"| buy | 1 |",
		"| fee | 1 |",
		"| USD | 1,000.00 | 24.00 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("summary missing %q:\n%s", want, md)
		}
	}
}

func TestSummaryMarkdownEmpty(t *testing.T) {
	md := SummaryMarkdown("IG", ledgerconv.NewLedger())
	if !strings.Contains(md, "No entries.") {
		t.Errorf("empty summary:\n%s", md)
	}
}

func TestEntriesMarkdown(t *testing.T) {
	md := EntriesMarkdown(sample())
	if !strings.Contains(md, "| 2023-01-03 09:00:00 | buy | 2.5 AAPL:STOCK | 350.75 USD |") {
		t.Errorf("entries table:\n%s", md)
	}
	// Absent legs render as empty cells, not zero amounts.
	if !strings.Contains(md, "|  |  | Bank | eToro |") {
		t.Errorf("deposit row should have empty quote and fee cells:\n%s", md)
	}
}
