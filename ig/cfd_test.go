package ig

import (
	"strings"
	"testing"

	"github.com/ledgerconv/ledgerconv"
)

func cfdFixture() CFDTradeRow {
	return CFDTradeRow{
		Index:      1,
		ClosingRef: "Z1AAA",
		Closed:     utc("2023-05-10T14:00:00"),
		OpeningRef: "Z1BBB",
		Opened:     utc("2023-05-01T09:00:00"),
		Market:     "Apple Inc",
		Direction:  "BUY",
		Size:       d("2"),
		Opening:    d("15000"),
		Closing:    d("15500"),
		TradeCcy:   "USD",
		PL:         d("100"),
		Funding:    d("-3.5"),
		CommCcy:    "USD",
		Commission: d("-12"),
		Total:      d("84.5"),
	}
}

func TestCFDClosingTradeProfit(t *testing.T) {
	l, err := NewCFDConverter(testResolver(), nil).Convert([]CFDTradeRow{cfdFixture()})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	entries := l.Entries()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Kind != ledgerconv.RealizedProfit || e.From != ledgerconv.CFDs || e.To != accountCFD {
		t.Errorf("profit routed as %s %s->%s", e.Kind, e.From, e.To)
	}
	if e.BaseCurrency != "USD" || !e.BaseAmount.Equal(d("84.5")) {
		t.Errorf("result %s %s", e.BaseCurrency, e.BaseAmount)
	}
	if e.ID != "Z1AAA" || e.Description != "IG CFD AAPL:STOCK: BUY Apple Inc" {
		t.Errorf("entry %q %q", e.ID, e.Description)
	}
}

func TestCFDClosingTradeLoss(t *testing.T) {
	tr := cfdFixture()
	tr.PL = d("-50")
	tr.Total = d("-65.5")
	l, err := NewCFDConverter(testResolver(), nil).Convert([]CFDTradeRow{tr})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	e := l.Entries()[0]
	if e.Kind != ledgerconv.RealizedLoss || e.From != accountCFD || e.To != ledgerconv.CFDs {
		t.Errorf("loss routed as %s %s->%s", e.Kind, e.From, e.To)
	}
	if !e.BaseAmount.Equal(d("65.5")) {
		t.Errorf("loss amount %s, want the absolute value 65.5", e.BaseAmount)
	}
}

func TestCFDTotalMismatch(t *testing.T) {
	tr := cfdFixture()
	tr.Total = d("84.51")
	_, err := NewCFDConverter(testResolver(), nil).Convert([]CFDTradeRow{tr})
	if err == nil || !strings.Contains(err.Error(), "trade total must equal") {
		t.Fatalf("Convert: %v", err)
	}
}

func TestCFDAdvancedComponentsRejected(t *testing.T) {
	tr := cfdFixture()
	tr.Borrowing = d("-1")
	_, err := NewCFDConverter(testResolver(), nil).Convert([]CFDTradeRow{tr})
	if err == nil || !strings.Contains(err.Error(), "cannot be reconciled") {
		t.Fatalf("Convert: %v", err)
	}
}

func TestCFDSharesTranslationTable(t *testing.T) {
	// CFD market names resolve through the share-dealing table, so one
	// instrument maps to one symbol across both account types.
	tr := cfdFixture()
	tr.Market = "Obscure Plc"
	_, err := NewCFDConverter(testResolver(), nil).Convert([]CFDTradeRow{tr})
	if err == nil || !strings.Contains(err.Error(), `on IG:`) {
		t.Fatalf("Convert: %v", err)
	}
}
