package schwab

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerconv/ledgerconv"
	"github.com/ledgerconv/ledgerconv/date"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d(s), Valid: true}
}

func day(s string) time.Time { return date.MustParse(date.LayoutSchwab, s) }

func convert(t *testing.T, st Statement) *ledgerconv.Ledger {
	t.Helper()
	l, err := NewConverter(ledgerconv.NewResolver(nil, nil), nil).Convert(st)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	return l
}

func convertErr(t *testing.T, st Statement, want string) {
	t.Helper()
	_, err := NewConverter(ledgerconv.NewResolver(nil, nil), nil).Convert(st)
	if err == nil {
		t.Fatalf("Convert: expected an error containing %q", want)
	}
	if !strings.Contains(err.Error(), want) {
		t.Fatalf("Convert error %q does not contain %q", err, want)
	}
}

func TestLapse(t *testing.T) {
	row := EquityAwardRow{
		Date: day("03/15/2023"), Action: "Lapse", Symbol: "ABC",
		Quantity: d("10"), FairMarketValuePrice: d("100"),
		SharesSoldWithheldForTaxes: d("3"), NetSharesDeposited: d("7"),
	}
	entries := convert(t, Statement{EquityAwards: []EquityAwardRow{row}}).Entries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want a deposit and a buy", len(entries))
	}

	dep := entries[0]
	if dep.Kind != ledgerconv.FiatDeposit || dep.From != ledgerconv.Bank || dep.To != account {
		t.Errorf("deposit routed as %s %s->%s", dep.Kind, dep.From, dep.To)
	}
	if !dep.BaseAmount.Equal(d("700")) {
		t.Errorf("deposit amount %s, want the net-share fair market value 700", dep.BaseAmount)
	}

	buy := entries[1]
	if buy.Kind != ledgerconv.Buy || buy.BaseCurrency != "ABC:STOCK" || !buy.BaseAmount.Equal(d("7")) {
		t.Errorf("buy leg %s %s %s", buy.Kind, buy.BaseCurrency, buy.BaseAmount)
	}
	if !buy.QuoteAmount.Equal(d("700")) || !buy.Time.Equal(dep.Time.Add(time.Hour)) {
		t.Errorf("buy quote %s at %s", buy.QuoteAmount, buy.Time)
	}
	if !buy.RefPrice.Equal(d("100")) || buy.RefCurrency != "USD" {
		t.Errorf("reference price %s %s", buy.RefPrice, buy.RefCurrency)
	}
}

func TestLapseShareCountMismatch(t *testing.T) {
	row := EquityAwardRow{
		Date: day("03/15/2023"), Action: "Lapse", Symbol: "ABC",
		Quantity: d("10"), FairMarketValuePrice: d("100"),
		SharesSoldWithheldForTaxes: d("3"), NetSharesDeposited: d("6"),
	}
	convertErr(t, Statement{EquityAwards: []EquityAwardRow{row}},
		"net shares plus shares withheld")
}

func TestSell(t *testing.T) {
	row := BrokerageRow{
		Date: day("04/20/2023"), Action: "Sell", Symbol: "ABC", Description: "Sell 5 ABC",
		Quantity: nd("5"), Price: nd("100"), Fees: nd("0.10"), Amount: nd("499.90"),
	}
	entries := convert(t, Statement{Brokerage: []BrokerageRow{row}}).Entries()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Kind != ledgerconv.Sell || !e.BaseAmount.Equal(d("5")) || !e.QuoteAmount.Equal(d("499.90")) {
		t.Errorf("sell entry %s %s %s", e.Kind, e.BaseAmount, e.QuoteAmount)
	}
	if !e.FeeAmount.Equal(d("0.10")) || e.FeeCurrency != "USD" {
		t.Errorf("fee leg %s %s", e.FeeAmount, e.FeeCurrency)
	}
	if !e.Time.Equal(row.Date.Add(2 * time.Hour)) {
		t.Errorf("sell time %s, want the two-hour offset", e.Time)
	}
	if !e.RefPrice.Equal(d("100")) {
		t.Errorf("reference price %s", e.RefPrice)
	}
}

func TestCashActions(t *testing.T) {
	rows := []BrokerageRow{
		{Date: day("05/01/2023"), Action: "Credit Interest", Description: "Interest", Amount: nd("1.23")},
		{Date: day("05/02/2023"), Action: "Service Fee", Description: "Fee", Amount: nd("-25")},
		{Date: day("05/03/2023"), Action: "Wire Sent", Description: "Wire", Amount: nd("-1000")},
		{Date: day("05/04/2023"), Action: "MoneyLink Transfer", Description: "Transfer", Amount: nd("-500")},
		{Date: day("05/05/2023"), Action: "Stock Plan Activity", Symbol: "ABC", Quantity: nd("7")},
	}
	entries := convert(t, Statement{Brokerage: rows}).Entries()
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4; Stock Plan Activity synthesizes nothing", len(entries))
	}

	wantKinds := []ledgerconv.Kind{
		ledgerconv.Interest, ledgerconv.Fee, ledgerconv.FiatWithdrawal, ledgerconv.FiatWithdrawal,
	}
	wantAmounts := []string{"1.23", "25", "1000", "500"}
	for i, e := range entries {
		if e.Kind != wantKinds[i] || !e.BaseAmount.Equal(d(wantAmounts[i])) {
			t.Errorf("entry %d: %s %s, want %s %s", i, e.Kind, e.BaseAmount, wantKinds[i], wantAmounts[i])
		}
	}
	// Withdrawals land three hours into the day, behind same-day sells.
	if got := entries[2].Time.Sub(rows[2].Date); got != 3*time.Hour {
		t.Errorf("withdrawal offset %s", got)
	}
}

func TestUnknownBrokerageAction(t *testing.T) {
	row := BrokerageRow{Date: day("05/01/2023"), Action: "Journal", Amount: nd("10")}
	convertErr(t, Statement{Brokerage: []BrokerageRow{row}}, "cannot be reconciled")
}

func TestOptionOpen(t *testing.T) {
	row := OptionRow{
		Date: day("06/01/2023"), Action: "Buy to Open", Symbol: "ABC 06/16/2023 50.00 C",
		Quantity: d("2"), Proceeds: d("-500"), Commission: d("-10"), Basis: d("510"),
	}
	entries := convert(t, Statement{Options: []OptionRow{row}}).Entries()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Kind != ledgerconv.Buy || e.BaseCurrency != "OPT:ABC 06/16/2023 50.00 C" {
		t.Errorf("option buy %s %s", e.Kind, e.BaseCurrency)
	}
	if !e.BaseAmount.Equal(d("2")) || !e.QuoteAmount.Equal(d("500")) || !e.FeeAmount.Equal(d("10")) {
		t.Errorf("option legs %s %s %s", e.BaseAmount, e.QuoteAmount, e.FeeAmount)
	}
}

func TestOptionOpenBadBasis(t *testing.T) {
	row := OptionRow{
		Date: day("06/01/2023"), Action: "Buy to Open", Symbol: "ABC 06/16/2023 50.00 C",
		Quantity: d("2"), Proceeds: d("-500"), Commission: d("-10"), Basis: d("500"),
	}
	convertErr(t, Statement{Options: []OptionRow{row}}, "option opening basis")
}

func TestOptionClose(t *testing.T) {
	row := OptionRow{
		Date: day("06/10/2023"), Action: "Sell to Close", Symbol: "ABC 06/16/2023 50.00 C",
		Quantity: d("-2"), Proceeds: d("600"), Commission: d("-10"), Basis: d("-510"),
		RealizedPL: nd("80"),
	}
	entries := convert(t, Statement{Options: []OptionRow{row}}).Entries()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Kind != ledgerconv.Sell || !e.BaseAmount.Equal(d("2")) || !e.QuoteAmount.Equal(d("600")) {
		t.Errorf("option sell %s %s %s", e.Kind, e.BaseAmount, e.QuoteAmount)
	}
}

func TestOptionCloseWithoutResult(t *testing.T) {
	row := OptionRow{
		Date: day("06/10/2023"), Action: "Sell to Close", Symbol: "ABC 06/16/2023 50.00 C",
		Quantity: d("-2"), Proceeds: d("600"), Commission: d("-10"), Basis: d("-510"),
	}
	convertErr(t, Statement{Options: []OptionRow{row}}, "must report a realized result")
}

func TestOptionCloseBadBasis(t *testing.T) {
	row := OptionRow{
		Date: day("06/10/2023"), Action: "Sell to Close", Symbol: "ABC 06/16/2023 50.00 C",
		Quantity: d("-2"), Proceeds: d("600"), Commission: d("-10"), Basis: d("-520"),
		RealizedPL: nd("80"),
	}
	convertErr(t, Statement{Options: []OptionRow{row}}, "option closing basis")
}
