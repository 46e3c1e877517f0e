package ledgerconv

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func ts(s string) time.Time {
	t, err := time.ParseInLocation(TimestampFormat, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestEncodeCSV(t *testing.T) {
	l := NewLedger()
	l.Append(
		Entry{
			Time:         ts("2023-01-02 10:00:00"),
			Kind:         FiatDeposit,
			BaseCurrency: "USD",
			BaseAmount:   decimal.RequireFromString("1000"),
			From:         Bank,
			To:           Account("eToro"),
			Description:  "eToro Deposit",
		},
		Entry{
			Time:          ts("2023-01-03 11:30:00"),
			Kind:          Buy,
			BaseCurrency:  "AAPL:STOCK",
			BaseAmount:    decimal.RequireFromString("2.5"),
			QuoteCurrency: "USD",
			QuoteAmount:   decimal.RequireFromString("350.75"),
			FeeCurrency:   "USD",
			FeeAmount:     decimal.RequireFromString("1.2"),
			From:          Account("eToro"),
			To:            Account("eToro"),
			ID:            "eToro:123",
			Description:   "eToro BUY: Open Position",
		},
	)

	var buf strings.Builder
	if err := EncodeCSV(&buf, l); err != nil {
		t.Fatal(err)
	}

	want := "Timestamp (UTC),Type,Base Currency,Base Amount," +
		"Quote Currency (Optional),Quote Amount (Optional)," +
		"Fee Currency (Optional),Fee Amount (Optional)," +
		"From (Optional),To (Optional),ID (Optional),Description (Optional)\n" +
		"2023-01-02 10:00:00,fiat-deposit,USD,1000,,,,,Bank,eToro,,eToro Deposit\n" +
		"2023-01-03 11:30:00,buy,AAPL:STOCK,2.5,USD,350.75,USD,1.2,eToro,eToro,eToro:123,eToro BUY: Open Position\n"
	if buf.String() != want {
		t.Errorf("EncodeCSV output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestRoundTrip(t *testing.T) {
	l := NewLedger()
	l.Append(
		Entry{
			Time:         ts("2024-06-01 00:00:00"),
			Kind:         ChainSplit,
			BaseCurrency: "NVDA:STOCK",
			BaseAmount:   decimal.RequireFromString("22.5"),
			From:         Account("eToro"),
			To:           Account("eToro"),
			ID:           "eToro:42",
			Description:  "eToro BUY: corp action: Split",
		},
		Entry{
			Time:          ts("2024-06-02 12:00:00"),
			Kind:          Sell,
			BaseCurrency:  "VOD.L:STOCK",
			BaseAmount:    decimal.RequireFromString("100"),
			QuoteCurrency: "GBP",
			QuoteAmount:   decimal.RequireFromString("98.37"),
			From:          Account("IG"),
			To:            Account("IG"),
			ID:            "ABC123",
			Description:   "IG SELL Vodafone Group PLC",
		},
	)

	var buf strings.Builder
	if err := EncodeCSV(&buf, l); err != nil {
		t.Fatal(err)
	}
	back, err := DecodeCSV(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatal(err)
	}
	if back.Len() != l.Len() {
		t.Fatalf("decoded %d entries, want %d", back.Len(), l.Len())
	}
	for i, got := range back.Entries() {
		want := l.Entries()[i]
		if !entryEqual(got, want) {
			t.Errorf("entry %d = %+v, want %+v", i, got, want)
		}
	}
}

// entryEqual compares every serialized field. Reference prices are not
// part of the CSV and are excluded.
func entryEqual(a, b Entry) bool {
	a.RefPrice, b.RefPrice = decimal.Decimal{}, decimal.Decimal{}
	a.RefCurrency, b.RefCurrency = "", ""
	if !a.BaseAmount.Equal(b.BaseAmount) ||
		(a.HasQuote() && !a.QuoteAmount.Equal(b.QuoteAmount)) ||
		(a.HasFee() && !a.FeeAmount.Equal(b.FeeAmount)) {
		return false
	}
	a.BaseAmount, b.BaseAmount = decimal.Decimal{}, decimal.Decimal{}
	a.QuoteAmount, b.QuoteAmount = decimal.Decimal{}, decimal.Decimal{}
	a.FeeAmount, b.FeeAmount = decimal.Decimal{}, decimal.Decimal{}
	return reflect.DeepEqual(a, b)
}

func TestDecodeRejectsBadRows(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader("Timestamp (UTC),Type\nnot,enough\n"))
	if err == nil {
		t.Fatal("want error for wrong column count")
	}
}
