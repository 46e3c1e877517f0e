package ledgerconv

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampFormat is the timestamp rendering of the output CSV. Timestamps
// are UTC as supplied by the brokers; no timezone conversion is applied.
const TimestampFormat = "2006-01-02 15:04:05"

// csvHeader is the fixed column set of the downstream "advanced manual CSV"
// format.
var csvHeader = []string{
	"Timestamp (UTC)", "Type", "Base Currency", "Base Amount",
	"Quote Currency (Optional)", "Quote Amount (Optional)",
	"Fee Currency (Optional)", "Fee Amount (Optional)",
	"From (Optional)", "To (Optional)", "ID (Optional)", "Description (Optional)",
}

// EncodeCSV writes the ledger as CSV with the fixed canonical columns.
// Amounts are written exactly as carried by the entries; the fixed-precision
// rounding already happened when each entry was built.
func EncodeCSV(w io.Writer, l *Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range l.Entries() {
		rec := []string{
			e.Time.UTC().Format(TimestampFormat),
			string(e.Kind),
			e.BaseCurrency,
			e.BaseAmount.String(),
			e.QuoteCurrency,
			"",
			e.FeeCurrency,
			"",
			string(e.From),
			string(e.To),
			e.ID,
			e.Description,
		}
		if e.HasQuote() {
			rec[5] = e.QuoteAmount.String()
		}
		if e.HasFee() {
			rec[7] = e.FeeAmount.String()
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeCSV reads a ledger previously written by EncodeCSV. It is the
// inverse for every serialized field and exists mostly to let tests assert
// the round-trip property.
func DecodeCSV(r io.Reader) (*Ledger, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty ledger file: missing header")
	}
	l := NewLedger()
	for i, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			return nil, fmt.Errorf("line %d: got %d columns, want %d", i+2, len(rec), len(csvHeader))
		}
		ts, err := time.ParseInLocation(TimestampFormat, rec[0], time.UTC)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		e := Entry{
			Time:          ts,
			Kind:          Kind(rec[1]),
			BaseCurrency:  rec[2],
			QuoteCurrency: rec[4],
			FeeCurrency:   rec[6],
			From:          Account(rec[8]),
			To:            Account(rec[9]),
			ID:            rec[10],
			Description:   rec[11],
		}
		if e.BaseAmount, err = decimal.NewFromString(rec[3]); err != nil {
			return nil, fmt.Errorf("line %d: base amount: %w", i+2, err)
		}
		if e.QuoteCurrency != "" {
			if e.QuoteAmount, err = decimal.NewFromString(rec[5]); err != nil {
				return nil, fmt.Errorf("line %d: quote amount: %w", i+2, err)
			}
		}
		if e.FeeCurrency != "" {
			if e.FeeAmount, err = decimal.NewFromString(rec[7]); err != nil {
				return nil, fmt.Errorf("line %d: fee amount: %w", i+2, err)
			}
		}
		l.Append(e)
	}
	return l, nil
}
