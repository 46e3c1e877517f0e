package ledgerconv

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the canonical event kind of a ledger entry.
type Kind string

// Canonical event kinds. The string values are the ones the downstream tax
// calculator expects in its "advanced manual CSV" format.
const (
	FiatDeposit    Kind = "fiat-deposit"
	FiatWithdrawal Kind = "fiat-withdrawal"
	Buy            Kind = "buy"
	Sell           Kind = "sell"
	Fee            Kind = "fee"
	Interest       Kind = "interest"
	ChainSplit     Kind = "chain-split"
	RealizedProfit Kind = "realized-profit"
	RealizedLoss   Kind = "realized-loss"
	Receive        Kind = "receive"
	Send           Kind = "send"
)

// Account is an origin or destination tag on a ledger entry.
type Account string

// Accounts shared by all rule sets. Broker accounts are declared in their
// own packages.
const (
	Bank      Account = "Bank"
	Dividends Account = "Dividends"
	CFDs      Account = "CFDs"
	Unknown   Account = "Unknown"
)

// Entry is one canonical ledger row. Entries are immutable once built and
// their amounts carry the final, fixed-precision values: all intermediate
// reconciliation arithmetic happens in full precision before an Entry is
// constructed.
//
// Optional fields follow one convention: an empty currency means the
// amount is absent.
type Entry struct {
	Time time.Time // always UTC
	Kind Kind

	BaseCurrency string
	BaseAmount   decimal.Decimal

	QuoteCurrency string
	QuoteAmount   decimal.Decimal

	FeeCurrency string
	FeeAmount   decimal.Decimal

	From Account
	To   Account

	ID          string
	Description string

	// Reference price per base unit, when the source states one. Not part
	// of the serialized output, but kept for the conversion summary.
	RefPrice    decimal.Decimal
	RefCurrency string
}

// HasQuote reports whether the entry carries a quote leg.
func (e Entry) HasQuote() bool { return e.QuoteCurrency != "" }

// HasFee reports whether the entry carries a fee leg.
func (e Entry) HasFee() bool { return e.FeeCurrency != "" }

// Round4 applies the trade-amount rounding convention: 4 decimal places,
// halves away from zero, the same convention the source brokers use.
func Round4(d decimal.Decimal) decimal.Decimal { return d.Round(4) }

// Round8 applies the unit-count rounding convention: 8 decimal places.
func Round8(d decimal.Decimal) decimal.Decimal { return d.Round(8) }

// Round2 applies money rounding to two decimal places, halves away from
// zero. IG rounds halves up on positive amounts, which this matches.
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
