package etoro

import (
	"time"

	"github.com/shopspring/decimal"
)

// Exchange is the name this rule set reports as origin/destination account
// and uses as translation-table key.
const Exchange = "eToro"

// TransactionRow is one row of the "Account Activity" sheet. Rows are
// immutable; Index is the row number in the source, kept for error
// messages.
type TransactionRow struct {
	Index                int
	Date                 time.Time
	Type                 string
	Details              string
	Amount               decimal.Decimal
	Units                decimal.NullDecimal
	RealizedEquityChange decimal.Decimal
	RealizedEquity       decimal.Decimal
	Balance              decimal.Decimal
	PositionID           string
	AssetType            string
	NWA                  decimal.Decimal
}

// PositionRow is one row of the "Closed Positions" sheet, keyed by position
// id.
type PositionRow struct {
	ID                       string
	Action                   string
	Amount                   decimal.Decimal
	Units                    decimal.Decimal
	OpenDate                 time.Time
	CloseDate                time.Time
	Leverage                 decimal.Decimal
	Spread                   decimal.Decimal
	Profit                   decimal.Decimal
	OpenRate                 decimal.Decimal
	CloseRate                decimal.Decimal
	TakeProfitRate           decimal.Decimal
	StopLossRate             decimal.Decimal
	RolloverFeesAndDividends decimal.Decimal
	CopiedFrom               string
	Type                     string
	ISIN                     string
	Notes                    string
}

// Statement is the typed view of one eToro account statement, as produced
// by a loader.
type Statement struct {
	// BaseCurrency is the account currency from the statement's summary.
	BaseCurrency string
	Transactions []TransactionRow
	Positions    []PositionRow
}
