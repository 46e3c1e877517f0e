package schwab

import (
	"time"

	"github.com/shopspring/decimal"
)

const Exchange = "Schwab"

// BrokerageRow is one row of the brokerage-account transaction export.
// Most columns are optional; which ones are present depends on the action.
type BrokerageRow struct {
	Index       int
	Date        time.Time
	Action      string
	Symbol      string
	Description string
	Quantity    decimal.NullDecimal
	Price       decimal.NullDecimal
	Fees        decimal.NullDecimal
	Amount      decimal.NullDecimal
}

// EquityAwardRow is one vesting event of the equity-award export. The
// export spreads each event over two physical rows; the loader folds the
// pair back into one record.
type EquityAwardRow struct {
	Index                      int
	Date                       time.Time
	Action                     string
	Symbol                     string
	Description                string
	Quantity                   decimal.Decimal
	AwardDate                  time.Time
	FairMarketValuePrice       decimal.Decimal
	SharesSoldWithheldForTaxes decimal.Decimal
	NetSharesDeposited         decimal.Decimal
	Taxes                      decimal.Decimal
}

// OptionRow is one row of the option-trade export. RealizedPL is reported
// only on closing rows.
type OptionRow struct {
	Index       int
	Date        time.Time
	Action      string // "Buy to Open", "Sell to Close", ...
	Symbol      string
	Description string
	Quantity    decimal.Decimal
	Proceeds    decimal.Decimal
	Commission  decimal.Decimal
	Basis       decimal.Decimal
	RealizedPL  decimal.NullDecimal
}

// Statement is the typed view of one Schwab export set. Any of the three
// slices may be empty.
type Statement struct {
	Brokerage    []BrokerageRow
	EquityAwards []EquityAwardRow
	Options      []OptionRow
}
