package ibkr

import (
	"time"

	"github.com/shopspring/decimal"
)

const Exchange = "IBKR"

// CashRow is one row of the "Deposits & Withdrawals" section. The sign of
// Amount decides the direction.
type CashRow struct {
	Index       int
	Currency    string
	SettleDate  time.Time
	Description string
	Amount      decimal.Decimal
}

// FeeRow is one row of the "Fees" section.
type FeeRow struct {
	Index       int
	Subtitle    string
	Currency    string
	Date        time.Time
	Description string
	Amount      decimal.Decimal
}

// Statement is the typed view of the sections this engine reconciles out
// of an IBKR activity statement. Other sections are ignored.
type Statement struct {
	Cash []CashRow
	Fees []FeeRow
}
