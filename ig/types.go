package ig

import (
	"time"

	"github.com/shopspring/decimal"
)

// Exchange names for the two IG account types. They are distinct account
// tags and distinct translation-table keys.
const (
	Exchange    = "IG"
	ExchangeCFD = "IG CFD"
)

// TradeRow is one row of the share-dealing trade blotter
// ("TradeHistory"). The Date and Time columns are combined at load time.
type TradeRow struct {
	Index          int
	Date           time.Time
	Activity       string // TRADE, CORPORATE ACTION, TRANSFER
	Market         string
	Direction      string // BUY or SELL
	Quantity       decimal.Decimal
	Price          decimal.Decimal
	Currency       string
	Consideration  decimal.Decimal
	Commission     decimal.NullDecimal
	Charges        decimal.NullDecimal
	CostProceeds   decimal.NullDecimal
	ConversionRate decimal.NullDecimal
	OrderType      string
	VenueID        string
	Settled        bool
	SettlementDate string
	OrderID        string
}

// TransactionRow is one row of the cash transaction ledger
// ("TransactionHistory"). Trades reference these rows only by free text:
// an auxiliary row's MarketName contains the order id of the trade it
// belongs to.
type TransactionRow struct {
	Index           int
	Summary         string
	MarketName      string
	Period          string
	ProfitAndLoss   string
	TransactionType string // DEPO, WITH, EXCHANGE
	Reference       string
	OpenLevel       decimal.NullDecimal
	CloseLevel      decimal.Decimal
	Size            decimal.NullDecimal
	Currency        string
	PLAmount        decimal.Decimal
	CashTransaction bool
	DateUTC         time.Time
	OpenDateUTC     string
	CurrencyISO     string
}

// CFDTradeRow is one closed trade of the CFD account ledger. Opening rows
// carry no tax consequence and are dropped at load time.
type CFDTradeRow struct {
	Index      int
	ClosingRef string
	Closed     time.Time
	OpeningRef string
	Opened     time.Time
	Market     string
	Period     string
	Direction  string
	Size       decimal.Decimal
	Opening    decimal.Decimal
	Closing    decimal.Decimal
	TradeCcy   string
	PL         decimal.Decimal
	Funding    decimal.Decimal
	Borrowing  decimal.Decimal
	Dividends  decimal.Decimal
	LRPrem     decimal.Decimal
	Others     decimal.Decimal
	CommCcy    string
	Commission decimal.Decimal
	Total      decimal.Decimal
}

// SharesStatement is the typed view of one IG share-dealing export pair.
type SharesStatement struct {
	Trades       []TradeRow
	Transactions []TransactionRow
}
