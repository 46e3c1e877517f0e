package ledgerconv

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount the way brokers print money in their
// free-text columns: thousands-grouped, with the currency's usual number of
// decimal places, the sign in front. IG's ProfitAndLoss column, for
// example, is the currency code immediately followed by this rendering
// ("USD-1,234.56"), and the linker reconstructs that text to cross-check
// auxiliary rows against their numeric fields.
func FormatMoney(amount decimal.Decimal, currency string) string {
	fraction := 2
	if c := money.GetCurrency(currency); c != nil {
		fraction = c.Fraction
	}
	f := money.NewFormatter(fraction, ".", ",", "", "1")
	return f.Format(amount.Shift(int32(fraction)).Round(0).IntPart())
}

// ValidCurrency reports whether code is an ISO-4217 currency known to the
// currency table. Instrument symbols are deliberately not subject to this
// check; only fiat legs are.
func ValidCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}
