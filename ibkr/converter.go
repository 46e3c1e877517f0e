package ibkr

import (
	"fmt"

	ledgerconv "github.com/ledgerconv/ledgerconv"
)

var account = ledgerconv.Account(Exchange)

// Converter reconciles the cash movements of an IBKR activity statement.
type Converter struct {
	warns ledgerconv.WarningSink
}

func NewConverter(warns ledgerconv.WarningSink) *Converter {
	if warns == nil {
		warns = ledgerconv.Discard{}
	}
	return &Converter{warns: warns}
}

func (c *Converter) Convert(st Statement) (*ledgerconv.Ledger, error) {
	ledger := ledgerconv.NewLedger()
	for _, row := range st.Cash {
		if err := c.cash(row, ledger); err != nil {
			return nil, err
		}
	}
	for _, row := range st.Fees {
		if err := c.fee(row, ledger); err != nil {
			return nil, err
		}
	}
	ledger.Sort()
	return ledger, nil
}

func (c *Converter) cash(row CashRow, ledger *ledgerconv.Ledger) error {
	if err := ledgerconv.Check(ledgerconv.ValidCurrency(row.Currency),
		"deposit and withdrawal rows must name a known currency", row); err != nil {
		return err
	}
	if err := ledgerconv.Check(!row.Amount.IsZero(),
		"deposit and withdrawal rows must carry a non-zero amount", row); err != nil {
		return err
	}

	e := ledgerconv.Entry{
		Time:         row.SettleDate,
		Kind:         ledgerconv.FiatDeposit,
		BaseCurrency: row.Currency,
		BaseAmount:   ledgerconv.Round4(row.Amount.Abs()),
		From:         ledgerconv.Bank,
		To:           account,
		Description:  fmt.Sprintf("%s %s", Exchange, row.Description),
	}
	if row.Amount.IsNegative() {
		e.Kind = ledgerconv.FiatWithdrawal
		e.From, e.To = account, ledgerconv.Bank
	}
	ledger.Append(e)
	return nil
}

func (c *Converter) fee(row FeeRow, ledger *ledgerconv.Ledger) error {
	if err := ledgerconv.Check(row.Amount.IsNegative(),
		"fee rows must carry a negative amount", row); err != nil {
		return err
	}
	ledger.Append(ledgerconv.Entry{
		Time:         row.Date,
		Kind:         ledgerconv.Fee,
		BaseCurrency: row.Currency,
		BaseAmount:   ledgerconv.Round4(row.Amount.Abs()),
		From:         account,
		To:           account,
		Description:  fmt.Sprintf("%s %s: %s", Exchange, row.Subtitle, row.Description),
	})
	return nil
}
