package schwab

import (
	"fmt"
	"strings"
	"time"

	ledgerconv "github.com/ledgerconv/ledgerconv"
)

const baseFiat = "USD"

var account = ledgerconv.Account(Exchange)

// Converter reconciles a Schwab export set. Schwab reports dates without
// times, so same-day events are spread over synthetic hour offsets to keep
// the ledger in causal order: vested shares are bought one hour after their
// fiat deposit, sells and fees land two hours in, withdrawals three.
type Converter struct {
	tickers *ledgerconv.Resolver
	warns   ledgerconv.WarningSink
}

func NewConverter(tickers *ledgerconv.Resolver, warns ledgerconv.WarningSink) *Converter {
	if warns == nil {
		warns = ledgerconv.Discard{}
	}
	return &Converter{tickers: tickers, warns: warns}
}

func (c *Converter) Convert(st Statement) (*ledgerconv.Ledger, error) {
	ledger := ledgerconv.NewLedger()
	for _, row := range st.EquityAwards {
		if err := c.equityAward(row, ledger); err != nil {
			return nil, err
		}
	}
	for _, row := range st.Brokerage {
		if err := c.brokerage(row, ledger); err != nil {
			return nil, err
		}
	}
	for _, row := range st.Options {
		if err := c.option(row, ledger); err != nil {
			return nil, err
		}
	}
	ledger.Sort()
	return ledger, nil
}

// equityAward turns an RSU lapse into a fiat deposit of the fair market
// value followed by a buy of the vested shares. The deposit keeps the fiat
// totals of the account consistent; the buy carries the fair market value
// as reference price.
func (c *Converter) equityAward(row EquityAwardRow, ledger *ledgerconv.Ledger) error {
	if row.Action != "Lapse" {
		return ledgerconv.Errf([]any{row}, "equity award action %q cannot be reconciled", row.Action)
	}
	if err := ledgerconv.Check(
		row.NetSharesDeposited.Add(row.SharesSoldWithheldForTaxes).Equal(row.Quantity),
		"net shares plus shares withheld for taxes must equal the vested quantity", row); err != nil {
		return err
	}

	value := row.FairMarketValuePrice.Mul(row.NetSharesDeposited)
	ledger.Append(ledgerconv.Entry{
		Time:         row.Date,
		Kind:         ledgerconv.FiatDeposit,
		BaseCurrency: baseFiat,
		BaseAmount:   ledgerconv.Round4(value),
		From:         ledgerconv.Bank,
		To:           account,
		Description: fmt.Sprintf("Modeled from fair market value of %s shares of %s at %s per share, to keep fiat total consistent.",
			row.NetSharesDeposited, row.Symbol, row.FairMarketValuePrice),
	})

	ticker, err := c.tickers.Resolve(row.Symbol, Exchange, ledgerconv.Stock)
	if err != nil {
		return err
	}
	ledger.Append(ledgerconv.Entry{
		Time:          row.Date.Add(time.Hour),
		Kind:          ledgerconv.Buy,
		BaseCurrency:  ticker,
		BaseAmount:    ledgerconv.Round8(row.NetSharesDeposited),
		QuoteCurrency: baseFiat,
		QuoteAmount:   ledgerconv.Round4(value),
		From:          account,
		To:            account,
		Description: fmt.Sprintf("Lapse of %s Restricted Stock Units (RSU) of %s at %s per share.",
			row.NetSharesDeposited, row.Symbol, row.FairMarketValuePrice),
		RefPrice:    row.FairMarketValuePrice,
		RefCurrency: baseFiat,
	})
	return nil
}

func (c *Converter) brokerage(row BrokerageRow, ledger *ledgerconv.Ledger) error {
	switch row.Action {
	case "Sell":
		if err := ledgerconv.Check(row.Quantity.Valid && row.Price.Valid && row.Amount.Valid,
			"sell rows must carry quantity, price and amount", row); err != nil {
			return err
		}
		ticker, err := c.tickers.Resolve(row.Symbol, Exchange, ledgerconv.Stock)
		if err != nil {
			return err
		}
		e := ledgerconv.Entry{
			Time:          row.Date.Add(2 * time.Hour),
			Kind:          ledgerconv.Sell,
			BaseCurrency:  ticker,
			BaseAmount:    ledgerconv.Round8(row.Quantity.Decimal),
			QuoteCurrency: baseFiat,
			QuoteAmount:   ledgerconv.Round4(row.Amount.Decimal),
			From:          account,
			To:            account,
			Description:   row.Description,
			RefPrice:      row.Price.Decimal,
			RefCurrency:   baseFiat,
		}
		if row.Fees.Valid {
			e.FeeCurrency = baseFiat
			e.FeeAmount = ledgerconv.Round4(row.Fees.Decimal)
		}
		ledger.Append(e)
		return nil

	case "Service Fee":
		return c.cash(row, ledger, ledgerconv.Fee, 2*time.Hour, account, account)

	case "Wire Sent", "MoneyLink Transfer":
		return c.cash(row, ledger, ledgerconv.FiatWithdrawal, 3*time.Hour, account, ledgerconv.Bank)

	case "Credit Interest":
		return c.cash(row, ledger, ledgerconv.Interest, 0, account, account)

	case "Stock Plan Activity":
		// Covered by the Lapse rows of the equity-award export.
		return nil
	}
	return ledgerconv.Errf([]any{row}, "brokerage action %q cannot be reconciled", row.Action)
}

func (c *Converter) cash(row BrokerageRow, ledger *ledgerconv.Ledger, kind ledgerconv.Kind, offset time.Duration, from, to ledgerconv.Account) error {
	if err := ledgerconv.Check(row.Amount.Valid, "cash rows must carry an amount", row); err != nil {
		return err
	}
	ledger.Append(ledgerconv.Entry{
		Time:         row.Date.Add(offset),
		Kind:         kind,
		BaseCurrency: baseFiat,
		BaseAmount:   ledgerconv.Round4(row.Amount.Decimal.Abs()),
		From:         from,
		To:           to,
		Description:  row.Description,
	})
	return nil
}

// option reconciles one option trade. Opening and closing rows are told
// apart by the action suffix and each satisfies its own cost-basis algebra
// before an entry is synthesized.
func (c *Converter) option(row OptionRow, ledger *ledgerconv.Ledger) error {
	ticker, err := c.tickers.Resolve(row.Symbol, Exchange, ledgerconv.Option)
	if err != nil {
		return err
	}

	switch {
	case strings.HasSuffix(row.Action, "to Open"):
		if err := ledgerconv.Check(
			row.Quantity.IsPositive() && row.Proceeds.IsNegative() && row.Commission.Sign() <= 0 &&
				row.Basis.Equal(row.Proceeds.Add(row.Commission).Neg()),
			"option opening basis must equal the negated proceeds plus commission", row); err != nil {
			return err
		}
		e := ledgerconv.Entry{
			Time:          row.Date.Add(2 * time.Hour),
			Kind:          ledgerconv.Buy,
			BaseCurrency:  ticker,
			BaseAmount:    ledgerconv.Round8(row.Quantity),
			QuoteCurrency: baseFiat,
			QuoteAmount:   ledgerconv.Round4(row.Proceeds.Abs()),
			From:          account,
			To:            account,
			Description:   row.Description,
		}
		if !row.Commission.IsZero() {
			e.FeeCurrency = baseFiat
			e.FeeAmount = ledgerconv.Round4(row.Commission.Abs())
		}
		ledger.Append(e)
		return nil

	case strings.HasSuffix(row.Action, "to Close"):
		if err := ledgerconv.Check(row.RealizedPL.Valid, "option closing rows must report a realized result", row); err != nil {
			return err
		}
		expect := row.Proceeds.Sub(row.RealizedPL.Decimal).Add(row.Commission).Round(4)
		if err := ledgerconv.Check(row.Basis.Abs().Round(4).Equal(expect),
			"option closing basis must reconstruct from proceeds, result and commission", row); err != nil {
			return err
		}
		e := ledgerconv.Entry{
			Time:          row.Date.Add(2 * time.Hour),
			Kind:          ledgerconv.Sell,
			BaseCurrency:  ticker,
			BaseAmount:    ledgerconv.Round8(row.Quantity.Abs()),
			QuoteCurrency: baseFiat,
			QuoteAmount:   ledgerconv.Round4(row.Proceeds),
			From:          account,
			To:            account,
			Description:   row.Description,
		}
		if !row.Commission.IsZero() {
			e.FeeCurrency = baseFiat
			e.FeeAmount = ledgerconv.Round4(row.Commission.Abs())
		}
		ledger.Append(e)
		return nil
	}
	return ledgerconv.Errf([]any{row}, "option action %q cannot be reconciled", row.Action)
}
