package ig

import (
	"fmt"

	ledgerconv "github.com/ledgerconv/ledgerconv"
)

var accountCFD = ledgerconv.Account(ExchangeCFD)

// CFDConverter reconciles an IG CFD trade ledger. Only closed trades carry
// a result, so the loader already dropped opening rows; each remaining row
// becomes one realized profit or loss entry.
type CFDConverter struct {
	tickers *ledgerconv.Resolver
	warns   ledgerconv.WarningSink
}

func NewCFDConverter(tickers *ledgerconv.Resolver, warns ledgerconv.WarningSink) *CFDConverter {
	if warns == nil {
		warns = ledgerconv.Discard{}
	}
	return &CFDConverter{tickers: tickers, warns: warns}
}

func (c *CFDConverter) Convert(trades []CFDTradeRow) (*ledgerconv.Ledger, error) {
	ledger := ledgerconv.NewLedger()
	for _, tr := range trades {
		e, err := c.closingTrade(tr)
		if err != nil {
			return nil, err
		}
		ledger.Append(e)
	}
	ledger.Sort()
	return ledger, nil
}

func (c *CFDConverter) closingTrade(tr CFDTradeRow) (ledgerconv.Entry, error) {
	// CFD market names share the translation table with the share-dealing
	// account so one instrument maps to one symbol across both.
	ticker, err := c.tickers.ResolveStrict(tr.Market, Exchange, ledgerconv.Stock)
	if err != nil {
		return ledgerconv.Entry{}, err
	}

	if err := ledgerconv.Check(
		tr.Period == "" && tr.Borrowing.IsZero() && tr.Dividends.IsZero() &&
			tr.LRPrem.IsZero() && tr.Others.IsZero(),
		"trades with borrowing, dividend or premium components cannot be reconciled", tr); err != nil {
		return ledgerconv.Entry{}, err
	}
	if err := ledgerconv.Check(tr.PL.Add(tr.Commission).Add(tr.Funding).Round(2).Equal(tr.Total),
		"trade total must equal profit plus commission plus funding", tr); err != nil {
		return ledgerconv.Entry{}, err
	}

	// All commissions and the trade total are reported in the account
	// currency regardless of the instrument currency, with conversions
	// applied instantly by the broker. The result is modeled as a single
	// account-currency amount.
	c.warns.Warnf("cfd", ExchangeCFD,
		"IG CFD trades are recorded as pure %s results. This may not be an accurate way to do it.", tr.CommCcy)

	e := ledgerconv.Entry{
		Time:         tr.Closed,
		Kind:         ledgerconv.RealizedProfit,
		BaseCurrency: tr.CommCcy,
		BaseAmount:   ledgerconv.Round4(tr.Total.Abs()),
		From:         ledgerconv.CFDs,
		To:           accountCFD,
		ID:           tr.ClosingRef,
		Description:  fmt.Sprintf("%s %s: %s %s", ExchangeCFD, ticker, tr.Direction, tr.Market),
	}
	if tr.Total.Sign() <= 0 {
		e.Kind = ledgerconv.RealizedLoss
		e.From, e.To = accountCFD, ledgerconv.CFDs
	}
	return e, nil
}
