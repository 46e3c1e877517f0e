package ig

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	ledgerconv "github.com/ledgerconv/ledgerconv"
	"github.com/ledgerconv/ledgerconv/date"
	"github.com/shopspring/decimal"
)

var account = ledgerconv.Account(Exchange)

// SharesConverter reconciles an IG share-dealing export pair (trade blotter
// plus cash transaction ledger) into canonical entries. The two files are
// linked only through free-text references, so every trade first collects
// its auxiliary cash rows from a shared pool, then both sides are validated
// against each other before an entry is synthesized.
type SharesConverter struct {
	tickers *ledgerconv.Resolver
	warns   ledgerconv.WarningSink
}

func NewSharesConverter(tickers *ledgerconv.Resolver, warns ledgerconv.WarningSink) *SharesConverter {
	if warns == nil {
		warns = ledgerconv.Discard{}
	}
	return &SharesConverter{tickers: tickers, warns: warns}
}

// sharesRun is the state of a single Convert call.
type sharesRun struct {
	*SharesConverter
	pool   *ledgerconv.Pool[TransactionRow]
	ledger *ledgerconv.Ledger
}

// Convert reconciles the statement. Trades consume their auxiliary rows
// first, then currency-transfer pairs are matched, and whatever is left in
// the pool must be a standalone transaction. Any row that cannot be
// accounted for aborts the run.
func (c *SharesConverter) Convert(st SharesStatement) (*ledgerconv.Ledger, error) {
	r := &sharesRun{
		SharesConverter: c,
		pool:            ledgerconv.NewPool(st.Transactions),
		ledger:          ledgerconv.NewLedger(),
	}

	for _, trade := range st.Trades {
		if err := r.trade(trade); err != nil {
			return nil, err
		}
	}
	if err := r.currencyTransfers(); err != nil {
		return nil, err
	}

	withholding := r.takeWithholding()
	for _, tx := range r.pool.Take(func(TransactionRow) bool { return true }) {
		if err := r.transaction(tx, withholding); err != nil {
			return nil, err
		}
	}
	for _, rows := range withholding {
		for _, tx := range rows {
			return nil, ledgerconv.Errf([]any{tx}, "withholding tax record %d has no matching dividend", tx.Index)
		}
	}

	r.ledger.Sort()
	return r.ledger, nil
}

func (r *sharesRun) trade(tr TradeRow) error {
	group, err := linkTrade(tr, r.pool)
	if err != nil {
		return err
	}

	switch {
	case tr.Activity == "TRADE" && tr.Direction == "BUY":
		return r.buyTrade(tr, group)
	case tr.Activity == "TRADE" && tr.Direction == "SELL":
		return r.sellTrade(tr, group)
	case tr.Activity == "CORPORATE ACTION":
		return r.corporateAction(tr, group)
	case tr.Activity == "TRANSFER":
		return r.transfer(tr, group)
	}
	return ledgerconv.Errf([]any{tr}, "activity %q with direction %q cannot be reconciled", tr.Activity, tr.Direction)
}

func (r *sharesRun) buyTrade(tr TradeRow, g *MatchGroup) error {
	consideration := g.get(RoleConsideration)
	commission := g.get(RoleCommission)
	ticker, err := r.tickers.ResolveStrict(tr.Market, Exchange, ledgerconv.Stock)
	if err != nil {
		return err
	}
	if err := r.validateTrade(tr, consideration, commission); err != nil {
		return err
	}

	if err := ledgerconv.Check(g.get(RoleFee) == nil,
		"buy trades with exchange fees cannot be reconciled", tr); err != nil {
		return err
	}
	if err := ledgerconv.Check(tr.Consideration.IsNegative() && tr.Consideration.Equal(grossConsideration(tr)),
		"trade price fields disagree with each other", tr); err != nil {
		return err
	}
	if err := ledgerconv.Check(consideration.TransactionType == "WITH" && plTextConsistent(*consideration),
		"consideration fields disagree with each other", *consideration); err != nil {
		return err
	}

	if tr.Currency != consideration.CurrencyISO {
		if err := r.impliedConversion(tr, *consideration, true); err != nil {
			return err
		}
	}

	e := ledgerconv.Entry{
		Time:          tr.Date,
		Kind:          ledgerconv.Buy,
		BaseCurrency:  ticker,
		BaseAmount:    ledgerconv.Round8(tr.Quantity),
		QuoteCurrency: tr.Currency,
		QuoteAmount:   ledgerconv.Round4(tr.Consideration.Abs()),
		From:          account,
		To:            account,
		ID:            tr.OrderID,
		Description:   fmt.Sprintf("%s %s %s", Exchange, tr.Direction, tr.Market),
	}
	if commission != nil {
		e.FeeCurrency = commission.CurrencyISO
		e.FeeAmount = ledgerconv.Round4(commission.PLAmount.Abs())
	}
	r.ledger.Append(e)
	return nil
}

func (r *sharesRun) sellTrade(tr TradeRow, g *MatchGroup) error {
	consideration := g.get(RoleConsideration)
	commission := g.get(RoleCommission)
	fee := g.get(RoleFee)
	ticker, err := r.tickers.ResolveStrict(tr.Market, Exchange, ledgerconv.Stock)
	if err != nil {
		return err
	}
	if err := r.validateTrade(tr, consideration, commission); err != nil {
		return err
	}

	if err := ledgerconv.Check(tr.Consideration.IsPositive() && tr.Consideration.Equal(grossConsideration(tr)),
		"trade price fields disagree with each other", tr); err != nil {
		return err
	}
	if err := ledgerconv.Check(consideration.TransactionType == "DEPO" && plTextConsistent(*consideration),
		"consideration fields disagree with each other", *consideration); err != nil {
		return err
	}
	chargesZero := tr.Charges.Valid && tr.Charges.Decimal.IsZero()
	if err := ledgerconv.Check(chargesZero != (fee != nil),
		"fee record may only exist when the trade carries charges", tr); err != nil {
		return err
	}
	if fee != nil {
		if err := ledgerconv.Check(plTextConsistent(*fee) && fee.PLAmount.IsNegative(),
			"fee fields disagree with each other", *fee); err != nil {
			return err
		}
		if commission != nil {
			if err := ledgerconv.Check(fee.CurrencyISO == commission.CurrencyISO,
				"fee and commission must share one currency to be merged into the trade", tr, *fee, *commission); err != nil {
				return err
			}
		}
	}

	e := ledgerconv.Entry{
		Time:          tr.Date,
		Kind:          ledgerconv.Sell,
		BaseCurrency:  ticker,
		BaseAmount:    ledgerconv.Round8(tr.Quantity.Abs()),
		QuoteCurrency: tr.Currency,
		From:          account,
		To:            account,
		ID:            tr.OrderID,
		Description:   fmt.Sprintf("%s %s %s", Exchange, tr.Direction, tr.Market),
	}

	// The target ledger format nets same-currency commissions into the
	// proceeds of a sell instead of reporting them separately.
	quote := tr.Consideration
	if commission != nil && tr.Currency == commission.CurrencyISO {
		quote = quote.Add(commission.PLAmount)
	}
	e.QuoteAmount = ledgerconv.Round4(quote)

	if fee != nil || commission != nil {
		total := decimal.Zero
		if fee != nil {
			e.FeeCurrency = fee.CurrencyISO
			total = total.Add(fee.PLAmount.Abs())
		}
		if commission != nil {
			e.FeeCurrency = commission.CurrencyISO
			total = total.Add(commission.PLAmount.Abs())
		}
		e.FeeAmount = ledgerconv.Round4(total)
	}
	r.ledger.Append(e)

	if tr.Currency != consideration.CurrencyISO {
		return r.impliedConversion(tr, *consideration, false)
	}
	return nil
}

func (r *sharesRun) validateTrade(tr TradeRow, consideration, commission *TransactionRow) error {
	commissionZero := tr.Commission.Valid && tr.Commission.Decimal.IsZero()
	if err := ledgerconv.Check(tr.Settled && consideration != nil && (commission != nil) != commissionZero,
		"unsettled trades and trades without full cash information cannot be reconciled", tr); err != nil {
		return err
	}
	if err := ledgerconv.Check(
		(tr.Currency == consideration.CurrencyISO) == tr.Consideration.Equal(consideration.PLAmount),
		"trade and consideration currencies and values disagree", tr, *consideration); err != nil {
		return err
	}
	if commission != nil {
		if err := ledgerconv.Check(plTextConsistent(*commission) && commission.PLAmount.IsNegative(),
			"commission fields disagree with each other", *commission); err != nil {
			return err
		}
	}
	return nil
}

// grossConsideration is the cash value implied by the trade's own price and
// quantity columns. Prices are quoted in hundredths of the trade currency
// and the sign convention is cash-flow relative to the account.
func grossConsideration(tr TradeRow) decimal.Decimal {
	return tr.Price.Mul(tr.Quantity).Div(decimal.NewFromInt(-100)).Round(2)
}

// plTextConsistent checks the free-text profit-and-loss column against the
// numeric amount it is supposed to render.
func plTextConsistent(tx TransactionRow) bool {
	return tx.ProfitAndLoss == tx.Currency+ledgerconv.FormatMoney(tx.PLAmount, tx.CurrencyISO)
}

var conversionRate = regexp.MustCompile(`^.* Converted at ([\d.]+)$`)

// impliedConversion records the forex conversion IG performs silently when a
// trade settles in a currency other than the account currency. The
// conversion is placed one second before a buy and one second after a sell
// so the ledger orders the cash flows correctly.
func (r *sharesRun) impliedConversion(tr TradeRow, consideration TransactionRow, isBuy bool) error {
	m := conversionRate.FindStringSubmatch(consideration.MarketName)
	if err := ledgerconv.Check(m != nil,
		"trade with implied currency conversion must state the conversion rate", tr, consideration); err != nil {
		return err
	}

	kind := ledgerconv.Sell
	offset := time.Second
	if isBuy {
		kind = ledgerconv.Buy
		offset = -time.Second
	}
	r.ledger.Append(ledgerconv.Entry{
		Time:          tr.Date.Add(offset),
		Kind:          kind,
		BaseCurrency:  tr.Currency,
		BaseAmount:    ledgerconv.Round4(tr.Consideration.Abs()),
		QuoteCurrency: consideration.CurrencyISO,
		QuoteAmount:   ledgerconv.Round4(consideration.PLAmount.Abs()),
		From:          account,
		To:            account,
		ID:            tr.OrderID,
		Description: fmt.Sprintf("%s %s %s for %s at %s",
			Exchange, tr.Direction, tr.Currency, consideration.CurrencyISO, m[1]),
	})
	return nil
}

// currencyTransfers matches manual forex conversions, which IG reports as a
// DEPO and a WITH row sharing one market name and timestamp, and emits each
// pair as a single buy of the deposited currency.
func (r *sharesRun) currencyTransfers() error {
	transfers := r.pool.Take(func(tx TransactionRow) bool { return tx.Summary == "Currency Transfers" })
	matched := make(map[int]bool)
	for _, buy := range transfers {
		if buy.TransactionType != "DEPO" {
			continue
		}
		var sell *TransactionRow
		for i := range transfers {
			tx := transfers[i]
			if tx.TransactionType == "WITH" && tx.MarketName == buy.MarketName && tx.DateUTC.Equal(buy.DateUTC) {
				if err := ledgerconv.Check(sell == nil && !matched[tx.Index],
					"each DEPO currency transfer needs exactly one matching WITH row", buy); err != nil {
					return err
				}
				sell = &transfers[i]
			}
		}
		if err := ledgerconv.Check(sell != nil,
			"each DEPO currency transfer needs exactly one matching WITH row", buy); err != nil {
			return err
		}
		matched[buy.Index] = true
		matched[sell.Index] = true

		if err := ledgerconv.Check(
			buy.CurrencyISO != sell.CurrencyISO && sell.PLAmount.IsNegative() && buy.PLAmount.IsPositive(),
			"currency transfer pair currencies and values disagree", buy, *sell); err != nil {
			return err
		}
		r.ledger.Append(ledgerconv.Entry{
			Time:          buy.DateUTC,
			Kind:          ledgerconv.Buy,
			BaseCurrency:  buy.CurrencyISO,
			BaseAmount:    ledgerconv.Round4(buy.PLAmount),
			QuoteCurrency: sell.CurrencyISO,
			QuoteAmount:   ledgerconv.Round4(sell.PLAmount.Abs()),
			From:          account,
			To:            account,
			ID:            buy.Reference + "," + sell.Reference,
			Description:   fmt.Sprintf("%s %s: %s", Exchange, buy.Summary, buy.MarketName),
		})
	}
	for _, tx := range transfers {
		if err := ledgerconv.Check(matched[tx.Index],
			"currency transfer row has no matching counterpart", tx); err != nil {
			return err
		}
	}
	return nil
}

func (r *sharesRun) corporateAction(tr TradeRow, g *MatchGroup) error {
	if err := ledgerconv.Check(len(g.aux) == 0,
		"corporate actions do not carry auxiliary records", tr); err != nil {
		return err
	}
	// Actions of consequence (SPAC merges and the like) name neither the
	// old nor the new instrument in the export, so they stay manual.
	commissionEmpty := !tr.Commission.Valid
	chargesZero := tr.Charges.Valid && tr.Charges.Decimal.IsZero()
	costZero := tr.CostProceeds.Valid && tr.CostProceeds.Decimal.IsZero()
	return ledgerconv.Check(
		tr.Price.IsZero() && tr.Consideration.IsZero() && commissionEmpty && chargesZero && costZero,
		"only corporate actions without financial consequence can be reconciled", tr)
}

func (r *sharesRun) transfer(tr TradeRow, g *MatchGroup) error {
	ticker, err := r.tickers.ResolveStrict(tr.Market, Exchange, ledgerconv.Stock)
	if err != nil {
		return err
	}
	r.warns.Warnf("transfer", Exchange,
		"Your statement contains outgoing stock transfers. These are recorded as 'send' "+
			"entries with an unknown destination, which you may have to match manually.")

	if err := ledgerconv.Check(len(g.aux) == 0,
		"stock transfers do not carry auxiliary records", tr); err != nil {
		return err
	}
	if err := ledgerconv.Check(tr.Direction == "SELL" && tr.Quantity.IsNegative(),
		"only outgoing stock transfers can be reconciled", tr); err != nil {
		return err
	}
	if err := ledgerconv.Check(
		tr.Price.IsZero() && !tr.Commission.Valid && !tr.Charges.Valid &&
			!tr.CostProceeds.Valid && !tr.ConversionRate.Valid,
		"stock transfers must leave the cash fields empty", tr); err != nil {
		return err
	}

	r.ledger.Append(ledgerconv.Entry{
		Time:         tr.Date,
		Kind:         ledgerconv.Send,
		BaseCurrency: ticker,
		BaseAmount:   ledgerconv.Round8(tr.Quantity.Abs()),
		From:         account,
		To:           ledgerconv.Unknown,
		ID:           tr.OrderID,
		Description:  fmt.Sprintf("%s Outgoing Transfer: %s", Exchange, tr.Market),
	})
	return nil
}

// takeWithholding removes every withholding-tax row from the pool, indexed
// by market name and calendar day so dividends can claim them later.
func (r *sharesRun) takeWithholding() map[string][]TransactionRow {
	byKey := make(map[string][]TransactionRow)
	for _, tx := range r.pool.Take(func(tx TransactionRow) bool { return tx.Summary == "Withholding Tax" }) {
		k := withholdingKey(tx.MarketName, tx.DateUTC)
		byKey[k] = append(byKey[k], tx)
	}
	return byKey
}

func withholdingKey(market string, t time.Time) string {
	return market + "\x00" + t.Format(date.LayoutDayOnly)
}

func (r *sharesRun) transaction(tx TransactionRow, withholding map[string][]TransactionRow) error {
	if err := ledgerconv.Check(!tx.CashTransaction,
		"records flagged as cash transactions cannot be reconciled", tx); err != nil {
		return err
	}

	// Inter-account transfers are recorded as deposits and withdrawals
	// rather than send/receive pairs. Moving currency between own accounts
	// is not a taxable event, so nothing is lost and nothing needs manual
	// matching.
	switch {
	case tx.TransactionType == "DEPO" && (tx.Summary == "Cash In" || tx.Summary == "Inter Account Transfers"):
		r.simpleEntry(tx, ledgerconv.FiatDeposit, ledgerconv.Bank, account, tx.PLAmount.Abs(), "")
		return nil
	case tx.TransactionType == "DEPO" && tx.Summary == "Dividend":
		return r.dividend(tx, withholding)
	case tx.TransactionType == "WITH" && (tx.Summary == "Cash Out" || tx.Summary == "Inter Account Transfers"):
		r.simpleEntry(tx, ledgerconv.FiatWithdrawal, account, ledgerconv.Bank, tx.PLAmount.Abs(), "")
		return nil
	case tx.TransactionType == "WITH" && tx.Summary == "" && strings.HasPrefix(tx.MarketName, "Custody Fee "):
		r.simpleEntry(tx, ledgerconv.Fee, account, account, tx.PLAmount.Abs(), "")
		return nil
	case tx.TransactionType == "EXCHANGE" && tx.Summary == "Exchange Fees":
		r.simpleEntry(tx, ledgerconv.Fee, account, account, tx.PLAmount.Abs(), "")
		return nil
	}
	return ledgerconv.Errf([]any{tx}, "transaction type %q (%q) cannot be reconciled", tx.TransactionType, tx.Summary)
}

// dividend emits a fiat deposit from the dividends account. When a
// withholding-tax row was reported for the same instrument on the same day
// it is netted into the deposited amount.
func (r *sharesRun) dividend(tx TransactionRow, withholding map[string][]TransactionRow) error {
	r.warns.Warnf("dividends", Exchange,
		"Your statement contains dividends. These are recorded as fiat deposits from "+
			"a synthetic 'Dividends' account, check how your tax jurisdiction treats them.")

	amount := tx.PLAmount
	note := ""
	k := withholdingKey(tx.MarketName, tx.DateUTC)
	if rows := withholding[k]; len(rows) > 0 {
		group := newMatchGroup(tx, RoleWithholdingTax)
		for _, tax := range rows {
			if err := group.add(RoleWithholdingTax, tax); err != nil {
				return err
			}
		}
		delete(withholding, k)
		tax := group.get(RoleWithholdingTax)
		if err := ledgerconv.Check(tax.PLAmount.IsNegative() && tax.PLAmount.Abs().LessThan(tx.PLAmount),
			"withholding tax must be negative and smaller than its dividend", tx, *tax); err != nil {
			return err
		}
		amount = amount.Add(tax.PLAmount)
		note = " (net of withholding tax)"
	}
	if err := ledgerconv.Check(amount.IsPositive(), "dividend amount must be positive", tx); err != nil {
		return err
	}
	r.simpleEntry(tx, ledgerconv.FiatDeposit, ledgerconv.Dividends, account, amount, note)
	return nil
}

func (r *sharesRun) simpleEntry(tx TransactionRow, kind ledgerconv.Kind, from, to ledgerconv.Account, amount decimal.Decimal, note string) {
	r.ledger.Append(ledgerconv.Entry{
		Time:         tx.DateUTC,
		Kind:         kind,
		BaseCurrency: tx.CurrencyISO,
		BaseAmount:   ledgerconv.Round4(amount),
		From:         from,
		To:           to,
		ID:           tx.Reference,
		Description:  fmt.Sprintf("%s %s: %s%s", Exchange, tx.Summary, tx.MarketName, note),
	})
}
