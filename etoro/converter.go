package etoro

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerconv/ledgerconv"
	"github.com/ledgerconv/ledgerconv/date"
)

// Only USD accounts are supported; no examples of other base currencies
// exist.
const baseFiat = "USD"

// account is the eToro account tag on synthesized entries.
const account = ledgerconv.Account(Exchange)

// Converter reconciles an eToro account statement into canonical ledger
// entries.
//
// The statement carries two loosely linked tables: the account activity
// (one row per transaction) and the closed-positions summary (one row per
// position). Most events need both: an activity row names a position id,
// and the position row supplies the economics the activity row omits.
type Converter struct {
	tickers *ledgerconv.Resolver
	warns   ledgerconv.WarningSink
}

// NewConverter builds a converter. A nil sink discards warnings.
func NewConverter(tickers *ledgerconv.Resolver, warns ledgerconv.WarningSink) *Converter {
	if warns == nil {
		warns = ledgerconv.Discard{}
	}
	return &Converter{tickers: tickers, warns: warns}
}

// run is the per-invocation state: the statement plus its position index.
// It never mutates the statement's rows.
type run struct {
	*Converter
	st        Statement
	positions map[string]*PositionRow
	ledger    *ledgerconv.Ledger
}

// Convert reconciles the statement. The first consistency violation aborts
// the run; no partial ledger is returned.
func (c *Converter) Convert(st Statement) (*ledgerconv.Ledger, error) {
	if err := ledgerconv.Check(st.BaseCurrency == baseFiat,
		fmt.Sprintf("only %s accounts are supported, got %q", baseFiat, st.BaseCurrency)); err != nil {
		return nil, err
	}

	r := &run{Converter: c, st: st, positions: make(map[string]*PositionRow), ledger: ledgerconv.NewLedger()}
	for i := range st.Positions {
		p := &st.Positions[i]
		if err := ledgerconv.Check(r.positions[p.ID] == nil,
			fmt.Sprintf("duplicate position id %q in closed positions", p.ID), *p); err != nil {
			return nil, err
		}
		r.positions[p.ID] = p
	}

	if err := r.validatePositions(); err != nil {
		return nil, err
	}

	for _, tx := range st.Transactions {
		entry, err := r.reconcile(tx, r.positions[tx.PositionID])
		if err != nil {
			return nil, err
		}
		if entry != nil {
			r.ledger.Append(*entry)
		}
	}

	r.ledger.Sort()
	return r.ledger, nil
}

// reconcile dispatches one activity row on its declared event type. A nil
// entry with nil error means the event is on the explicit ignore list and
// synthesizes nothing.
func (r *run) reconcile(tx TransactionRow, pos *PositionRow) (*ledgerconv.Entry, error) {
	if err := ledgerconv.Check(tx.NWA.IsZero(),
		"the NWA column is always 0.00 in every available example; a non-zero value is unhandled", tx); err != nil {
		return nil, err
	}
	if tx.Type == "Edit Stop Loss" {
		// No financial effect.
		return nil, nil
	}
	if err := ledgerconv.Check(pos == nil || tx.AssetType == pos.Type,
		"asset type must agree between the activity row and its position", tx, pos); err != nil {
		return nil, err
	}
	if tx.Type == "Withdraw Fee" {
		if !tx.Amount.IsZero() {
			r.warns.Warnf("withdrawal-fees", "",
				"It appears that there is a withdrawal fee. Saving this data is NOT IMPLEMENTED.")
		}
		return nil, nil
	}

	if pos == nil {
		switch tx.Type {
		case "Deposit":
			return r.fiatTransfer(tx, true)
		case "Withdraw Request":
			return r.fiatTransfer(tx, false)
		case "Interest Payment":
			return r.interestPayment(tx)
		}
	}

	if pos != nil && tx.AssetType != "CFD" {
		switch tx.Type {
		case "Open Position":
			return r.openPosition(tx, pos)
		case "Position closed":
			return r.closePosition(tx, pos)
		case "corp action: Split":
			return r.stockSplit(tx, pos)
		case "Dividend":
			return r.dividend(tx)
		}
	}

	if pos != nil && tx.AssetType == "CFD" {
		switch tx.Type {
		case "Open Position":
			return r.cfdOpenPosition(tx)
		case "Rollover Fee":
			return r.cfdRolloverFee(tx, pos)
		case "Position closed":
			return r.cfdClosePosition(tx, pos)
		}
	}

	return nil, ledgerconv.Errf([]any{tx},
		"row %d of type %q cannot be reconciled; this event shape has no rule and is not on the ignore list", tx.Index, tx.Type)
}

// validateFiat checks the invariants shared by all cash-only events.
func validateFiat(tx TransactionRow, operation string) error {
	if err := ledgerconv.Check(tx.Amount.Equal(tx.RealizedEquityChange),
		operation+" amount inconsistent with realized equity change", tx); err != nil {
		return err
	}
	return ledgerconv.Check(tx.PositionID == "" && tx.AssetType == "",
		operation+" cannot have a position id or asset type", tx)
}

func (r *run) fiatTransfer(tx TransactionRow, isDeposit bool) (*ledgerconv.Entry, error) {
	operation := "Withdrawal"
	if isDeposit {
		operation = "Deposit"
	}
	if err := validateFiat(tx, operation); err != nil {
		return nil, err
	}

	e := ledgerconv.Entry{
		// Whatever currency the customer actually moved, eToro converts it
		// to the account base currency, and the conversion itself is not
		// recorded in the statement. So the amount is already in USD.
		Time:         tx.Date,
		BaseCurrency: baseFiat,
		BaseAmount:   tx.Amount.Abs(),
		Description:  trimJoin(Exchange, tx.Type, tx.Details),
		// Fiat transactions do not have ids on eToro.
	}
	if isDeposit {
		e.Kind, e.From, e.To = ledgerconv.FiatDeposit, ledgerconv.Bank, account
	} else {
		e.Kind, e.From, e.To = ledgerconv.FiatWithdrawal, account, ledgerconv.Bank
	}
	return &e, nil
}

func (r *run) interestPayment(tx TransactionRow) (*ledgerconv.Entry, error) {
	if err := validateFiat(tx, "Interest Payment"); err != nil {
		return nil, err
	}
	if err := ledgerconv.Check(tx.Details == "" && !tx.Units.Valid,
		"Interest Payment has unexpected data", tx); err != nil {
		return nil, err
	}
	return &ledgerconv.Entry{
		Time:         tx.Date,
		Kind:         ledgerconv.Interest,
		BaseCurrency: baseFiat,
		BaseAmount:   tx.Amount,
		From:         account,
		To:           account,
		Description:  trimJoin(Exchange, tx.Type),
	}, nil
}

func (r *run) openPosition(tx TransactionRow, pos *PositionRow) (*ledgerconv.Entry, error) {
	ticker, err := r.parseTicker(tx.Details, tx.AssetType)
	if err != nil {
		return nil, err
	}
	// Transaction and position views of the same opening occasionally
	// disagree by one second.
	if err := ledgerconv.Check(date.AlmostEqual(tx.Date, pos.OpenDate, time.Second) && tx.Amount.Equal(pos.Amount),
		"open position data is not consistent between transaction and position", tx, *pos); err != nil {
		return nil, err
	}
	if err := ledgerconv.Check(tx.RealizedEquityChange.IsZero(),
		"stock-like asset open transactions cannot change realized equity", tx, *pos); err != nil {
		return nil, err
	}
	if err := ledgerconv.Check(tx.Units.Valid, "open position requires a unit count", tx); err != nil {
		return nil, err
	}

	return &ledgerconv.Entry{
		Time:         tx.Date,
		Kind:         ledgerconv.Buy,
		BaseCurrency: ticker,
		BaseAmount:   tx.Units.Decimal,
		// Positions closed in more than one transaction need the sibling
		// position records folded in to recover the full opening amount;
		// see openingAmount.
		QuoteCurrency: baseFiat,
		QuoteAmount:   ledgerconv.Round4(r.openingAmount(tx, pos)),
		From:          account,
		To:            account,
		ID:            makeID(tx.PositionID),
		Description:   trimJoin(Exchange, pos.Action+":", tx.Type),
	}, nil
}

func (r *run) closePosition(tx TransactionRow, pos *PositionRow) (*ledgerconv.Entry, error) {
	ticker, err := r.parseTicker(tx.Details, tx.AssetType)
	if err != nil {
		return nil, err
	}
	if err := ledgerconv.Check(date.AlmostEqual(tx.Date, pos.CloseDate, time.Second) && tx.Amount.Equal(pos.Profit),
		"close data is not consistent between transaction and position", tx, *pos); err != nil {
		return nil, err
	}
	if err := ledgerconv.Check(tx.Amount.Equal(tx.RealizedEquityChange),
		"transaction close amount is not equal to equity change", tx); err != nil {
		return nil, err
	}

	return &ledgerconv.Entry{
		Time:         tx.Date,
		Kind:         ledgerconv.Sell,
		BaseCurrency: ticker,
		BaseAmount:   pos.Units,
		// For openings "amount" is the amount, but for closings it is the
		// profit, so the disposal proceeds are opening amount plus profit.
		QuoteCurrency: baseFiat,
		QuoteAmount:   ledgerconv.Round4(pos.Amount.Add(tx.Amount)),
		From:          account,
		To:            account,
		ID:            makeID(tx.PositionID),
		Description:   trimJoin(Exchange, pos.Action+":", tx.Type),
	}, nil
}

// splitDetails matches the free-text split description, e.g. "NVDA 10:1".
var splitDetails = regexp.MustCompile(`^(\w+) (\d+):(\d+)$`)

func (r *run) stockSplit(tx TransactionRow, pos *PositionRow) (*ledgerconv.Entry, error) {
	if err := ledgerconv.Check(tx.Amount.IsZero() && !tx.Units.Valid &&
		tx.RealizedEquityChange.IsZero() && tx.Balance.IsZero(),
		"unexpected data in stock split transaction", tx); err != nil {
		return nil, err
	}

	m := splitDetails.FindStringSubmatch(tx.Details)
	if err := ledgerconv.Check(m != nil,
		fmt.Sprintf("the transaction information %q for a stock split is incorrect", tx.Details), tx); err != nil {
		return nil, err
	}
	ticker, err := r.parseTicker(m[1], tx.AssetType)
	if err != nil {
		return nil, err
	}
	splitTo, splitFrom := m[2], m[3]
	if err := ledgerconv.Check(splitFrom == "1",
		"only simple 'x:1' stock splits are supported", tx); err != nil {
		return nil, err
	}
	if err := ledgerconv.Check(len(r.transactionsOfType(pos.ID, "corp action: Split")) == 1,
		"only one stock split per position id is supported", tx); err != nil {
		return nil, err
	}
	ratio, err2 := decimal.NewFromString(splitTo)
	if err2 != nil {
		return nil, ledgerconv.Errf([]any{tx}, "split ratio %q: %v", splitTo, err2)
	}

	r.warns.Warnf("stock-splits", "",
		"Stock splits are modeled as a zero-cost share issuance ('chain-split'). "+
			"Ignore the downstream 'missing market price' warning for these entries; "+
			"cost basis is then adjusted proportionally by the pooling rules.")

	return &ledgerconv.Entry{
		Time: tx.Date,
		Kind: ledgerconv.ChainSplit,
		// The statement never states the newly issued share count, so it
		// is derived from the post-split unit count.
		BaseCurrency: ticker,
		BaseAmount:   ledgerconv.Round8(pos.Units.Sub(pos.Units.Div(ratio))),
		From:         account,
		To:           account,
		ID:           makeID(tx.PositionID),
		Description:  trimJoin(Exchange, pos.Action+":", tx.Type),
	}, nil
}

func (r *run) dividend(tx TransactionRow) (*ledgerconv.Entry, error) {
	if err := ledgerconv.Check(!tx.Units.Valid, "dividend cannot have units", tx); err != nil {
		return nil, err
	}

	r.warns.Warnf("dividends", "",
		"Dividends are categorized as fiat deposits so they contribute to the cash "+
			"balance; they are taxed separately and are excluded from disposal computations.")

	return &ledgerconv.Entry{
		Time:         tx.Date,
		Kind:         ledgerconv.FiatDeposit,
		BaseCurrency: baseFiat,
		BaseAmount:   tx.Amount,
		From:         ledgerconv.Dividends,
		To:           account,
		ID:           makeID(tx.PositionID),
		Description:  trimJoin(Exchange, tx.Type+":", tx.Details),
	}, nil
}

func (r *run) cfdOpenPosition(tx TransactionRow) (*ledgerconv.Entry, error) {
	// CFDs are taxed purely on realized profit and loss, so the opening
	// trade carries no tax consequence of its own. The realized-equity
	// check also covers any hypothetical opening fee.
	return nil, ledgerconv.Check(tx.RealizedEquityChange.IsZero(),
		"CFD open transactions with an opening realized equity change are not supported", tx)
}

func (r *run) cfdRolloverFee(tx TransactionRow, pos *PositionRow) (*ledgerconv.Entry, error) {
	if err := ledgerconv.Check(tx.Amount.Equal(tx.RealizedEquityChange) && tx.Amount.IsNegative() && !tx.Units.Valid,
		"CFD rollover fee transaction has unexpected values", tx); err != nil {
		return nil, err
	}
	return &ledgerconv.Entry{
		// Whether CFDs should be taxed entirely at close or as each
		// expense occurs is unsettled; recognizing each expense when it
		// happens makes more sense, so every rollover fee is its own entry.
		Time:         tx.Date,
		Kind:         ledgerconv.RealizedLoss,
		BaseCurrency: baseFiat,
		BaseAmount:   tx.Amount,
		From:         account,
		To:           ledgerconv.CFDs,
		ID:           makeID(tx.PositionID),
		Description:  fmt.Sprintf("%s %s %s for: %s", Exchange, tx.AssetType, tx.Details, cfdPositionInfo(pos)),
	}, nil
}

func (r *run) cfdClosePosition(tx TransactionRow, pos *PositionRow) (*ledgerconv.Entry, error) {
	if err := ledgerconv.Check(tx.Amount.Equal(pos.Profit),
		"CFD closing transaction is not consistent with its position entry", tx, *pos); err != nil {
		return nil, err
	}
	if err := ledgerconv.Check(tx.Amount.Equal(tx.RealizedEquityChange),
		"CFD closing position is inconsistent", tx); err != nil {
		return nil, err
	}

	// CFD results are modeled as plain base-fiat amounts; the instrument
	// and leverage go into the description. The from/to orientation is what
	// makes the fiat totals come out right downstream, even though both
	// outcomes are disposals.
	isProfit := tx.Amount.IsPositive()
	e := ledgerconv.Entry{
		Time:         tx.Date,
		BaseCurrency: baseFiat,
		BaseAmount:   tx.Amount.Abs(),
		ID:           makeID(tx.PositionID),
		Description:  fmt.Sprintf("%s %s %s for: %s", Exchange, tx.AssetType, tx.Type, cfdPositionInfo(pos)),
	}
	if isProfit {
		e.Kind, e.From, e.To = ledgerconv.RealizedProfit, ledgerconv.CFDs, account
	} else {
		e.Kind, e.From, e.To = ledgerconv.RealizedLoss, account, ledgerconv.CFDs
	}
	return &e, nil
}

func (r *run) parseTicker(name, assetType string) (string, error) {
	class := ledgerconv.Stock
	if assetType == "Crypto" {
		class = ledgerconv.Crypto
	}
	ticker, err := r.tickers.Resolve(name, Exchange, class)
	if err != nil {
		return "", ledgerconv.Errf([]any{name}, "resolving ticker %q: %v", name, err)
	}
	return ticker, nil
}

func makeID(positionID string) string {
	return Exchange + ":" + positionID
}

func cfdPositionInfo(pos *PositionRow) string {
	leverage := "without leverage"
	if !pos.Leverage.Equal(decimal.NewFromInt(1)) {
		leverage = fmt.Sprintf("with %sx leverage", pos.Leverage)
	}
	return fmt.Sprintf("%s on %s %s", pos.Action, pos.OpenDate.Format(ledgerconv.TimestampFormat), leverage)
}
