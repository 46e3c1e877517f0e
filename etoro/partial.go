package etoro

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerconv/ledgerconv"
	"github.com/ledgerconv/ledgerconv/date"
)

// This file reconstructs the opening economics of partial positions.
//
// When a position is closed in more than one transaction, eToro records the
// opening split across several position rows with unrelated position ids,
// and each row carries only its share of the opening amount. The full open
// price has to be recovered by summing the amounts of all sibling rows.

// siblings returns the position rows opened at the same instant as pos,
// with the same asset type and a different id.
//
// Matching on (open date, type) alone is a heuristic: unrelated positions
// opened in the same second would be misattributed. A more exact match
// would need a field the statement does not carry, so this approximation is
// accepted as is.
func (r *run) siblings(pos *PositionRow) []*PositionRow {
	var out []*PositionRow
	for i := range r.st.Positions {
		p := &r.st.Positions[i]
		if p.ID != pos.ID && p.OpenDate.Equal(pos.OpenDate) && p.Type == pos.Type {
			out = append(out, p)
		}
	}
	return out
}

// openingAmount returns the full opening amount for the position an
// activity row opened: the row's own amount plus the amounts of all sibling
// position rows.
func (r *run) openingAmount(tx TransactionRow, pos *PositionRow) decimal.Decimal {
	sum := tx.Amount
	for _, s := range r.siblings(pos) {
		sum = sum.Add(s.Amount)
	}
	return sum
}

// transactionsOfType returns the activity rows for a position id with the
// given event type.
func (r *run) transactionsOfType(positionID, eventType string) []TransactionRow {
	var out []TransactionRow
	for _, tx := range r.st.Transactions {
		if tx.PositionID == positionID && tx.Type == eventType {
			out = append(out, tx)
		}
	}
	return out
}

// validatePositions runs the cross-table consistency checks over the
// closed-positions sheet before any activity row is reconciled.
func (r *run) validatePositions() error {
	one := decimal.NewFromInt(1)
	for i := range r.st.Positions {
		pos := &r.st.Positions[i]

		totalDividends := decimal.Zero
		for _, tx := range r.transactionsOfType(pos.ID, "Dividend") {
			totalDividends = totalDividends.Add(tx.Amount)
		}
		if err := ledgerconv.Check(pos.Type == "CFD" || pos.RolloverFeesAndDividends.Equal(totalDividends),
			"stock-like assets should have no rollover fees and consistent dividend totals", *pos); err != nil {
			return err
		}
		if err := ledgerconv.Check(pos.Type == "CFD" || pos.Leverage.Equal(one),
			"only CFDs can be leveraged", *pos); err != nil {
			return err
		}
		if err := r.checkPartialPositionComplete(pos); err != nil {
			return err
		}
	}
	return nil
}

// checkPartialPositionComplete ensures that for every closed position the
// opening trade is inside the source window, either for the position itself
// or for at least one sibling. Without it, a partial position's opening
// amount would be silently understated; with it, the sibling summation in
// openingAmount is known to cover the whole opening.
func (r *run) checkPartialPositionComplete(pos *PositionRow) error {
	if len(r.transactionsOfType(pos.ID, "Open Position")) == 1 {
		return nil
	}
	for _, s := range r.siblings(pos) {
		if len(r.transactionsOfType(s.ID, "Open Position")) == 1 {
			return nil
		}
	}
	return ledgerconv.Errf([]any{*pos},
		"please use a source file with transaction data starting on %s or earlier in order to "+
			"include the opening trade for position %q; if this is a partial position, this is "+
			"required to calculate the opening price correctly",
		pos.OpenDate.Format(date.LayoutDayOnly), pos.ID)
}

// trimJoin joins non-empty parts with single spaces.
func trimJoin(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}
