package ig

import (
	"strings"

	ledgerconv "github.com/ledgerconv/ledgerconv"
)

// Role classifies an auxiliary cash row relative to its primary record.
type Role int

const (
	// RoleConsideration is the gross cash leg of a trade.
	RoleConsideration Role = iota
	// RoleCommission is the broker commission charged on a trade.
	RoleCommission
	// RoleFee is an exchange or regulatory fee charged on a trade.
	RoleFee
	// RoleWithholdingTax is tax withheld at source from a dividend.
	RoleWithholdingTax
)

func (r Role) String() string {
	switch r {
	case RoleConsideration:
		return "consideration"
	case RoleCommission:
		return "commission"
	case RoleFee:
		return "fee"
	case RoleWithholdingTax:
		return "withholding tax"
	}
	return "unknown"
}

// MatchGroup collects one primary record together with the auxiliary cash
// rows that belong to it, keyed by role. Which roles are legal depends on
// the primary: a trade admits consideration, commission and fee, a
// dividend admits only withholding tax.
type MatchGroup struct {
	primary any
	legal   []Role
	aux     map[Role]TransactionRow
}

func newMatchGroup(primary any, legal ...Role) *MatchGroup {
	return &MatchGroup{primary: primary, legal: legal, aux: make(map[Role]TransactionRow)}
}

func (g *MatchGroup) add(role Role, tx TransactionRow) error {
	allowed := false
	for _, r := range g.legal {
		if r == role {
			allowed = true
			break
		}
	}
	if !allowed {
		return ledgerconv.Errf([]any{g.primary, tx}, "auxiliary record of role %s is not valid for this record", role)
	}
	if prev, ok := g.aux[role]; ok {
		return ledgerconv.Errf([]any{g.primary, prev, tx}, "duplicate auxiliary record for role %s", role)
	}
	g.aux[role] = tx
	return nil
}

// get returns the auxiliary row for role, or nil when absent.
func (g *MatchGroup) get(role Role) *TransactionRow {
	if tx, ok := g.aux[role]; ok {
		return &tx
	}
	return nil
}

// matchesOrder reports whether a cash row belongs to the trade with the
// given order id. IG carries no structured link between the two exports,
// the order id only ever appears as a substring of the cash row's market
// name (e.g. "AAPL Consideration ABC123XY").
func matchesOrder(tx TransactionRow, orderID string) bool {
	return orderID != "" && strings.Contains(tx.MarketName, orderID)
}

// linkTrade removes from the pool every cash row referencing the trade's
// order id and classifies each one into its role. Every matched row is
// validated to be a plain auxiliary row, not a standalone transaction.
func linkTrade(trade TradeRow, pool *ledgerconv.Pool[TransactionRow]) (*MatchGroup, error) {
	group := newMatchGroup(trade, RoleConsideration, RoleCommission, RoleFee)
	for _, tx := range pool.Take(func(tx TransactionRow) bool { return matchesOrder(tx, trade.OrderID) }) {
		if err := validateAux(trade, tx); err != nil {
			return nil, err
		}
		role, err := classifyAux(trade, tx)
		if err != nil {
			return nil, err
		}
		if err := group.add(role, tx); err != nil {
			return nil, err
		}
	}
	return group, nil
}

func validateAux(trade TradeRow, tx TransactionRow) error {
	if err := ledgerconv.Check(!tx.CashTransaction, "auxiliary record flagged as cash transaction", trade, tx); err != nil {
		return err
	}
	if err := ledgerconv.Check(tx.CloseLevel.IsZero(), "auxiliary record carries a close level", trade, tx); err != nil {
		return err
	}
	if err := ledgerconv.Check(!tx.Size.Valid && tx.Period == "", "auxiliary record carries position fields", trade, tx); err != nil {
		return err
	}
	return nil
}

func classifyAux(trade TradeRow, tx TransactionRow) (Role, error) {
	switch {
	case tx.Summary == "Client Consideration":
		return RoleConsideration, nil
	case tx.Summary == "Share Dealing Commissions":
		return RoleCommission, nil
	case tx.Summary == "" && strings.Contains(tx.MarketName, " Fee "):
		return RoleFee, nil
	}
	return 0, ledgerconv.Errf([]any{trade, tx}, "auxiliary record %d cannot be classified", tx.Index)
}
