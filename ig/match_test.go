package ig

import (
	"strings"
	"testing"

	"github.com/ledgerconv/ledgerconv"
)

func TestLinkTradeClassifiesAuxiliaryRows(t *testing.T) {
	trade := TradeRow{OrderID: "ABC123", Market: "Apple Inc"}
	pool := ledgerconv.NewPool([]TransactionRow{
		{Index: 1, Summary: "Client Consideration", MarketName: "Apple Inc Consideration ABC123"},
		{Index: 2, Summary: "Share Dealing Commissions", MarketName: "Apple Inc Commission ABC123"},
		{Index: 3, Summary: "", MarketName: "SEC Fee ABC123"},
		{Index: 4, Summary: "Cash In", MarketName: "Deposit", TransactionType: "DEPO"},
	})

	g, err := linkTrade(trade, pool)
	if err != nil {
		t.Fatalf("linkTrade: %v", err)
	}
	if g.get(RoleConsideration) == nil || g.get(RoleCommission) == nil || g.get(RoleFee) == nil {
		t.Errorf("missing roles: consideration=%v commission=%v fee=%v",
			g.get(RoleConsideration), g.get(RoleCommission), g.get(RoleFee))
	}
	if g.get(RoleWithholdingTax) != nil {
		t.Errorf("unexpected withholding tax row")
	}
	// The unrelated cash row must stay in the pool.
	if pool.Len() != 1 || pool.Remaining()[0].Index != 4 {
		t.Errorf("pool after linking: %v", pool.Remaining())
	}
}

func TestLinkTradeDuplicateRole(t *testing.T) {
	trade := TradeRow{OrderID: "ABC123"}
	pool := ledgerconv.NewPool([]TransactionRow{
		{Index: 1, Summary: "Client Consideration", MarketName: "Consideration ABC123"},
		{Index: 2, Summary: "Client Consideration", MarketName: "Consideration ABC123"},
	})
	_, err := linkTrade(trade, pool)
	if err == nil || !strings.Contains(err.Error(), "duplicate auxiliary record") {
		t.Fatalf("linkTrade: %v", err)
	}
}

func TestLinkTradeUnclassifiableRow(t *testing.T) {
	trade := TradeRow{OrderID: "ABC123"}
	pool := ledgerconv.NewPool([]TransactionRow{
		{Index: 1, Summary: "Mystery", MarketName: "Something ABC123"},
	})
	_, err := linkTrade(trade, pool)
	if err == nil || !strings.Contains(err.Error(), "cannot be classified") {
		t.Fatalf("linkTrade: %v", err)
	}
}

func TestLinkTradeRejectsPositionFields(t *testing.T) {
	trade := TradeRow{OrderID: "ABC123"}
	pool := ledgerconv.NewPool([]TransactionRow{
		{Index: 1, Summary: "Client Consideration", MarketName: "Consideration ABC123", Period: "DFB"},
	})
	_, err := linkTrade(trade, pool)
	if err == nil || !strings.Contains(err.Error(), "position fields") {
		t.Fatalf("linkTrade: %v", err)
	}
}

func TestMatchGroupIllegalRole(t *testing.T) {
	g := newMatchGroup(TradeRow{}, RoleWithholdingTax)
	err := g.add(RoleCommission, TransactionRow{})
	if err == nil || !strings.Contains(err.Error(), "not valid for this record") {
		t.Fatalf("add: %v", err)
	}
}

func TestMatchesOrder(t *testing.T) {
	tx := TransactionRow{MarketName: "Apple Inc Consideration ABC123"}
	if !matchesOrder(tx, "ABC123") {
		t.Errorf("ABC123 should match")
	}
	if matchesOrder(tx, "XYZ999") {
		t.Errorf("XYZ999 should not match")
	}
	// Trades without an order id can never claim auxiliary rows.
	if matchesOrder(tx, "") {
		t.Errorf("empty order id should not match")
	}
}
