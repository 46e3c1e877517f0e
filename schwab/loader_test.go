package schwab

import (
	"strings"
	"testing"
)

const brokerageCSV = `"Date","Action","Symbol","Description","Quantity","Price","Fees & Comm","Amount"
"04/20/2023","Sell","ABC","Sell 5 ABC","5","$100.00","$0.10","$499.90"
"03/15/2023","Stock Plan Activity","ABC","ABC Stock Plan","7","","",""
"05/03/2023","Wire Sent","","Wired funds","","","","-$1,000.00"
`

func TestLoadBrokerageFile(t *testing.T) {
	rows, err := LoadBrokerageFile(strings.NewReader(brokerageCSV))
	if err != nil {
		t.Fatalf("LoadBrokerageFile: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	// Rows come back date-sorted regardless of file order.
	if rows[0].Action != "Stock Plan Activity" || rows[2].Action != "Wire Sent" {
		t.Errorf("sort order: %q %q %q", rows[0].Action, rows[1].Action, rows[2].Action)
	}

	sell := rows[1]
	if !sell.Price.Valid || !sell.Price.Decimal.Equal(d("100")) {
		t.Errorf("dollar price %v", sell.Price)
	}
	if !sell.Amount.Valid || !sell.Amount.Decimal.Equal(d("499.90")) {
		t.Errorf("dollar amount %v", sell.Amount)
	}

	wire := rows[2]
	if !wire.Amount.Valid || !wire.Amount.Decimal.Equal(d("-1000")) {
		t.Errorf("negative grouped amount %v", wire.Amount)
	}
	if wire.Quantity.Valid {
		t.Errorf("empty quantity should be absent, got %v", wire.Quantity)
	}
}

const awardsCSV = `"Date","Action","Symbol","Description","Quantity","AwardDate","FairMarketValuePrice","SharesSoldWithheldForTaxes","NetSharesDeposited","Taxes"
"03/15/2023","Lapse","ABC","Restricted Stock Lapse","10","","","","",""
"","","","","","01/10/2022","$100.00","3","7","$300.00"
`

func TestLoadEquityAwardsFile(t *testing.T) {
	rows, err := LoadEquityAwardsFile(strings.NewReader(awardsCSV))
	if err != nil {
		t.Fatalf("LoadEquityAwardsFile: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want the pair folded into 1", len(rows))
	}
	a := rows[0]
	if a.Action != "Lapse" || a.Symbol != "ABC" || !a.Quantity.Equal(d("10")) {
		t.Errorf("head fields %q %q %s", a.Action, a.Symbol, a.Quantity)
	}
	if !a.FairMarketValuePrice.Equal(d("100")) || !a.NetSharesDeposited.Equal(d("7")) ||
		!a.SharesSoldWithheldForTaxes.Equal(d("3")) {
		t.Errorf("tail fields %s %s %s", a.FairMarketValuePrice, a.NetSharesDeposited, a.SharesSoldWithheldForTaxes)
	}
	if got := a.AwardDate.Format("2006-01-02"); got != "2022-01-10" {
		t.Errorf("award date %q", got)
	}
}

func TestLoadEquityAwardsFileOddRows(t *testing.T) {
	broken := `"Date","Action","Symbol","Description","Quantity","AwardDate","FairMarketValuePrice","SharesSoldWithheldForTaxes","NetSharesDeposited","Taxes"
"03/15/2023","Lapse","ABC","Restricted Stock Lapse","10","","","","",""
`
	_, err := LoadEquityAwardsFile(strings.NewReader(broken))
	if err == nil || !strings.Contains(err.Error(), "paired rows") {
		t.Fatalf("LoadEquityAwardsFile: %v", err)
	}
}

const optionsCSV = `"Date","Action","Symbol","Description","Quantity","Proceeds","Fees & Comm","Cost Basis","Realized P/L"
"06/10/2023","Sell to Close","ABC 06/16/2023 50.00 C","Close call","-2","$600.00","-$10.00","-$510.00","$80.00"
"06/01/2023","Buy to Open","ABC 06/16/2023 50.00 C","Open call","2","-$500.00","-$10.00","$510.00",""
`

func TestLoadOptionsFile(t *testing.T) {
	rows, err := LoadOptionsFile(strings.NewReader(optionsCSV))
	if err != nil {
		t.Fatalf("LoadOptionsFile: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	open, closing := rows[0], rows[1]
	if open.Action != "Buy to Open" || !open.Basis.Equal(d("510")) {
		t.Errorf("opening row %q %s", open.Action, open.Basis)
	}
	if open.RealizedPL.Valid {
		t.Errorf("opening rows carry no realized result, got %v", open.RealizedPL)
	}
	if !closing.RealizedPL.Valid || !closing.RealizedPL.Decimal.Equal(d("80")) {
		t.Errorf("closing result %v", closing.RealizedPL)
	}
}
