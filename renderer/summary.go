package renderer

import (
	"sort"
	"strings"

	ledgerconv "github.com/ledgerconv/ledgerconv"
	"github.com/shopspring/decimal"
)

// kindOrder fixes the row order of the per-kind table.
var kindOrder = []ledgerconv.Kind{
	ledgerconv.FiatDeposit,
	ledgerconv.FiatWithdrawal,
	ledgerconv.Buy,
	ledgerconv.Sell,
	ledgerconv.Fee,
	ledgerconv.Interest,
	ledgerconv.ChainSplit,
	ledgerconv.RealizedProfit,
	ledgerconv.RealizedLoss,
	ledgerconv.Receive,
	ledgerconv.Send,
}

// SummaryMarkdown renders an overview of a converted ledger: the period it
// covers, entry counts per kind, and fiat flow totals per currency.
func SummaryMarkdown(source string, l *ledgerconv.Ledger) string {
	r := &mdRenderer{Builder: &strings.Builder{}}
	entries := l.Entries()

	r.Printf("# %s Conversion\n\n", source)
	if len(entries) == 0 {
		r.Printf("No entries.\n")
		return r.String()
	}
	r.Printf("%d entries from %s to %s.\n\n",
		len(entries),
		entries[0].Time.Format(ledgerconv.TimestampFormat),
		entries[len(entries)-1].Time.Format(ledgerconv.TimestampFormat))

	r.renderKinds(entries)
	r.renderFlows(entries)
	return r.String()
}

func (r *mdRenderer) renderKinds(entries []ledgerconv.Entry) {
	counts := make(map[ledgerconv.Kind]int)
	for _, e := range entries {
		counts[e.Kind]++
	}

	r.Printf("## Entries\n\n")
	r.Printf("| Type | Count |\n")
	r.Printf("|:---|---:|\n")
	for _, k := range kindOrder {
		if counts[k] > 0 {
			r.Printf("| %s | %d |\n", k, counts[k])
		}
	}
	r.Printf("\n")
}

// renderFlows totals the cash that entered and left the account per
// currency. Buys and sells move value between instruments and cash, so
// only the pure cash kinds count as flows.
func (r *mdRenderer) renderFlows(entries []ledgerconv.Entry) {
	in := make(map[string]decimal.Decimal)
	out := make(map[string]decimal.Decimal)
	for _, e := range entries {
		switch e.Kind {
		case ledgerconv.FiatDeposit, ledgerconv.Interest, ledgerconv.RealizedProfit:
			in[e.BaseCurrency] = in[e.BaseCurrency].Add(e.BaseAmount)
		case ledgerconv.FiatWithdrawal, ledgerconv.Fee, ledgerconv.RealizedLoss:
			out[e.BaseCurrency] = out[e.BaseCurrency].Add(e.BaseAmount)
		}
	}
	if len(in) == 0 && len(out) == 0 {
		return
	}

	currencies := make(map[string]struct{})
	for c := range in {
		currencies[c] = struct{}{}
	}
	for c := range out {
		currencies[c] = struct{}{}
	}
	sorted := make([]string, 0, len(currencies))
	for c := range currencies {
		sorted = append(sorted, c)
	}
	sort.Strings(sorted)

	r.Printf("## Cash Flows\n\n")
	r.Printf("| Currency | In | Out |\n")
	r.Printf("|:---|---:|---:|\n")
	for _, c := range sorted {
		r.Printf("| %s | %s | %s |\n", c,
			ledgerconv.FormatMoney(in[c], c),
			ledgerconv.FormatMoney(out[c], c))
	}
	r.Printf("\n")
}

// EntriesMarkdown renders the full ledger as one markdown table.
func EntriesMarkdown(l *ledgerconv.Ledger) string {
	r := &mdRenderer{Builder: &strings.Builder{}}

	r.Printf("| Timestamp (UTC) | Type | Base | Quote | Fee | From | To | Description |\n")
	r.Printf("|:---|:---|---:|---:|---:|:---|:---|:---|\n")
	for _, e := range l.Entries() {
		r.Printf("| %s | %s | %s %s | %s | %s | %s | %s | %s |\n",
			e.Time.Format(ledgerconv.TimestampFormat), e.Kind,
			e.BaseAmount, e.BaseCurrency,
			leg(e.QuoteCurrency, e.QuoteAmount),
			leg(e.FeeCurrency, e.FeeAmount),
			e.From, e.To, e.Description)
	}
	return r.String()
}

func leg(currency string, amount decimal.Decimal) string {
	if currency == "" {
		return ""
	}
	return amount.String() + " " + currency
}
