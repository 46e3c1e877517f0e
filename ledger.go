package ledgerconv

import "sort"

// Ledger is the ordered output of one reconciliation run.
//
// Entries are appended in synthesis order and sorted once, before handing
// off to the serializer. The sort is stable, so entries sharing a timestamp
// keep their synthesis order; rule sets that need a strict order around a
// primary entry (implicit currency conversions) shift their timestamps by
// one second instead of relying on tie-breaking.
type Ledger struct {
	entries []Entry
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger { return &Ledger{} }

// Append adds entries to the ledger.
func (l *Ledger) Append(entries ...Entry) {
	l.entries = append(l.entries, entries...)
}

// Sort orders the entries timestamp-ascending, stably.
func (l *Ledger) Sort() {
	sort.SliceStable(l.entries, func(i, j int) bool {
		return l.entries[i].Time.Before(l.entries[j].Time)
	})
}

// Entries returns the entries in their current order.
func (l *Ledger) Entries() []Entry { return l.entries }

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.entries) }
