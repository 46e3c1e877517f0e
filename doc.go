// Package ledgerconv reconciles heterogeneous brokerage account exports into
// a single canonical financial ledger suitable for downstream tax tooling.
//
// Brokers spread one logical financial event across several loosely linked
// raw records: a trade row, a separate consideration row, a commission row,
// sometimes a withholding-tax row, with inconsistent sign conventions and
// ambiguous identifiers. The engine links those records into event groups,
// validates their internal financial consistency, resolves positions whose
// opening economics are split across sibling records, and synthesizes
// canonical ledger entries.
//
// The core functionalities are:
//   - Entry Model: an immutable canonical ledger row (timestamp, event kind,
//     base/quote/fee amounts, account tags) with fixed-precision rounding
//     applied exactly once, when the entry is built.
//   - Ticker Resolution: mapping broker-specific instrument names to
//     canonical symbols, with asset-class encodings that keep crypto, stock
//     and option symbol spaces from colliding.
//   - Record Pool: an ownership-transfer arena for auxiliary records, so that
//     every raw record is consumed by at most one event group.
//   - Fail-Fast Validation: every reconciliation failure is a
//     *ReconcileError carrying a snapshot of the offending records; the
//     first violation aborts the whole run with no partial ledger.
//
// Per-broker rule sets live in the etoro, ig, schwab and ibkr subpackages.
// This package serves as the foundational logic for the `lconv` command-line
// tool, which performs one complete batch reconciliation per invocation.
package ledgerconv
