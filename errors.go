package ledgerconv

import (
	"fmt"
	"strings"
)

// ReconcileError is the single fatal error kind of the engine. Every
// reconciliation failure (unmatched role, duplicate role, invariant
// violation, incomplete partial position, unsupported event shape) is one of
// these, carrying a human-readable message and a snapshot of the offending
// record or records.
//
// Propagation is fail-fast: the first ReconcileError aborts the whole run
// before any output is emitted. There is no local recovery and no partial
// ledger commit.
type ReconcileError struct {
	Msg     string
	Records []any
}

func (e *ReconcileError) Error() string {
	if len(e.Records) == 0 {
		return e.Msg
	}
	var b strings.Builder
	b.WriteString(e.Msg)
	b.WriteString("\ncontext:")
	for _, r := range e.Records {
		fmt.Fprintf(&b, "\n%+v", r)
	}
	return b.String()
}

// Errf builds a ReconcileError from a format string and the offending
// records.
func Errf(records []any, format string, args ...any) *ReconcileError {
	return &ReconcileError{Msg: fmt.Sprintf(format, args...), Records: records}
}

// Check returns nil when cond holds, and otherwise a *ReconcileError with
// msg and the offending records. It is the Go rendition of the source
// brokers' assert-style consistency checks: the caller returns the error
// up to the single abort point at the top of the run.
func Check(cond bool, msg string, records ...any) error {
	if cond {
		return nil
	}
	return &ReconcileError{Msg: msg, Records: records}
}
