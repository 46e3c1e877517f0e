// Package renderer turns a converted ledger into human-readable markdown
// reports for terminal display.
package renderer

import (
	"fmt"
	"strings"
)

// mdRenderer accumulates a markdown document.
type mdRenderer struct {
	*strings.Builder
}

// Printf formats according to a format specifier and writes to the
// renderer's buffer.
func (r *mdRenderer) Printf(format string, args ...any) {
	fmt.Fprintf(r, format, args...)
}
