package ledgerconv

import (
	"io"

	"github.com/rs/zerolog"
)

// WarningSink receives advisory, non-fatal warnings raised during a run:
// ticker-lookup misses, documented modeling approximations, data the engine
// deliberately does not save. A sink deduplicates on (category, key): the
// first warning for a pair is surfaced, subsequent identical ones are
// silent. Warnings never block execution.
//
// Sinks are run-scoped. Create a fresh one per invocation; deduplication
// state must not leak across independent runs in the same process.
type WarningSink interface {
	Warnf(category, key, format string, args ...any)
}

// Warnings is the standard WarningSink, logging through zerolog.
type Warnings struct {
	log  zerolog.Logger
	seen map[string]struct{}
}

// NewWarnings returns a fresh, empty sink writing human-readable warnings
// to w.
func NewWarnings(w io.Writer) *Warnings {
	return &Warnings{
		log:  zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true, PartsExclude: []string{zerolog.TimestampFieldName}}),
		seen: make(map[string]struct{}),
	}
}

// Warnf logs the warning once per distinct (category, key) pair.
func (s *Warnings) Warnf(category, key, format string, args ...any) {
	id := category + "\x00" + key
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.log.Warn().Str("category", category).Msgf(format, args...)
}

// Discard is a WarningSink that drops everything. Handy in tests.
type Discard struct{}

func (Discard) Warnf(string, string, string, ...any) {}
