package ledgerconv

// Pool is an ownership-transfer arena for raw records. Records enter the
// pool once, when the source table is loaded, and leave it exactly once,
// when a match consumes them. Taking a record is an explicit, atomic step,
// not an in-place edit of a shared table: raw records themselves are never
// mutated.
//
// The pool has exactly one owner per run and is never accessed
// concurrently. Remaining records keep their natural file order.
type Pool[R any] struct {
	slots []slot[R]
	left  int
}

type slot[R any] struct {
	rec   R
	taken bool
}

// NewPool builds a pool over the records of one source table.
func NewPool[R any](records []R) *Pool[R] {
	p := &Pool[R]{slots: make([]slot[R], len(records)), left: len(records)}
	for i, r := range records {
		p.slots[i].rec = r
	}
	return p
}

// Take removes and returns, in file order, every record still in the pool
// that satisfies match. Taken records are gone: a later Take with an
// overlapping predicate cannot see them, which is what guarantees that an
// auxiliary record is consumed by at most one match group.
func (p *Pool[R]) Take(match func(R) bool) []R {
	var out []R
	for i := range p.slots {
		if p.slots[i].taken || !match(p.slots[i].rec) {
			continue
		}
		p.slots[i].taken = true
		p.left--
		out = append(out, p.slots[i].rec)
	}
	return out
}

// Remaining returns the records not yet consumed, in file order.
func (p *Pool[R]) Remaining() []R {
	out := make([]R, 0, p.left)
	for i := range p.slots {
		if !p.slots[i].taken {
			out = append(out, p.slots[i].rec)
		}
	}
	return out
}

// Len returns the number of records not yet consumed.
func (p *Pool[R]) Len() int { return p.left }
