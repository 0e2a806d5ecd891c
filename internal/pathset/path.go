// Package pathset implements the Path and PathSet data structures: the
// candidate AS-paths the inference driver relaxes over, and the per-origin
// ordered collection of them. See original_source/c_extensions/inferrer for
// the system this was distilled from.
package pathset

import (
	"strings"

	"github.com/Emeline-1/pathinfer/internal/asid"
	"github.com/Emeline-1/pathinfer/internal/relation"
	"github.com/Emeline-1/pathinfer/internal/valleyfree"
)

// Path is a mutable, ordered sequence of AS identifiers from near-end
// (front) to destination (back), plus the bookkeeping the inference engine
// needs: which suffix is "sure" (observed, not to be re-verified), a loop
// detection set, and a proposal frequency used to break ties.
type Path struct {
	seq       []asid.ID
	sureCount int
	loopSet   map[asid.ID]struct{}
	frequency int
	haveLoop  bool
}

// New returns an empty Path.
func New() *Path {
	return &Path{loopSet: make(map[asid.ID]struct{}), frequency: 1}
}

// FromIDs builds a Path whose entire sequence is "sure".
func FromIDs(ids []asid.ID) *Path {
	p := New()
	p.seq = append(p.seq, ids...)
	p.sureCount = len(p.seq)
	for _, id := range p.seq {
		p.loopSet[id] = struct{}{}
	}
	return p
}

// delimiters are the token separators accepted when parsing a textual path:
// commas, brackets, quotes and whitespace, to tolerate wire forms such as
// "['1', '2', '3']".
func isDelim(r rune) bool {
	switch r {
	case ',', '[', ']', '\'', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// Parse builds a Path from a textual AS-path, tolerating the bracket/quote/
// comma noise the external store's wire format may carry.
func Parse(text string) (*Path, error) {
	fields := strings.FieldsFunc(text, isDelim)
	ids := make([]asid.ID, 0, len(fields))
	for _, f := range fields {
		id, err := asid.Encode(f)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return FromIDs(ids), nil
}

// Copy returns an independent deep copy.
func (p *Path) Copy() *Path {
	cp := &Path{
		seq:       append([]asid.ID(nil), p.seq...),
		sureCount: p.sureCount,
		loopSet:   make(map[asid.ID]struct{}, len(p.loopSet)),
		frequency: p.frequency,
		haveLoop:  p.haveLoop,
	}
	for id := range p.loopSet {
		cp.loopSet[id] = struct{}{}
	}
	return cp
}

// Len returns the number of ASes in the path.
func (p *Path) Len() int { return len(p.seq) }

// ULen is the uncertain prefix length: Len() - sureCount.
func (p *Path) ULen() int { return len(p.seq) - p.sureCount }

// SureCount is the number of trailing elements considered observed fact.
func (p *Path) SureCount() int { return p.sureCount }

// Frequency reports how many equal proposals this Path represents.
func (p *Path) Frequency() int { return p.frequency }

// IncrFrequency bumps the proposal count. Exposed for tests; PathSet.Add
// is the only caller in normal operation.
func (p *Path) IncrFrequency() { p.frequency++ }

// HaveLoop reports whether the last Prepend was rejected for looping.
func (p *Path) HaveLoop() bool { return p.haveLoop }

// Front returns the near-end AS and whether the path is non-empty.
func (p *Path) Front() (asid.ID, bool) {
	if len(p.seq) == 0 {
		return 0, false
	}
	return p.seq[0], true
}

// Sequence returns a read-only view of the path, front to back. Callers
// must not mutate the returned slice.
func (p *Path) Sequence() []asid.ID { return p.seq }

// Prepend inserts x at the front of the path. It fails without mutating the
// path if x is already present (a loop), recording HaveLoop. When sure is
// true, SureCount() is incremented, so ULen() (the boundary's distance from
// the front) is unchanged.
//
// Real AS-paths are short (a few dozen hops at most), so a shifted slice
// beats the pointer-chasing of the original's linked list in practice even
// though the prepend itself is O(n) instead of O(1).
func (p *Path) Prepend(x asid.ID, sure bool) bool {
	if _, present := p.loopSet[x]; present {
		p.haveLoop = true
		return false
	}

	p.seq = append(p.seq, 0)
	copy(p.seq[1:], p.seq[:len(p.seq)-1])
	p.seq[0] = x
	p.loopSet[x] = struct{}{}
	if sure {
		p.sureCount++
	}
	return true
}

// Text renders the path as decoded, space-separated tokens front to back.
// When showUncertain is set, the first ULen() tokens are wrapped in
// brackets, e.g. "[23442] 1234 23454 332345".
func (p *Path) Text(showUncertain bool) string {
	if len(p.seq) == 0 {
		return ""
	}
	ulen := p.ULen()
	parts := make([]string, len(p.seq))
	for i, id := range p.seq {
		token := asid.Decode(id)
		if showUncertain && i < ulen {
			token = "[" + token + "]"
		}
		parts[i] = token
	}
	return strings.Join(parts, " ")
}

// CheckValleyFree validates the uncertain prefix against lookup, per BGP's
// export rule. The sure suffix is assumed valley-free by construction.
func (p *Path) CheckValleyFree(lookup relation.Lookup) valleyfree.Result {
	return valleyfree.Check(lookup, p.seq, p.ULen())
}

// Less implements the PathSet ranking order:
//  1. shorter Len() is better
//  2. then smaller ULen() is better
//  3. then higher Frequency() is better
//  4. then smaller Front() is better
func (p *Path) Less(o *Path) bool {
	if len(p.seq) != len(o.seq) {
		return len(p.seq) < len(o.seq)
	}
	if p.ULen() != o.ULen() {
		return p.ULen() < o.ULen()
	}
	if p.frequency != o.frequency {
		return p.frequency > o.frequency
	}
	pf, pok := p.Front()
	of, ook := o.Front()
	if pok && ook && pf != of {
		return pf < of
	}
	return false
}

// Equal reports value equality: neither path is Less than the other.
func (p *Path) Equal(o *Path) bool {
	return !p.Less(o) && !o.Less(p)
}

// String is used for %v/%s formatting and log lines.
func (p *Path) String() string { return p.Text(false) }
