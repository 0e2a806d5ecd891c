// Package valleyfree classifies an AS-path prefix as valley-free or not,
// per BGP's economic export rule: a path may only go (provider-up)* (peer)?
// (customer-down)*. Going up again after going down is a valley.
package valleyfree

import (
	"github.com/Emeline-1/pathinfer/internal/asid"
	"github.com/Emeline-1/pathinfer/internal/relation"
)

type direction int

const (
	none direction = iota
	up
	down
)

// Result is the outcome of a valley-free check.
type Result struct {
	OK          bool
	MissingData bool
}

// Check walks seq[0:spBegin+1] front-to-back over consecutive pairs and
// validates the valley-free property for that uncertain prefix. The sure
// suffix (seq[spBegin:]) is assumed valley-free by construction and is not
// examined. spBegin is the path's ulen: the index of the first sure element.
func Check(lookup relation.Lookup, seq []asid.ID, spBegin int) Result {
	if spBegin <= 0 {
		// Nothing uncertain to verify: the whole path is the sure suffix.
		return Result{OK: true}
	}

	dir := none
	for i := 0; i < spBegin && i+1 < len(seq); i++ {
		rel, ok := lookup.Relation(seq[i], seq[i+1])
		if !ok {
			return Result{OK: false, MissingData: true}
		}

		switch dir {
		case none:
			switch rel {
			case relation.Peer, relation.Customer:
				dir = down
			case relation.Provider:
				dir = up
			}
		case down:
			switch rel {
			case relation.Provider, relation.Peer:
				return Result{OK: false}
			}
		case up:
			switch rel {
			case relation.Peer, relation.Customer:
				dir = down
			}
		}
	}

	return Result{OK: true}
}
