// Package relation defines the directed AS-to-AS business relationship tag
// and the lookup interface the valley-free checker and the inference driver
// consume. The concrete store lives in internal/relstore; this package only
// carries the vocabulary so internal/pathset and internal/valleyfree do not
// need to import the loader.
package relation

import "github.com/Emeline-1/pathinfer/internal/asid"

// Tag is the relationship of a neighbor AS from the perspective of some AS A.
type Tag int

const (
	// Unknown means no relationship data was available for the pair.
	Unknown Tag = iota
	Peer
	Customer
	Provider
	Sibling
)

func (t Tag) String() string {
	switch t {
	case Peer:
		return "p2p"
	case Customer:
		return "p2c"
	case Provider:
		return "c2p"
	case Sibling:
		return "sibling"
	default:
		return "unknown"
	}
}

// ParseWireTag maps the external store's wire vocabulary to a Tag. Anything
// else (including the empty string) is Unknown.
func ParseWireTag(s string) Tag {
	switch s {
	case "p2p":
		return Peer
	case "p2c":
		return Customer
	case "c2p":
		return Provider
	case "sibling":
		return Sibling
	default:
		return Unknown
	}
}

// Lookup is satisfied by the relationship store. Relation(a, b) reports what
// b is to a ("a's customer", etc.) and whether that pair is known at all.
type Lookup interface {
	Relation(a, b asid.ID) (Tag, bool)
}
