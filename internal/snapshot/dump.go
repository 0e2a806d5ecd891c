package snapshot

import (
	"strings"

	radix "github.com/Emeline-1/radix"

	"github.com/Emeline-1/pathinfer/internal/asid"
	"github.com/Emeline-1/pathinfer/internal/relstore"
)

// DumpLine is one ordered entry of a relationship-store diagnostic dump: an
// AS and the neighbor-count summary recorded at that AS.
type DumpLine struct {
	AS            string
	NeighborCount int
}

// zeroPadWidth is wide enough for any 32-bit AS number rendered in decimal.
const zeroPadWidth = 10

// Dump builds a radix tree keyed on each AS's zero-padded asid.Decode text
// and returns the order of a post-order walk as a flat diagnostic listing.
// Plain AS numbers come out in numeric order; IDs above 500000 are keyed by
// their dotted "H.LLLL" text, so they do not follow numeric order.
func Dump(s *relstore.Store, ases []asid.ID) []DumpLine {
	tree := radix.New()
	for _, a := range ases {
		key := zeroPad(asid.Decode(a))
		tree.Insert(key, len(s.Neighbors(a)))
	}

	var lines []DumpLine
	tree.Walk_post(func(parent *radix.LeafNode, children []*radix.LeafNode) {
		count, _ := parent.Val.(int)
		lines = append(lines, DumpLine{AS: unpad(parent.Key), NeighborCount: count})
		for _, child := range children {
			childCount, _ := child.Val.(int)
			lines = append(lines, DumpLine{AS: unpad(child.Key), NeighborCount: childCount})
		}
	})
	return lines
}

func zeroPad(decimal string) string {
	if len(decimal) >= zeroPadWidth {
		return decimal
	}
	return strings.Repeat("0", zeroPadWidth-len(decimal)) + decimal
}

func unpad(decimal string) string {
	trimmed := strings.TrimLeft(decimal, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}
