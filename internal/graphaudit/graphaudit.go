// Package graphaudit reports connected-component diagnostics over the
// loaded relationship graph, used before a --dump-graph run so operators
// know how fragmented the topology is before flooding the destination
// queue with every known AS.
package graphaudit

import (
	graph "github.com/Emeline-1/basic_graph"

	"github.com/Emeline-1/pathinfer/internal/asid"
)

// Report summarizes the connected components of a relationship store's
// undirected neighbor graph.
type Report struct {
	ComponentCount int
	LargestSize    int
}

// neighborLister is the slice of *relstore.Store this package actually
// needs, narrowed to keep graphaudit decoupled from relstore's loader
// internals.
type neighborLister interface {
	Neighbors(a asid.ID) []asid.ID
}

// Audit builds an undirected graph from every (A, neighbor) edge known to
// s and reports its connected components.
func Audit(s neighborLister, ases []asid.ID) Report {
	g := graph.New()
	for _, a := range ases {
		aText := asid.Decode(a)
		for _, n := range s.Neighbors(a) {
			g.Add_edge(aText, asid.Decode(n))
		}
	}

	report := Report{}
	g.Set_iterator()
	for g.Next_connected_component() {
		cc := g.Connected_component()
		report.ComponentCount++
		if len(cc) > report.LargestSize {
			report.LargestSize = len(cc)
		}
	}
	return report
}
