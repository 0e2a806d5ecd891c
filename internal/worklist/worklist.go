// Package worklist implements the deduplicating candidate-AS queue the
// inference driver relaxes over for a single destination. It is a
// container/heap min-heap over AS identifiers with a membership set, so an
// AS already pending is never queued twice and extraction order is
// deterministic (ascending by identifier), matching the lazy-dedup
// priority-queue idiom used by the pack's dijkstra implementation.
package worklist

import (
	"container/heap"

	"github.com/Emeline-1/pathinfer/internal/asid"
)

// Worklist is a set of pending AS candidates, extracted in ascending order.
type Worklist struct {
	pq      idHeap
	pending map[asid.ID]struct{}
}

// New returns an empty Worklist.
func New() *Worklist {
	return &Worklist{pending: make(map[asid.ID]struct{})}
}

// Add enqueues a, reporting whether it was newly added (false if already
// pending).
func (w *Worklist) Add(a asid.ID) bool {
	if _, present := w.pending[a]; present {
		return false
	}
	w.pending[a] = struct{}{}
	heap.Push(&w.pq, a)
	return true
}

// Len reports how many distinct candidates are pending.
func (w *Worklist) Len() int {
	return len(w.pending)
}

// Empty reports whether the worklist has no pending candidates.
func (w *Worklist) Empty() bool {
	return len(w.pending) == 0
}

// Extract removes and returns the smallest pending candidate. ok is false
// if the worklist was empty.
func (w *Worklist) Extract() (a asid.ID, ok bool) {
	if w.Empty() {
		return 0, false
	}
	v := heap.Pop(&w.pq).(asid.ID)
	delete(w.pending, v)
	return v, true
}

// idHeap is a min-heap of asid.ID implementing container/heap.Interface.
type idHeap []asid.ID

func (h idHeap) Len() int            { return len(h) }
func (h idHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x interface{}) { *h = append(*h, x.(asid.ID)) }
func (h *idHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
