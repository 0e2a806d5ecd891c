package pathset

import (
	"sort"

	"github.com/Emeline-1/pathinfer/internal/asid"
)

// PathSet is a per-origin ordered collection of candidate Paths. Entries at
// each origin are kept sorted by Path.Less (best path first); adding a path
// equal to one already present bumps that entry's frequency and re-sorts
// instead of storing a duplicate.
type PathSet struct {
	byOrigin map[asid.ID][]*Path
}

// New returns an empty PathSet.
func New() *PathSet {
	return &PathSet{byOrigin: make(map[asid.ID][]*Path)}
}

// Add inserts path at origin. If an equal path is already stored there, its
// frequency is bumped, the collection is re-sorted, and Add returns false:
// the caller's proposal was not retained and may be discarded. Otherwise
// path is stored and Add returns true.
func (ps *PathSet) Add(origin asid.ID, path *Path) bool {
	paths := ps.byOrigin[origin]
	for _, existing := range paths {
		if existing.Equal(path) {
			existing.IncrFrequency()
			sortPaths(paths)
			return false
		}
	}
	ps.byOrigin[origin] = insertSorted(paths, path)
	return true
}

// Peek returns the best (minimum) path at origin, or nil if origin is
// unknown or empty. With copy=false the stored Path itself is returned;
// callers must not mutate its ranking fields in place. With copy=true an
// independent copy is returned.
func (ps *PathSet) Peek(origin asid.ID, copy bool) *Path {
	paths := ps.byOrigin[origin]
	if len(paths) == 0 {
		return nil
	}
	best := paths[0]
	if copy {
		return best.Copy()
	}
	return best
}

// Size reports how many paths are stored at origin.
func (ps *PathSet) Size(origin asid.ID) int {
	return len(ps.byOrigin[origin])
}

// Clear removes every path stored at origin.
func (ps *PathSet) Clear(origin asid.ID) {
	delete(ps.byOrigin, origin)
}

// Origins returns every origin with at least one stored path. Order is
// unspecified.
func (ps *PathSet) Origins() []asid.ID {
	origins := make([]asid.ID, 0, len(ps.byOrigin))
	for o := range ps.byOrigin {
		origins = append(origins, o)
	}
	return origins
}

// Range calls fn once per (origin, paths) pair, in unspecified order. fn
// must not mutate the slice it receives.
func (ps *PathSet) Range(fn func(origin asid.ID, paths []*Path)) {
	for o, paths := range ps.byOrigin {
		fn(o, paths)
	}
}

func sortPaths(paths []*Path) {
	sort.Slice(paths, func(i, j int) bool { return paths[i].Less(paths[j]) })
}

func insertSorted(paths []*Path, p *Path) []*Path {
	idx := sort.Search(len(paths), func(i int) bool { return !paths[i].Less(p) })
	paths = append(paths, nil)
	copy(paths[idx+1:], paths[idx:])
	paths[idx] = p
	return paths
}
