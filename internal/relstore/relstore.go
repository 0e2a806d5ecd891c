// Package relstore builds and holds the in-memory AS relationship graph
// (internal/relation.Lookup) that the inference driver consults during
// valley-free checking. It is populated once per run, in parallel across
// ASes, from the external key/value store's base and rib collections.
package relstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Emeline-1/pathinfer/internal/asid"
	"github.com/Emeline-1/pathinfer/internal/concurrent"
	"github.com/Emeline-1/pathinfer/internal/relation"
	"github.com/Emeline-1/pathinfer/internal/store"
	"github.com/Emeline-1/pool"
)

// Store holds, for every known AS, its neighbors and the relation tag of
// each from that AS's perspective. Reads are safe for concurrent use once
// Load has returned; Load itself owns all writes.
type Store struct {
	rel map[asid.ID]map[asid.ID]relation.Tag
}

var _ relation.Lookup = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{rel: make(map[asid.ID]map[asid.ID]relation.Tag)}
}

// Relation implements relation.Lookup.
func (s *Store) Relation(a, b asid.ID) (relation.Tag, bool) {
	neighbors, ok := s.rel[a]
	if !ok {
		return relation.Unknown, false
	}
	tag, ok := neighbors[b]
	return tag, ok
}

// Neighbors returns every AS with a known relation from a, in unspecified
// order.
func (s *Store) Neighbors(a asid.ID) []asid.ID {
	neighbors := s.rel[a]
	out := make([]asid.ID, 0, len(neighbors))
	for n := range neighbors {
		out = append(out, n)
	}
	return out
}

// ASes returns every AS the store holds any neighbor data for, in
// unspecified order. Used by callers that build a Store outside of Load
// (the CAIDA bootstrap loader, the snapshot cache) and then need to
// enumerate it, since Load's caller already has its own AS list.
func (s *Store) ASes() []asid.ID {
	out := make([]asid.ID, 0, len(s.rel))
	for a := range s.rel {
		out = append(out, a)
	}
	return out
}

// Set records the relation of b from a's perspective, for callers (the
// CAIDA loader, the snapshot cache) building a Store outside of Load.
func (s *Store) Set(a, b asid.ID, tag relation.Tag) {
	s.set(a, b, tag)
}

// set records the relation of b from a's perspective. Not safe for
// concurrent use against the same AS; callers that parallelize across ASes
// must ensure disjoint 'a' values per goroutine (Load does this).
func (s *Store) set(a, b asid.ID, tag relation.Tag) {
	neighbors, ok := s.rel[a]
	if !ok {
		neighbors = make(map[asid.ID]relation.Tag)
		s.rel[a] = neighbors
	}
	neighbors[b] = tag
}

// LoadStats summarizes the outcome of a Load: how many neighbor pairs were
// skipped for lacking relation data, out of how many examined.
type LoadStats struct {
	Skipped int64
	Total   int64
}

// Load populates the store for every AS in ases, merging neighbors from
// both the base and the <ribtag> rib collections of src. Up to workers ASes
// are loaded concurrently via pool.Launch_pool; each worker writes only to
// its own AS's neighbor map, so no locking is needed across workers.
func Load(ctx context.Context, src store.Store, ribtag string, ases []asid.ID, workers int) (*Store, LoadStats, error) {
	s := New()
	// Pre-create every AS's neighbor map up front (single-threaded) so
	// concurrent workers never race on the outer s.rel map itself.
	for _, a := range ases {
		s.rel[a] = make(map[asid.ID]relation.Tag)
	}

	counter := concurrent.NewCounter()
	items := make([]string, len(ases))
	for i, a := range ases {
		items[i] = asid.Decode(a)
	}

	var firstErr error
	var errOnce sync.Once
	setErr := func(err error) { errOnce.Do(func() { firstErr = err }) }
	worker := func(text string) {
		defer concurrent.Recover()
		a, err := asid.Encode(text)
		if err != nil {
			setErr(fmt.Errorf("relstore: load: %w", err))
			return
		}
		if err := loadOne(ctx, src, ribtag, a, s, counter); err != nil {
			setErr(err)
		}
	}
	pool.Launch_pool(workers, items, worker)

	if firstErr != nil {
		return nil, LoadStats{}, firstErr
	}
	return s, LoadStats{
		Skipped: counter.Get("skipped"),
		Total:   counter.Get("total"),
	}, nil
}

func loadOne(ctx context.Context, src store.Store, ribtag string, a asid.ID, s *Store, counter *concurrent.Counter) error {
	aText := asid.Decode(a)
	for _, collection := range []string{"base", ribtag} {
		members, err := src.SMembers(ctx, fmt.Sprintf("collection:%s_as_links:%s:set", collection, aText))
		if err != nil {
			return fmt.Errorf("relstore: smembers %s links for %s: %w", collection, aText, err)
		}
		for _, memberText := range members {
			counter.Add("total", 1)
			if strings.Contains(memberText, ".") {
				continue // dotted-AS filter: preserved from the original loader
			}
			b, err := asid.Encode(memberText)
			if err != nil {
				counter.Add("skipped", 1)
				continue
			}
			raw, ok, err := src.HGet(ctx, fmt.Sprintf("as:%s:rel", aText), memberText)
			if err != nil {
				return fmt.Errorf("relstore: hget rel %s/%s: %w", aText, memberText, err)
			}
			tag := relation.ParseWireTag(raw)
			if !ok || tag == relation.Unknown {
				counter.Add("skipped", 1)
				continue
			}
			s.set(a, b, tag)
		}
	}
	return nil
}

// AllASes loads and merges collection:base_ases:set and
// collection:<ribtag>_ases:set, filtering out dotted AS tokens, and returns
// the decoded set.
func AllASes(ctx context.Context, src store.Store, ribtag string) ([]asid.ID, error) {
	base, err := src.SMembers(ctx, "collection:base_ases:set")
	if err != nil {
		return nil, fmt.Errorf("relstore: smembers base_ases: %w", err)
	}
	rib, err := src.SMembers(ctx, fmt.Sprintf("collection:%s_ases:set", ribtag))
	if err != nil {
		return nil, fmt.Errorf("relstore: smembers %s_ases: %w", ribtag, err)
	}

	seen := make(map[asid.ID]struct{})
	var out []asid.ID
	for _, text := range append(base, rib...) {
		if strings.Contains(text, ".") {
			continue
		}
		id, err := asid.Encode(text)
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
