// Package inference implements the worklist-driven relaxation that infers,
// for each destination AS popped off the distributed work queue, the most
// plausible valley-free path every other known AS would use to reach it.
package inference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Emeline-1/pathinfer/internal/asid"
	"github.com/Emeline-1/pathinfer/internal/graphaudit"
	"github.com/Emeline-1/pathinfer/internal/pathset"
	"github.com/Emeline-1/pathinfer/internal/relstore"
	"github.com/Emeline-1/pathinfer/internal/snapshot"
	"github.com/Emeline-1/pathinfer/internal/store"
	"github.com/Emeline-1/pathinfer/internal/worklist"
	"github.com/Emeline-1/pathinfer/internal/workqueue"
)

// resultTTL is how long an emitted result hash lives before expiring.
const resultTTL = 600 * time.Second

// Driver holds everything a single worker process needs across
// destinations: the relationship store, the set of ASes with observed
// data, and the destination queue it consumes from.
type Driver struct {
	store   store.Store
	log     *zap.SugaredLogger
	ribtag  string
	rel     *relstore.Store
	ribAses []asid.ID
	queue   *workqueue.Queue
	snap    *snapshot.Cache
}

// Config bundles what Init needs beyond the store handle itself.
type Config struct {
	Ribtag      string
	Procqueue   string
	PoolWorkers int
	DumpGraph   bool

	// SnapshotPath, if non-empty, enables a local sqlite cache of the
	// loaded relationship store at this file path: Init attempts a
	// pre-warm read from it before falling back to the external store,
	// and writes a fresh snapshot back out once the external load
	// succeeds.
	SnapshotPath string
}

// Init verifies ribtag data exists, loads all known ASes, parallel-loads
// the relationship store, and — if DumpGraph is set — floods the
// destination queue with every AS after logging a connected-component
// diagnostic.
func Init(ctx context.Context, s store.Store, log *zap.SugaredLogger, cfg Config) (*Driver, error) {
	ribAsesKey := fmt.Sprintf("collection:%s_ases:set", cfg.Ribtag)
	hasData, err := s.Exists(ctx, ribAsesKey)
	if err != nil {
		return nil, fmt.Errorf("inference: checking ribtag %q: %w", cfg.Ribtag, err)
	}
	if !hasData {
		return nil, fmt.Errorf("inference: no topology data for ribtag %q", cfg.Ribtag)
	}

	allAses, err := relstore.AllASes(ctx, s, cfg.Ribtag)
	if err != nil {
		return nil, fmt.Errorf("inference: loading all_ases: %w", err)
	}

	var cache *snapshot.Cache
	if cfg.SnapshotPath != "" {
		cache, err = snapshot.Open(cfg.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("inference: opening snapshot cache: %w", err)
		}
	}

	var rel *relstore.Store
	if cache != nil {
		rel, err = prewarmFromSnapshot(cache, cfg.Ribtag, log)
		if err != nil {
			cache.Close()
			return nil, err
		}
	}

	if rel == nil {
		workers := cfg.PoolWorkers
		if workers <= 0 {
			workers = 16
		}
		var stats relstore.LoadStats
		rel, stats, err = relstore.Load(ctx, s, cfg.Ribtag, allAses, workers)
		if err != nil {
			if cache != nil {
				cache.Close()
			}
			return nil, fmt.Errorf("inference: loading relationship store: %w", err)
		}
		if stats.Total > 0 {
			log.Infow("relationship store loaded",
				"ribtag", cfg.Ribtag,
				"ases", len(allAses),
				"skipped_unknown_relation", stats.Skipped,
				"total_pairs", stats.Total,
				"skip_ratio", float64(stats.Skipped)/float64(stats.Total),
			)
		}

		if cache != nil {
			if err := cache.Save(cfg.Ribtag, rel, allAses); err != nil {
				log.Warnw("snapshot save failed", "ribtag", cfg.Ribtag, "error", err)
			}
		}
	}

	ribAsesText, err := s.SMembers(ctx, ribAsesKey)
	if err != nil {
		return nil, fmt.Errorf("inference: smembers %s: %w", ribAsesKey, err)
	}
	ribAses := make([]asid.ID, 0, len(ribAsesText))
	for _, text := range ribAsesText {
		id, err := asid.Encode(text)
		if err != nil {
			continue
		}
		ribAses = append(ribAses, id)
	}

	queue, err := workqueue.New(ctx, s, cfg.Procqueue, true)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		return nil, fmt.Errorf("inference: opening destination queue: %w", err)
	}

	d := &Driver{
		store:   s,
		log:     log,
		ribtag:  cfg.Ribtag,
		rel:     rel,
		ribAses: ribAses,
		queue:   queue,
		snap:    cache,
	}

	if cfg.DumpGraph {
		report := graphaudit.Audit(rel, allAses)
		log.Infow("relationship graph connected components",
			"components", report.ComponentCount,
			"largest", report.LargestSize,
		)
		for _, a := range allAses {
			if _, err := d.queue.Push(ctx, asid.Decode(a)); err != nil {
				log.Warnw("dump-graph push failed", "as", asid.Decode(a), "error", err)
			}
		}
	}

	return d, nil
}

// prewarmFromSnapshot attempts to read a previously saved relationship
// store for ribtag out of cache. It returns a nil store (not an error) on
// a cache miss, so the caller falls back to the external store load.
func prewarmFromSnapshot(cache *snapshot.Cache, ribtag string, log *zap.SugaredLogger) (*relstore.Store, error) {
	rel, ok, err := cache.Load(ribtag)
	if err != nil {
		return nil, fmt.Errorf("inference: reading snapshot cache: %w", err)
	}
	if !ok {
		return nil, nil
	}
	log.Infow("relationship store pre-warmed from snapshot cache", "ribtag", ribtag)
	return rel, nil
}

// Close releases the driver's destination queue listener slot and the
// snapshot cache handle, if one was opened.
func (d *Driver) Close(ctx context.Context) error {
	err := d.queue.Close(ctx)
	if d.snap != nil {
		if cerr := d.snap.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// PopAndInfer blocks up to the queue's timeout for one destination and, if
// one arrived, runs inference for it. It reports whether a destination was
// actually processed.
func (d *Driver) PopAndInfer(ctx context.Context) (bool, error) {
	dest, ok, err := d.queue.Pop(ctx)
	if err != nil {
		return false, fmt.Errorf("inference: popping destination: %w", err)
	}
	if !ok {
		return false, nil
	}
	if err := d.infer(ctx, dest); err != nil {
		return true, err
	}
	return true, nil
}

func (d *Driver) infer(ctx context.Context, destText string) error {
	ribIn, baseAses, wl, err := d.seed(ctx, destText)
	if err != nil {
		return fmt.Errorf("inference: seeding %s: %w", destText, err)
	}
	if wl.Empty() {
		return d.store.Publish(ctx, "inference:query_status", fmt.Sprintf("%s|%s|no_known_routes", d.ribtag, destText))
	}

	d.relax(ribIn, baseAses, wl)

	if err := d.emit(ctx, destText, ribIn); err != nil {
		return fmt.Errorf("inference: emitting results for %s: %w", destText, err)
	}
	return nil
}

// seed builds the per-destination scratch state: a PathSet primed from
// every rib AS's observed sure_path_to:<dest> attribute, the set of ASes
// that contributed a sure path ("base ASes" for this destination), and a
// worklist of the same.
func (d *Driver) seed(ctx context.Context, destText string) (*pathset.PathSet, map[asid.ID]struct{}, *worklist.Worklist, error) {
	ribIn := pathset.New()
	baseAses := make(map[asid.ID]struct{})
	wl := worklist.New()

	for _, a := range d.ribAses {
		aText := asid.Decode(a)
		key := fmt.Sprintf("collection:%s_ases:attr:%s", d.ribtag, aText)
		text, ok, err := d.store.HGet(ctx, key, "sure_path_to:"+destText)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("hget %s: %w", key, err)
		}
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}
		p, err := pathset.Parse(text)
		if err != nil {
			d.log.Warnw("malformed sure path, skipping", "as", aText, "destination", destText, "error", err)
			continue
		}
		ribIn.Add(a, p)
		baseAses[a] = struct{}{}
		wl.Add(a)
	}
	return ribIn, baseAses, wl, nil
}

// relax runs the fixed-point worklist loop: pop the lowest-ID pending AS,
// try to extend its best known path across each relationship edge, and
// re-enqueue any neighbor whose best path just changed.
func (d *Driver) relax(ribIn *pathset.PathSet, baseAses map[asid.ID]struct{}, wl *worklist.Worklist) {
	for {
		c, ok := wl.Extract()
		if !ok {
			return
		}
		neighbors := d.rel.Neighbors(c)
		for _, n := range sortedIDs(neighbors) {
			if _, isBase := baseAses[n]; isBase {
				continue
			}
			if _, known := d.rel.Relation(c, n); !known {
				continue
			}

			candidate := ribIn.Peek(c, true)
			if candidate == nil {
				continue
			}
			if !candidate.Prepend(n, false) {
				continue // loop
			}
			if vf := candidate.CheckValleyFree(d.rel); !vf.OK {
				continue
			}

			prior := ribIn.Peek(n, false)
			ribIn.Add(n, candidate)
			newBest := ribIn.Peek(n, false)
			if prior == nil || prior != newBest {
				wl.Add(n)
			}
		}
	}
}

// emit writes the best path per origin to the result hash, pipelined in
// batches of 100, then publishes completion and sets the TTL.
func (d *Driver) emit(ctx context.Context, destText string, ribIn *pathset.PathSet) error {
	resultKey := fmt.Sprintf("result:%s:inferred_to:%s", d.ribtag, destText)

	const batchSize = 100
	batch := make(map[string]string, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := d.store.HSetBatch(ctx, resultKey, batch); err != nil {
			return err
		}
		for k := range batch {
			delete(batch, k)
		}
		return nil
	}

	for _, origin := range ribIn.Origins() {
		best := ribIn.Peek(origin, false)
		if best == nil {
			continue
		}
		batch[asid.Decode(origin)] = best.Text(false)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	if err := d.store.Publish(ctx, "inference:query_status", fmt.Sprintf("%s|%s", d.ribtag, destText)); err != nil {
		return err
	}
	return d.store.Expire(ctx, resultKey, resultTTL)
}

func sortedIDs(ids []asid.ID) []asid.ID {
	out := append([]asid.ID(nil), ids...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
