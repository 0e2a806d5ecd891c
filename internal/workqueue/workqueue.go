// Package workqueue implements the named, deduplicating, blocking
// destination queue described in the external key/value store schema: a
// list of pending values guarded by an in-filter set, plus a have-listener
// counter so producers can tell whether any consumer is attached.
package workqueue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Emeline-1/pathinfer/internal/store"
)

const popTimeout = 2 * time.Second

// Queue is a handle onto a named procqueue. Multiple Queue values (in the
// same or different processes) can share one underlying name safely.
type Queue struct {
	store      store.Store
	name       string
	asListener bool
}

// New returns a handle onto the named queue. If asListener is true, the
// have-listener counter is incremented immediately; Close must then be
// called to decrement it again.
func New(ctx context.Context, s store.Store, name string, asListener bool) (*Queue, error) {
	q := &Queue{store: s, name: name, asListener: asListener}
	if asListener {
		if _, err := s.Incr(ctx, q.listenerKey()); err != nil {
			return nil, fmt.Errorf("workqueue: incr listener: %w", err)
		}
	}
	return q, nil
}

// Close decrements the have-listener counter if this Queue was constructed
// as a listener, clamping a negative result back to zero with a warning.
// Idempotent: calling Close more than once only decrements once.
func (q *Queue) Close(ctx context.Context) error {
	if !q.asListener {
		return nil
	}
	q.asListener = false
	n, err := q.store.Decr(ctx, q.listenerKey())
	if err != nil {
		return fmt.Errorf("workqueue: decr listener: %w", err)
	}
	if n < 0 {
		log.Printf("workqueue: listener counter for %q went negative, clamping", q.name)
		if err := q.store.Set(ctx, q.listenerKey(), "0"); err != nil {
			return fmt.Errorf("workqueue: clamp listener: %w", err)
		}
	}
	return nil
}

// Push enqueues value, reporting whether it was newly added (false if it
// was already pending in the in-filter).
func (q *Queue) Push(ctx context.Context, value string) (bool, error) {
	added, err := q.store.PushDedup(ctx, q.inFilterKey(), q.listKey(), value)
	if err != nil {
		return false, fmt.Errorf("workqueue: push %q: %w", value, err)
	}
	return added, nil
}

// Pop blocks up to a 2-second timeout for a value, right-popping it and
// removing it from the in-filter. ok is false on timeout.
func (q *Queue) Pop(ctx context.Context) (value string, ok bool, err error) {
	v, found, err := q.store.BRPop(ctx, popTimeout, q.listKey())
	if err != nil {
		return "", false, fmt.Errorf("workqueue: pop: %w", err)
	}
	if !found {
		return "", false, nil
	}
	if err := q.store.SRem(ctx, q.inFilterKey(), v); err != nil {
		return "", false, fmt.Errorf("workqueue: srem after pop %q: %w", v, err)
	}
	return v, true, nil
}

func (q *Queue) listKey() string     { return fmt.Sprintf("procqueue:%s:list", q.name) }
func (q *Queue) inFilterKey() string { return fmt.Sprintf("procqueue:%s:infilter", q.name) }
func (q *Queue) listenerKey() string { return fmt.Sprintf("procqueue:%s:meta:have_listener", q.name) }
