// Package store defines the external key/value store interface the
// inference core, the destination work queue, and the logger all depend
// on. Two implementations exist: redisstore (a real github.com/redis/go-redis/v9
// client) and memstore (an in-process fake used throughout the test suite),
// so the core never needs a live Redis to be exercised.
package store

import (
	"context"
	"time"
)

// Store is the narrow slice of Redis-like operations the inference core,
// work queue, and logger need. Every method takes a context so callers can
// honor cancellation at the next suspension point; no deadline beyond the
// context's own is imposed.
type Store interface {
	// Exists reports whether key is present, for any key type.
	Exists(ctx context.Context, key string) (bool, error)

	// SMembers returns every member of the set at key.
	SMembers(ctx context.Context, key string) ([]string, error)

	// HGet returns the value of field in the hash at key, and whether it
	// was present at all.
	HGet(ctx context.Context, key, field string) (string, bool, error)

	// HSetBatch writes every field in fields to the hash at key. Real
	// implementations pipeline the writes (fill-N-then-drain); the fake
	// just loops.
	HSetBatch(ctx context.Context, key string, fields map[string]string) error

	// Expire sets a TTL on key.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Publish sends message on channel.
	Publish(ctx context.Context, channel, message string) error

	// Push unconditionally LPUSHes value onto listKey, with no dedup
	// filtering. Used for append-only streams like the log sink, where
	// repeated identical entries are expected and must not be dropped.
	Push(ctx context.Context, listKey, value string) error

	// PushDedup atomically adds value to the set at setKey and, only if it
	// was not already a member, LPUSHes it onto listKey. It reports
	// whether the push actually happened.
	PushDedup(ctx context.Context, setKey, listKey, value string) (bool, error)

	// BRPop blocks up to timeout for an element on listKey, right-popping
	// it. ok is false on timeout.
	BRPop(ctx context.Context, timeout time.Duration, listKey string) (value string, ok bool, err error)

	// SRem removes value from the set at setKey.
	SRem(ctx context.Context, setKey, value string) error

	// Del deletes the given keys, ignoring ones that don't exist.
	Del(ctx context.Context, keys ...string) error

	// Incr/Decr adjust an integer counter key and return its new value.
	Incr(ctx context.Context, key string) (int64, error)
	Decr(ctx context.Context, key string) (int64, error)

	// Set writes a plain string value, used to clamp a counter key.
	Set(ctx context.Context, key, value string) error
}
