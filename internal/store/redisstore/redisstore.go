// Package redisstore implements internal/store.Store against a real Redis
// server via github.com/redis/go-redis/v9.
package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Emeline-1/pathinfer/internal/store"
)

// pushDedupScript atomically adds value to setKey and, only if it was not
// already a member, LPUSHes it onto listKey. Mirrors the original's
// add_script Lua, kept as one round trip so concurrent producers never race
// between the SADD and the LPUSH.
const pushDedupScript = `
if redis.call("SADD", KEYS[1], ARGV[1]) == 1 then
	redis.call("LPUSH", KEYS[2], ARGV[1])
	return 1
end
return 0
`

// Store is a thin wrapper over a *redis.Client.
type Store struct {
	client *redis.Client
	push   *redis.Script
}

// Options configures a connection to a single Redis instance.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// New dials addr and returns a ready Store. It does not block for a PING;
// callers that need to fail fast on a bad address should call Exists on a
// known key first.
func New(opts Options) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &Store{
		client: client,
		push:   redis.NewScript(pushDedupScript),
	}
}

var _ store.Store = (*Store)(nil)

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redisstore: exists %q: %w", key, err)
	}
	return n > 0, nil
}

func (s *Store) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: smembers %q: %w", key, err)
	}
	return members, nil
}

func (s *Store) HGet(ctx context.Context, key, field string) (string, bool, error) {
	v, err := s.client.HGet(ctx, key, field).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redisstore: hget %q/%q: %w", key, field, err)
	}
	return v, true, nil
}

// HSetBatch pipelines the field writes, flushing every 100 fields so a
// single huge map doesn't build one unbounded pipeline.
func (s *Store) HSetBatch(ctx context.Context, key string, fields map[string]string) error {
	const flushEvery = 100
	pipe := s.client.Pipeline()
	n := 0
	for field, value := range fields {
		pipe.HSet(ctx, key, field, value)
		n++
		if n%flushEvery == 0 {
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("redisstore: hset batch %q: %w", key, err)
			}
		}
	}
	if n%flushEvery != 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("redisstore: hset batch %q: %w", key, err)
		}
	}
	return nil
}

func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("redisstore: expire %q: %w", key, err)
	}
	return nil
}

func (s *Store) Publish(ctx context.Context, channel, message string) error {
	if err := s.client.Publish(ctx, channel, message).Err(); err != nil {
		return fmt.Errorf("redisstore: publish %q: %w", channel, err)
	}
	return nil
}

func (s *Store) Push(ctx context.Context, listKey, value string) error {
	if err := s.client.LPush(ctx, listKey, value).Err(); err != nil {
		return fmt.Errorf("redisstore: lpush %q: %w", listKey, err)
	}
	return nil
}

func (s *Store) PushDedup(ctx context.Context, setKey, listKey, value string) (bool, error) {
	res, err := s.push.Run(ctx, s.client, []string{setKey, listKey}, value).Int()
	if err != nil {
		return false, fmt.Errorf("redisstore: push_dedup %q/%q: %w", setKey, listKey, err)
	}
	return res == 1, nil
}

func (s *Store) BRPop(ctx context.Context, timeout time.Duration, listKey string) (string, bool, error) {
	res, err := s.client.BRPop(ctx, timeout, listKey).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redisstore: brpop %q: %w", listKey, err)
	}
	// res is [listKey, value].
	return res[1], true, nil
}

func (s *Store) SRem(ctx context.Context, setKey, value string) error {
	if err := s.client.SRem(ctx, setKey, value).Err(); err != nil {
		return fmt.Errorf("redisstore: srem %q: %w", setKey, err)
	}
	return nil
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redisstore: del %v: %w", keys, err)
	}
	return nil
}

func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redisstore: incr %q: %w", key, err)
	}
	return n, nil
}

func (s *Store) Decr(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Decr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redisstore: decr %q: %w", key, err)
	}
	return n, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redisstore: set %q: %w", key, err)
	}
	return nil
}
