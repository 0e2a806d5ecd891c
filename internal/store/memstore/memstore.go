// Package memstore is an in-process fake of internal/store.Store, used so
// every internal package's tests (and the inference core itself) can be
// exercised without a live Redis.
package memstore

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/Emeline-1/pathinfer/internal/store"
)

// Store is a mutex-protected, in-memory implementation of store.Store.
type Store struct {
	mu           sync.Mutex
	sets         map[string]map[string]struct{}
	hashes       map[string]map[string]string
	lists        map[string][]string
	counters     map[string]int64
	popped       map[string]chan struct{} // signaled when a list key is pushed to
	publications []Published
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		sets:     make(map[string]map[string]struct{}),
		hashes:   make(map[string]map[string]string),
		lists:    make(map[string][]string),
		counters: make(map[string]int64),
		popped:   make(map[string]chan struct{}),
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sets[key]; ok {
		return true, nil
	}
	if _, ok := s.hashes[key]; ok {
		return true, nil
	}
	if _, ok := s.lists[key]; ok {
		return true, nil
	}
	if _, ok := s.counters[key]; ok {
		return true, nil
	}
	return false, nil
}

func (s *Store) SMembers(_ context.Context, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members := make([]string, 0, len(s.sets[key]))
	for m := range s.sets[key] {
		members = append(members, m)
	}
	return members, nil
}

// SAdd is exposed for test setup convenience; it is not part of
// store.Store (production callers only add members via PushDedup).
func (s *Store) SAdd(key, member string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addMember(key, member)
}

func (s *Store) addMember(key, member string) bool {
	set, ok := s.sets[key]
	if !ok {
		set = make(map[string]struct{})
		s.sets[key] = set
	}
	if _, present := set[member]; present {
		return false
	}
	set[member] = struct{}{}
	return true
}

func (s *Store) HGet(_ context.Context, key, field string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hashes[key]
	if !ok {
		return "", false, nil
	}
	v, ok := h[field]
	return v, ok, nil
}

// HSet is exposed for test setup convenience.
func (s *Store) HSet(key, field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string]string)
		s.hashes[key] = h
	}
	h[field] = value
}

func (s *Store) HSetBatch(_ context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string]string)
		s.hashes[key] = h
	}
	for f, v := range fields {
		h[f] = v
	}
	return nil
}

func (s *Store) Expire(_ context.Context, key string, ttl time.Duration) error {
	// The fake doesn't model expiry; tests only assert that Expire was
	// called without error.
	return nil
}

// Published records every message sent via Publish, for test assertions.
type Published struct {
	Channel string
	Message string
}

func (s *Store) Publish(_ context.Context, channel, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publications = append(s.publications, Published{Channel: channel, Message: message})
	return nil
}

// Publications returns every message Published so far, in order.
func (s *Store) Publications() []Published {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Published(nil), s.publications...)
}

func (s *Store) Push(_ context.Context, listKey, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[listKey] = append([]string{value}, s.lists[listKey]...)
	s.signal(listKey)
	return nil
}

func (s *Store) PushDedup(_ context.Context, setKey, listKey, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.addMember(setKey, value) {
		return false, nil
	}
	s.lists[listKey] = append([]string{value}, s.lists[listKey]...)
	s.signal(listKey)
	return true, nil
}

func (s *Store) BRPop(ctx context.Context, timeout time.Duration, listKey string) (string, bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		s.mu.Lock()
		list := s.lists[listKey]
		if len(list) > 0 {
			v := list[len(list)-1]
			s.lists[listKey] = list[:len(list)-1]
			s.mu.Unlock()
			return v, true, nil
		}
		ch := s.waitChan(listKey)
		s.mu.Unlock()

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return "", false, nil
		}
		select {
		case <-ctx.Done():
			return "", false, ctx.Err()
		case <-ch:
		case <-time.After(remaining):
			return "", false, nil
		}
	}
}

func (s *Store) waitChan(listKey string) chan struct{} {
	ch, ok := s.popped[listKey]
	if !ok {
		ch = make(chan struct{})
		s.popped[listKey] = ch
	}
	return ch
}

func (s *Store) signal(listKey string) {
	if ch, ok := s.popped[listKey]; ok {
		close(ch)
		delete(s.popped, listKey)
	}
}

func (s *Store) SRem(_ context.Context, setKey, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets[setKey], value)
	return nil
}

func (s *Store) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.sets, k)
		delete(s.hashes, k)
		delete(s.lists, k)
		delete(s.counters, k)
	}
	return nil
}

func (s *Store) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key]++
	return s.counters[key], nil
}

func (s *Store) Decr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key]--
	return s.counters[key], nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return err
	}
	s.counters[key] = n
	return nil
}
