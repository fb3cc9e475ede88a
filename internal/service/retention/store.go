package retention

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"AlphaLabs/internal/domain/repository"
	"AlphaLabs/pkg/logger"
)

// Item wraps a retained payload with its identity and first-seen instant.
// FirstSeenAt never changes after insertion.
type Item[T any] struct {
	ID          string    `json:"id"`
	FirstSeenAt time.Time `json:"first_seen_at"`
	Payload     T         `json:"payload"`
}

// Store keeps a rolling window of observed items keyed by stable id.
// Mutation is serialized; shared across the cycle's adapters and readers.
type Store[T any] struct {
	mu     sync.Mutex
	items  map[string]Item[T]
	window time.Duration
	key    string
	kv     repository.KVStore
	log    *logger.Logger
}

// NewStore creates an empty retention store persisted under key. kv may be
// nil, in which case the store is memory-only.
func NewStore[T any](window time.Duration, key string, kv repository.KVStore, log *logger.Logger) *Store[T] {
	return &Store[T]{
		items:  make(map[string]Item[T]),
		window: window,
		key:    key,
		kv:     kv,
		log:    log,
	}
}

// Load restores persisted items and sweeps anything that aged out while the
// process was down.
func (s *Store[T]) Load(ctx context.Context, now time.Time) error {
	if s.kv == nil {
		return nil
	}
	b, ok, err := s.kv.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("retention load %s: %w", s.key, err)
	}
	if !ok {
		return nil
	}
	var list []Item[T]
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("retention decode %s: %w", s.key, err)
	}
	s.Restore(list)
	s.Sweep(now)
	return nil
}

// Upsert inserts the payload only if id is unknown; re-insertion of a known
// id is a no-op that preserves FirstSeenAt. Returns true on first insert.
func (s *Store[T]) Upsert(id string, payload T, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; ok {
		return false
	}
	s.items[id] = Item[T]{ID: id, FirstSeenAt: now, Payload: payload}
	return true
}

// Sweep removes every item whose age reached the retention window and
// returns the count removed.
func (s *Store[T]) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, it := range s.items {
		if now.Sub(it.FirstSeenAt) >= s.window {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// AllByPredicate sweeps, then returns matching items ordered by FirstSeenAt
// descending (newest first). The returned slice is a snapshot.
func (s *Store[T]) AllByPredicate(now time.Time, fn func(Item[T]) bool) []Item[T] {
	s.Sweep(now)
	s.mu.Lock()
	out := make([]Item[T], 0, len(s.items))
	for _, it := range s.items {
		if fn == nil || fn(it) {
			out = append(out, it)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].FirstSeenAt.After(out[j].FirstSeenAt) })
	return out
}

// Len reports the current item count without sweeping.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Snapshot returns all items as a flat list for persistence.
func (s *Store[T]) Snapshot() []Item[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item[T], 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	return out
}

// Restore replaces the contents with a persisted list. Duplicate ids keep
// the earliest FirstSeenAt.
func (s *Store[T]) Restore(list []Item[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]Item[T], len(list))
	for _, it := range list {
		if prev, ok := s.items[it.ID]; ok && prev.FirstSeenAt.Before(it.FirstSeenAt) {
			continue
		}
		s.items[it.ID] = it
	}
}

// Persist writes the snapshot through the injected store. A write failure
// never loses in-memory state; it is logged and retried on the next batch.
func (s *Store[T]) Persist(ctx context.Context) error {
	if s.kv == nil {
		return nil
	}
	b, err := json.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("retention encode %s: %w", s.key, err)
	}
	if err := s.kv.Save(ctx, s.key, b); err != nil {
		if s.log != nil {
			s.log.Warn("retention persist failed, keeping memory state",
				logger.String("key", s.key), logger.Error(err))
		}
		return fmt.Errorf("retention save %s: %w", s.key, err)
	}
	return nil
}
