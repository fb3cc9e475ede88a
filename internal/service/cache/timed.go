package cache

import (
	"sync"
	"time"
)

// Timed is a single-value cache with a freshness TTL and an independent
// "next allowed attempt" clock. Every source adapter owns one instance, so
// all upstreams share a single backoff state machine instead of ad hoc
// retry logic in each fetch path.
//
// Invariant: nextAllowedAt >= fetchedAt. A refresh is permitted only when the
// entry is stale and now is past nextAllowedAt. A rate-limited fetch extends
// nextAllowedAt without touching the payload, so stale data stays servable.
type Timed[T any] struct {
	mu            sync.Mutex
	payload       T
	has           bool
	fetchedAt     time.Time
	nextAllowedAt time.Time
	ttl           time.Duration
}

// NewTimed creates an empty cache with the given freshness TTL.
func NewTimed[T any](ttl time.Duration) *Timed[T] {
	return &Timed[T]{ttl: ttl}
}

// Get returns the stored payload and whether it is still fresh. A stale
// payload is still returned; callers serve it when a refresh is not allowed.
func (c *Timed[T]) Get(now time.Time) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.has {
		var zero T
		return zero, false
	}
	return c.payload, now.Sub(c.fetchedAt) < c.ttl
}

// Has reports whether any payload, fresh or stale, is stored.
func (c *Timed[T]) Has() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.has
}

// ShouldAttemptRefresh reports whether a fetch is permitted now: the entry
// must be stale (or empty) and outside any backoff window.
func (c *Timed[T]) ShouldAttemptRefresh(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now.Before(c.nextAllowedAt) {
		return false
	}
	if c.has && now.Sub(c.fetchedAt) < c.ttl {
		return false
	}
	return true
}

// RecordSuccess stores a fresh payload and resets both clocks.
func (c *Timed[T]) RecordSuccess(payload T, now time.Time) {
	c.mu.Lock()
	c.payload = payload
	c.has = true
	c.fetchedAt = now
	c.nextAllowedAt = now.Add(c.ttl)
	c.mu.Unlock()
}

// RecordRateLimited extends the attempt clock without touching the payload.
func (c *Timed[T]) RecordRateLimited(now time.Time, backoff time.Duration) {
	c.mu.Lock()
	next := now.Add(backoff)
	if next.After(c.nextAllowedAt) {
		c.nextAllowedAt = next
	}
	c.mu.Unlock()
}

// RecordOtherFailure leaves all state untouched; the caller keeps serving
// the stale payload if one exists and may retry on the next read.
func (c *Timed[T]) RecordOtherFailure() {}

// RetryAt returns the earliest instant a refresh is allowed.
func (c *Timed[T]) RetryAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextAllowedAt
}

// TTL returns the configured freshness TTL.
func (c *Timed[T]) TTL() time.Duration { return c.ttl }
