package models

import (
	"errors"
	"fmt"
	"time"
)

// Upstream failure taxonomy. Feed adapters classify transport failures into
// one of these so the caching layer can decide between backoff and stale-serve.
var (
	// ErrRateLimited marks a 429 or a rate-limit-shaped payload (for example
	// an HTML challenge page where JSON was expected).
	ErrRateLimited = errors.New("upstream rate limited")

	// ErrUpstreamUnavailable marks network errors, timeouts and 5xx responses.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrMalformedPayload marks a response of unexpected shape. Treated as a
	// zero-result fetch, never a crash.
	ErrMalformedPayload = errors.New("malformed upstream payload")
)

// RetryAfterError is returned when a source has no stored payload and its
// backoff window forbids a refresh. Callers must surface it, not swallow it.
type RetryAfterError struct {
	Source  string
	RetryAt time.Time
}

func (e *RetryAfterError) Error() string {
	mins := int(time.Until(e.RetryAt).Minutes()) + 1
	if mins < 1 {
		mins = 1
	}
	return fmt.Sprintf("%s temporarily unavailable, retry in %d minutes", e.Source, mins)
}

// RetryIn reports how long until a refresh is allowed, relative to now.
func (e *RetryAfterError) RetryIn(now time.Time) time.Duration {
	return e.RetryAt.Sub(now)
}
