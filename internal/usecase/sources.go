package usecase

import (
	"context"
	"errors"
	"time"

	"AlphaLabs/internal/domain/models"
	domrepo "AlphaLabs/internal/domain/repository"
	"AlphaLabs/internal/service/cache"
	applogger "AlphaLabs/pkg/logger"
)

// Source is one upstream contributing events to the merged timeline.
type Source interface {
	Name() string
	Events(ctx context.Context, now time.Time) ([]models.Event, error)
}

// refreshPayload runs the stale-serve dance for one source: fresh cache wins,
// otherwise a refresh is attempted if the backoff clock allows it, and a
// stale payload is served whenever the refresh cannot or does not succeed.
// The only hard failure is a cold cache inside a backoff window.
func refreshPayload[T any](
	ctx context.Context,
	name string,
	c *cache.Timed[T],
	backoff time.Duration,
	fetch func(context.Context) (T, error),
	metrics domrepo.Metrics,
	log *applogger.Logger,
	now time.Time,
) (T, error) {
	payload, fresh := c.Get(now)
	if fresh {
		metrics.RecordCacheOutcome(name, "fresh")
		return payload, nil
	}

	if !c.ShouldAttemptRefresh(now) {
		if c.Has() {
			metrics.RecordCacheOutcome(name, "stale")
			return payload, nil
		}
		metrics.RecordCacheOutcome(name, "miss")
		return payload, &models.RetryAfterError{Source: name, RetryAt: c.RetryAt()}
	}

	fetched, err := fetch(ctx)
	if err == nil {
		c.RecordSuccess(fetched, now)
		metrics.RecordFetch(name, "success")
		return fetched, nil
	}

	if errors.Is(err, models.ErrRateLimited) {
		c.RecordRateLimited(now, backoff)
		metrics.RecordFetch(name, "rate_limited")
		metrics.RecordBackoff(name)
		log.Warn("source rate limited, backing off",
			applogger.String("source", name),
			applogger.Time("retry_at", c.RetryAt()),
		)
	} else {
		c.RecordOtherFailure()
		metrics.RecordFetch(name, "error")
		log.Warn("source fetch failed",
			applogger.String("source", name),
			applogger.Error(err),
		)
	}

	if c.Has() {
		metrics.RecordCacheOutcome(name, "stale")
		return payload, nil
	}
	if errors.Is(err, models.ErrRateLimited) {
		return payload, &models.RetryAfterError{Source: name, RetryAt: c.RetryAt()}
	}
	return payload, err
}
