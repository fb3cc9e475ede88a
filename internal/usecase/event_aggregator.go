package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"AlphaLabs/internal/domain/models"
	domrepo "AlphaLabs/internal/domain/repository"
	"AlphaLabs/internal/service/cache"
	applogger "AlphaLabs/pkg/logger"
)

// EventAggregator merges every source into one deduplicated, time-ordered
// timeline. The merged result is itself cached, so a burst of readers costs
// one upstream cycle, and only one refresh is ever in flight.
type EventAggregator struct {
	sources []Source
	merged  *cache.Timed[models.Timeline]
	archive domrepo.EventArchive
	metrics domrepo.Metrics
	log     *applogger.Logger

	// serializes refreshes; readers who lose the race reuse the winner's merge
	refreshMu sync.Mutex

	sourceTimeout time.Duration
}

// NewEventAggregator creates the aggregator. archive may be nil.
func NewEventAggregator(
	sources []Source,
	mergeTTL, sourceTimeout time.Duration,
	archive domrepo.EventArchive,
	metrics domrepo.Metrics,
	log *applogger.Logger,
) *EventAggregator {
	return &EventAggregator{
		sources:       sources,
		merged:        cache.NewTimed[models.Timeline](mergeTTL),
		archive:       archive,
		metrics:       metrics,
		log:           log,
		sourceTimeout: sourceTimeout,
	}
}

// Timeline returns the merged timeline filtered to the requested view.
func (a *EventAggregator) Timeline(ctx context.Context, now time.Time, view models.View) (models.Timeline, error) {
	if tl, fresh := a.merged.Get(now); fresh {
		a.metrics.RecordCacheOutcome("merge", "fresh")
		return filterView(tl, view, now), nil
	}

	a.refreshMu.Lock()
	defer a.refreshMu.Unlock()

	// Another reader may have refreshed while we waited on the lock.
	if tl, fresh := a.merged.Get(now); fresh {
		a.metrics.RecordCacheOutcome("merge", "fresh")
		return filterView(tl, view, now), nil
	}

	tl, err := a.refresh(ctx, now)
	if err != nil {
		return models.Timeline{}, err
	}
	return filterView(tl, view, now), nil
}

type sourceResult struct {
	name   string
	events []models.Event
	err    error
}

func (a *EventAggregator) refresh(ctx context.Context, now time.Time) (models.Timeline, error) {
	start := time.Now()

	results := make(chan sourceResult, len(a.sources))
	for _, src := range a.sources {
		go func(src Source) {
			sctx, cancel := context.WithTimeout(ctx, a.sourceTimeout)
			defer cancel()
			events, err := src.Events(sctx, now)
			results <- sourceResult{name: src.Name(), events: events, err: err}
		}(src)
	}

	var (
		events     []models.Event
		advisories []string
		firstErr   error
		failures   int
	)
	for range a.sources {
		r := <-results
		if r.err != nil {
			failures++
			if firstErr == nil {
				firstErr = r.err
			}
			advisories = append(advisories, r.err.Error())
			continue
		}
		events = append(events, r.events...)
	}
	sort.Strings(advisories)

	// Merge fails only when every source failed and no previous merge exists.
	if failures == len(a.sources) && !a.merged.Has() {
		return models.Timeline{}, firstErr
	}

	tl := models.Timeline{
		Events:      dedupeSorted(events),
		Advisories:  advisories,
		Degraded:    failures > 0,
		GeneratedAt: now,
	}
	a.merged.RecordSuccess(tl, now)
	a.metrics.RecordCacheOutcome("merge", "refresh")
	a.metrics.RecordMergeDuration(time.Since(start))

	if a.archive != nil && len(tl.Events) > 0 {
		if err := a.archive.StoreEvents(ctx, tl.Events); err != nil {
			a.log.Warn("event archive write failed", applogger.Error(err))
		}
	}

	a.log.Info("timeline refreshed",
		applogger.Int("events", len(tl.Events)),
		applogger.Int("failed_sources", failures),
	)
	return tl, nil
}

// dedupeSorted drops duplicate ids keeping the first occurrence, then orders
// ascending by occurrence time. Ties break on id so output is deterministic.
func dedupeSorted(events []models.Event) []models.Event {
	seen := make(map[string]struct{}, len(events))
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OccursAt.Equal(out[j].OccursAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].OccursAt.Before(out[j].OccursAt)
	})
	return out
}

func filterView(tl models.Timeline, view models.View, now time.Time) models.Timeline {
	if view != models.ViewUpcoming {
		return tl
	}
	upcoming := make([]models.Event, 0, len(tl.Events))
	for _, e := range tl.Events {
		if !e.OccursAt.Before(now) {
			upcoming = append(upcoming, e)
		}
	}
	filtered := tl
	filtered.Events = upcoming
	return filtered
}
