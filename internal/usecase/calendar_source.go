package usecase

import (
	"context"
	"strings"
	"time"

	"AlphaLabs/internal/domain/models"
	domrepo "AlphaLabs/internal/domain/repository"
	"AlphaLabs/internal/service/cache"
	applogger "AlphaLabs/pkg/logger"
)

// CalendarSource contributes upcoming high-impact economic releases to the
// timeline. Lower-impact and past rows are dropped at ingestion; history for
// the "all" view comes from the retained sources, not the calendar.
type CalendarSource struct {
	feed    domrepo.CalendarFeed
	cache   *cache.Timed[[]models.CalendarEntry]
	backoff time.Duration
	metrics domrepo.Metrics
	log     *applogger.Logger
}

// NewCalendarSource creates the calendar source.
func NewCalendarSource(feed domrepo.CalendarFeed, ttl, backoff time.Duration, metrics domrepo.Metrics, log *applogger.Logger) *CalendarSource {
	return &CalendarSource{
		feed:    feed,
		cache:   cache.NewTimed[[]models.CalendarEntry](ttl),
		backoff: backoff,
		metrics: metrics,
		log:     log,
	}
}

func (s *CalendarSource) Name() string { return string(models.SourceCalendar) }

// Events returns high-impact calendar releases as events.
func (s *CalendarSource) Events(ctx context.Context, now time.Time) ([]models.Event, error) {
	entries, err := refreshPayload(ctx, s.Name(), s.cache, s.backoff, s.feed.Entries, s.metrics, s.log, now)
	if err != nil {
		return nil, err
	}

	events := make([]models.Event, 0, len(entries))
	for _, e := range entries {
		if !strings.EqualFold(e.Impact, "High") || e.Date.Before(now) {
			continue
		}
		events = append(events, models.Event{
			ID:       models.EventID(models.SourceCalendar, e.Title+"|"+e.Country+"|"+e.Date.UTC().Format(time.RFC3339)),
			Title:    e.Title,
			Code:     e.Country,
			OccursAt: e.Date.UTC(),
			Source:   models.SourceCalendar,
		})
	}
	return events, nil
}
