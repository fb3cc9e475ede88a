package usecase

import (
	"context"
	"strings"
	"time"

	"AlphaLabs/internal/domain/models"
	domrepo "AlphaLabs/internal/domain/repository"
	"AlphaLabs/internal/service/cache"
	"AlphaLabs/internal/service/retention"
	applogger "AlphaLabs/pkg/logger"
	"AlphaLabs/pkg/util"
)

// Schedule rows that are press-office logistics, not events anyone trades on.
var scheduleDenylist = []string{
	"pool call time",
	"full lid",
	"gathering time",
	"travel pool",
	"press pool",
}

// ScheduleSource folds the published daily public schedule into the timeline.
// Rows are parsed from Eastern wall-clock strings, filtered for logistics
// noise, and retained so past entries survive the upstream's daily rollover.
type ScheduleSource struct {
	feed      domrepo.ScheduleFeed
	retained  *retention.Store[models.ScheduleItem]
	publisher domrepo.Publisher
	cache     *cache.Timed[[]models.ScheduleEntry]
	backoff   time.Duration
	metrics   domrepo.Metrics
	log       *applogger.Logger
}

// NewScheduleSource creates the schedule source. publisher may be nil.
func NewScheduleSource(
	feed domrepo.ScheduleFeed,
	retained *retention.Store[models.ScheduleItem],
	publisher domrepo.Publisher,
	ttl, backoff time.Duration,
	metrics domrepo.Metrics,
	log *applogger.Logger,
) *ScheduleSource {
	return &ScheduleSource{
		feed:      feed,
		retained:  retained,
		publisher: publisher,
		cache:     cache.NewTimed[[]models.ScheduleEntry](ttl),
		backoff:   backoff,
		metrics:   metrics,
		log:       log,
	}
}

func (s *ScheduleSource) Name() string { return string(models.SourceSchedule) }

// Retained exposes the retention store for the schedule read path.
func (s *ScheduleSource) Retained() *retention.Store[models.ScheduleItem] { return s.retained }

// Events refreshes the schedule, folds parseable rows into retention, and
// returns all retained entries as events.
func (s *ScheduleSource) Events(ctx context.Context, now time.Time) ([]models.Event, error) {
	entries, err := refreshPayload(ctx, s.Name(), s.cache, s.backoff, s.feed.Entries, s.metrics, s.log, now)
	if err == nil {
		if fresh := s.ingest(entries, now); len(fresh) > 0 {
			// A persist failure keeps memory state and retries on the next batch.
			_ = s.retained.Persist(ctx)
			if s.publisher != nil {
				if perr := s.publisher.PublishBatch(ctx, fresh); perr != nil {
					s.log.Warn("publish of retained items failed", applogger.Error(perr))
				}
			}
		}
	} else if s.retained.Len() == 0 {
		return nil, err
	}

	retained := s.retained.AllByPredicate(now, nil)
	s.metrics.RecordRetainedSize(s.Name(), len(retained))

	events := make([]models.Event, 0, len(retained))
	for _, it := range retained {
		events = append(events, models.Event{
			ID:       it.ID,
			Title:    it.Payload.Description,
			Code:     "USD",
			OccursAt: it.Payload.OccursAt,
			Source:   models.SourceSchedule,
		})
	}
	return events, nil
}

func (s *ScheduleSource) ingest(entries []models.ScheduleEntry, now time.Time) []models.Event {
	var fresh []models.Event
	for _, e := range entries {
		desc := strings.TrimSpace(e.Description)
		if desc == "" || isLogistics(desc) {
			continue
		}
		when, ok := util.ParseEastern(e.Date, e.Time)
		if !ok {
			s.log.Debug("schedule row has unparseable date",
				applogger.String("date", e.Date),
				applogger.String("time", e.Time),
			)
			continue
		}
		id := models.EventID(models.SourceSchedule, e.Date+"|"+e.Time+"|"+desc)
		if s.retained.Upsert(id, models.ScheduleItem{
			Description: desc,
			Location:    e.Location,
			OccursAt:    when,
		}, now) {
			fresh = append(fresh, models.Event{
				ID:       id,
				Title:    desc,
				Code:     "USD",
				OccursAt: when,
				Source:   models.SourceSchedule,
			})
		}
	}
	return fresh
}

func isLogistics(desc string) bool {
	lower := strings.ToLower(desc)
	for _, term := range scheduleDenylist {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
