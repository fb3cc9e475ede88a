package usecase

import (
	"context"
	"time"

	"AlphaLabs/internal/domain/models"
	domrepo "AlphaLabs/internal/domain/repository"
	"AlphaLabs/internal/service/cache"
	"AlphaLabs/internal/service/retention"
	"AlphaLabs/internal/services/classify"
	applogger "AlphaLabs/pkg/logger"
)

// NewsSource mines the general news feed for central-bank speeches and press
// conferences. Accepted items enter the retention store, so a headline keeps
// appearing on the timeline after the upstream stops returning it.
type NewsSource struct {
	feed       domrepo.NewsFeed
	classifier *classify.Classifier
	retained   *retention.Store[models.CBItem]
	publisher  domrepo.Publisher
	cache      *cache.Timed[[]models.NewsItem]
	backoff    time.Duration
	metrics    domrepo.Metrics
	log        *applogger.Logger
}

// NewNewsSource creates the central-bank news source. publisher may be nil.
func NewNewsSource(
	feed domrepo.NewsFeed,
	classifier *classify.Classifier,
	retained *retention.Store[models.CBItem],
	publisher domrepo.Publisher,
	ttl, backoff time.Duration,
	metrics domrepo.Metrics,
	log *applogger.Logger,
) *NewsSource {
	return &NewsSource{
		feed:       feed,
		classifier: classifier,
		retained:   retained,
		publisher:  publisher,
		cache:      cache.NewTimed[[]models.NewsItem](ttl),
		backoff:    backoff,
		metrics:    metrics,
		log:        log,
	}
}

func (s *NewsSource) Name() string { return "cb_news" }

// Retained exposes the retention store for the speeches read path.
func (s *NewsSource) Retained() *retention.Store[models.CBItem] { return s.retained }

// Events refreshes the news feed, folds accepted headlines into retention,
// and returns every retained item as an event. A cold feed still yields the
// retained backlog; retention outlives upstream failures.
func (s *NewsSource) Events(ctx context.Context, now time.Time) ([]models.Event, error) {
	items, err := refreshPayload(ctx, s.Name(), s.cache, s.backoff, s.feed.Items, s.metrics, s.log, now)
	if err == nil {
		s.ingest(ctx, items, now)
	} else if s.retained.Len() == 0 {
		return nil, err
	}

	retained := s.retained.AllByPredicate(now, nil)
	s.metrics.RecordRetainedSize(s.Name(), len(retained))

	events := make([]models.Event, 0, len(retained))
	for _, it := range retained {
		tag := classify.SourceTagFor(it.Payload.Type)
		events = append(events, models.Event{
			ID:       it.ID,
			Title:    it.Payload.Headline,
			Code:     it.Payload.Code,
			OccursAt: it.Payload.PublishedAt,
			Source:   tag,
		})
	}
	return events, nil
}

func (s *NewsSource) ingest(ctx context.Context, items []models.NewsItem, now time.Time) {
	var fresh []models.Event
	for _, item := range items {
		cls, ok := s.classifier.Classify(item.RawText)
		if !ok {
			continue
		}
		s.metrics.RecordClassification(cls.Institution, string(cls.Type))

		tag := classify.SourceTagFor(cls.Type)
		id := models.EventID(tag, item.Headline)
		cb := models.CBItem{
			Headline:    item.Headline,
			Institution: cls.Institution,
			Code:        cls.Code,
			Speaker:     cls.Speaker,
			Type:        cls.Type,
			PublishedAt: item.Timestamp,
			Link:        item.Link,
		}
		if s.retained.Upsert(id, cb, now) {
			fresh = append(fresh, models.Event{
				ID:       id,
				Title:    cb.Headline,
				Code:     cb.Code,
				OccursAt: cb.PublishedAt,
				Source:   tag,
			})
		}
	}

	if len(fresh) == 0 {
		return
	}
	// A persist failure keeps memory state and retries on the next batch.
	_ = s.retained.Persist(ctx)

	if s.publisher != nil {
		// Best effort: a broker outage must not block the merge.
		if err := s.publisher.PublishBatch(ctx, fresh); err != nil {
			s.log.Warn("publish of retained items failed", applogger.Error(err))
		}
	}
}
