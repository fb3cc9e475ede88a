package repository

import (
	"context"
	"time"

	"AlphaLabs/internal/domain/models"
)

// CalendarFeed returns rows from the economic-event calendar upstream.
type CalendarFeed interface {
	Entries(ctx context.Context) ([]models.CalendarEntry, error)
}

// RateFeed returns pairwise FX rates versus the configured pivot currency.
// Rates are quoted as pivot units per one unit of the keyed currency, so a
// rising rate means the keyed currency strengthened.
type RateFeed interface {
	Latest(ctx context.Context) (map[string]float64, error)
	Historical(ctx context.Context, date time.Time) (map[string]float64, error)
}

// NewsFeed returns raw financial-news items. No pre-filtering is expected;
// the classifier does all of it.
type NewsFeed interface {
	Items(ctx context.Context) ([]models.NewsItem, error)
}

// ScheduleFeed returns raw public-schedule rows as split by the scraping layer.
type ScheduleFeed interface {
	Entries(ctx context.Context) ([]models.ScheduleEntry, error)
}

// KVStore is the injected persistence collaborator: a flat Load/Save
// capability. Implementations may be a file, Redis, or an in-memory fake.
type KVStore interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}

// EventArchive records merged timelines for later analysis. Best-effort:
// the aggregator never fails a cycle over an archive error.
type EventArchive interface {
	StoreEvents(ctx context.Context, events []models.Event) error
	Health(ctx context.Context) error
	Close() error
}

// Publisher fans newly retained events out to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, e models.Event) error
	PublishBatch(ctx context.Context, events []models.Event) error
	Close() error
}

// Metrics records engine observability signals.
type Metrics interface {
	RecordFetch(source, result string)
	RecordCacheOutcome(source, outcome string)
	RecordBackoff(source string)
	RecordClassification(institution, contentType string)
	RecordEvictions(store string, n int)
	RecordRetainedSize(store string, n int)
	RecordMergeDuration(d time.Duration)
}
