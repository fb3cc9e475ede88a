package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"AlphaLabs/internal/domain/models"
	"AlphaLabs/internal/service/retention"
	"AlphaLabs/internal/services/classify"
	applogger "AlphaLabs/pkg/logger"
)

type fakeCalendarFeed struct {
	entries []models.CalendarEntry
	err     error
	calls   int
}

func (f *fakeCalendarFeed) Entries(ctx context.Context) ([]models.CalendarEntry, error) {
	f.calls++
	return f.entries, f.err
}

type fakeNewsFeed struct {
	items []models.NewsItem
	err   error
}

func (f *fakeNewsFeed) Items(ctx context.Context) ([]models.NewsItem, error) {
	return f.items, f.err
}

type fakeScheduleFeed struct {
	entries []models.ScheduleEntry
	err     error
}

func (f *fakeScheduleFeed) Entries(ctx context.Context) ([]models.ScheduleEntry, error) {
	return f.entries, f.err
}

type capturingPublisher struct {
	published []models.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, e models.Event) error {
	p.published = append(p.published, e)
	return nil
}

func (p *capturingPublisher) PublishBatch(ctx context.Context, events []models.Event) error {
	p.published = append(p.published, events...)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func TestCalendarSourceKeepsOnlyHighImpact(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	feed := &fakeCalendarFeed{entries: []models.CalendarEntry{
		{Title: "Nonfarm Payrolls", Country: "USD", Date: now.Add(24 * time.Hour), Impact: "High"},
		{Title: "Housing Starts", Country: "USD", Date: now.Add(25 * time.Hour), Impact: "Medium"},
		{Title: "Rate Statement", Country: "EUR", Date: now.Add(26 * time.Hour), Impact: "high"},
	}}
	src := NewCalendarSource(feed, 15*time.Minute, 30*time.Minute, nopMetrics{}, applogger.Nop())

	events, err := src.Events(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 high-impact events, got %d", len(events))
	}
	for _, e := range events {
		if e.Source != models.SourceCalendar {
			t.Fatalf("wrong source tag: %s", e.Source)
		}
	}
}

func TestCalendarSourceBacksOffWhenRateLimited(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	feed := &fakeCalendarFeed{err: models.ErrRateLimited}
	src := NewCalendarSource(feed, 15*time.Minute, 30*time.Minute, nopMetrics{}, applogger.Nop())

	_, err := src.Events(context.Background(), now)
	var retry *models.RetryAfterError
	if !errors.As(err, &retry) {
		t.Fatalf("expected RetryAfterError for cold rate-limited source, got %v", err)
	}
	if got := retry.RetryAt; !got.Equal(now.Add(30 * time.Minute)) {
		t.Fatalf("retry clock should honor the backoff window, got %v", got)
	}

	// The backoff window forbids another attempt; the feed must not be hit.
	if _, err := src.Events(context.Background(), now.Add(time.Minute)); err == nil {
		t.Fatalf("expected error inside backoff window")
	}
	if feed.calls != 1 {
		t.Fatalf("expected 1 upstream attempt, got %d", feed.calls)
	}
}

func TestCalendarSourceServesStaleDuringOutage(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	feed := &fakeCalendarFeed{entries: []models.CalendarEntry{
		{Title: "CPI", Country: "USD", Date: now.Add(24 * time.Hour), Impact: "High"},
	}}
	src := NewCalendarSource(feed, 15*time.Minute, 30*time.Minute, nopMetrics{}, applogger.Nop())

	if _, err := src.Events(context.Background(), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feed.err = models.ErrUpstreamUnavailable
	feed.entries = nil
	later := now.Add(20 * time.Minute) // stale, refresh allowed, refresh fails

	events, err := src.Events(context.Background(), later)
	if err != nil {
		t.Fatalf("expected stale serve, got %v", err)
	}
	if len(events) != 1 || events[0].Title != "CPI" {
		t.Fatalf("expected the stale payload, got %+v", events)
	}
}

func TestNewsSourceRetainsClassifiedItems(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	feed := &fakeNewsFeed{items: []models.NewsItem{
		{Headline: "Fed Chair Powell delivers speech on the economic outlook", RawText: "Fed Chair Powell delivers speech on the economic outlook", Timestamp: now.Add(-time.Hour)},
		{Headline: "Tech stocks rally as futures climb", RawText: "Tech stocks rally as futures climb", Timestamp: now},
	}}
	store := retention.NewStore[models.CBItem](7*24*time.Hour, "speeches", nil, applogger.Nop())
	pub := &capturingPublisher{}
	src := NewNewsSource(feed, classify.New(), store, pub, 10*time.Minute, 30*time.Minute, nopMetrics{}, applogger.Nop())

	events, err := src.Events(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 retained speech, got %d", len(events))
	}
	if events[0].Source != models.SourceCBSpeech || events[0].Code != "USD" {
		t.Fatalf("unexpected event: %+v", events[0])
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected 1 published item, got %d", len(pub.published))
	}
}

func TestNewsSourceDoesNotRepublishKnownItems(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	feed := &fakeNewsFeed{items: []models.NewsItem{
		{Headline: "ECB's Lagarde holds press conference after rate decision", RawText: "ECB's Lagarde holds press conference after rate decision", Timestamp: now},
	}}
	store := retention.NewStore[models.CBItem](7*24*time.Hour, "speeches", nil, applogger.Nop())
	pub := &capturingPublisher{}
	src := NewNewsSource(feed, classify.New(), store, pub, 10*time.Minute, 30*time.Minute, nopMetrics{}, applogger.Nop())

	if _, err := src.Events(context.Background(), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Past the TTL so the feed is re-fetched and re-ingested.
	if _, err := src.Events(context.Background(), now.Add(15*time.Minute)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("re-ingesting a known headline must not republish, got %d", len(pub.published))
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 retained item, got %d", store.Len())
	}
}

func TestNewsSourceServesRetainedBacklogDuringOutage(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	feed := &fakeNewsFeed{items: []models.NewsItem{
		{Headline: "BoE Governor Bailey delivers speech on inflation", RawText: "BoE Governor Bailey delivers speech on inflation", Timestamp: now},
	}}
	store := retention.NewStore[models.CBItem](7*24*time.Hour, "speeches", nil, applogger.Nop())
	src := NewNewsSource(feed, classify.New(), store, nil, 10*time.Minute, 30*time.Minute, nopMetrics{}, applogger.Nop())

	if _, err := src.Events(context.Background(), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feed.err = models.ErrUpstreamUnavailable
	feed.items = nil
	events, err := src.Events(context.Background(), now.Add(15*time.Minute))
	if err != nil {
		t.Fatalf("retained backlog should survive the outage: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 retained event, got %d", len(events))
	}
}

func TestScheduleSourceFiltersLogisticsRows(t *testing.T) {
	now := time.Date(2025, 6, 17, 12, 0, 0, 0, time.UTC)
	feed := &fakeScheduleFeed{entries: []models.ScheduleEntry{
		{Date: "June 17, 2025", Time: "9:30 AM", Description: "Remarks at economic summit", Location: "South Lawn"},
		{Date: "June 17, 2025", Time: "8:00 AM", Description: "Pool Call Time", Location: ""},
		{Date: "June 17, 2025", Time: "6:00 PM", Description: "Full Lid", Location: ""},
		{Date: "bad date", Time: "9:30 AM", Description: "Unparseable row", Location: ""},
	}}
	store := retention.NewStore[models.ScheduleItem](7*24*time.Hour, "schedule", nil, applogger.Nop())
	src := NewScheduleSource(feed, store, nil, 30*time.Minute, 30*time.Minute, nopMetrics{}, applogger.Nop())

	events, err := src.Events(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 substantive row, got %d", len(events))
	}
	if events[0].Title != "Remarks at economic summit" || events[0].Code != "USD" {
		t.Fatalf("unexpected event: %+v", events[0])
	}
	// 9:30 AM Eastern in June is 13:30 UTC.
	want := time.Date(2025, 6, 17, 13, 30, 0, 0, time.UTC)
	if !events[0].OccursAt.Equal(want) {
		t.Fatalf("expected %v, got %v", want, events[0].OccursAt)
	}
}
