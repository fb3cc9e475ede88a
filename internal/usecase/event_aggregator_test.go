package usecase

import (
	"context"
	"testing"
	"time"

	"AlphaLabs/internal/domain/models"
	applogger "AlphaLabs/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordFetch(source, result string)                    {}
func (nopMetrics) RecordCacheOutcome(source, outcome string)            {}
func (nopMetrics) RecordBackoff(source string)                          {}
func (nopMetrics) RecordClassification(institution, contentType string) {}
func (nopMetrics) RecordEvictions(store string, n int)                  {}
func (nopMetrics) RecordRetainedSize(store string, n int)               {}
func (nopMetrics) RecordMergeDuration(d time.Duration)                  {}

type fakeSource struct {
	name   string
	events []models.Event
	err    error
	calls  int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Events(ctx context.Context, now time.Time) ([]models.Event, error) {
	f.calls++
	return f.events, f.err
}

func newAggregator(t *testing.T, sources ...Source) *EventAggregator {
	t.Helper()
	return NewEventAggregator(sources, 2*time.Minute, 5*time.Second, nil, nopMetrics{}, applogger.Nop())
}

func TestTimelineMergesDeduplicatesAndSorts(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	shared := models.Event{ID: "calendar-1", Title: "CPI", Code: "USD", OccursAt: now.Add(2 * time.Hour), Source: models.SourceCalendar}
	dup := shared
	dup.Title = "CPI duplicate from slower source"

	a := newAggregator(t,
		&fakeSource{name: "a", events: []models.Event{
			shared,
			{ID: "a-2", Title: "later", OccursAt: now.Add(4 * time.Hour)},
		}},
		&fakeSource{name: "b", events: []models.Event{
			dup,
			{ID: "b-1", Title: "sooner", OccursAt: now.Add(1 * time.Hour)},
		}},
	)

	tl, err := a.Timeline(context.Background(), now, models.ViewAll)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tl.Events) != 3 {
		t.Fatalf("expected 3 deduplicated events, got %d", len(tl.Events))
	}
	if tl.Events[0].ID != "b-1" || tl.Events[2].ID != "a-2" {
		t.Fatalf("events not sorted by occurrence: %+v", tl.Events)
	}
	if tl.Degraded {
		t.Fatalf("clean merge should not be degraded")
	}
}

func TestTimelinePartialFailureIsAdvisory(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	a := newAggregator(t,
		&fakeSource{name: "ok", events: []models.Event{
			{ID: "ok-1", Title: "event", OccursAt: now.Add(time.Hour)},
		}},
		&fakeSource{name: "down", err: models.ErrUpstreamUnavailable},
	)

	tl, err := a.Timeline(context.Background(), now, models.ViewAll)
	if err != nil {
		t.Fatalf("partial failure must not fail the merge: %v", err)
	}
	if !tl.Degraded {
		t.Fatalf("expected degraded timeline")
	}
	if len(tl.Advisories) != 1 {
		t.Fatalf("expected 1 advisory, got %v", tl.Advisories)
	}
	if len(tl.Events) != 1 {
		t.Fatalf("expected healthy source's event, got %d", len(tl.Events))
	}
}

func TestTimelineAllSourcesColdFails(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	retryErr := &models.RetryAfterError{Source: "calendar", RetryAt: now.Add(30 * time.Minute)}
	a := newAggregator(t,
		&fakeSource{name: "a", err: retryErr},
		&fakeSource{name: "b", err: models.ErrUpstreamUnavailable},
	)

	_, err := a.Timeline(context.Background(), now, models.ViewAll)
	if err == nil {
		t.Fatalf("expected error when every source is cold")
	}
}

func TestTimelineServesCachedMergeWithinTTL(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	src := &fakeSource{name: "a", events: []models.Event{
		{ID: "a-1", OccursAt: now.Add(time.Hour)},
	}}
	a := newAggregator(t, src)

	if _, err := a.Timeline(context.Background(), now, models.ViewAll); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := a.Timeline(context.Background(), now.Add(30*time.Second), models.ViewAll); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("expected a single upstream cycle, got %d", src.calls)
	}
}

func TestTimelineFailedMergeKeepsServingPrevious(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	src := &fakeSource{name: "a", events: []models.Event{
		{ID: "a-1", OccursAt: now.Add(time.Hour)},
	}}
	a := newAggregator(t, src)

	if _, err := a.Timeline(context.Background(), now, models.ViewAll); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src.err = models.ErrUpstreamUnavailable
	src.events = nil
	later := now.Add(3 * time.Minute) // past the merge TTL

	tl, err := a.Timeline(context.Background(), later, models.ViewAll)
	if err != nil {
		t.Fatalf("expected degraded merge, got error: %v", err)
	}
	if !tl.Degraded {
		t.Fatalf("expected degraded timeline after total source failure")
	}
}

func TestViewUpcomingFiltersPastEvents(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	a := newAggregator(t, &fakeSource{name: "a", events: []models.Event{
		{ID: "past", OccursAt: now.Add(-time.Hour)},
		{ID: "future", OccursAt: now.Add(time.Hour)},
	}})

	tl, err := a.Timeline(context.Background(), now, models.ViewUpcoming)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tl.Events) != 1 || tl.Events[0].ID != "future" {
		t.Fatalf("expected only the future event, got %+v", tl.Events)
	}

	all, err := a.Timeline(context.Background(), now, models.ViewAll)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all.Events) != 2 {
		t.Fatalf("view all should include history, got %d", len(all.Events))
	}
}
