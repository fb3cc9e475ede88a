package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"AlphaLabs/internal/domain/models"
	"AlphaLabs/internal/services/strength"
	applogger "AlphaLabs/pkg/logger"
)

type fakeRateFeed struct {
	latest     map[string]float64
	historical map[string]float64
	err        error
	calls      int
}

func (f *fakeRateFeed) Latest(ctx context.Context) (map[string]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.latest, nil
}

func (f *fakeRateFeed) Historical(ctx context.Context, date time.Time) (map[string]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.historical, nil
}

func newStrengthService(feed *fakeRateFeed) *StrengthService {
	calc := strength.NewCalculator("USD", []string{"USD", "EUR", "GBP"})
	return NewStrengthService(feed, calc, 4*time.Hour, 30*time.Minute, 7, nopMetrics{}, applogger.Nop())
}

func TestStrengthTableRanksStrengthenedCurrencyFirst(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	feed := &fakeRateFeed{
		latest:     map[string]float64{"EUR": 1.10, "GBP": 1.25},
		historical: map[string]float64{"EUR": 1.00, "GBP": 1.25},
	}
	svc := newStrengthService(feed)

	table, err := svc.Table(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(table.Entries))
	}
	if table.Entries[0].Code != "EUR" {
		t.Fatalf("EUR strengthened most and should rank first, got %s", table.Entries[0].Code)
	}
	if table.Pivot != "USD" {
		t.Fatalf("unexpected pivot %s", table.Pivot)
	}
}

func TestStrengthTableIsCachedWithinTTL(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	feed := &fakeRateFeed{
		latest:     map[string]float64{"EUR": 1.10, "GBP": 1.25},
		historical: map[string]float64{"EUR": 1.00, "GBP": 1.25},
	}
	svc := newStrengthService(feed)

	if _, err := svc.Table(context.Background(), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Table(context.Background(), now.Add(time.Hour)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feed.calls != 1 {
		t.Fatalf("expected one upstream cycle inside the TTL, got %d", feed.calls)
	}
}

func TestStrengthColdRateLimitSurfacesRetryAfter(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	feed := &fakeRateFeed{err: models.ErrRateLimited}
	svc := newStrengthService(feed)

	_, err := svc.Table(context.Background(), now)
	var retry *models.RetryAfterError
	if !errors.As(err, &retry) {
		t.Fatalf("expected RetryAfterError, got %v", err)
	}
}

func TestStrengthServesStaleTableDuringOutage(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	feed := &fakeRateFeed{
		latest:     map[string]float64{"EUR": 1.10, "GBP": 1.25},
		historical: map[string]float64{"EUR": 1.00, "GBP": 1.25},
	}
	svc := newStrengthService(feed)

	first, err := svc.Table(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feed.err = models.ErrUpstreamUnavailable
	later := now.Add(5 * time.Hour) // past TTL

	stale, err := svc.Table(context.Background(), later)
	if err != nil {
		t.Fatalf("expected stale serve, got %v", err)
	}
	if !stale.ComputedAt.Equal(first.ComputedAt) {
		t.Fatalf("expected the previously computed table")
	}
}
