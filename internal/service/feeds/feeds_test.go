package feeds

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"AlphaLabs/internal/domain/models"
	"AlphaLabs/internal/service/ratelimit"
	xhttp "AlphaLabs/pkg/http"
	applogger "AlphaLabs/pkg/logger"
)

func TestCalendarEntriesParsesRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"title":"CPI y/y","country":"USD","date":"2026-09-02T12:30:00Z","impact":"High"},
			{"title":"Retail Sales","country":"GBP","date":"not-a-date","impact":"Medium"}
		]`))
	}))
	defer srv.Close()

	c := NewCalendarClient(xhttp.NewClient(), srv.URL, applogger.Nop())
	entries, err := c.Entries(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 parseable entry, got %d", len(entries))
	}
	if entries[0].Title != "CPI y/y" || entries[0].Country != "USD" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestCalendar429IsRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewCalendarClient(xhttp.NewClient(), srv.URL, applogger.Nop())
	if _, err := c.Entries(context.Background()); !errors.Is(err, models.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestCalendarHTMLChallengeIsRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<!DOCTYPE html><html><body>checking your browser</body></html>"))
	}))
	defer srv.Close()

	c := NewCalendarClient(xhttp.NewClient(), srv.URL, applogger.Nop())
	if _, err := c.Entries(context.Background()); !errors.Is(err, models.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited for html payload, got %v", err)
	}
}

func TestCalendar500IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewCalendarClient(xhttp.NewClient(), srv.URL, applogger.Nop())
	if _, err := c.Entries(context.Background()); !errors.Is(err, models.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestRatesLatestInvertsQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("base") != "USD" {
			t.Errorf("expected base=USD, got %q", r.URL.Query().Get("base"))
		}
		w.Header().Set("Content-Type", "application/json")
		// API orientation: EUR per USD. 0.8 EUR per USD means 1.25 USD per EUR.
		w.Write([]byte(`{"base":"USD","date":"2026-08-31","rates":{"EUR":0.8,"JPY":0}}`))
	}))
	defer srv.Close()

	c := NewRatesClient(xhttp.NewClient(), srv.URL, "USD", []string{"USD", "EUR", "JPY"}, applogger.Nop())
	rates, err := c.Latest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rates["EUR"]; got != 1.25 {
		t.Fatalf("expected inverted EUR rate 1.25, got %v", got)
	}
	if _, ok := rates["JPY"]; ok {
		t.Fatalf("zero quote should have been dropped")
	}
}

func TestRatesHistoricalHitsDatedPath(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"base":"USD","rates":{"EUR":0.9}}`))
	}))
	defer srv.Close()

	c := NewRatesClient(xhttp.NewClient(), srv.URL, "USD", []string{"EUR"}, applogger.Nop())
	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	if _, err := c.Historical(context.Background(), date); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/2026-08-24" {
		t.Fatalf("expected dated path, got %q", path)
	}
}

func TestRatesEmptyPayloadIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"USD","rates":{}}`))
	}))
	defer srv.Close()

	c := NewRatesClient(xhttp.NewClient(), srv.URL, "USD", []string{"EUR"}, applogger.Nop())
	if _, err := c.Latest(context.Background()); !errors.Is(err, models.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestNewsItemsSkipEmptyHeadlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"headline":"Powell speaks at Jackson Hole","summary":"remarks on policy","datetime":1756600000,"url":"https://example.com/1"},
			{"headline":"  ","summary":"noise","datetime":1756600001}
		]`))
	}))
	defer srv.Close()

	c := NewNewsClient(xhttp.NewClient(), srv.URL, applogger.Nop())
	items, err := c.Items(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].RawText != "Powell speaks at Jackson Hole remarks on policy" {
		t.Fatalf("unexpected raw text: %q", items[0].RawText)
	}
}

func TestScheduleEntriesPassRowsThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"date":"June 17, 2025","time":"9:30 AM","description":"Remarks at summit","location":"South Lawn"}]`))
	}))
	defer srv.Close()

	c := NewScheduleClient(xhttp.NewClient(), srv.URL, applogger.Nop())
	rows, err := c.Entries(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Description != "Remarks at summit" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestLimiterExhaustionIsRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	lim := ratelimit.New()
	c := NewCalendarClient(xhttp.NewClient(), srv.URL, applogger.Nop(), WithLimiter(lim, 1))
	if _, err := c.Entries(context.Background()); err != nil {
		t.Fatalf("first call should pass the limiter: %v", err)
	}
	if _, err := c.Entries(context.Background()); !errors.Is(err, models.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited from limiter, got %v", err)
	}
}
