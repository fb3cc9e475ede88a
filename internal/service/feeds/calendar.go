package feeds

import (
	"context"
	"encoding/json"
	"fmt"

	"AlphaLabs/internal/domain/models"
	xhttp "AlphaLabs/pkg/http"
	applogger "AlphaLabs/pkg/logger"
	"AlphaLabs/pkg/util"
)

const calendarSourceName = "calendar"

// CalendarClient polls the weekly economic-event calendar.
type CalendarClient struct {
	client  *xhttp.Client
	baseURL string
	log     *applogger.Logger
	opts    options
}

// NewCalendarClient creates a calendar feed adapter.
func NewCalendarClient(client *xhttp.Client, baseURL string, log *applogger.Logger, opts ...Option) *CalendarClient {
	return &CalendarClient{
		client:  client,
		baseURL: baseURL,
		log:     log,
		opts:    applyOptions(opts),
	}
}

type calendarRow struct {
	Title   string `json:"title"`
	Country string `json:"country"`
	Date    string `json:"date"`
	Impact  string `json:"impact"`
}

// Entries fetches the current calendar window.
func (c *CalendarClient) Entries(ctx context.Context) ([]models.CalendarEntry, error) {
	if err := c.opts.acquire(calendarSourceName); err != nil {
		return nil, err
	}

	body, err := c.client.Get(ctx, c.baseURL, nil)
	if err != nil {
		return nil, classifyFetchErr(calendarSourceName, err)
	}
	if xhttp.LooksLikeHTML(body) {
		return nil, fmt.Errorf("%w: calendar served an html challenge page", models.ErrRateLimited)
	}

	var rows []calendarRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: calendar: %v", models.ErrMalformedPayload, err)
	}

	entries := make([]models.CalendarEntry, 0, len(rows))
	for _, r := range rows {
		when, ok := util.ParseTime(r.Date)
		if !ok {
			c.log.Warn("calendar row has unparseable date",
				applogger.String("title", r.Title),
				applogger.String("date", r.Date),
			)
			continue
		}
		entries = append(entries, models.CalendarEntry{
			Title:   r.Title,
			Country: r.Country,
			Date:    when,
			Impact:  r.Impact,
		})
	}
	return entries, nil
}
