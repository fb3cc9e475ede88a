package feeds

import (
	"context"
	"encoding/json"
	"fmt"

	"AlphaLabs/internal/domain/models"
	xhttp "AlphaLabs/pkg/http"
	applogger "AlphaLabs/pkg/logger"
)

const scheduleSourceName = "schedule"

// ScheduleClient polls the published daily public schedule. Rows come back
// raw; parsing and the logistics filter live downstream.
type ScheduleClient struct {
	client  *xhttp.Client
	baseURL string
	log     *applogger.Logger
	opts    options
}

// NewScheduleClient creates a schedule feed adapter.
func NewScheduleClient(client *xhttp.Client, baseURL string, log *applogger.Logger, opts ...Option) *ScheduleClient {
	return &ScheduleClient{
		client:  client,
		baseURL: baseURL,
		log:     log,
		opts:    applyOptions(opts),
	}
}

// Entries fetches today's schedule rows.
func (c *ScheduleClient) Entries(ctx context.Context) ([]models.ScheduleEntry, error) {
	if err := c.opts.acquire(scheduleSourceName); err != nil {
		return nil, err
	}

	body, err := c.client.Get(ctx, c.baseURL, nil)
	if err != nil {
		return nil, classifyFetchErr(scheduleSourceName, err)
	}
	if xhttp.LooksLikeHTML(body) {
		return nil, fmt.Errorf("%w: schedule served an html challenge page", models.ErrRateLimited)
	}

	var rows []models.ScheduleEntry
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: schedule: %v", models.ErrMalformedPayload, err)
	}
	c.log.Debug("schedule fetch complete", applogger.Int("rows", len(rows)))
	return rows, nil
}
