package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"AlphaLabs/internal/domain/models"
	xhttp "AlphaLabs/pkg/http"
	applogger "AlphaLabs/pkg/logger"
)

const newsSourceName = "news"

// NewsClient polls a general financial-news feed. No filtering happens here;
// the classifier decides what is central-bank content.
type NewsClient struct {
	client  *xhttp.Client
	baseURL string
	log     *applogger.Logger
	opts    options
}

// NewNewsClient creates a news feed adapter.
func NewNewsClient(client *xhttp.Client, baseURL string, log *applogger.Logger, opts ...Option) *NewsClient {
	return &NewsClient{
		client:  client,
		baseURL: baseURL,
		log:     log,
		opts:    applyOptions(opts),
	}
}

type newsRow struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Datetime int64  `json:"datetime"` // unix seconds
	URL      string `json:"url"`
}

// Items fetches the latest news items.
func (c *NewsClient) Items(ctx context.Context) ([]models.NewsItem, error) {
	if err := c.opts.acquire(newsSourceName); err != nil {
		return nil, err
	}

	body, err := c.client.Get(ctx, c.baseURL, map[string]string{"category": "general"})
	if err != nil {
		return nil, classifyFetchErr(newsSourceName, err)
	}
	if xhttp.LooksLikeHTML(body) {
		return nil, fmt.Errorf("%w: news served an html challenge page", models.ErrRateLimited)
	}

	var rows []newsRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: news: %v", models.ErrMalformedPayload, err)
	}

	items := make([]models.NewsItem, 0, len(rows))
	for _, r := range rows {
		if strings.TrimSpace(r.Headline) == "" {
			continue
		}
		raw := r.Headline
		if r.Summary != "" {
			raw = raw + " " + r.Summary
		}
		ts := time.Now().UTC()
		if r.Datetime > 0 {
			ts = time.Unix(r.Datetime, 0).UTC()
		}
		items = append(items, models.NewsItem{
			Headline:  r.Headline,
			RawText:   raw,
			Timestamp: ts,
			Link:      r.URL,
		})
	}
	c.log.Debug("news fetch complete", applogger.Int("items", len(items)))
	return items, nil
}
