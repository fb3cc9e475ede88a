package feeds

import (
	"context"
	"fmt"
	"strings"
	"time"

	"AlphaLabs/internal/domain/models"
	xhttp "AlphaLabs/pkg/http"
	applogger "AlphaLabs/pkg/logger"
)

const ratesSourceName = "rates"

// RatesClient polls an FX rates API. The API quotes each currency as units
// per one pivot; the engine wants the opposite orientation (pivot units per
// currency unit), so every quote is inverted on the way in.
type RatesClient struct {
	client  *xhttp.Client
	baseURL string
	pivot   string
	codes   []string
	log     *applogger.Logger
	opts    options
}

// NewRatesClient creates a rates feed adapter.
func NewRatesClient(client *xhttp.Client, baseURL, pivot string, codes []string, log *applogger.Logger, opts ...Option) *RatesClient {
	symbols := make([]string, 0, len(codes))
	for _, c := range codes {
		if c != pivot {
			symbols = append(symbols, c)
		}
	}
	return &RatesClient{
		client:  client,
		baseURL: baseURL,
		pivot:   pivot,
		codes:   symbols,
		log:     log,
		opts:    applyOptions(opts),
	}
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// Latest returns current rates keyed by currency code.
func (c *RatesClient) Latest(ctx context.Context) (map[string]float64, error) {
	return c.fetch(ctx, c.baseURL+"/latest")
}

// Historical returns rates for the given date.
func (c *RatesClient) Historical(ctx context.Context, date time.Time) (map[string]float64, error) {
	return c.fetch(ctx, c.baseURL+"/"+date.Format("2006-01-02"))
}

func (c *RatesClient) fetch(ctx context.Context, url string) (map[string]float64, error) {
	if err := c.opts.acquire(ratesSourceName); err != nil {
		return nil, err
	}

	params := map[string]string{
		"base":    c.pivot,
		"symbols": strings.Join(c.codes, ","),
	}

	var resp ratesResponse
	if err := c.client.GetJSON(ctx, url, params, &resp); err != nil {
		return nil, classifyFetchErr(ratesSourceName, err)
	}
	if len(resp.Rates) == 0 {
		return nil, fmt.Errorf("%w: rates response had no quotes", models.ErrMalformedPayload)
	}

	out := make(map[string]float64, len(resp.Rates))
	for code, perPivot := range resp.Rates {
		if perPivot <= 0 {
			c.log.Warn("dropping non-positive rate", applogger.String("code", code))
			continue
		}
		out[code] = 1 / perPivot
	}
	return out, nil
}
