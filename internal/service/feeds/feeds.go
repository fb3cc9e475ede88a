package feeds

import (
	"context"
	"errors"
	"fmt"
	"net"

	"AlphaLabs/internal/domain/models"
	"AlphaLabs/internal/service/ratelimit"
	xhttp "AlphaLabs/pkg/http"
)

// Option configures a feed adapter.
type Option func(*options)

type options struct {
	limiter *ratelimit.Limiter
	maxRPS  float64
}

// WithLimiter installs a shared outbound rate limiter. Feeds that exceed
// their budget report the same error a 429 from the upstream would.
func WithLimiter(l *ratelimit.Limiter, maxRPS float64) Option {
	return func(o *options) {
		o.limiter = l
		o.maxRPS = maxRPS
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// acquire consumes one limiter token for the named source, if a limiter is
// configured.
func (o options) acquire(source string) error {
	if o.limiter == nil || o.maxRPS <= 0 {
		return nil
	}
	if !o.limiter.Allow(source, o.maxRPS, o.maxRPS) {
		return fmt.Errorf("%w: %s outbound budget exhausted", models.ErrRateLimited, source)
	}
	return nil
}

// classifyFetchErr maps transport failures onto the upstream error taxonomy.
func classifyFetchErr(source string, err error) error {
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		if se.Code == 429 {
			return fmt.Errorf("%w: %s returned 429", models.ErrRateLimited, source)
		}
		if se.Code >= 500 {
			return fmt.Errorf("%w: %s returned %d", models.ErrUpstreamUnavailable, source, se.Code)
		}
		return fmt.Errorf("%w: %s returned %d", models.ErrMalformedPayload, source, se.Code)
	}

	var ne net.Error
	if errors.As(err, &ne) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", models.ErrUpstreamUnavailable, source, err)
	}
	return fmt.Errorf("%s: %w", source, err)
}
