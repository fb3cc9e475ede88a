package usecase

import (
	"context"
	"sync"
	"time"

	"AlphaLabs/internal/domain/models"
	domrepo "AlphaLabs/internal/domain/repository"
	"AlphaLabs/internal/service/cache"
	"AlphaLabs/internal/services/strength"
	applogger "AlphaLabs/pkg/logger"
)

// StrengthService computes and caches the ranked currency strength table.
// Both required rate snapshots come from the same feed, so one backoff clock
// covers the pair; a partial fetch never produces a partial table.
type StrengthService struct {
	feed       domrepo.RateFeed
	calculator *strength.Calculator
	cached     *cache.Timed[models.StrengthTable]
	lookback   int
	backoff    time.Duration
	metrics    domrepo.Metrics
	log        *applogger.Logger

	refreshMu sync.Mutex
}

// NewStrengthService creates the strength service. lookback is in days.
func NewStrengthService(
	feed domrepo.RateFeed,
	calculator *strength.Calculator,
	ttl, backoff time.Duration,
	lookback int,
	metrics domrepo.Metrics,
	log *applogger.Logger,
) *StrengthService {
	if lookback <= 0 {
		lookback = 7
	}
	return &StrengthService{
		feed:       feed,
		calculator: calculator,
		cached:     cache.NewTimed[models.StrengthTable](ttl),
		lookback:   lookback,
		backoff:    backoff,
		metrics:    metrics,
		log:        log,
	}
}

const ratesSourceName = "rates"

// Table returns the current strength table, refreshing it when stale.
func (s *StrengthService) Table(ctx context.Context, now time.Time) (models.StrengthTable, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	return refreshPayload(ctx, ratesSourceName, s.cached, s.backoff, func(ctx context.Context) (models.StrengthTable, error) {
		refDate := now.AddDate(0, 0, -s.lookback)

		current, err := s.feed.Latest(ctx)
		if err != nil {
			return models.StrengthTable{}, err
		}
		reference, err := s.feed.Historical(ctx, refDate)
		if err != nil {
			return models.StrengthTable{}, err
		}

		table := s.calculator.Rank(current, reference, refDate, now)
		s.log.Debug("strength table computed",
			applogger.Int("entries", len(table.Entries)),
			applogger.Time("reference_date", refDate),
		)
		return table, nil
	}, s.metrics, s.log, now)
}
