package di

import (
	"context"
	"fmt"
	"time"

	"AlphaLabs/internal/domain/models"
	"AlphaLabs/internal/domain/repository"
	"AlphaLabs/internal/handler/api"
	internalrepo "AlphaLabs/internal/repository"
	"AlphaLabs/internal/service/feeds"
	"AlphaLabs/internal/service/ratelimit"
	"AlphaLabs/internal/service/retention"
	"AlphaLabs/internal/services/classify"
	"AlphaLabs/internal/services/strength"
	"AlphaLabs/internal/usecase"
	pkgch "AlphaLabs/pkg/clickhouse"
	"AlphaLabs/pkg/config"
	xhttp "AlphaLabs/pkg/http"
	pkgkafka "AlphaLabs/pkg/kafka"
	applogger "AlphaLabs/pkg/logger"
	"AlphaLabs/pkg/metrics"
	"AlphaLabs/pkg/server"
	"AlphaLabs/pkg/store"
)

// ProvideLogger creates the structured application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideLimiter creates the shared outbound rate limiter.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideKVStore creates the persistence backend configured in YAML.
func ProvideKVStore(cfg *config.Config) (repository.KVStore, error) {
	switch cfg.Store.Type {
	case "redis":
		s, err := store.NewRedisStore(
			store.WithRedisAddr(cfg.Store.Redis.Addr),
			store.WithRedisAuth(cfg.Store.Redis.Password, cfg.Store.Redis.DB),
			store.WithRedisPrefix(cfg.Store.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		return s, nil
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		s, err := store.NewFileStore(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("file store: %w", err)
		}
		return s, nil
	}
}

// ProvideCalendarFeed creates the economic calendar adapter.
func ProvideCalendarFeed(cfg *config.Config, lim *ratelimit.Limiter, l *applogger.Logger) repository.CalendarFeed {
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.Feeds.Calendar.Timeout))
	return feeds.NewCalendarClient(client, cfg.Feeds.Calendar.BaseURL, l,
		feeds.WithLimiter(lim, cfg.Feeds.MaxRPS))
}

// ProvideRateFeed creates the FX rates adapter.
func ProvideRateFeed(cfg *config.Config, lim *ratelimit.Limiter, l *applogger.Logger) repository.RateFeed {
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.Feeds.Rates.Timeout))
	return feeds.NewRatesClient(client, cfg.Feeds.Rates.BaseURL, cfg.Strength.Pivot, cfg.Strength.Codes, l,
		feeds.WithLimiter(lim, cfg.Feeds.MaxRPS))
}

// ProvideNewsFeed creates the financial news adapter.
func ProvideNewsFeed(cfg *config.Config, lim *ratelimit.Limiter, l *applogger.Logger) repository.NewsFeed {
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.Feeds.News.Timeout))
	return feeds.NewNewsClient(client, cfg.Feeds.News.BaseURL, l,
		feeds.WithLimiter(lim, cfg.Feeds.MaxRPS))
}

// ProvideScheduleFeed creates the public schedule adapter.
func ProvideScheduleFeed(cfg *config.Config, lim *ratelimit.Limiter, l *applogger.Logger) repository.ScheduleFeed {
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.Feeds.Schedule.Timeout))
	return feeds.NewScheduleClient(client, cfg.Feeds.Schedule.BaseURL, l,
		feeds.WithLimiter(lim, cfg.Feeds.MaxRPS))
}

// ProvideSpeechesStore creates the retention store for classified speeches.
func ProvideSpeechesStore(cfg *config.Config, kv repository.KVStore, l *applogger.Logger) *retention.Store[models.CBItem] {
	return retention.NewStore[models.CBItem](cfg.Retention.Window, cfg.Retention.SpeechesKey, kv, l)
}

// ProvideScheduleStore creates the retention store for schedule entries.
func ProvideScheduleStore(cfg *config.Config, kv repository.KVStore, l *applogger.Logger) *retention.Store[models.ScheduleItem] {
	return retention.NewStore[models.ScheduleItem](cfg.Retention.Window, cfg.Retention.ScheduleKey, kv, l)
}

// ProvideEventArchive creates the ClickHouse archive when enabled.
func ProvideEventArchive(cfg *config.Config, l *applogger.Logger) (repository.EventArchive, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.Archive.ClickHouse.Host),
		pkgch.WithPort(cfg.Archive.ClickHouse.Port),
		pkgch.WithDatabase(cfg.Archive.ClickHouse.Database),
		pkgch.WithCredentials(cfg.Archive.ClickHouse.User, cfg.Archive.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.Archive.ClickHouse.DialTimeout, cfg.Archive.ClickHouse.ReadTimeout),
		pkgch.WithAsyncInsert(true, false),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	archive, err := internalrepo.NewCHEventArchive(ctx, client, l)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return archive, nil
}

// ProvidePublisher creates the Kafka publisher when enabled.
func ProvidePublisher(cfg *config.Config, l *applogger.Logger) (repository.Publisher, error) {
	if !cfg.Publish.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Publish.Brokers),
		pkgkafka.WithCompression("gzip"),
		pkgkafka.WithRequiredAcks(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaRetainedPublisher(producer, cfg.Publish.Topic, l), nil
}

// ProvideNewsSource creates the central-bank news source.
func ProvideNewsSource(
	cfg *config.Config,
	feed repository.NewsFeed,
	speeches *retention.Store[models.CBItem],
	publisher repository.Publisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.NewsSource {
	return usecase.NewNewsSource(feed, classify.New(), speeches, publisher,
		cfg.Feeds.News.TTL, cfg.Feeds.News.Backoff, m, l)
}

// ProvideScheduleSource creates the public schedule source.
func ProvideScheduleSource(
	cfg *config.Config,
	feed repository.ScheduleFeed,
	schedule *retention.Store[models.ScheduleItem],
	publisher repository.Publisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.ScheduleSource {
	return usecase.NewScheduleSource(feed, schedule, publisher,
		cfg.Feeds.Schedule.TTL, cfg.Feeds.Schedule.Backoff, m, l)
}

// ProvideEventAggregator assembles the source list and the merge layer.
func ProvideEventAggregator(
	cfg *config.Config,
	calendarFeed repository.CalendarFeed,
	news *usecase.NewsSource,
	schedule *usecase.ScheduleSource,
	archive repository.EventArchive,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.EventAggregator {
	calendar := usecase.NewCalendarSource(calendarFeed,
		cfg.Feeds.Calendar.TTL, cfg.Feeds.Calendar.Backoff, m, l)

	sources := []usecase.Source{calendar, news, schedule}
	sourceTimeout := cfg.Feeds.Calendar.Timeout
	if sourceTimeout <= 0 {
		sourceTimeout = 15 * time.Second
	}
	return usecase.NewEventAggregator(sources, cfg.Merge.TTL, sourceTimeout, archive, m, l)
}

// ProvideStrengthService creates the currency strength service.
func ProvideStrengthService(
	cfg *config.Config,
	feed repository.RateFeed,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.StrengthService {
	calc := strength.NewCalculator(cfg.Strength.Pivot, cfg.Strength.Codes)
	return usecase.NewStrengthService(feed, calc,
		cfg.Strength.TTL, cfg.Feeds.Rates.Backoff, cfg.Strength.LookbackDays, m, l)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(
	l *applogger.Logger,
	agg *usecase.EventAggregator,
	strengthSvc *usecase.StrengthService,
	news *usecase.NewsSource,
	schedule *usecase.ScheduleSource,
) xhttp.Handler {
	return api.NewTimelineEchoHandler(l, agg, strengthSvc, news, schedule)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	speeches *retention.Store[models.CBItem],
	schedule *retention.Store[models.ScheduleItem],
	kv repository.KVStore,
	archive repository.EventArchive,
	publisher repository.Publisher,
	m repository.Metrics,
) *server.App {
	return server.New(cfg, l, handler, speeches, schedule, kv, archive, publisher, m)
}
