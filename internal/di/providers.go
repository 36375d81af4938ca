package di

import (
	"NavPull/internal/domain/models"
	drepo "NavPull/internal/domain/repository"
	"NavPull/internal/handler/api"
	"NavPull/internal/repository"
	"NavPull/internal/service/finnhub"
	"NavPull/internal/service/ratelimit"
	"NavPull/internal/service/telegram"
	"NavPull/internal/usecase"
	"NavPull/pkg/cache"
	"NavPull/pkg/config"
	xhttp "NavPull/pkg/http"
	pkgkafka "NavPull/pkg/kafka"
	applogger "NavPull/pkg/logger"
	"NavPull/pkg/metrics"
)

func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideCache returns a layered memory+Redis cache when Redis is enabled
// and reachable, otherwise plain memory. A dead Redis downgrades instead
// of failing startup.
func ProvideCache(cfg *config.Config, logger *applogger.Logger) cache.Service {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache()
	}

	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		logger.Warn("redis unavailable, using memory cache only", applogger.Error(err))
		return cache.NewMemoryCache()
	}
	return cache.NewLayeredCache(redisCache)
}

func ProvideHoldingsStore(cfg *config.Config) drepo.HoldingsStore {
	return repository.NewFileHoldingsStore(cfg.Tracker.HoldingsFile)
}

func ProvideSnapshotStore(cfg *config.Config) drepo.SnapshotStore {
	return repository.NewFileSnapshotStore(cfg.Tracker.SnapshotFile)
}

func ProvideReferenceStore(cfg *config.Config) drepo.ReferenceStore {
	return repository.NewFileReferenceStore(cfg.Tracker.ReferenceFile)
}

func ProvideNotifier(cfg *config.Config, logger *applogger.Logger) drepo.Notifier {
	return telegram.New(telegram.Config{
		BotToken: cfg.Telegram.BotToken,
		ChatID:   cfg.Telegram.ChatID,
		Timeout:  cfg.Telegram.Timeout,
	}, logger)
}

func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

func ProvideQuoteClient(cfg *config.Config, limiter *ratelimit.Limiter) drepo.PriceProvider {
	return finnhub.NewQuoteClient(finnhub.QuoteConfig{
		APIKey:    cfg.Finnhub.APIKey,
		BaseURL:   cfg.Finnhub.BaseURL,
		Timeout:   cfg.Finnhub.QuoteTimeout,
		RateLimit: cfg.Finnhub.RateLimit,
	}, limiter)
}

// ProvideProducer returns nil when Kafka is disabled.
func ProvideProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	return pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
	)
}

// ProvideAlertPublisher returns nil when no producer is configured.
func ProvideAlertPublisher(cfg *config.Config, producer *pkgkafka.Producer) drepo.AlertPublisher {
	if producer == nil {
		return nil
	}
	return repository.NewKafkaAlertPublisher(producer, cfg.Kafka.AlertTopic)
}

func ProvideRegistry() *usecase.AlertRegistry {
	return usecase.NewAlertRegistry()
}

func ProvidePriceBook() *models.PriceBook {
	return models.NewPriceBook()
}

func ProvideEvaluator(
	cfg *config.Config,
	registry *usecase.AlertRegistry,
	notifier drepo.Notifier,
	publisher drepo.AlertPublisher,
	m drepo.Metrics,
	logger *applogger.Logger,
) *usecase.AlertEvaluator {
	return usecase.NewAlertEvaluator(registry, notifier, publisher, m, logger, cfg.Telegram.Timeout)
}

func ProvideTracker(
	cfg *config.Config,
	holdings drepo.HoldingsStore,
	provider drepo.PriceProvider,
	snapshots drepo.SnapshotStore,
	refs drepo.ReferenceStore,
	notifier drepo.Notifier,
	evaluator *usecase.AlertEvaluator,
	registry *usecase.AlertRegistry,
	book *models.PriceBook,
	c cache.Service,
	m drepo.Metrics,
	logger *applogger.Logger,
) *usecase.Tracker {
	return usecase.NewTracker(
		holdings, provider, snapshots, refs, notifier,
		evaluator, registry, book, c, m, logger,
		usecase.WithFreshness(cfg.Tracker.FreshnessWindow),
	)
}

// ProvideStreamUpdater returns nil when the live stream is disabled.
func ProvideStreamUpdater(
	cfg *config.Config,
	book *models.PriceBook,
	tracker *usecase.Tracker,
	m drepo.Metrics,
	logger *applogger.Logger,
) *usecase.StreamUpdater {
	if !cfg.Finnhub.StreamEnabled {
		return nil
	}
	stream := finnhub.NewStream(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.WebSocketURL,
		cfg.Finnhub.ReconnectDelay,
		cfg.Finnhub.PingInterval,
		logger,
	)
	return usecase.NewStreamUpdater(stream, book, tracker, m, logger)
}

func ProvideHandler(logger *applogger.Logger, tracker *usecase.Tracker) xhttp.Handler {
	return api.NewDashboardEchoHandler(logger, tracker)
}

func ProvideServer(cfg *config.Config, handler xhttp.Handler) *xhttp.Server {
	return xhttp.NewServer(handler,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	)
}
