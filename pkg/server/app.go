package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	drepo "NavPull/internal/domain/repository"
	"NavPull/internal/usecase"
	"NavPull/pkg/cache"
	"NavPull/pkg/config"
	xhttp "NavPull/pkg/http"
	pkgkafka "NavPull/pkg/kafka"
	applogger "NavPull/pkg/logger"

	"github.com/robfig/cron/v3"
)

// App wires the tracker, HTTP server, scheduler, and optional stream into
// one lifecycle.
type App struct {
	cfg      *config.Config
	logger   *applogger.Logger
	server   *xhttp.Server
	tracker  *usecase.Tracker
	updater  *usecase.StreamUpdater
	holdings drepo.HoldingsStore
	cache    cache.Service
	producer *pkgkafka.Producer
	cron     *cron.Cron
}

// NewApp creates the application. updater and producer may be nil when the
// stream or Kafka is disabled.
func NewApp(
	cfg *config.Config,
	logger *applogger.Logger,
	server *xhttp.Server,
	tracker *usecase.Tracker,
	updater *usecase.StreamUpdater,
	holdings drepo.HoldingsStore,
	c cache.Service,
	producer *pkgkafka.Producer,
) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		server:   server,
		tracker:  tracker,
		updater:  updater,
		holdings: holdings,
		cache:    c,
		producer: producer,
		cron:     cron.New(),
	}
}

// Run starts all components and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.producer != nil && a.cfg.Kafka.LogTopic != "" {
		a.logger.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          a.cfg.Kafka.LogTopic,
			Publisher:      logPublisher{producer: a.producer},
		})
	}

	a.tracker.Restore(ctx)

	if err := a.startScheduler(ctx); err != nil {
		return err
	}
	a.startStream(ctx)

	if err := a.server.Start(); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}
	a.logger.Info("application started",
		applogger.String("environment", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("shutdown signal received")
	return a.shutdown(cancel)
}

// startScheduler runs a forced aggregation pass on a fixed interval, so
// alerts fire even when nobody polls the dashboard.
func (a *App) startScheduler(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", a.cfg.Tracker.CheckInterval)
	_, err := a.cron.AddFunc(spec, func() {
		checkCtx, cancel := context.WithTimeout(ctx, a.cfg.Tracker.CheckInterval)
		defer cancel()
		if _, err := a.tracker.ForceCheck(checkCtx); err != nil {
			a.logger.Warn("scheduled check failed", applogger.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule check: %w", err)
	}
	a.cron.Start()
	a.logger.Info("scheduler started", applogger.String("interval", a.cfg.Tracker.CheckInterval.String()))
	return nil
}

// startStream launches the live trade consumer. Failures are not fatal:
// the REST poll still covers every symbol.
func (a *App) startStream(ctx context.Context) {
	if a.updater == nil {
		return
	}

	funds, err := a.holdings.Load(ctx)
	if err != nil || funds.Len() == 0 {
		a.logger.Warn("stream disabled, holdings unavailable", applogger.Error(err))
		return
	}
	symbols := usecase.CollectSymbols(funds)
	if len(symbols) == 0 {
		return
	}

	if err := a.updater.Start(ctx, symbols); err != nil {
		a.logger.Warn("stream start failed, falling back to polling", applogger.Error(err))
		return
	}
	a.logger.Info("live stream started", applogger.Int("symbols", len(symbols)))
}

func (a *App) shutdown(cancel context.CancelFunc) error {
	stopCtx := a.cron.Stop()
	<-stopCtx.Done()

	cancel()
	if a.updater != nil {
		if err := a.updater.Stop(); err != nil {
			a.logger.Warn("stream stop failed", applogger.Error(err))
		}
	}

	ctx, cancelHTTP := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancelHTTP()
	if err := a.server.Stop(ctx); err != nil {
		a.logger.Error("http server stop failed", applogger.Error(err))
	}

	a.logger.RemoveCollector()
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("producer close failed", applogger.Error(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("cache close failed", applogger.Error(err))
	}

	a.logger.Info("application stopped")
	return nil
}

// logPublisher adapts the Kafka producer to the log collector's sink.
type logPublisher struct {
	producer *pkgkafka.Producer
}

func (p logPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}
