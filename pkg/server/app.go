package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"AlphaLabs/internal/domain/models"
	domrepo "AlphaLabs/internal/domain/repository"
	"AlphaLabs/internal/service/retention"
	"AlphaLabs/pkg/config"
	xhttp "AlphaLabs/pkg/http"
	applogger "AlphaLabs/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	httpServer *xhttp.Server

	speeches *retention.Store[models.CBItem]
	schedule *retention.Store[models.ScheduleItem]

	kv        domrepo.KVStore
	archive   domrepo.EventArchive
	publisher domrepo.Publisher
	metrics   domrepo.Metrics
}

// New creates a new App instance with all dependencies. archive and
// publisher may be nil when those sinks are disabled.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	speeches *retention.Store[models.CBItem],
	schedule *retention.Store[models.ScheduleItem],
	kv domrepo.KVStore,
	archive domrepo.EventArchive,
	publisher domrepo.Publisher,
	metrics domrepo.Metrics,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		handler:   handler,
		speeches:  speeches,
		schedule:  schedule,
		kv:        kv,
		archive:   archive,
		publisher: publisher,
		metrics:   metrics,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Now().UTC()
	if err := a.speeches.Load(ctx, now); err != nil {
		a.log.Warn("speeches retention restore failed, starting empty", applogger.Error(err))
	}
	if err := a.schedule.Load(ctx, now); err != nil {
		a.log.Warn("schedule retention restore failed, starting empty", applogger.Error(err))
	}
	a.log.Info("retention restored",
		applogger.Int("speeches", a.speeches.Len()),
		applogger.Int("schedule", a.schedule.Len()),
	)

	go a.retentionLoop(ctx)

	a.httpServer = xhttp.NewServer(a.handler, a.log,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// retentionLoop periodically sweeps aged items and persists both stores.
func (a *App) retentionLoop(ctx context.Context) {
	interval := a.cfg.Retention.SweepInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now().UTC()
			if n := a.speeches.Sweep(now); n > 0 {
				a.metrics.RecordEvictions("cb_news", n)
			}
			if n := a.schedule.Sweep(now); n > 0 {
				a.metrics.RecordEvictions("schedule", n)
			}
			a.metrics.RecordRetainedSize("cb_news", a.speeches.Len())
			a.metrics.RecordRetainedSize("schedule", a.schedule.Len())

			_ = a.speeches.Persist(ctx)
			_ = a.schedule.Persist(ctx)
		}
	}
}

// shutdown gracefully stops all services, persisting retention last.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.speeches.Persist(shutdownCtx); err != nil {
		a.log.Warn("speeches persist on shutdown failed", applogger.Error(err))
	}
	if err := a.schedule.Persist(shutdownCtx); err != nil {
		a.log.Warn("schedule persist on shutdown failed", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			a.log.Warn("archive close error", applogger.Error(err))
		}
	}
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			a.log.Warn("store close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
