package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	drepo "github.com/chaofengh/stock-price-analyze-Backend/internal/domain/repository"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/scheduler"
	pkgcache "github.com/chaofengh/stock-price-analyze-Backend/pkg/cache"
	pkgch "github.com/chaofengh/stock-price-analyze-Backend/pkg/clickhouse"
	"github.com/chaofengh/stock-price-analyze-Backend/pkg/config"
	xhttp "github.com/chaofengh/stock-price-analyze-Backend/pkg/http"
	applogger "github.com/chaofengh/stock-price-analyze-Backend/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	scheduler   *scheduler.Scheduler
	httpHandler xhttp.Handler
	httpServer  *xhttp.Server

	redisClient *redis.Client
	chClient    *pkgch.Client
	cache       *pkgcache.MemoryCache
	sinks       []drepo.AlertSink
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	sched *scheduler.Scheduler,
	httpHandler xhttp.Handler,
	redisClient *redis.Client,
	chClient *pkgch.Client,
	cache *pkgcache.MemoryCache,
	sinks []drepo.AlertSink,
) *App {
	return &App{
		cfg:         cfg,
		logger:      logger,
		scheduler:   sched,
		httpHandler: httpHandler,
		redisClient: redisClient,
		chClient:    chClient,
		cache:       cache,
		sinks:       sinks,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.scheduler.RegisterScan(a.cfg.Scan.Schedule); err != nil {
		return err
	}
	a.scheduler.Start()
	a.logger.Info("scheduler started", applogger.String("schedule", a.cfg.Scan.Schedule))

	if a.cfg.Scan.RunOnStart {
		go a.scheduler.RunNow()
		a.logger.Info("startup scan triggered")
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	for _, sink := range a.sinks {
		if err := sink.Close(); err != nil {
			a.logger.Warn("alert sink close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("redis close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
