package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	drepo "github.com/chaofengh/stock-price-analyze-Backend/internal/domain/repository"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/events"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/handler/api"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/indicators"
	internalrepo "github.com/chaofengh/stock-price-analyze-Backend/internal/repository"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/scheduler"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/stream"
	"github.com/chaofengh/stock-price-analyze-Backend/internal/usecase"
	pkgcache "github.com/chaofengh/stock-price-analyze-Backend/pkg/cache"
	pkgch "github.com/chaofengh/stock-price-analyze-Backend/pkg/clickhouse"
	"github.com/chaofengh/stock-price-analyze-Backend/pkg/config"
	xhttp "github.com/chaofengh/stock-price-analyze-Backend/pkg/http"
	pkgkafka "github.com/chaofengh/stock-price-analyze-Backend/pkg/kafka"
	applogger "github.com/chaofengh/stock-price-analyze-Backend/pkg/logger"
	"github.com/chaofengh/stock-price-analyze-Backend/pkg/metrics"
	"github.com/chaofengh/stock-price-analyze-Backend/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: "stdout",
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideRedisClient creates the Redis client for the ticker set.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideClickHouseClient creates a ClickHouse client when the bar
// provider is ClickHouse; returns nil for the HTTP provider.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Provider.Type != "clickhouse" {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS stockscan",
		"CREATE TABLE IF NOT EXISTS stockscan.daily_bars (symbol String, ts DateTime, open Float64, high Float64, low Float64, close Float64, volume Float64) ENGINE=MergeTree ORDER BY (symbol, ts)",
		"CREATE TABLE IF NOT EXISTS stockscan.scan_events (sequence UInt64, symbol String, ts DateTime, kind String, price Float64, band_value Float64, run_length UInt32, run_end DateTime) ENGINE=MergeTree ORDER BY (symbol, ts)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka
// publishing is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideTickerStore creates the Redis-backed ticker set.
func ProvideTickerStore(client *redis.Client, cfg *config.Config) drepo.TickerStore {
	return internalrepo.NewRedisTickerStore(client, cfg.Redis.TickersKey)
}

// ProvideBarSource selects the daily-bar provider from config.
func ProvideBarSource(cfg *config.Config, chClient *pkgch.Client, logger *applogger.Logger) drepo.BarSource {
	if cfg.Provider.Type == "http" {
		return internalrepo.NewHTTPBars(cfg.Provider.BaseURL, cfg.Provider.Timeout)
	}
	return internalrepo.NewClickHouseBars(chClient, cfg.ClickHouse.Database+".daily_bars", logger)
}

// ProvideAlertSinks assembles the configured event sinks. The slice
// may be empty; the scanner treats sinks as best-effort.
func ProvideAlertSinks(cfg *config.Config, chClient *pkgch.Client, producer *pkgkafka.Producer) []drepo.AlertSink {
	var sinks []drepo.AlertSink
	if chClient != nil {
		sinks = append(sinks, internalrepo.NewClickHouseEventArchive(chClient, cfg.ClickHouse.Database+".scan_events"))
	}
	if producer != nil {
		sinks = append(sinks, internalrepo.NewKafkaAlerts(producer, cfg.Kafka.Topic))
	}
	return sinks
}

// ProvideHub creates the snapshot fan-out hub.
func ProvideHub(cfg *config.Config, m drepo.Metrics, logger *applogger.Logger) *stream.Hub {
	return stream.NewHub(cfg.Stream.SubscriberBuffer, m, logger)
}

// ProvideSnapshotStore creates the snapshot store with the hub as its
// change notifier.
func ProvideSnapshotStore(hub *stream.Hub, m drepo.Metrics) *usecase.SnapshotStore {
	return usecase.NewSnapshotStore(hub, m)
}

// ProvideScanConfig maps YAML scan settings to the scanner config.
func ProvideScanConfig(cfg *config.Config) usecase.ScanConfig {
	return usecase.ScanConfig{
		Indicators: indicators.Config{
			BollingerWindow:    cfg.Scan.BollingerWindow,
			BollingerNumStdDev: cfg.Scan.BollingerNumStdDev,
			RSIWindow:          cfg.Scan.RSIWindow,
		},
		Events: events.Config{
			HugTolerancePct:       cfg.Scan.HugTolerancePct,
			HugMinConsecutiveBars: cfg.Scan.HugMinConsecutiveBars,
		},
		LookbackDays: cfg.Scan.LookbackDays,
		TailLength:   cfg.Scan.TailLength,
		Workers:      cfg.Scan.Workers,
		CycleTimeout: cfg.Scan.CycleTimeout,
	}
}

// ProvideScanner creates the scan cycle use case.
func ProvideScanner(
	tickers drepo.TickerStore,
	source drepo.BarSource,
	store *usecase.SnapshotStore,
	sinks []drepo.AlertSink,
	m drepo.Metrics,
	logger *applogger.Logger,
	scanCfg usecase.ScanConfig,
) *usecase.Scanner {
	return usecase.NewScanner(tickers, source, store, sinks, m, logger, scanCfg)
}

// ProvideScheduler creates the cron scheduler around the scanner.
func ProvideScheduler(scanner *usecase.Scanner, logger *applogger.Logger) *scheduler.Scheduler {
	return scheduler.New(scanner, logger)
}

// ProvideCache creates the in-memory summary cache.
func ProvideCache(cfg *config.Config) *pkgcache.MemoryCache {
	return pkgcache.NewMemoryCache(pkgcache.WithMaxSize(cfg.Cache.MaxEntries))
}

// ProvideSummary creates the on-demand summary use case.
func ProvideSummary(
	source drepo.BarSource,
	cache *pkgcache.MemoryCache,
	cfg *config.Config,
	scanCfg usecase.ScanConfig,
	logger *applogger.Logger,
) *usecase.Summary {
	return usecase.NewSummary(source, cache, cfg.Cache.SummaryTTL, scanCfg, logger)
}

// ProvideAlertsHandler creates the alerts HTTP/WebSocket handler.
func ProvideAlertsHandler(logger *applogger.Logger, store *usecase.SnapshotStore, hub *stream.Hub) *api.AlertsHandler {
	return api.NewAlertsHandler(logger, store, hub)
}

// ProvideTickersHandler creates the tickers CRUD handler.
func ProvideTickersHandler(logger *applogger.Logger, tickers drepo.TickerStore) *api.TickersHandler {
	return api.NewTickersHandler(logger, tickers)
}

// ProvideSummaryHandler creates the on-demand summary handler.
func ProvideSummaryHandler(logger *applogger.Logger, summary *usecase.Summary) *api.SummaryHandler {
	return api.NewSummaryHandler(logger, summary)
}

// ProvideRouter bundles the handlers behind the http server's
// route-registration interface.
func ProvideRouter(alerts *api.AlertsHandler, tickers *api.TickersHandler, summary *api.SummaryHandler) xhttp.Handler {
	return api.NewRouter(alerts, tickers, summary)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	sched *scheduler.Scheduler,
	router xhttp.Handler,
	redisClient *redis.Client,
	chClient *pkgch.Client,
	cache *pkgcache.MemoryCache,
	sinks []drepo.AlertSink,
) *server.App {
	return server.New(cfg, logger, sched, router, redisClient, chClient, cache, sinks)
}
