//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/chaofengh/stock-price-analyze-Backend/pkg/config"
	"github.com/chaofengh/stock-price-analyze-Backend/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideRedisClient,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideTickerStore,
		ProvideBarSource,
		ProvideAlertSinks,

		// Use cases
		ProvideHub,
		ProvideSnapshotStore,
		ProvideScanConfig,
		ProvideScanner,
		ProvideScheduler,
		ProvideCache,
		ProvideSummary,

		// HTTP handlers
		ProvideAlertsHandler,
		ProvideTickersHandler,
		ProvideSummaryHandler,
		ProvideRouter,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
