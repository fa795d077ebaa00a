//go:build wireinject
// +build wireinject

package di

import (
	"MarTrade/pkg/config"
	"MarTrade/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideThrottle,
		ProvideLimiter,
		ProvideUpstream,
		ProvideChartCache,
		ProvideKafkaProducer,

		// Repositories
		ProvideResolver,
		ProvideFallback,
		ProvideQuotePublisher,

		// Use cases and transport
		ProvideMarketData,
		ProvideMarketHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
