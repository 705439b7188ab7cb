//go:build wireinject
// +build wireinject

package di

import (
	"TradeStage/pkg/config"
	"TradeStage/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCache,

		// Repositories
		ProvideSignalStore,
		ProvideEventPublisher,

		// Domain services
		ProvideRegistry,
		ProvideRiskEngine,
		ProvideFeeCalculator,
		ProvideSelector,
		ProvideMarketData,

		// Use cases
		ProvideAccountUsecase,
		ProvideTradingUsecase,
		ProvidePairsUsecase,
		ProvideKafkaBalanceHandler,

		// HTTP surface and application server
		ProvideRouter,
		ProvideApp,
	)
	return &server.App{}, nil
}
