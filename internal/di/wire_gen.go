// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"TradeStage/pkg/config"
	"TradeStage/pkg/server"
)

// Injectors from wire.go:

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}
	registry := ProvideRegistry()
	client, err := ProvideClickHouseClient(cfg)
	if err != nil {
		return nil, err
	}
	signalStore := ProvideSignalStore(client, cfg)
	producer, err := ProvideKafkaProducer(cfg)
	if err != nil {
		return nil, err
	}
	eventPublisher := ProvideEventPublisher(producer, cfg)
	metrics := ProvideMetrics()
	accountUsecase := ProvideAccountUsecase(registry, signalStore, eventPublisher, metrics, cfg)
	engine := ProvideRiskEngine()
	calculator := ProvideFeeCalculator()
	tradingUsecase := ProvideTradingUsecase(registry, engine, calculator, metrics)
	service, err := ProvideCache(cfg)
	if err != nil {
		return nil, err
	}
	marketData := ProvideMarketData(cfg, service)
	selector := ProvideSelector()
	pairsUsecase := ProvidePairsUsecase(marketData, selector, engine, calculator, signalStore, metrics)
	router := ProvideRouter(logger, accountUsecase, tradingUsecase, pairsUsecase, signalStore)
	consumer, err := ProvideKafkaConsumer(cfg)
	if err != nil {
		return nil, err
	}
	kafkaBalanceHandler := ProvideKafkaBalanceHandler(accountUsecase, metrics, cfg)
	app := ProvideApp(cfg, logger, router, accountUsecase, signalStore, producer, consumer, kafkaBalanceHandler, client)
	return app, nil
}
