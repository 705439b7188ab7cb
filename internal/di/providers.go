package di

import (
	"fmt"
	"net"
	"strconv"

	"TradeStage/internal/domain/repository"
	domsvc "TradeStage/internal/domain/service"
	"TradeStage/internal/handler"
	"TradeStage/internal/handler/api"
	"TradeStage/internal/handler/ws"
	mid "TradeStage/internal/middleware"
	internalrepo "TradeStage/internal/repository"
	"TradeStage/internal/services/account"
	"TradeStage/internal/services/fees"
	"TradeStage/internal/services/marketdata"
	"TradeStage/internal/services/pairs"
	"TradeStage/internal/services/risk"
	"TradeStage/internal/usecase"
	"TradeStage/pkg/cache"
	pkgch "TradeStage/pkg/clickhouse"
	"TradeStage/pkg/config"
	pkgkafka "TradeStage/pkg/kafka"
	applogger "TradeStage/pkg/logger"
	"TradeStage/pkg/metrics"
	"TradeStage/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// store is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideSignalStore creates the ClickHouse-backed store, or nil when the
// client is disabled. Schema creation happens on App startup.
func ProvideSignalStore(chClient *pkgch.Client, cfg *config.Config) repository.SignalStore {
	if chClient == nil {
		return nil
	}
	db := cfg.ClickHouse.Database
	return internalrepo.NewClickHouseSignalStore(chClient.DB(),
		db+".stage_transitions", db+".trading_signals")
}

// ProvideKafkaProducer creates a Kafka producer, or nil when kafka is
// disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideEventPublisher creates the transition event publisher.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.TransitionTopic)
}

// ProvideKafkaConsumer creates the balance-update consumer, or nil when
// disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideCache picks the market-data cache backend: Redis when configured,
// in-process otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.MarketData.Redis.Enabled {
		host, port, err := splitHostPort(cfg.MarketData.Redis.Addr)
		if err != nil {
			return nil, fmt.Errorf("redis addr: %w", err)
		}
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(host),
			cache.WithRedisPort(port),
			cache.WithRedisPassword(cfg.MarketData.Redis.Password),
			cache.WithRedisDB(cfg.MarketData.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		// memory front over redis keeps hot symbols off the network
		return cache.NewLayeredCache(rc), nil
	}
	return cache.NewMemoryCache(), nil
}

func splitHostPort(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, err
	}
	return host, port, nil
}

// ProvideMarketData creates the HTTP market-data service.
func ProvideMarketData(cfg *config.Config, c cache.Service) domsvc.MarketData {
	return marketdata.NewHTTPService(cfg, c)
}

func ProvideRegistry() *account.Registry     { return account.NewRegistry() }
func ProvideRiskEngine() *risk.Engine        { return risk.NewEngine() }
func ProvideFeeCalculator() *fees.Calculator { return fees.NewCalculator() }
func ProvideSelector() *pairs.Selector       { return pairs.NewSelector() }

// ProvideAccountUsecase wires the account usecase with its update pipeline.
func ProvideAccountUsecase(
	registry *account.Registry,
	store repository.SignalStore,
	pub repository.EventPublisher,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.AccountUsecase {
	var opts []mid.PipelineOption
	if cfg.Pipeline.MaxRPS > 0 {
		opts = append(opts, mid.WithMaxRPS(cfg.Pipeline.MaxRPS))
	}
	if cfg.Pipeline.BufferSize > 0 {
		opts = append(opts, mid.WithBufferSize(cfg.Pipeline.BufferSize))
	}
	return usecase.NewAccountUsecase(registry, store, pub, m, opts...)
}

// ProvideTradingUsecase wires the stateless calculators.
func ProvideTradingUsecase(
	registry *account.Registry,
	engine *risk.Engine,
	calc *fees.Calculator,
	m repository.Metrics,
) *usecase.TradingUsecase {
	return usecase.NewTradingUsecase(registry, engine, calc, m)
}

// ProvidePairsUsecase wires pair selection and signal building.
func ProvidePairsUsecase(
	market domsvc.MarketData,
	selector *pairs.Selector,
	engine *risk.Engine,
	calc *fees.Calculator,
	store repository.SignalStore,
	m repository.Metrics,
) *usecase.PairsUsecase {
	return usecase.NewPairsUsecase(market, selector, engine, calc, store, m)
}

// ProvideKafkaBalanceHandler registers the handler for the balance topic.
func ProvideKafkaBalanceHandler(accounts *usecase.AccountUsecase, m repository.Metrics, cfg *config.Config) *usecase.KafkaBalanceHandler {
	return usecase.NewKafkaBalanceHandler(cfg.Kafka.Consumer.BalanceTopic, accounts, m)
}

// ProvideRouter groups the HTTP and websocket handlers.
func ProvideRouter(
	logger *applogger.Logger,
	accounts *usecase.AccountUsecase,
	trading *usecase.TradingUsecase,
	pairsUC *usecase.PairsUsecase,
	store repository.SignalStore,
) *handler.Router {
	return handler.NewRouter(
		api.NewAccountHandler(logger, accounts, trading),
		api.NewTradingHandler(logger, trading),
		api.NewPairsHandler(logger, pairsUC),
		ws.NewBalanceHandler(logger, accounts),
		store,
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	router *handler.Router,
	accounts *usecase.AccountUsecase,
	store repository.SignalStore,
	producer *pkgkafka.Producer,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaBalanceHandler,
	chClient *pkgch.Client,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	var mh pkgkafka.MessageHandler
	if consumer != nil {
		mh = kh
	}
	return server.New(cfg, logger, router, accounts, store, producer, consumer, mh, chClient)
}
