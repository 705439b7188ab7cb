package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	domrepo "TradeStage/internal/domain/repository"
	"TradeStage/internal/handler"
	"TradeStage/internal/usecase"
	pkgch "TradeStage/pkg/clickhouse"
	"TradeStage/pkg/config"
	xhttp "TradeStage/pkg/http"
	pkgkafka "TradeStage/pkg/kafka"
	applogger "TradeStage/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg      *config.Config
	logger   *applogger.Logger
	router   *handler.Router
	accounts *usecase.AccountUsecase
	store    domrepo.SignalStore
	producer *pkgkafka.Producer
	consumer *pkgkafka.Consumer
	kh       pkgkafka.MessageHandler
	chClient *pkgch.Client

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	router *handler.Router,
	accounts *usecase.AccountUsecase,
	store domrepo.SignalStore,
	producer *pkgkafka.Producer,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		router:   router,
		accounts: accounts,
		store:    store,
		producer: producer,
		consumer: consumer,
		kh:       kh,
		chClient: chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.store != nil {
		initCtx, initCancel := context.WithTimeout(ctx, 10*time.Second)
		err := a.store.Init(initCtx)
		initCancel()
		if err != nil {
			return err
		}
		a.logger.Info("signal store schema ready")
	}

	a.accounts.Start(ctx)
	a.seedAccounts()

	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.logger.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.logger.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
	}
	a.httpServer = xhttp.NewServer(a.router,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// seedAccounts registers the configured accounts so their stage is known
// before the first live balance update arrives.
func (a *App) seedAccounts() {
	for _, seed := range a.cfg.Accounts.Seed {
		balance, err := decimal.NewFromString(seed.Balance)
		if err != nil {
			a.logger.Warn("seed account skipped: bad balance",
				applogger.String("account_id", seed.ID), applogger.String("balance", seed.Balance))
			continue
		}
		if _, err := a.accounts.Monitor(seed.ID, balance); err != nil {
			a.logger.Warn("seed account rejected",
				applogger.String("account_id", seed.ID), applogger.Error(err))
			continue
		}
		a.logger.Info("seed account tracked", applogger.String("account_id", seed.ID))
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	a.accounts.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.logger.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
