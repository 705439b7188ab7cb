package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	domrepo "TradeStage/internal/domain/repository"
	"TradeStage/internal/handler/api"
	"TradeStage/internal/handler/ws"
)

// Router groups the REST and websocket handlers behind a single route
// registration, plus the health endpoint.
type Router struct {
	account *api.AccountHandler
	trading *api.TradingHandler
	pairs   *api.PairsHandler
	balance *ws.BalanceHandler
	store   domrepo.SignalStore
}

func NewRouter(
	account *api.AccountHandler,
	trading *api.TradingHandler,
	pairs *api.PairsHandler,
	balance *ws.BalanceHandler,
	store domrepo.SignalStore,
) *Router {
	return &Router{account: account, trading: trading, pairs: pairs, balance: balance, store: store}
}

func (r *Router) RegisterRoutes(e *echo.Echo) {
	r.account.RegisterRoutes(e)
	r.trading.RegisterRoutes(e)
	r.pairs.RegisterRoutes(e)
	r.balance.RegisterRoutes(e)
	e.GET("/healthz", r.health)
}

func (r *Router) health(c echo.Context) error {
	if r.store != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := r.store.Health(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"store":  err.Error(),
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
