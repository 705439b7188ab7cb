package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"TradeStage/internal/domain/models"
	"TradeStage/internal/services/ratelimit"
	"TradeStage/internal/usecase"
	xhttp "TradeStage/pkg/http"
	xlogger "TradeStage/pkg/logger"
)

// Balance updates are limited per account: a burst of 20, refilling at 10
// per second. The pipeline throttles persistence separately; this guards
// the handler itself.
const (
	balanceBurst     = 20
	balanceRefillSec = 10
)

// AccountHandler serves per-account stage state: classification snapshots,
// balance updates, progress, recommended parameters, and transition history.
type AccountHandler struct {
	logger   *xlogger.Logger
	accounts *usecase.AccountUsecase
	trading  *usecase.TradingUsecase
	limiter  *ratelimit.Limiter
}

func NewAccountHandler(logger *xlogger.Logger, accounts *usecase.AccountUsecase, trading *usecase.TradingUsecase) *AccountHandler {
	return &AccountHandler{logger: logger, accounts: accounts, trading: trading, limiter: ratelimit.New()}
}

func (h *AccountHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/account")
	g.GET("/:id/stage", h.Stage)
	g.PUT("/:id/balance", h.UpdateBalance)
	g.GET("/:id/progress", h.Progress)
	g.GET("/:id/parameters", h.Parameters)

	e.GET("/api/history/transitions", h.History)
}

type stageResponse struct {
	models.TransitionReport
	Policy models.StagePolicy `json:"policy"`
}

func (h *AccountHandler) Stage(c echo.Context) error {
	id := c.Param("id")
	rep, ok := h.accounts.Snapshot(id)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("account %q is not tracked", id))
	}
	policy, _ := models.PolicyFor(rep.CurrentStage)
	return xhttp.SuccessResponse(c, stageResponse{TransitionReport: rep, Policy: policy})
}

func (h *AccountHandler) UpdateBalance(c echo.Context) error {
	id := c.Param("id")
	if !h.limiter.Allow("balance:"+id, balanceBurst, balanceRefillSec) {
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_RATE_LIMITED", "", "too many balance updates", http.StatusTooManyRequests))
	}

	req := &models.UpdateBalanceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rep, err := h.accounts.UpdateBalance(c.Request().Context(), id, req.Balance)
	if err != nil {
		h.logger.Error("balance update rejected", xlogger.Error(err))
		return ruleErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, rep)
}

func (h *AccountHandler) Progress(c echo.Context) error {
	id := c.Param("id")
	prog, ok := h.accounts.Progress(id)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("account %q is not tracked", id))
	}
	return xhttp.SuccessResponse(c, prog)
}

func (h *AccountHandler) Parameters(c echo.Context) error {
	req := &models.TradingParametersRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	riskPct := req.RiskPct
	if riskPct.IsZero() {
		riskPct = defaultRiskPct
	}

	params, err := h.trading.Parameters(c.Param("id"), riskPct)
	if err != nil {
		h.logger.Error("parameters usecase error", xlogger.Error(err))
		return ruleErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, params)
}

func (h *AccountHandler) History(c echo.Context) error {
	req := &models.TransitionHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now().UTC()
	to := xhttp.ParseTimeDefault(req.To, now)
	from := xhttp.ParseTimeDefault(req.From, now.Add(-24*time.Hour))

	rows, err := h.accounts.History(c.Request().Context(), req.AccountID, from, to, req.Limit)
	if err != nil {
		h.logger.Error("history query failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("transition history unavailable"))
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}
