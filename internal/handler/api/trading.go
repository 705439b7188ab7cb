package api

import (
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"TradeStage/internal/domain/models"
	"TradeStage/internal/usecase"
	xhttp "TradeStage/pkg/http"
	xlogger "TradeStage/pkg/logger"
)

// defaultRiskPct is applied when a request leaves the risk percentage out.
var defaultRiskPct = decimal.NewFromInt(1)

// TradingHandler fronts the stateless calculators: position sizing, futures
// config validation, fee quoting and profit estimation.
type TradingHandler struct {
	logger  *xlogger.Logger
	trading *usecase.TradingUsecase
}

func NewTradingHandler(logger *xlogger.Logger, trading *usecase.TradingUsecase) *TradingHandler {
	return &TradingHandler{logger: logger, trading: trading}
}

func (h *TradingHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/trading")
	g.POST("/position-size", h.PositionSize)
	g.POST("/validate-config", h.ValidateConfig)
	g.POST("/fees", h.Fees)
	g.POST("/profit", h.Profit)
}

type positionSizeResponse struct {
	PositionSize decimal.Decimal     `json:"position_size"`
	Stage        models.AccountStage `json:"stage"`
	RiskPct      decimal.Decimal     `json:"risk_pct"`
}

func (h *TradingHandler) PositionSize(c echo.Context) error {
	req := &models.PositionSizeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	stage := models.AccountStage(req.Stage)
	size, err := h.trading.PositionSize(req.Balance, stage, req.RiskPct)
	if err != nil {
		h.logger.Error("position sizing rejected", xlogger.Error(err))
		return ruleErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, positionSizeResponse{
		PositionSize: size,
		Stage:        stage,
		RiskPct:      req.RiskPct,
	})
}

type validateConfigResponse struct {
	Valid bool `json:"valid"`
}

func (h *TradingHandler) ValidateConfig(c echo.Context) error {
	req := &models.ValidateConfigRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	margin, ok := models.ParseMarginType(req.MarginType)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("unknown margin type %q", req.MarginType))
	}
	cfg := models.FuturesConfig{
		Leverage:        req.Leverage,
		MarginType:      margin,
		PositionSize:    req.PositionSize,
		MaxPositionSize: req.MaxPositionSize,
		RiskLevel:       req.RiskLevel,
	}

	if err := h.trading.ValidateConfig(cfg, models.AccountStage(req.Stage), req.Balance); err != nil {
		return ruleErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, validateConfigResponse{Valid: true})
}

func (h *TradingHandler) Fees(c echo.Context) error {
	req := &models.FeesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.trading.Fees(req.PositionSize, req.Leverage, req.FeeTier))
}

func (h *TradingHandler) Profit(c echo.Context) error {
	req := &models.ProfitRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	est, err := h.trading.Profit(req.PositionSize, req.Leverage, req.EntryPrice, req.ExitPrice, req.FeeTier)
	if err != nil {
		h.logger.Error("profit estimate rejected", xlogger.Error(err))
		return ruleErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, est)
}
