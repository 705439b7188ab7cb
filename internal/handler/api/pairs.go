package api

import (
	"github.com/labstack/echo/v4"

	"TradeStage/internal/domain/models"
	"TradeStage/internal/usecase"
	xhttp "TradeStage/pkg/http"
	xlogger "TradeStage/pkg/logger"
)

// PairsHandler serves pair selection and per-symbol validation.
type PairsHandler struct {
	logger *xlogger.Logger
	pairs  *usecase.PairsUsecase
}

func NewPairsHandler(logger *xlogger.Logger, pairs *usecase.PairsUsecase) *PairsHandler {
	return &PairsHandler{logger: logger, pairs: pairs}
}

func (h *PairsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/pairs")
	g.POST("/select", h.Select)
	g.POST("/:symbol/validate", h.Validate)
}

func (h *PairsHandler) Select(c echo.Context) error {
	req := &models.SelectPairsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	signals, err := h.pairs.SelectSignals(c.Request().Context(),
		models.AccountStage(req.Stage), req.Balance, req.Symbols, req.MinLiquidity, req.MaxSignals)
	if err != nil {
		h.logger.Error("pair selection failed", xlogger.Error(err))
		return ruleErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, signals, int64(len(signals)))
}

type validatePairResponse struct {
	Symbol string `json:"symbol"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

func (h *PairsHandler) Validate(c echo.Context) error {
	req := &models.ValidatePairRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	symbol := c.Param("symbol")
	ok, reason, err := h.pairs.ValidatePair(c.Request().Context(), symbol,
		models.AccountStage(req.Stage), req.PositionSize)
	if err != nil {
		h.logger.Error("pair validation failed", xlogger.Error(err), xlogger.String("symbol", symbol))
		return ruleErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, validatePairResponse{Symbol: symbol, Valid: ok, Reason: reason})
}
