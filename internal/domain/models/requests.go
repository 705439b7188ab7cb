package models

import (
	"github.com/shopspring/decimal"
)

// Requests for the trading HTTP endpoints. Defined in domain for consistency
// and reuse. Range rules on balances, risk and sizes are enforced by the
// domain services so violations come back as named rule errors; tags here
// only cover shape.

type UpdateBalanceRequest struct {
	Balance decimal.Decimal `json:"balance"`
}

type TradingParametersRequest struct {
	RiskPct decimal.Decimal `query:"risk_pct" json:"risk_pct"`
}

type PositionSizeRequest struct {
	Balance decimal.Decimal `json:"balance"`
	Stage   string          `json:"stage" validate:"required,oneof=INITIAL GROWTH ADVANCED PROFESSIONAL EXPERT"`
	RiskPct decimal.Decimal `json:"risk_pct"`
}

type ValidateConfigRequest struct {
	Stage           string          `json:"stage" validate:"required,oneof=INITIAL GROWTH ADVANCED PROFESSIONAL EXPERT"`
	Balance         decimal.Decimal `json:"balance"`
	Leverage        int             `json:"leverage" validate:"gte=1"`
	MarginType      string          `json:"margin_type" default:"CROSS"`
	PositionSize    decimal.Decimal `json:"position_size"`
	MaxPositionSize decimal.Decimal `json:"max_position_size"`
	RiskLevel       decimal.Decimal `json:"risk_level"`
}

type FeesRequest struct {
	PositionSize decimal.Decimal `json:"position_size"`
	Leverage     int             `json:"leverage" validate:"gte=1,lte=125"`
	FeeTier      *int            `json:"fee_tier" validate:"omitempty,gte=0,lte=9"`
}

type ProfitRequest struct {
	PositionSize decimal.Decimal `json:"position_size"`
	Leverage     int             `json:"leverage" validate:"gte=1,lte=125"`
	EntryPrice   decimal.Decimal `json:"entry_price"`
	ExitPrice    decimal.Decimal `json:"exit_price"`
	FeeTier      *int            `json:"fee_tier" validate:"omitempty,gte=0,lte=9"`
}

type SelectPairsRequest struct {
	Stage        string          `json:"stage" validate:"required,oneof=INITIAL GROWTH ADVANCED PROFESSIONAL EXPERT"`
	Symbols      []string        `json:"symbols" validate:"required,min=1,max=50,dive,required"`
	MinLiquidity decimal.Decimal `json:"min_liquidity"`
	Balance      decimal.Decimal `json:"balance"`
	MaxSignals   int             `json:"max_signals" default:"3" validate:"gte=1,lte=10"`
}

type ValidatePairRequest struct {
	Stage        string           `json:"stage" validate:"required,oneof=INITIAL GROWTH ADVANCED PROFESSIONAL EXPERT"`
	PositionSize *decimal.Decimal `json:"position_size"`
}

type TransitionHistoryRequest struct {
	AccountID string `query:"account_id" json:"account_id" validate:"required"`
	From      string `query:"from" json:"from"`
	To        string `query:"to" json:"to"`
	Limit     int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}
