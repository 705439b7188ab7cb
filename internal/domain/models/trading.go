package models

import (
	"github.com/shopspring/decimal"
)

// TradingParameters is the recommended setup for an account at its current
// stage: sized position, conservative leverage, margin mode, and the
// estimated round-trip fees for that position.
type TradingParameters struct {
	AccountID     string          `json:"account_id"`
	Stage         AccountStage    `json:"stage"`
	Balance       decimal.Decimal `json:"balance"`
	RiskPct       decimal.Decimal `json:"risk_pct"`
	PositionSize  decimal.Decimal `json:"position_size"`
	Leverage      int             `json:"leverage"`
	MaxLeverage   int             `json:"max_leverage"`
	MarginType    MarginType      `json:"margin_type"`
	EstimatedFees decimal.Decimal `json:"estimated_fees"`
	Progress      StageProgress   `json:"progress"`
}
