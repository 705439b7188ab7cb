package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PairMetrics is the per-symbol market snapshot consumed by the pair
// selector. Fetched by the market-data service; this core never asks where
// it came from.
type PairMetrics struct {
	Symbol        string          `json:"symbol"`
	Volume24h     decimal.Decimal `json:"volume_24h"`
	AvgVolume     decimal.Decimal `json:"avg_volume"`
	SpreadPct     decimal.Decimal `json:"spread_pct"`
	Volatility    decimal.Decimal `json:"volatility"`
	Support       decimal.Decimal `json:"support"`
	Resistance    decimal.Decimal `json:"resistance"`
	TrendStrength decimal.Decimal `json:"trend_strength"`
	LastPrice     decimal.Decimal `json:"last_price"`
	FetchedAt     time.Time       `json:"fetched_at"`
}

// PairCandidate is one instrument considered for selection.
type PairCandidate struct {
	Symbol     string          `json:"symbol"`
	Volume24h  decimal.Decimal `json:"volume_24h"`
	SpreadPct  decimal.Decimal `json:"spread_pct"`
	Volatility decimal.Decimal `json:"volatility"`
}

// SelectedPair is a candidate that passed all stage thresholds, with its
// derived liquidity score (volume / stage minimum volume). Ephemeral;
// computed per selection call.
type SelectedPair struct {
	PairCandidate
	LiquidityScore decimal.Decimal `json:"liquidity_score"`
}

// TradingSignal is a fully priced trade recommendation for one pair.
type TradingSignal struct {
	Symbol         string          `json:"symbol"`
	EntryPrice     decimal.Decimal `json:"entry_price"`
	TakeProfit     decimal.Decimal `json:"take_profit"`
	StopLoss       decimal.Decimal `json:"stop_loss"`
	PositionSize   decimal.Decimal `json:"position_size"`
	Leverage       int             `json:"leverage"`
	MarginType     MarginType      `json:"margin_type"`
	ExpectedProfit ProfitEstimate  `json:"expected_profit"`
	Confidence     decimal.Decimal `json:"confidence"`
	Stage          AccountStage    `json:"stage"`
	CreatedAt      time.Time       `json:"created_at"`
}
