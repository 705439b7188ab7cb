package models

import (
	"github.com/shopspring/decimal"
)

// FeeRates is a maker/taker fee rate pair, as fractions (0.0002 = 0.02%).
type FeeRates struct {
	Maker decimal.Decimal `json:"maker"`
	Taker decimal.Decimal `json:"taker"`
}

// FeeQuote is the round-trip fee breakdown for a hypothetical futures trade.
// All fields are quantized; a quote is computed fresh per call and never
// mutated.
type FeeQuote struct {
	MakerFee decimal.Decimal `json:"maker_fee"`
	TakerFee decimal.Decimal `json:"taker_fee"`
	EntryFee decimal.Decimal `json:"entry_fee"`
	ExitFee  decimal.Decimal `json:"exit_fee"`
	TotalFee decimal.Decimal `json:"total_fee"`
}

// ProfitEstimate is the fee-adjusted outcome of a hypothetical trade.
type ProfitEstimate struct {
	RawPnL     decimal.Decimal `json:"raw_pnl"`
	Fees       decimal.Decimal `json:"fees"`
	NetPnL     decimal.Decimal `json:"net_pnl"`
	ROIPercent decimal.Decimal `json:"roi_percent"`
}
