package pairs

import (
	"github.com/shopspring/decimal"

	"TradeStage/pkg/quant"
)

// Confidence weighting: trend strength 40%, volume score 30%, risk-reward
// ratio 30% with the RR contribution capped at 3:1.
var (
	trendWeight  = quant.Must("0.4")
	volumeWeight = quant.Must("0.3")
	rrWeight     = quant.Must("0.3")
	rrCap        = decimal.NewFromInt(3)
	half         = quant.Must("0.5")
	two          = decimal.NewFromInt(2)
)

// VolumeScore normalizes 24h volume against the running average, capped at
// 1.0 at twice the average. A missing average scores a neutral 0.5.
func VolumeScore(volume24h, avgVolume decimal.Decimal) decimal.Decimal {
	if !avgVolume.IsPositive() {
		return half
	}
	ratio := volume24h.Div(avgVolume).Div(two)
	return quant.Clamp01(ratio)
}

// Confidence scores a signal in [0,1] from trend strength, volume score,
// and the entry/take-profit/stop-loss risk-reward ratio.
func Confidence(trend, volumeScore, entry, takeProfit, stopLoss decimal.Decimal) decimal.Decimal {
	risk := entry.Sub(stopLoss).Abs()
	reward := takeProfit.Sub(entry).Abs()

	rr := decimal.Zero
	if risk.IsPositive() {
		rr = reward.Div(risk)
	}
	rrScore := quant.Clamp01(rr.Div(rrCap))

	score := trend.Mul(trendWeight).
		Add(volumeScore.Mul(volumeWeight)).
		Add(rrScore.Mul(rrWeight))
	return quant.Quantize(quant.Clamp01(score))
}
