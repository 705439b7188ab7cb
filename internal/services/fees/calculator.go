package fees

import (
	"github.com/shopspring/decimal"

	"TradeStage/internal/domain/models"
	"TradeStage/pkg/quant"
)

// Default maker/taker rates, matching the standard (non-VIP) futures tier.
var (
	DefaultMakerRate = quant.Must("0.0002")
	DefaultTakerRate = quant.Must("0.0004")
)

// tierRates maps a fee discount tier to its maker/taker override. Unknown
// tiers fall back to the default rates rather than failing.
var tierRates = map[int]models.FeeRates{
	0: {Maker: quant.Must("0.0002"), Taker: quant.Must("0.0004")},
	1: {Maker: quant.Must("0.00016"), Taker: quant.Must("0.0004")},
	2: {Maker: quant.Must("0.00014"), Taker: quant.Must("0.00035")},
	3: {Maker: quant.Must("0.00012"), Taker: quant.Must("0.00032")},
}

// Calculator prices round-trip trading fees and fee-adjusted profit for
// hypothetical futures trades. Pure arithmetic; safe for concurrent use.
type Calculator struct{}

// NewCalculator creates a fee calculator.
func NewCalculator() *Calculator { return &Calculator{} }

// Rates returns the maker/taker rates for a tier; nil tier or an unknown
// tier yields the defaults.
func (c *Calculator) Rates(tier *int) models.FeeRates {
	if tier != nil {
		if r, ok := tierRates[*tier]; ok {
			return r
		}
	}
	return models.FeeRates{Maker: DefaultMakerRate, Taker: DefaultTakerRate}
}

// CalculateFees prices a round trip on notional = position size x leverage.
// Entries are assumed taker and exits maker; that is a documented
// simplification, not live order-type detection.
func (c *Calculator) CalculateFees(positionSize decimal.Decimal, leverage int, rates models.FeeRates) models.FeeQuote {
	notional := positionSize.Mul(decimal.NewFromInt(int64(leverage)))

	makerFee := notional.Mul(rates.Maker)
	takerFee := notional.Mul(rates.Taker)
	entryFee := takerFee
	exitFee := makerFee

	return models.FeeQuote{
		MakerFee: quant.Quantize(makerFee),
		TakerFee: quant.Quantize(takerFee),
		EntryFee: quant.Quantize(entryFee),
		ExitFee:  quant.Quantize(exitFee),
		TotalFee: quant.Quantize(entryFee.Add(exitFee)),
	}
}

// CalculateFeesForTier is CalculateFees with tier lookup applied.
func (c *Calculator) CalculateFeesForTier(positionSize decimal.Decimal, leverage int, tier *int) models.FeeQuote {
	return c.CalculateFees(positionSize, leverage, c.Rates(tier))
}

// EstimateProfit computes the fee-adjusted outcome of entering at entryPrice
// and exiting at exitPrice. Deterministic; no side effects.
func (c *Calculator) EstimateProfit(positionSize decimal.Decimal, leverage int, entryPrice, exitPrice decimal.Decimal, rates models.FeeRates) (models.ProfitEstimate, error) {
	if !positionSize.IsPositive() {
		return models.ProfitEstimate{}, models.NewRuleError(models.RuleInvalidConfig,
			"position size must be positive, got %s", positionSize)
	}
	if !entryPrice.IsPositive() {
		return models.ProfitEstimate{}, models.NewRuleError(models.RuleInvalidConfig,
			"entry price must be positive, got %s", entryPrice)
	}

	quote := c.CalculateFees(positionSize, leverage, rates)

	priceChangePct := exitPrice.Sub(entryPrice).Div(entryPrice)
	rawPnL := positionSize.Mul(decimal.NewFromInt(int64(leverage))).Mul(priceChangePct)
	netPnL := rawPnL.Sub(quote.TotalFee)
	roi := netPnL.Div(positionSize).Mul(quant.Hundred)

	return models.ProfitEstimate{
		RawPnL:     quant.Quantize(rawPnL),
		Fees:       quote.TotalFee,
		NetPnL:     quant.Quantize(netPnL),
		ROIPercent: quant.Quantize(roi),
	}, nil
}
