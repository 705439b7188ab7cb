package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"TradeStage/internal/domain/models"
	domrepo "TradeStage/internal/domain/repository"
	domsvc "TradeStage/internal/domain/service"
	"TradeStage/internal/services/fees"
	"TradeStage/internal/services/pairs"
	"TradeStage/internal/services/risk"
	"TradeStage/pkg/quant"
)

// Signal construction constants, relative to the support/resistance proxy:
// enter 0.5% above support, take profit at resistance capped at +3%, stop
// 0.5% below support.
var (
	entryAboveSupport = quant.Must("1.005")
	takeProfitCap     = quant.Must("1.03")
	stopBelowSupport  = quant.Must("0.995")
	minVolatility     = quant.Must("0.01")
	minConfidence     = quant.Must("0.82")
	signalRiskPct     = decimal.NewFromInt(1)
)

// PairsUsecase turns candidate symbols into ranked, fully priced trading
// signals for an account stage.
type PairsUsecase struct {
	market   domsvc.MarketData
	selector *pairs.Selector
	engine   *risk.Engine
	fees     *fees.Calculator
	store    domrepo.SignalStore
	metrics  domrepo.Metrics
}

// NewPairsUsecase creates the pairs usecase.
func NewPairsUsecase(
	market domsvc.MarketData,
	selector *pairs.Selector,
	engine *risk.Engine,
	calc *fees.Calculator,
	store domrepo.SignalStore,
	metrics domrepo.Metrics,
) *PairsUsecase {
	return &PairsUsecase{
		market:   market,
		selector: selector,
		engine:   engine,
		fees:     calc,
		store:    store,
		metrics:  metrics,
	}
}

// SelectSignals fetches market metrics for the symbols, filters them
// through the stage's liquidity thresholds, and builds signals for the
// survivors, ranked by confidence. Symbols whose metrics cannot be fetched
// are skipped, not fatal. The result may be empty.
func (u *PairsUsecase) SelectSignals(ctx context.Context, stage models.AccountStage, balance decimal.Decimal, symbols []string, minLiquidity decimal.Decimal, maxSignals int) ([]models.TradingSignal, error) {
	metrics := make(map[string]models.PairMetrics, len(symbols))
	candidates := make([]models.PairCandidate, 0, len(symbols))
	for _, sym := range symbols {
		m, err := u.market.PairMetrics(ctx, sym)
		if err != nil {
			u.metrics.RecordError("market_metrics")
			continue
		}
		metrics[sym] = m
		candidates = append(candidates, models.PairCandidate{
			Symbol:     m.Symbol,
			Volume24h:  m.Volume24h,
			SpreadPct:  m.SpreadPct,
			Volatility: m.Volatility,
		})
	}

	selected, err := u.selector.SelectPairs(stage, candidates, minLiquidity)
	if err != nil {
		return nil, err
	}

	signals := make([]models.TradingSignal, 0, len(selected))
	for _, sp := range selected {
		sig, ok := u.buildSignal(stage, balance, metrics[sp.Symbol])
		if !ok {
			continue
		}
		signals = append(signals, sig)
	}

	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].Confidence.Cmp(signals[j].Confidence) > 0
	})
	if maxSignals > 0 && len(signals) > maxSignals {
		signals = signals[:maxSignals]
	}

	if u.store != nil && len(signals) > 0 {
		if err := u.store.StoreSignals(ctx, signals); err != nil {
			u.metrics.RecordError("store_signals")
		}
	}
	for _, s := range signals {
		u.metrics.RecordSignal(s.Symbol)
	}
	return signals, nil
}

// buildSignal prices one selected pair. Pairs with too little volatility,
// missing support/resistance, a position that fails validation (inverted
// prices, size over the stage cap), or low confidence produce no signal.
func (u *PairsUsecase) buildSignal(stage models.AccountStage, balance decimal.Decimal, m models.PairMetrics) (models.TradingSignal, bool) {
	if m.Volatility.Cmp(minVolatility) < 0 {
		return models.TradingSignal{}, false
	}
	if !m.Support.IsPositive() || !m.Resistance.IsPositive() {
		return models.TradingSignal{}, false
	}

	entry := quant.Quantize(m.Support.Mul(entryAboveSupport))
	takeProfit := quant.Quantize(entry.Mul(takeProfitCap))
	if m.Resistance.Cmp(takeProfit) < 0 {
		takeProfit = quant.Quantize(m.Resistance)
	}
	stopLoss := quant.Quantize(m.Support.Mul(stopBelowSupport))

	size, err := u.engine.CalculatePositionSize(balance, stage, signalRiskPct)
	if err != nil {
		return models.TradingSignal{}, false
	}
	leverage := u.engine.RecommendedLeverage(stage)
	margin := u.engine.RecommendedMargin(stage)

	policy, _ := models.PolicyFor(stage)
	position := models.FuturesPosition{
		Symbol:     m.Symbol,
		EntryPrice: entry,
		TakeProfit: takeProfit,
		StopLoss:   stopLoss,
		Config: models.FuturesConfig{
			Leverage:        leverage,
			MarginType:      margin,
			PositionSize:    size,
			MaxPositionSize: quant.Quantize(balance.Mul(policy.MaxPositionFrac)),
			RiskLevel:       signalRiskPct,
		},
	}
	if err := position.Validate(); err != nil {
		return models.TradingSignal{}, false
	}

	confidence := pairs.Confidence(
		m.TrendStrength,
		pairs.VolumeScore(m.Volume24h, m.AvgVolume),
		entry, takeProfit, stopLoss,
	)
	if confidence.Cmp(minConfidence) < 0 {
		return models.TradingSignal{}, false
	}

	est, err := u.fees.EstimateProfit(size, leverage, entry, takeProfit, u.fees.Rates(nil))
	if err != nil {
		return models.TradingSignal{}, false
	}

	return models.TradingSignal{
		Symbol:         m.Symbol,
		EntryPrice:     entry,
		TakeProfit:     takeProfit,
		StopLoss:       stopLoss,
		PositionSize:   size,
		Leverage:       leverage,
		MarginType:     margin,
		ExpectedProfit: est,
		Confidence:     confidence,
		Stage:          stage,
		CreatedAt:      time.Now().UTC(),
	}, true
}

// ValidatePair fetches metrics for one symbol and applies the stage
// thresholds, plus the daily-volume cap when a position size is given.
func (u *PairsUsecase) ValidatePair(ctx context.Context, symbol string, stage models.AccountStage, positionSize *decimal.Decimal) (bool, string, error) {
	m, err := u.market.PairMetrics(ctx, symbol)
	if err != nil {
		u.metrics.RecordError("market_metrics")
		return false, "", err
	}
	return u.selector.ValidatePair(stage, m, positionSize)
}
