package usecase

import (
	"github.com/shopspring/decimal"

	"TradeStage/internal/domain/models"
	domrepo "TradeStage/internal/domain/repository"
	"TradeStage/internal/services/account"
	"TradeStage/internal/services/fees"
	"TradeStage/internal/services/risk"
)

// TradingUsecase fronts the pure calculators for the HTTP layer: position
// sizing, config validation, fee quoting and profit estimation.
type TradingUsecase struct {
	registry *account.Registry
	engine   *risk.Engine
	fees     *fees.Calculator
	metrics  domrepo.Metrics
}

// NewTradingUsecase creates the trading usecase.
func NewTradingUsecase(registry *account.Registry, engine *risk.Engine, calc *fees.Calculator, metrics domrepo.Metrics) *TradingUsecase {
	return &TradingUsecase{registry: registry, engine: engine, fees: calc, metrics: metrics}
}

// PositionSize computes a recommended position size.
func (u *TradingUsecase) PositionSize(balance decimal.Decimal, stage models.AccountStage, riskPct decimal.Decimal) (decimal.Decimal, error) {
	size, err := u.engine.CalculatePositionSize(balance, stage, riskPct)
	if err != nil {
		u.recordViolation(err)
		return decimal.Zero, err
	}
	return size, nil
}

// ValidateConfig checks a futures configuration against a stage policy.
func (u *TradingUsecase) ValidateConfig(cfg models.FuturesConfig, stage models.AccountStage, balance decimal.Decimal) error {
	if err := u.engine.ValidateFuturesConfig(cfg, stage, balance); err != nil {
		u.recordViolation(err)
		return err
	}
	return nil
}

// Fees prices a round trip at the given tier.
func (u *TradingUsecase) Fees(positionSize decimal.Decimal, leverage int, tier *int) models.FeeQuote {
	return u.fees.CalculateFeesForTier(positionSize, leverage, tier)
}

// Profit estimates the fee-adjusted outcome of a hypothetical trade.
func (u *TradingUsecase) Profit(positionSize decimal.Decimal, leverage int, entry, exit decimal.Decimal, tier *int) (models.ProfitEstimate, error) {
	est, err := u.fees.EstimateProfit(positionSize, leverage, entry, exit, u.fees.Rates(tier))
	if err != nil {
		u.recordViolation(err)
		return models.ProfitEstimate{}, err
	}
	return est, nil
}

// Parameters builds the recommended trading setup for a tracked account.
func (u *TradingUsecase) Parameters(accountID string, riskPct decimal.Decimal) (models.TradingParameters, error) {
	m, ok := u.registry.Get(accountID)
	if !ok {
		return models.TradingParameters{}, models.NewRuleError(models.RuleUnknownStage,
			"no monitor for account %q", accountID)
	}

	balance := m.Balance()
	stage := m.Stage()

	size, err := u.engine.CalculatePositionSize(balance, stage, riskPct)
	if err != nil {
		u.recordViolation(err)
		return models.TradingParameters{}, err
	}

	policy, _ := models.PolicyFor(stage)
	leverage := u.engine.RecommendedLeverage(stage)
	quote := u.fees.CalculateFeesForTier(size, leverage, nil)

	return models.TradingParameters{
		AccountID:     accountID,
		Stage:         stage,
		Balance:       balance,
		RiskPct:       riskPct,
		PositionSize:  size,
		Leverage:      leverage,
		MaxLeverage:   policy.MaxLeverage,
		MarginType:    u.engine.RecommendedMargin(stage),
		EstimatedFees: quote.TotalFee,
		Progress:      m.Progress(),
	}, nil
}

func (u *TradingUsecase) recordViolation(err error) {
	if kind, ok := models.RuleKindOf(err); ok && u.metrics != nil {
		u.metrics.RecordRuleViolation(string(kind))
	}
}
