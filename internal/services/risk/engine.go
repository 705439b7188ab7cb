package risk

import (
	"github.com/shopspring/decimal"

	"TradeStage/internal/domain/models"
	"TradeStage/pkg/quant"
)

// Engine sizes positions and validates futures configurations against the
// active stage policy. Stateless; safe for concurrent use.
type Engine struct{}

// NewEngine creates a risk engine.
func NewEngine() *Engine { return &Engine{} }

// CalculatePositionSize computes the recommended position size for a balance
// at the given risk percentage. The lowest stage always returns its fixed
// minimum position size: it is a floor for very small accounts, not a bug.
func (e *Engine) CalculatePositionSize(balance decimal.Decimal, stage models.AccountStage, riskPct decimal.Decimal) (decimal.Decimal, error) {
	policy, ok := models.PolicyFor(stage)
	if !ok {
		return decimal.Zero, models.NewRuleError(models.RuleUnknownStage, "unrecognized stage %q", string(stage))
	}
	if balance.IsNegative() {
		return decimal.Zero, models.NewRuleError(models.RuleInvalidBalance,
			"balance cannot be negative, got %s", balance)
	}
	if riskPct.Cmp(policy.RiskPctMin) < 0 || riskPct.Cmp(policy.RiskPctMax) > 0 {
		return decimal.Zero, models.NewRuleError(models.RuleRiskPercentageOutOfRange,
			"risk percentage %s outside %s stage bounds [%s, %s]",
			riskPct, stage, policy.RiskPctMin, policy.RiskPctMax)
	}

	if stage == models.StageInitial {
		return quant.Quantize(policy.MinPositionSize), nil
	}

	size := balance.Mul(riskPct).Div(quant.Hundred)
	return quant.Quantize(size), nil
}

// ValidateFuturesConfig checks a config against the stage policy and the
// current balance. Checks run in a fixed order and the first violated rule
// wins, so a config breaking several rules reports deterministically.
func (e *Engine) ValidateFuturesConfig(cfg models.FuturesConfig, stage models.AccountStage, balance decimal.Decimal) error {
	policy, ok := models.PolicyFor(stage)
	if !ok {
		return models.NewRuleError(models.RuleUnknownStage, "unrecognized stage %q", string(stage))
	}

	if !cfg.MarginType.Valid() {
		return models.NewRuleError(models.RuleMarginTypeNotAllowed,
			"unrecognized margin type %q", string(cfg.MarginType))
	}
	if cfg.Leverage > policy.MaxLeverage {
		return models.NewRuleError(models.RuleLeverageExceeded,
			"%s stage max leverage is %dx, got %dx", stage, policy.MaxLeverage, cfg.Leverage)
	}
	if cfg.RiskLevel.Cmp(policy.RiskPctMin) < 0 || cfg.RiskLevel.Cmp(policy.RiskPctMax) > 0 {
		return models.NewRuleError(models.RuleRiskLevelOutOfRange,
			"risk level %s outside %s stage bounds [%s, %s]",
			cfg.RiskLevel, stage, policy.RiskPctMin, policy.RiskPctMax)
	}
	if !policy.AllowsMargin(cfg.MarginType) {
		return models.NewRuleError(models.RuleMarginTypeNotAllowed,
			"%s stage only supports cross margin", stage)
	}
	if cfg.PositionSize.Cmp(policy.MinPositionSize) < 0 {
		return models.NewRuleError(models.RulePositionSizeTooSmall,
			"%s stage minimum position size is %s, got %s", stage, policy.MinPositionSize, cfg.PositionSize)
	}
	maxAllowed := balance.Mul(policy.MaxPositionFrac)
	if cfg.PositionSize.Cmp(maxAllowed) > 0 {
		return models.NewRuleError(models.RulePositionSizeTooLarge,
			"position size %s exceeds %s of balance (%s)", cfg.PositionSize, policy.MaxPositionFrac, quant.Quantize(maxAllowed))
	}

	return cfg.Validate()
}

// RecommendedLeverage is half the stage maximum, at least 1.
func (e *Engine) RecommendedLeverage(stage models.AccountStage) int {
	policy, ok := models.PolicyFor(stage)
	if !ok {
		return 1
	}
	lev := policy.MaxLeverage / 2
	if lev < 1 {
		lev = 1
	}
	return lev
}

// RecommendedMargin is isolated from ADVANCED up, cross below.
func (e *Engine) RecommendedMargin(stage models.AccountStage) models.MarginType {
	if stage.Ordinal() >= models.StageAdvanced.Ordinal() {
		return models.MarginIsolated
	}
	return models.MarginCross
}
