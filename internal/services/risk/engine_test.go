package risk

import (
	"testing"

	"github.com/shopspring/decimal"

	"TradeStage/internal/domain/models"
	"TradeStage/pkg/quant"
)

func validConfig() models.FuturesConfig {
	return models.FuturesConfig{
		Leverage:        10,
		MarginType:      models.MarginCross,
		PositionSize:    decimal.NewFromInt(10),
		MaxPositionSize: decimal.NewFromInt(20),
		RiskLevel:       quant.Must("0.5"),
	}
}

func TestCalculatePositionSize(t *testing.T) {
	e := NewEngine()
	got, err := e.CalculatePositionSize(decimal.NewFromInt(10000), models.StageGrowth, decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got.String() != "100" {
		t.Fatalf("expected 100 (1%% of 10000), got %s", got)
	}
}

func TestCalculatePositionSizeInitialFloor(t *testing.T) {
	e := NewEngine()
	// INITIAL always returns the fixed minimum regardless of risk percentage.
	for _, pct := range []string{"0.1", "1", "5"} {
		got, err := e.CalculatePositionSize(decimal.NewFromInt(500), models.StageInitial, quant.Must(pct))
		if err != nil {
			t.Fatalf("risk %s: unexpected error %v", pct, err)
		}
		if !got.Equal(decimal.NewFromInt(10)) {
			t.Fatalf("risk %s: expected floor 10, got %s", pct, got)
		}
	}
}

func TestCalculatePositionSizeRiskOutOfRange(t *testing.T) {
	e := NewEngine()
	for _, pct := range []string{"0.05", "5.01", "-1"} {
		_, err := e.CalculatePositionSize(decimal.NewFromInt(10000), models.StageGrowth, quant.Must(pct))
		if err == nil {
			t.Fatalf("risk %s: expected error", pct)
		}
		if kind, _ := models.RuleKindOf(err); kind != models.RuleRiskPercentageOutOfRange {
			t.Fatalf("risk %s: expected RISK_PERCENTAGE_OUT_OF_RANGE, got %v", pct, err)
		}
	}
}

func TestCalculatePositionSizeExpertTighterBounds(t *testing.T) {
	e := NewEngine()
	// 3% is fine for GROWTH but above the EXPERT cap of 2%.
	if _, err := e.CalculatePositionSize(decimal.NewFromInt(5000), models.StageGrowth, decimal.NewFromInt(3)); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	_, err := e.CalculatePositionSize(decimal.NewFromInt(2_000_000), models.StageExpert, decimal.NewFromInt(3))
	if kind, _ := models.RuleKindOf(err); kind != models.RuleRiskPercentageOutOfRange {
		t.Fatalf("expected RISK_PERCENTAGE_OUT_OF_RANGE for expert at 3%%, got %v", err)
	}
}

func TestValidateConfigLeverageExceeded(t *testing.T) {
	e := NewEngine()
	cfg := validConfig()
	cfg.Leverage = 25 // INITIAL max is 20
	err := e.ValidateFuturesConfig(cfg, models.StageInitial, decimal.NewFromInt(500))
	if kind, _ := models.RuleKindOf(err); kind != models.RuleLeverageExceeded {
		t.Fatalf("expected LEVERAGE_EXCEEDED, got %v", err)
	}
}

func TestValidateConfigCheckOrder(t *testing.T) {
	e := NewEngine()
	// Violates both leverage (25 > 20) and margin (isolated in INITIAL);
	// leverage is checked first.
	cfg := validConfig()
	cfg.Leverage = 25
	cfg.MarginType = models.MarginIsolated
	err := e.ValidateFuturesConfig(cfg, models.StageInitial, decimal.NewFromInt(500))
	if kind, _ := models.RuleKindOf(err); kind != models.RuleLeverageExceeded {
		t.Fatalf("expected LEVERAGE_EXCEEDED first, got %v", err)
	}

	// Unrecognized margin type wins over everything.
	cfg = validConfig()
	cfg.Leverage = 25
	cfg.MarginType = "PORTFOLIO"
	err = e.ValidateFuturesConfig(cfg, models.StageInitial, decimal.NewFromInt(500))
	if kind, _ := models.RuleKindOf(err); kind != models.RuleMarginTypeNotAllowed {
		t.Fatalf("expected MARGIN_TYPE_NOT_ALLOWED first, got %v", err)
	}
}

func TestValidateConfigMarginRestriction(t *testing.T) {
	e := NewEngine()
	cfg := validConfig()
	cfg.MarginType = models.MarginIsolated
	err := e.ValidateFuturesConfig(cfg, models.StageInitial, decimal.NewFromInt(500))
	if kind, _ := models.RuleKindOf(err); kind != models.RuleMarginTypeNotAllowed {
		t.Fatalf("expected MARGIN_TYPE_NOT_ALLOWED, got %v", err)
	}

	// Higher stages allow isolated margin.
	cfg.PositionSize = decimal.NewFromInt(100)
	cfg.MaxPositionSize = decimal.NewFromInt(200)
	if err := e.ValidateFuturesConfig(cfg, models.StageGrowth, decimal.NewFromInt(5000)); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestValidateConfigRiskLevelOutOfRange(t *testing.T) {
	e := NewEngine()
	cfg := validConfig()
	cfg.RiskLevel = decimal.NewFromInt(3) // above EXPERT cap of 2
	err := e.ValidateFuturesConfig(cfg, models.StageExpert, decimal.NewFromInt(2_000_000))
	if kind, _ := models.RuleKindOf(err); kind != models.RuleRiskLevelOutOfRange {
		t.Fatalf("expected RISK_LEVEL_OUT_OF_RANGE, got %v", err)
	}
}

func TestValidateConfigPositionSizeBounds(t *testing.T) {
	e := NewEngine()

	cfg := validConfig()
	cfg.PositionSize = decimal.NewFromInt(5) // below INITIAL minimum of 10
	err := e.ValidateFuturesConfig(cfg, models.StageInitial, decimal.NewFromInt(500))
	if kind, _ := models.RuleKindOf(err); kind != models.RulePositionSizeTooSmall {
		t.Fatalf("expected POSITION_SIZE_TOO_SMALL, got %v", err)
	}

	// INITIAL caps position at 10% of balance: 500 * 0.10 = 50.
	cfg = validConfig()
	cfg.PositionSize = decimal.NewFromInt(60)
	cfg.MaxPositionSize = decimal.NewFromInt(100)
	err = e.ValidateFuturesConfig(cfg, models.StageInitial, decimal.NewFromInt(500))
	if kind, _ := models.RuleKindOf(err); kind != models.RulePositionSizeTooLarge {
		t.Fatalf("expected POSITION_SIZE_TOO_LARGE, got %v", err)
	}
}

func TestValidateConfigSelfConsistency(t *testing.T) {
	e := NewEngine()
	cfg := validConfig()
	cfg.PositionSize = decimal.NewFromInt(15)
	cfg.MaxPositionSize = decimal.NewFromInt(12)
	err := e.ValidateFuturesConfig(cfg, models.StageGrowth, decimal.NewFromInt(5000))
	if kind, _ := models.RuleKindOf(err); kind != models.RuleInvalidConfig {
		t.Fatalf("expected INVALID_CONFIG, got %v", err)
	}
}

func TestValidateConfigOK(t *testing.T) {
	e := NewEngine()
	cfg := validConfig()
	if err := e.ValidateFuturesConfig(cfg, models.StageInitial, decimal.NewFromInt(500)); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestRecommendations(t *testing.T) {
	e := NewEngine()
	if lev := e.RecommendedLeverage(models.StageInitial); lev != 10 {
		t.Fatalf("expected 10, got %d", lev)
	}
	if lev := e.RecommendedLeverage(models.StageExpert); lev != 62 {
		t.Fatalf("expected 62, got %d", lev)
	}
	if m := e.RecommendedMargin(models.StageGrowth); m != models.MarginCross {
		t.Fatalf("expected CROSS, got %s", m)
	}
	if m := e.RecommendedMargin(models.StageAdvanced); m != models.MarginIsolated {
		t.Fatalf("expected ISOLATED, got %s", m)
	}
}
