package models

import (
	"time"

	"github.com/shopspring/decimal"

	"TradeStage/pkg/quant"
)

// AccountStage is a named tier of account balance ranges. Ordering is by
// ascending balance lower bound; compare stages through Ordinal, not the
// string values.
type AccountStage string

const (
	StageInitial      AccountStage = "INITIAL"
	StageGrowth       AccountStage = "GROWTH"
	StageAdvanced     AccountStage = "ADVANCED"
	StageProfessional AccountStage = "PROFESSIONAL"
	StageExpert       AccountStage = "EXPERT"
)

// stageOrder is the single source of truth for stage ordering.
var stageOrder = []AccountStage{
	StageInitial,
	StageGrowth,
	StageAdvanced,
	StageProfessional,
	StageExpert,
}

// Stages returns all stages in ascending order.
func Stages() []AccountStage {
	out := make([]AccountStage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// Ordinal returns the position of the stage in ascending order, or -1 for
// an unrecognized stage.
func (s AccountStage) Ordinal() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether the stage is a recognized tier.
func (s AccountStage) Valid() bool { return s.Ordinal() >= 0 }

// Next returns the next-higher stage, or false at the top.
func (s AccountStage) Next() (AccountStage, bool) {
	i := s.Ordinal()
	if i < 0 || i == len(stageOrder)-1 {
		return "", false
	}
	return stageOrder[i+1], true
}

// StagePolicy holds the immutable per-stage risk policy. MaxBalance is the
// exclusive upper bound of the stage's balance interval; Unbounded marks the
// top stage, whose MaxBalance is ignored.
type StagePolicy struct {
	MinBalance decimal.Decimal `json:"min_balance"`
	MaxBalance decimal.Decimal `json:"max_balance"`
	Unbounded  bool            `json:"unbounded"`

	MaxLeverage     int             `json:"max_leverage"`
	MinPositionSize decimal.Decimal `json:"min_position_size"`
	CrossOnly       bool            `json:"cross_only"`
	RiskPctMin      decimal.Decimal `json:"risk_pct_min"`
	RiskPctMax      decimal.Decimal `json:"risk_pct_max"`
	MaxPositionFrac decimal.Decimal `json:"max_position_fraction"`

	// Pair-selection thresholds.
	MinVolume24h decimal.Decimal `json:"min_volume_24h"`
	MaxSpreadPct decimal.Decimal `json:"max_spread_pct"`
}

// AllowsMargin reports whether the stage permits the margin type. Only the
// lowest stage restricts margin, to cross.
func (p StagePolicy) AllowsMargin(m MarginType) bool {
	if p.CrossOnly {
		return m == MarginCross
	}
	return m == MarginCross || m == MarginIsolated
}

var stagePolicies = map[AccountStage]StagePolicy{
	StageInitial: {
		MinBalance:      decimal.Zero,
		MaxBalance:      decimal.NewFromInt(1_000),
		MaxLeverage:     20,
		MinPositionSize: decimal.NewFromInt(10),
		CrossOnly:       true,
		RiskPctMin:      quant.Must("0.1"),
		RiskPctMax:      quant.Must("5.0"),
		MaxPositionFrac: quant.Must("0.10"),
		MinVolume24h:    decimal.NewFromInt(1_000_000),
		MaxSpreadPct:    quant.Must("0.5"),
	},
	StageGrowth: {
		MinBalance:      decimal.NewFromInt(1_000),
		MaxBalance:      decimal.NewFromInt(10_000),
		MaxLeverage:     50,
		MinPositionSize: decimal.Zero,
		RiskPctMin:      quant.Must("0.1"),
		RiskPctMax:      quant.Must("5.0"),
		MaxPositionFrac: quant.Must("0.95"),
		MinVolume24h:    decimal.NewFromInt(5_000_000),
		MaxSpreadPct:    quant.Must("0.3"),
	},
	StageAdvanced: {
		MinBalance:      decimal.NewFromInt(10_000),
		MaxBalance:      decimal.NewFromInt(100_000),
		MaxLeverage:     75,
		MinPositionSize: decimal.Zero,
		RiskPctMin:      quant.Must("0.1"),
		RiskPctMax:      quant.Must("5.0"),
		MaxPositionFrac: quant.Must("0.95"),
		MinVolume24h:    decimal.NewFromInt(10_000_000),
		MaxSpreadPct:    quant.Must("0.2"),
	},
	StageProfessional: {
		MinBalance:      decimal.NewFromInt(100_000),
		MaxBalance:      decimal.NewFromInt(1_000_000),
		MaxLeverage:     100,
		MinPositionSize: decimal.Zero,
		RiskPctMin:      quant.Must("0.1"),
		RiskPctMax:      quant.Must("5.0"),
		MaxPositionFrac: quant.Must("0.95"),
		MinVolume24h:    decimal.NewFromInt(20_000_000),
		MaxSpreadPct:    quant.Must("0.15"),
	},
	StageExpert: {
		MinBalance:      decimal.NewFromInt(1_000_000),
		Unbounded:       true,
		MaxLeverage:     125,
		MinPositionSize: decimal.Zero,
		RiskPctMin:      quant.Must("0.1"),
		RiskPctMax:      quant.Must("2.0"),
		MaxPositionFrac: quant.Must("0.95"),
		MinVolume24h:    decimal.NewFromInt(50_000_000),
		MaxSpreadPct:    quant.Must("0.1"),
	},
}

// PolicyFor returns the policy for a stage. The bool is false for an
// unrecognized stage.
func PolicyFor(s AccountStage) (StagePolicy, bool) {
	p, ok := stagePolicies[s]
	return p, ok
}

// StageForBalance classifies a non-negative balance into its stage.
// Intervals are half-open [min, max): a boundary balance belongs to the
// higher stage. The top stage has no upper bound.
func StageForBalance(balance decimal.Decimal) (AccountStage, error) {
	if balance.IsNegative() {
		return "", NewRuleError(RuleInvalidBalance, "balance cannot be negative, got %s", balance)
	}
	b := quant.Quantize(balance)
	for _, s := range stageOrder {
		p := stagePolicies[s]
		if b.Cmp(p.MinBalance) < 0 {
			continue
		}
		if p.Unbounded || b.Cmp(p.MaxBalance) < 0 {
			return s, nil
		}
	}
	// Unreachable with a well-formed table; reported as an invariant violation.
	return "", NewRuleError(RuleUnknownStage, "no stage covers balance %s", b)
}

// StageTransition classifies a balance update by stage ordinal movement.
type StageTransition string

const (
	TransitionNoChange  StageTransition = "NO_CHANGE"
	TransitionUpgrade   StageTransition = "UPGRADE"
	TransitionDowngrade StageTransition = "DOWNGRADE"
)

// ClassifyTransition compares previous and current stage ordinals.
func ClassifyTransition(prev, cur AccountStage) StageTransition {
	switch {
	case cur.Ordinal() > prev.Ordinal():
		return TransitionUpgrade
	case cur.Ordinal() < prev.Ordinal():
		return TransitionDowngrade
	default:
		return TransitionNoChange
	}
}

// TransitionReport is the result of one balance update.
type TransitionReport struct {
	AccountID       string          `json:"account_id"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	PreviousStage   AccountStage    `json:"previous_stage"`
	CurrentStage    AccountStage    `json:"current_stage"`
	Transition      StageTransition `json:"transition"`
	Timestamp       time.Time       `json:"timestamp"`
}

// StageProgress describes position within the current stage. Progress is a
// fraction in [0,1]; Remaining is the balance still needed to reach the next
// stage, zero at the top stage (HasNext false).
type StageProgress struct {
	Stage     AccountStage    `json:"stage"`
	Progress  decimal.Decimal `json:"progress"`
	Remaining decimal.Decimal `json:"remaining"`
	NextStage AccountStage    `json:"next_stage,omitempty"`
	HasNext   bool            `json:"has_next"`
}
