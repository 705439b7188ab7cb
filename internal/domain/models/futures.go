package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MarginType is the margin mode of a futures position.
type MarginType string

const (
	MarginCross    MarginType = "CROSS"
	MarginIsolated MarginType = "ISOLATED"
)

// ParseMarginType normalizes a margin type string. The bool is false for an
// unrecognized value.
func ParseMarginType(s string) (MarginType, bool) {
	switch MarginType(strings.ToUpper(strings.TrimSpace(s))) {
	case MarginCross:
		return MarginCross, true
	case MarginIsolated:
		return MarginIsolated, true
	default:
		return "", false
	}
}

// Valid reports whether the margin type is a recognized value.
func (m MarginType) Valid() bool {
	return m == MarginCross || m == MarginIsolated
}

// FuturesConfig is a candidate futures-trade configuration. It carries its
// own self-consistency rules in Validate; stage-policy rules live in the
// risk engine.
type FuturesConfig struct {
	Leverage        int
	MarginType      MarginType
	PositionSize    decimal.Decimal
	MaxPositionSize decimal.Decimal
	RiskLevel       decimal.Decimal
}

// Validate checks field relationships independent of any stage policy.
func (c FuturesConfig) Validate() error {
	if c.Leverage <= 0 {
		return NewRuleError(RuleInvalidConfig, "leverage must be positive, got %d", c.Leverage)
	}
	if !c.MarginType.Valid() {
		return NewRuleError(RuleMarginTypeNotAllowed, "unrecognized margin type %q", string(c.MarginType))
	}
	if !c.PositionSize.IsPositive() {
		return NewRuleError(RuleInvalidConfig, "position size must be positive, got %s", c.PositionSize)
	}
	if !c.MaxPositionSize.IsPositive() {
		return NewRuleError(RuleInvalidConfig, "max position size must be positive, got %s", c.MaxPositionSize)
	}
	if !c.RiskLevel.IsPositive() {
		return NewRuleError(RuleInvalidConfig, "risk level must be positive, got %s", c.RiskLevel)
	}
	if c.PositionSize.Cmp(c.MaxPositionSize) > 0 {
		return NewRuleError(RuleInvalidConfig,
			"position size %s exceeds max position size %s", c.PositionSize, c.MaxPositionSize)
	}
	return nil
}

// FuturesPosition is a priced long position proposal built from a config.
type FuturesPosition struct {
	Symbol     string
	EntryPrice decimal.Decimal
	TakeProfit decimal.Decimal
	StopLoss   decimal.Decimal
	Config     FuturesConfig
}

// Validate checks price ordering for a long position: take-profit strictly
// above entry, stop-loss strictly below.
func (p FuturesPosition) Validate() error {
	if p.Symbol == "" {
		return NewRuleError(RuleInvalidPosition, "symbol is required")
	}
	if !p.EntryPrice.IsPositive() {
		return NewRuleError(RuleInvalidPosition, "entry price must be positive, got %s", p.EntryPrice)
	}
	if p.TakeProfit.Cmp(p.EntryPrice) <= 0 {
		return NewRuleError(RuleInvalidPosition,
			"take profit %s must be above entry price %s", p.TakeProfit, p.EntryPrice)
	}
	if p.StopLoss.Cmp(p.EntryPrice) >= 0 {
		return NewRuleError(RuleInvalidPosition,
			"stop loss %s must be below entry price %s", p.StopLoss, p.EntryPrice)
	}
	return p.Config.Validate()
}
