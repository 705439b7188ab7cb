package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func validPosition() FuturesPosition {
	return FuturesPosition{
		Symbol:     "BTCUSDT",
		EntryPrice: decimal.NewFromInt(100),
		TakeProfit: decimal.NewFromInt(103),
		StopLoss:   decimal.NewFromInt(99),
		Config: FuturesConfig{
			Leverage:        10,
			MarginType:      MarginIsolated,
			PositionSize:    decimal.NewFromInt(100),
			MaxPositionSize: decimal.NewFromInt(1000),
			RiskLevel:       decimal.NewFromInt(1),
		},
	}
}

func TestFuturesPositionValidate(t *testing.T) {
	if err := validPosition().Validate(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestFuturesPositionPriceOrdering(t *testing.T) {
	p := validPosition()
	p.TakeProfit = p.EntryPrice
	err := p.Validate()
	if kind, ok := RuleKindOf(err); !ok || kind != RuleInvalidPosition {
		t.Fatalf("expected INVALID_POSITION for take profit at entry, got %v", err)
	}

	p = validPosition()
	p.StopLoss = decimal.NewFromInt(101)
	err = p.Validate()
	if kind, ok := RuleKindOf(err); !ok || kind != RuleInvalidPosition {
		t.Fatalf("expected INVALID_POSITION for stop loss above entry, got %v", err)
	}

	p = validPosition()
	p.Symbol = ""
	err = p.Validate()
	if kind, ok := RuleKindOf(err); !ok || kind != RuleInvalidPosition {
		t.Fatalf("expected INVALID_POSITION for missing symbol, got %v", err)
	}
}

func TestFuturesPositionConfigChecked(t *testing.T) {
	p := validPosition()
	p.Config.PositionSize = p.Config.MaxPositionSize.Add(decimal.NewFromInt(1))
	err := p.Validate()
	if kind, ok := RuleKindOf(err); !ok || kind != RuleInvalidConfig {
		t.Fatalf("expected INVALID_CONFIG for oversized position, got %v", err)
	}
}
