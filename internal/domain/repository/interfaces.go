package repository

import (
	"context"
	"time"

	"TradeStage/internal/domain/models"
)

// SignalStore persists stage transitions and produced trading signals.
type SignalStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	StoreTransition(ctx context.Context, rep models.TransitionReport) error
	StoreSignals(ctx context.Context, signals []models.TradingSignal) error
	QueryTransitions(ctx context.Context, accountID string, from, to time.Time, limit int) ([]models.TransitionReport, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// EventPublisher emits stage-transition events to downstream consumers.
type EventPublisher interface {
	PublishTransition(ctx context.Context, rep models.TransitionReport) error
	Close() error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordBalance(accountID string, balance float64)
	RecordStage(accountID string, ordinal int)
	RecordTransition(kind string)
	RecordRuleViolation(kind string)
	RecordSignal(symbol string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
