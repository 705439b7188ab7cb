package service

import (
	"context"

	"TradeStage/internal/domain/models"
)

// MarketData supplies per-symbol market snapshots from an external exchange
// adapter. Implementations own caching and transport; the calculation core
// never learns where the numbers come from.
type MarketData interface {
	PairMetrics(ctx context.Context, symbol string) (models.PairMetrics, error)
}
