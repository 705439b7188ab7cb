package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"TradeStage/internal/domain/models"
	"TradeStage/internal/services/account"
	"TradeStage/internal/services/fees"
	"TradeStage/internal/services/pairs"
	"TradeStage/internal/services/risk"
)

type fakeMarket struct {
	data map[string]models.PairMetrics
}

func (f fakeMarket) PairMetrics(ctx context.Context, symbol string) (models.PairMetrics, error) {
	m, ok := f.data[symbol]
	if !ok {
		return models.PairMetrics{}, fmt.Errorf("metrics unavailable for %s", symbol)
	}
	return m, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func goodMetrics(symbol string) models.PairMetrics {
	return models.PairMetrics{
		Symbol:        symbol,
		Volume24h:     dec("10000000"),
		AvgVolume:     dec("5000000"),
		SpreadPct:     dec("0.1"),
		Volatility:    dec("0.02"),
		Support:       dec("100"),
		Resistance:    dec("200"),
		TrendStrength: dec("1"),
		LastPrice:     dec("100.6"),
	}
}

func newPairsUsecase(market fakeMarket, store *memStore) *PairsUsecase {
	return NewPairsUsecase(market, pairs.NewSelector(), risk.NewEngine(), fees.NewCalculator(), store, nopMetrics{})
}

func TestSelectSignalsBuildsPricedSignal(t *testing.T) {
	market := fakeMarket{data: map[string]models.PairMetrics{
		"BTCUSDT": goodMetrics("BTCUSDT"),
	}}
	store := &memStore{}
	u := newPairsUsecase(market, store)

	sigs, err := u.SelectSignals(context.Background(), models.StageGrowth, dec("10000"),
		[]string{"BTCUSDT"}, decimal.NewFromInt(1), 10)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(sigs) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(sigs))
	}

	sig := sigs[0]
	if !sig.EntryPrice.Equal(dec("100.5")) {
		t.Fatalf("entry = %s, want 100.5", sig.EntryPrice)
	}
	// resistance far above, so take profit is capped at entry * 1.03
	if !sig.TakeProfit.Equal(dec("103.515")) {
		t.Fatalf("take profit = %s, want 103.515", sig.TakeProfit)
	}
	if !sig.StopLoss.Equal(dec("99.5")) {
		t.Fatalf("stop loss = %s, want 99.5", sig.StopLoss)
	}
	if !sig.PositionSize.Equal(dec("100")) {
		t.Fatalf("position size = %s, want 100", sig.PositionSize)
	}
	if sig.Leverage != 25 {
		t.Fatalf("leverage = %d, want 25", sig.Leverage)
	}
	if !sig.Confidence.Equal(dec("1")) {
		t.Fatalf("confidence = %s, want 1", sig.Confidence)
	}
	if len(store.signals) != 1 {
		t.Fatalf("expected signal persisted, got %d", len(store.signals))
	}
}

func TestSelectSignalsSkipsFetchFailures(t *testing.T) {
	market := fakeMarket{data: map[string]models.PairMetrics{
		"BTCUSDT": goodMetrics("BTCUSDT"),
	}}
	u := newPairsUsecase(market, &memStore{})

	sigs, err := u.SelectSignals(context.Background(), models.StageGrowth, dec("10000"),
		[]string{"NOPEUSDT", "BTCUSDT"}, decimal.NewFromInt(1), 10)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(sigs) != 1 || sigs[0].Symbol != "BTCUSDT" {
		t.Fatalf("expected only BTCUSDT, got %v", sigs)
	}
}

func TestSelectSignalsDropsLowVolatility(t *testing.T) {
	m := goodMetrics("BTCUSDT")
	m.Volatility = dec("0.005")
	market := fakeMarket{data: map[string]models.PairMetrics{"BTCUSDT": m}}
	u := newPairsUsecase(market, &memStore{})

	sigs, err := u.SelectSignals(context.Background(), models.StageGrowth, dec("10000"),
		[]string{"BTCUSDT"}, decimal.NewFromInt(1), 10)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(sigs) != 0 {
		t.Fatalf("expected no signals, got %d", len(sigs))
	}
}

func TestSelectSignalsDropsInvertedPrices(t *testing.T) {
	// Resistance at support caps take profit at or below the computed
	// entry; the position fails validation and produces no signal.
	m := goodMetrics("BTCUSDT")
	m.Resistance = dec("100")
	market := fakeMarket{data: map[string]models.PairMetrics{"BTCUSDT": m}}
	u := newPairsUsecase(market, &memStore{})

	sigs, err := u.SelectSignals(context.Background(), models.StageGrowth, dec("10000"),
		[]string{"BTCUSDT"}, decimal.NewFromInt(1), 10)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(sigs) != 0 {
		t.Fatalf("expected no signals for take profit below entry, got %d", len(sigs))
	}
}

func TestSelectSignalsCapsResult(t *testing.T) {
	data := map[string]models.PairMetrics{}
	symbols := []string{}
	for _, s := range []string{"AUSDT", "BUSDT", "CUSDT"} {
		data[s] = goodMetrics(s)
		symbols = append(symbols, s)
	}
	u := newPairsUsecase(fakeMarket{data: data}, &memStore{})

	sigs, err := u.SelectSignals(context.Background(), models.StageGrowth, dec("10000"),
		symbols, decimal.NewFromInt(1), 2)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(sigs) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(sigs))
	}
}

func TestValidatePairThroughMarketData(t *testing.T) {
	market := fakeMarket{data: map[string]models.PairMetrics{
		"BTCUSDT": goodMetrics("BTCUSDT"),
	}}
	u := newPairsUsecase(market, &memStore{})

	ok, reason, err := u.ValidatePair(context.Background(), "BTCUSDT", models.StageGrowth, nil)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !ok {
		t.Fatalf("expected pair to validate, got reason %q", reason)
	}

	if _, _, err := u.ValidatePair(context.Background(), "NOPEUSDT", models.StageGrowth, nil); err == nil {
		t.Fatalf("expected fetch error")
	}
}

func TestParametersForTrackedAccount(t *testing.T) {
	reg := account.NewRegistry()
	if _, err := reg.GetOrCreate("acct-1", dec("10000")); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	u := NewTradingUsecase(reg, risk.NewEngine(), fees.NewCalculator(), nopMetrics{})

	params, err := u.Parameters("acct-1", decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if params.Stage != models.StageAdvanced {
		t.Fatalf("stage = %s, want ADVANCED", params.Stage)
	}
	if !params.PositionSize.Equal(dec("100")) {
		t.Fatalf("position size = %s, want 100", params.PositionSize)
	}
	if params.MaxLeverage != 75 {
		t.Fatalf("max leverage = %d, want 75", params.MaxLeverage)
	}
	if params.MarginType != models.MarginIsolated {
		t.Fatalf("margin = %s, want ISOLATED", params.MarginType)
	}

	if _, err := u.Parameters("missing", decimal.NewFromInt(1)); err == nil {
		t.Fatalf("expected error for untracked account")
	}
}
