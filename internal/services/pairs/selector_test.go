package pairs

import (
	"testing"

	"github.com/shopspring/decimal"

	"TradeStage/internal/domain/models"
	"TradeStage/pkg/quant"
)

func candidate(symbol string, volume int64, spread string) models.PairCandidate {
	return models.PairCandidate{
		Symbol:    symbol,
		Volume24h: decimal.NewFromInt(volume),
		SpreadPct: quant.Must(spread),
	}
}

func TestSelectPairsLiquidityFloor(t *testing.T) {
	s := NewSelector()
	// GROWTH minimum volume is 5M; score 5M/5M = 1.0 < 1.2 excludes the pair.
	got, err := s.SelectPairs(models.StageGrowth,
		[]models.PairCandidate{candidate("BTCUSDT", 5_000_000, "0.1")},
		quant.Must("1.2"))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d pairs", len(got))
	}
}

func TestSelectPairsFiltersAndRanks(t *testing.T) {
	s := NewSelector()
	cands := []models.PairCandidate{
		candidate("LOWVOL", 1_000_000, "0.1"),   // below GROWTH volume floor
		candidate("WIDE", 50_000_000, "0.9"),    // spread above GROWTH max 0.3
		candidate("BTCUSDT", 10_000_000, "0.1"), // score 2.0
		candidate("ETHUSDT", 25_000_000, "0.2"), // score 5.0
	}
	got, err := s.SelectPairs(models.StageGrowth, cands, decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(got))
	}
	if got[0].Symbol != "ETHUSDT" || got[1].Symbol != "BTCUSDT" {
		t.Fatalf("unexpected order: %s, %s", got[0].Symbol, got[1].Symbol)
	}
	if !got[0].LiquidityScore.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected score 5, got %s", got[0].LiquidityScore)
	}
}

func TestSelectPairsStableOnTies(t *testing.T) {
	s := NewSelector()
	cands := []models.PairCandidate{
		candidate("FIRST", 10_000_000, "0.1"),
		candidate("SECOND", 10_000_000, "0.1"),
		candidate("THIRD", 10_000_000, "0.1"),
	}
	got, err := s.SelectPairs(models.StageGrowth, cands, decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(got))
	}
	for i, want := range []string{"FIRST", "SECOND", "THIRD"} {
		if got[i].Symbol != want {
			t.Fatalf("tie order not stable: position %d is %s", i, got[i].Symbol)
		}
	}
}

func TestSelectPairsUnknownStage(t *testing.T) {
	s := NewSelector()
	_, err := s.SelectPairs("TITAN", nil, decimal.NewFromInt(1))
	if kind, _ := models.RuleKindOf(err); kind != models.RuleUnknownStage {
		t.Fatalf("expected UNKNOWN_STAGE, got %v", err)
	}
}

func TestValidatePair(t *testing.T) {
	s := NewSelector()
	m := models.PairMetrics{
		Symbol:    "BTCUSDT",
		Volume24h: decimal.NewFromInt(10_000_000),
		SpreadPct: quant.Must("0.1"),
	}
	ok, reason, err := s.ValidatePair(models.StageGrowth, m, nil)
	if err != nil || !ok || reason != "" {
		t.Fatalf("expected pair accepted, got ok=%v reason=%q err=%v", ok, reason, err)
	}

	m.SpreadPct = quant.Must("0.4")
	ok, reason, _ = s.ValidatePair(models.StageGrowth, m, nil)
	if ok || reason == "" {
		t.Fatalf("expected spread rejection")
	}
}

func TestValidatePairVolumeCap(t *testing.T) {
	s := NewSelector()
	m := models.PairMetrics{
		Symbol:    "BTCUSDT",
		Volume24h: decimal.NewFromInt(10_000_000),
		SpreadPct: quant.Must("0.1"),
	}
	// 1% of 10M is 100k; a 200k position is too big.
	size := decimal.NewFromInt(200_000)
	ok, reason, err := s.ValidatePair(models.StageGrowth, m, &size)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if ok || reason == "" {
		t.Fatalf("expected volume-cap rejection")
	}

	size = decimal.NewFromInt(50_000)
	ok, _, _ = s.ValidatePair(models.StageGrowth, m, &size)
	if !ok {
		t.Fatalf("expected pair accepted at 0.5%% of volume")
	}
}

func TestVolumeScore(t *testing.T) {
	if got := VolumeScore(decimal.NewFromInt(100), decimal.Zero); !got.Equal(quant.Must("0.5")) {
		t.Fatalf("expected neutral 0.5 without average, got %s", got)
	}
	if got := VolumeScore(decimal.NewFromInt(200), decimal.NewFromInt(100)); !got.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected cap at 1.0 for 2x average, got %s", got)
	}
	if got := VolumeScore(decimal.NewFromInt(100), decimal.NewFromInt(100)); !got.Equal(quant.Must("0.5")) {
		t.Fatalf("expected 0.5 at average volume, got %s", got)
	}
}

func TestConfidence(t *testing.T) {
	// Trend 1.0, volume 1.0, RR 3:1 -> full score.
	got := Confidence(decimal.NewFromInt(1), decimal.NewFromInt(1),
		decimal.NewFromInt(100), decimal.NewFromInt(130), decimal.NewFromInt(90))
	if !got.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected confidence 1, got %s", got)
	}

	// Zero risk distance contributes nothing from RR.
	got = Confidence(decimal.NewFromInt(1), decimal.NewFromInt(1),
		decimal.NewFromInt(100), decimal.NewFromInt(130), decimal.NewFromInt(100))
	if !got.Equal(quant.Must("0.7")) {
		t.Fatalf("expected confidence 0.7, got %s", got)
	}
}
