package fees

import (
	"testing"

	"github.com/shopspring/decimal"

	"TradeStage/internal/domain/models"
	"TradeStage/pkg/quant"
)

func defaultRates() models.FeeRates {
	return models.FeeRates{Maker: DefaultMakerRate, Taker: DefaultTakerRate}
}

func TestCalculateFees(t *testing.T) {
	c := NewCalculator()
	// Notional 100 x 10 = 1000: entry (taker) 4 bps -> 0.4, exit (maker)
	// 2 bps -> 0.2.
	q := c.CalculateFees(decimal.NewFromInt(100), 10, defaultRates())
	if !q.EntryFee.Equal(quant.Must("0.4")) {
		t.Fatalf("expected entry fee 0.4, got %s", q.EntryFee)
	}
	if !q.ExitFee.Equal(quant.Must("0.2")) {
		t.Fatalf("expected exit fee 0.2, got %s", q.ExitFee)
	}
	if !q.TotalFee.Equal(quant.Must("0.6")) {
		t.Fatalf("expected total fee 0.6, got %s", q.TotalFee)
	}
}

func TestCalculateFeesMonotonic(t *testing.T) {
	c := NewCalculator()
	rates := defaultRates()
	prev := decimal.Zero
	for _, size := range []int64{10, 100, 1000, 5000} {
		q := c.CalculateFees(decimal.NewFromInt(size), 10, rates)
		if q.TotalFee.Cmp(prev) < 0 {
			t.Fatalf("total fee decreased at size %d", size)
		}
		prev = q.TotalFee
	}
	prev = decimal.Zero
	for _, lev := range []int{1, 5, 25, 125} {
		q := c.CalculateFees(decimal.NewFromInt(100), lev, rates)
		if q.TotalFee.Cmp(prev) < 0 {
			t.Fatalf("total fee decreased at leverage %d", lev)
		}
		prev = q.TotalFee
	}
}

func TestTierRates(t *testing.T) {
	c := NewCalculator()
	tier := 2
	r := c.Rates(&tier)
	if !r.Maker.Equal(quant.Must("0.00014")) || !r.Taker.Equal(quant.Must("0.00035")) {
		t.Fatalf("unexpected tier 2 rates: %s/%s", r.Maker, r.Taker)
	}

	// Unknown tier falls back to defaults instead of failing.
	unknown := 9
	r = c.Rates(&unknown)
	if !r.Maker.Equal(DefaultMakerRate) || !r.Taker.Equal(DefaultTakerRate) {
		t.Fatalf("expected default rates for unknown tier, got %s/%s", r.Maker, r.Taker)
	}

	r = c.Rates(nil)
	if !r.Taker.Equal(DefaultTakerRate) {
		t.Fatalf("expected default taker rate, got %s", r.Taker)
	}
}

func TestEstimateProfit(t *testing.T) {
	c := NewCalculator()
	// Size 100 at 10x, entry 1000 -> exit 1030: +3% price move on notional
	// 1000 = 30 raw, minus 0.6 round-trip fees.
	est, err := c.EstimateProfit(decimal.NewFromInt(100), 10,
		decimal.NewFromInt(1000), decimal.NewFromInt(1030), defaultRates())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !est.RawPnL.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected raw pnl 30, got %s", est.RawPnL)
	}
	if !est.NetPnL.Equal(quant.Must("29.4")) {
		t.Fatalf("expected net pnl 29.4, got %s", est.NetPnL)
	}
	if !est.ROIPercent.Equal(quant.Must("29.4")) {
		t.Fatalf("expected roi 29.4%%, got %s", est.ROIPercent)
	}
}

func TestEstimateProfitLoss(t *testing.T) {
	c := NewCalculator()
	est, err := c.EstimateProfit(decimal.NewFromInt(100), 10,
		decimal.NewFromInt(1000), decimal.NewFromInt(990), defaultRates())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !est.RawPnL.Equal(decimal.NewFromInt(-10)) {
		t.Fatalf("expected raw pnl -10, got %s", est.RawPnL)
	}
	if !est.NetPnL.Equal(quant.Must("-10.6")) {
		t.Fatalf("expected net pnl -10.6, got %s", est.NetPnL)
	}
}

func TestEstimateProfitRejectsBadInput(t *testing.T) {
	c := NewCalculator()
	if _, err := c.EstimateProfit(decimal.Zero, 10, decimal.NewFromInt(1000), decimal.NewFromInt(1010), defaultRates()); err == nil {
		t.Fatalf("expected error for zero position size")
	}
	if _, err := c.EstimateProfit(decimal.NewFromInt(100), 10, decimal.Zero, decimal.NewFromInt(1010), defaultRates()); err == nil {
		t.Fatalf("expected error for zero entry price")
	}
}
