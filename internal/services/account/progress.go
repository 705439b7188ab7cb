package account

import (
	"github.com/shopspring/decimal"

	"TradeStage/internal/domain/models"
	"TradeStage/pkg/quant"
)

// expertMilestones maps balance checkpoints of the unbounded top stage to
// progress fractions. Balances between two checkpoints interpolate linearly.
var expertMilestones = []struct {
	Balance  decimal.Decimal
	Fraction decimal.Decimal
}{
	{decimal.NewFromInt(1_000_000), quant.Must("0")},
	{decimal.NewFromInt(10_000_000), quant.Must("0.25")},
	{decimal.NewFromInt(100_000_000), quant.Must("0.5")},
	{decimal.NewFromInt(500_000_000), quant.Must("0.75")},
	{decimal.NewFromInt(1_000_000_000), quant.Must("1")},
}

// ProgressFor computes progress within a stage for a balance. Bounded stages
// interpolate linearly over [min, max) and clamp into [0,1]; the top stage
// interpolates over its milestone checkpoints. Remaining is the balance
// still needed to reach the next stage, zero at the top.
func ProgressFor(stage models.AccountStage, balance decimal.Decimal) models.StageProgress {
	policy, ok := models.PolicyFor(stage)
	if !ok {
		return models.StageProgress{Stage: stage}
	}
	b := quant.Quantize(balance)

	if policy.Unbounded {
		return models.StageProgress{
			Stage:    stage,
			Progress: quant.Quantize(milestoneProgress(b)),
		}
	}

	span := policy.MaxBalance.Sub(policy.MinBalance)
	frac := quant.Clamp01(b.Sub(policy.MinBalance).Div(span))

	remaining := policy.MaxBalance.Sub(b)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	next, _ := stage.Next()
	return models.StageProgress{
		Stage:     stage,
		Progress:  quant.Quantize(frac),
		Remaining: quant.Quantize(remaining),
		NextStage: next,
		HasNext:   true,
	}
}

func milestoneProgress(b decimal.Decimal) decimal.Decimal {
	first := expertMilestones[0]
	if b.Cmp(first.Balance) <= 0 {
		return first.Fraction
	}
	last := expertMilestones[len(expertMilestones)-1]
	if b.Cmp(last.Balance) >= 0 {
		return last.Fraction
	}
	for i := 1; i < len(expertMilestones); i++ {
		hi := expertMilestones[i]
		if b.Cmp(hi.Balance) >= 0 {
			continue
		}
		lo := expertMilestones[i-1]
		span := hi.Balance.Sub(lo.Balance)
		within := b.Sub(lo.Balance).Div(span)
		return lo.Fraction.Add(hi.Fraction.Sub(lo.Fraction).Mul(within))
	}
	return last.Fraction
}
