package pairs

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"TradeStage/internal/domain/models"
	"TradeStage/pkg/quant"
)

// maxVolumeFraction caps a position at 1% of a pair's daily volume.
var maxVolumeFraction = quant.Must("0.01")

// Selector filters and ranks candidate trading pairs against stage
// liquidity thresholds. Stateless; safe for concurrent use.
type Selector struct{}

// NewSelector creates a pair selector.
func NewSelector() *Selector { return &Selector{} }

// SelectPairs keeps candidates that clear the stage's minimum 24h volume,
// maximum spread, and the caller's minimum liquidity score, ranked by
// liquidity score descending. The sort is stable: ties keep input order.
// An empty result is valid, not an error.
func (s *Selector) SelectPairs(stage models.AccountStage, candidates []models.PairCandidate, minLiquidity decimal.Decimal) ([]models.SelectedPair, error) {
	policy, ok := models.PolicyFor(stage)
	if !ok {
		return nil, models.NewRuleError(models.RuleUnknownStage, "unrecognized stage %q", string(stage))
	}

	selected := make([]models.SelectedPair, 0, len(candidates))
	for _, c := range candidates {
		if c.Volume24h.Cmp(policy.MinVolume24h) < 0 {
			continue
		}
		if c.SpreadPct.Cmp(policy.MaxSpreadPct) > 0 {
			continue
		}
		score := quant.Quantize(c.Volume24h.Div(policy.MinVolume24h))
		if score.Cmp(minLiquidity) < 0 {
			continue
		}
		selected = append(selected, models.SelectedPair{PairCandidate: c, LiquidityScore: score})
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].LiquidityScore.Cmp(selected[j].LiquidityScore) > 0
	})
	return selected, nil
}

// ValidatePair applies the selection thresholds to a single pair and,
// when a position size is supplied, caps it at 1% of daily volume.
// The reason is empty iff the pair is acceptable.
func (s *Selector) ValidatePair(stage models.AccountStage, m models.PairMetrics, positionSize *decimal.Decimal) (bool, string, error) {
	policy, ok := models.PolicyFor(stage)
	if !ok {
		return false, "", models.NewRuleError(models.RuleUnknownStage, "unrecognized stage %q", string(stage))
	}

	if m.Volume24h.Cmp(policy.MinVolume24h) < 0 {
		return false, fmt.Sprintf("24h volume %s below %s stage minimum %s",
			m.Volume24h, stage, policy.MinVolume24h), nil
	}
	if m.SpreadPct.Cmp(policy.MaxSpreadPct) > 0 {
		return false, fmt.Sprintf("spread %s%% above %s stage maximum %s%%",
			m.SpreadPct, stage, policy.MaxSpreadPct), nil
	}
	if positionSize != nil {
		maxSize := m.Volume24h.Mul(maxVolumeFraction)
		if positionSize.Cmp(maxSize) > 0 {
			return false, fmt.Sprintf("position size %s exceeds 1%% of daily volume (%s)",
				positionSize, quant.Quantize(maxSize)), nil
		}
	}
	return true, "", nil
}
