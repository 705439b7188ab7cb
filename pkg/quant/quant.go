package quant

import (
	"github.com/shopspring/decimal"
)

// Places is the canonical number of fractional digits for all monetary and
// ratio values in the system. Mixing scales across modules is not allowed.
const Places int32 = 8

var (
	Zero    = decimal.Zero
	Hundred = decimal.NewFromInt(100)
)

// Quantize rounds v to Places fractional digits, ties away from zero.
// The input is never mutated; shopspring decimals are immutable values.
func Quantize(v decimal.Decimal) decimal.Decimal {
	return v.Round(Places)
}

// Must parses a decimal literal and panics on failure. For package-level
// constant tables only; never call it on external input.
func Must(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Clamp01 clamps v into [0, 1].
func Clamp01(v decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if v.IsNegative() {
		return decimal.Zero
	}
	if v.GreaterThan(one) {
		return one
	}
	return v
}
