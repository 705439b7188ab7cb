package quant

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestQuantizeHalfUp(t *testing.T) {
	v := Must("0.000000005")
	got := Quantize(v)
	if got.String() != "0.00000001" {
		t.Fatalf("expected 0.00000001, got %s", got)
	}
}

func TestQuantizeNegativeTieAwayFromZero(t *testing.T) {
	v := Must("-0.000000005")
	got := Quantize(v)
	if got.String() != "-0.00000001" {
		t.Fatalf("expected -0.00000001, got %s", got)
	}
}

func TestQuantizeIdempotent(t *testing.T) {
	for _, s := range []string{"1.123456789123", "0", "999.99999999", "-42.000000015"} {
		once := Quantize(Must(s))
		twice := Quantize(once)
		if !once.Equal(twice) {
			t.Fatalf("quantize not idempotent for %s: %s vs %s", s, once, twice)
		}
	}
}

func TestQuantizeDoesNotTruncateShorter(t *testing.T) {
	v := Must("1.5")
	if got := Quantize(v); !got.Equal(v) {
		t.Fatalf("expected 1.5 unchanged, got %s", got)
	}
}

func TestClamp01(t *testing.T) {
	if got := Clamp01(Must("-0.2")); !got.Equal(decimal.Zero) {
		t.Fatalf("expected 0, got %s", got)
	}
	if got := Clamp01(Must("1.7")); !got.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected 1, got %s", got)
	}
	if got := Clamp01(Must("0.42")); !got.Equal(Must("0.42")) {
		t.Fatalf("expected 0.42, got %s", got)
	}
}
