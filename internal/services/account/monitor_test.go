package account

import (
	"testing"

	"github.com/shopspring/decimal"

	"TradeStage/internal/domain/models"
	"TradeStage/pkg/quant"
)

func TestStageBoundaries(t *testing.T) {
	cases := []struct {
		balance string
		want    models.AccountStage
	}{
		{"0", models.StageInitial},
		{"999.99999999", models.StageInitial},
		{"1000", models.StageGrowth},
		{"9999.99999999", models.StageGrowth},
		{"10000", models.StageAdvanced},
		{"100000", models.StageProfessional},
		{"999999.99999999", models.StageProfessional},
		{"1000000", models.StageExpert},
		{"50000000000", models.StageExpert},
	}
	for _, c := range cases {
		got, err := models.StageForBalance(quant.Must(c.balance))
		if err != nil {
			t.Fatalf("balance %s: unexpected error %v", c.balance, err)
		}
		if got != c.want {
			t.Fatalf("balance %s: expected %s, got %s", c.balance, c.want, got)
		}
	}
}

func TestStageForBalanceNegative(t *testing.T) {
	_, err := models.StageForBalance(quant.Must("-1"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if kind, ok := models.RuleKindOf(err); !ok || kind != models.RuleInvalidBalance {
		t.Fatalf("expected INVALID_BALANCE, got %v", err)
	}
}

func TestStageForBalanceIdempotent(t *testing.T) {
	b := quant.Must("12345.678")
	first, err := models.StageForBalance(b)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	second, err := models.StageForBalance(b)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if first != second {
		t.Fatalf("classification not idempotent: %s vs %s", first, second)
	}
}

func TestStagePartitionIsTotal(t *testing.T) {
	// Every non-negative balance must land in exactly one stage, including
	// values just around each boundary.
	samples := []string{
		"0", "0.00000001", "500", "999.99999999", "1000", "1000.00000001",
		"9999.99999999", "10000", "99999.99999999", "100000",
		"999999.99999999", "1000000", "123456789",
	}
	for _, s := range samples {
		stage, err := models.StageForBalance(quant.Must(s))
		if err != nil {
			t.Fatalf("balance %s unclassified: %v", s, err)
		}
		if !stage.Valid() {
			t.Fatalf("balance %s mapped to invalid stage %q", s, stage)
		}
	}
}

func TestNewMonitorRejectsNonPositive(t *testing.T) {
	for _, s := range []string{"0", "-100"} {
		_, err := NewMonitor("acct-1", quant.Must(s))
		if err == nil {
			t.Fatalf("expected error for initial balance %s", s)
		}
		if kind, _ := models.RuleKindOf(err); kind != models.RuleInvalidBalance {
			t.Fatalf("expected INVALID_BALANCE, got %v", err)
		}
	}
}

func TestUpdateBalanceUpgrade(t *testing.T) {
	m, err := NewMonitor("acct-1", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if m.Stage() != models.StageInitial {
		t.Fatalf("expected INITIAL, got %s", m.Stage())
	}

	rep, err := m.UpdateBalance(decimal.NewFromInt(15000))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if rep.PreviousStage != models.StageInitial || rep.CurrentStage != models.StageAdvanced {
		t.Fatalf("expected INITIAL->ADVANCED, got %s->%s", rep.PreviousStage, rep.CurrentStage)
	}
	if rep.Transition != models.TransitionUpgrade {
		t.Fatalf("expected UPGRADE, got %s", rep.Transition)
	}
	if !rep.PreviousBalance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected previous balance 100, got %s", rep.PreviousBalance)
	}
}

func TestUpdateBalanceDowngradeAndNoChange(t *testing.T) {
	m, err := NewMonitor("acct-1", decimal.NewFromInt(5000))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	rep, err := m.UpdateBalance(decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if rep.Transition != models.TransitionDowngrade {
		t.Fatalf("expected DOWNGRADE, got %s", rep.Transition)
	}

	rep, err = m.UpdateBalance(decimal.NewFromInt(700))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if rep.Transition != models.TransitionNoChange {
		t.Fatalf("expected NO_CHANGE, got %s", rep.Transition)
	}
}

func TestUpdateBalanceZeroAccepted(t *testing.T) {
	m, err := NewMonitor("acct-1", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	rep, err := m.UpdateBalance(decimal.Zero)
	if err != nil {
		t.Fatalf("zero balance should be accepted on update: %v", err)
	}
	if rep.CurrentStage != models.StageInitial {
		t.Fatalf("expected INITIAL at zero, got %s", rep.CurrentStage)
	}
}

func TestUpdateBalanceNegativeLeavesStateUntouched(t *testing.T) {
	m, err := NewMonitor("acct-1", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if _, err := m.UpdateBalance(decimal.NewFromInt(-5)); err == nil {
		t.Fatalf("expected error")
	}
	if !m.Balance().Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance changed after rejected update: %s", m.Balance())
	}
}

func TestProgressBoundedStage(t *testing.T) {
	// GROWTH spans [1000, 10000); 5500 is exactly halfway.
	p := ProgressFor(models.StageGrowth, decimal.NewFromInt(5500))
	if !p.Progress.Equal(quant.Must("0.5")) {
		t.Fatalf("expected progress 0.5, got %s", p.Progress)
	}
	if !p.Remaining.Equal(decimal.NewFromInt(4500)) {
		t.Fatalf("expected remaining 4500, got %s", p.Remaining)
	}
	if !p.HasNext || p.NextStage != models.StageAdvanced {
		t.Fatalf("expected next stage ADVANCED, got %s", p.NextStage)
	}
}

func TestProgressClamps(t *testing.T) {
	low := ProgressFor(models.StageGrowth, decimal.NewFromInt(900))
	if !low.Progress.IsZero() {
		t.Fatalf("expected 0 below stage min, got %s", low.Progress)
	}
	high := ProgressFor(models.StageGrowth, decimal.NewFromInt(20000))
	if !high.Progress.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected 1 above stage max, got %s", high.Progress)
	}
	if !high.Remaining.IsZero() {
		t.Fatalf("expected remaining 0 above max, got %s", high.Remaining)
	}
}

func TestProgressMonotonic(t *testing.T) {
	prev := decimal.NewFromInt(-1)
	for b := int64(1000); b < 10000; b += 500 {
		p := ProgressFor(models.StageGrowth, decimal.NewFromInt(b))
		if p.Progress.Cmp(prev) < 0 {
			t.Fatalf("progress decreased at balance %d", b)
		}
		prev = p.Progress
	}
}

func TestProgressExpertMilestones(t *testing.T) {
	p := ProgressFor(models.StageExpert, decimal.NewFromInt(10_000_000))
	if !p.Progress.Equal(quant.Must("0.25")) {
		t.Fatalf("expected 0.25 at 10M, got %s", p.Progress)
	}
	if p.HasNext {
		t.Fatalf("top stage has no next stage")
	}

	// 55M sits halfway between the 10M and 100M checkpoints.
	p = ProgressFor(models.StageExpert, decimal.NewFromInt(55_000_000))
	if !p.Progress.Equal(quant.Must("0.375")) {
		t.Fatalf("expected 0.375 at 55M, got %s", p.Progress)
	}

	p = ProgressFor(models.StageExpert, decimal.NewFromInt(2_000_000_000))
	if !p.Progress.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected 1 above last milestone, got %s", p.Progress)
	}
	p = ProgressFor(models.StageExpert, decimal.NewFromInt(1_000_000))
	if !p.Progress.IsZero() {
		t.Fatalf("expected 0 at first milestone, got %s", p.Progress)
	}
}

func TestRegistryGetOrCreate(t *testing.T) {
	r := NewRegistry()
	m1, err := r.GetOrCreate("a", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	m2, err := r.GetOrCreate("a", decimal.NewFromInt(999999))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if m1 != m2 {
		t.Fatalf("expected same monitor instance per account")
	}
	if r.Size() != 1 {
		t.Fatalf("expected 1 tracked account, got %d", r.Size())
	}
}
