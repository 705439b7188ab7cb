package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"TradeStage/internal/domain/models"
	"TradeStage/internal/services/account"
)

type memStore struct {
	mu          sync.Mutex
	transitions []models.TransitionReport
	signals     []models.TradingSignal
}

func (s *memStore) Init(ctx context.Context) error { return nil }
func (s *memStore) StoreTransition(ctx context.Context, rep models.TransitionReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transitions = append(s.transitions, rep)
	return nil
}
func (s *memStore) StoreSignals(ctx context.Context, sigs []models.TradingSignal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signals = append(s.signals, sigs...)
	return nil
}
func (s *memStore) QueryTransitions(ctx context.Context, accountID string, from, to time.Time, limit int) ([]models.TransitionReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TransitionReport, len(s.transitions))
	copy(out, s.transitions)
	return out, nil
}
func (s *memStore) Health(ctx context.Context) error { return nil }
func (s *memStore) Close() error                     { return nil }

type memPublisher struct {
	mu     sync.Mutex
	events []models.TransitionReport
}

func (p *memPublisher) PublishTransition(ctx context.Context, rep models.TransitionReport) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, rep)
	return nil
}
func (p *memPublisher) Close() error { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordBalance(string, float64) {}
func (nopMetrics) RecordStage(string, int)       {}
func (nopMetrics) RecordTransition(string)       {}
func (nopMetrics) RecordRuleViolation(string)    {}
func (nopMetrics) RecordSignal(string)           {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordLatency(string, float64) {}

func newAccountUsecase(store *memStore, pub *memPublisher) *AccountUsecase {
	return NewAccountUsecase(account.NewRegistry(), store, pub, nopMetrics{})
}

func TestUpdateBalanceFlow(t *testing.T) {
	store := &memStore{}
	pub := &memPublisher{}
	u := newAccountUsecase(store, pub)

	// First update creates the monitor; same-stage, so no event published.
	rep, err := u.UpdateBalance(context.Background(), "acct-1", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if rep.Transition != models.TransitionNoChange {
		t.Fatalf("expected NO_CHANGE on first update, got %s", rep.Transition)
	}
	if len(store.transitions) != 1 {
		t.Fatalf("expected 1 stored transition, got %d", len(store.transitions))
	}
	if len(pub.events) != 0 {
		t.Fatalf("expected no events for NO_CHANGE, got %d", len(pub.events))
	}

	rep, err = u.UpdateBalance(context.Background(), "acct-1", decimal.NewFromInt(15000))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if rep.Transition != models.TransitionUpgrade || rep.CurrentStage != models.StageAdvanced {
		t.Fatalf("expected UPGRADE to ADVANCED, got %s to %s", rep.Transition, rep.CurrentStage)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.events))
	}
}

func TestUpdateBalanceRejectsNegative(t *testing.T) {
	u := newAccountUsecase(&memStore{}, &memPublisher{})
	if _, err := u.UpdateBalance(context.Background(), "acct-1", decimal.NewFromInt(-1)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	u := newAccountUsecase(&memStore{}, &memPublisher{})
	if _, err := u.UpdateBalance(context.Background(), "acct-1", decimal.NewFromInt(100)); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	ch, cancel := u.Subscribe("acct-1")
	defer cancel()

	if _, err := u.UpdateBalance(context.Background(), "acct-1", decimal.NewFromInt(2000)); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	select {
	case rep := <-ch:
		if rep.CurrentStage != models.StageGrowth {
			t.Fatalf("expected GROWTH, got %s", rep.CurrentStage)
		}
	case <-time.After(time.Second):
		t.Fatalf("no update received")
	}
}

func TestSnapshotAndProgress(t *testing.T) {
	u := newAccountUsecase(&memStore{}, &memPublisher{})
	if _, ok := u.Snapshot("missing"); ok {
		t.Fatalf("expected no snapshot for unknown account")
	}
	if _, err := u.UpdateBalance(context.Background(), "acct-1", decimal.NewFromInt(5500)); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	snap, ok := u.Snapshot("acct-1")
	if !ok || snap.CurrentStage != models.StageGrowth {
		t.Fatalf("unexpected snapshot %v ok=%v", snap, ok)
	}
	prog, ok := u.Progress("acct-1")
	if !ok || !prog.Progress.Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("expected progress 0.5, got %s ok=%v", prog.Progress, ok)
	}
}
