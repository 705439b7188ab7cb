package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"TradeStage/internal/domain/models"
	domrepo "TradeStage/internal/domain/repository"
	mid "TradeStage/internal/middleware"
	"TradeStage/internal/services/account"
)

// AccountUsecase owns the per-account monitors and runs the full balance
// update flow: classify, persist through the pipeline, publish the event,
// and fan out to live subscribers.
type AccountUsecase struct {
	registry *account.Registry
	store    domrepo.SignalStore
	pub      domrepo.EventPublisher
	metrics  domrepo.Metrics
	pipe     *mid.UpdatePipeline

	subMu       sync.RWMutex
	subscribers map[string]map[chan models.TransitionReport]struct{}
}

// NewAccountUsecase creates the account usecase. The pipeline is created
// here so the usecase is its persistence sink.
func NewAccountUsecase(
	registry *account.Registry,
	store domrepo.SignalStore,
	pub domrepo.EventPublisher,
	metrics domrepo.Metrics,
	opts ...mid.PipelineOption,
) *AccountUsecase {
	u := &AccountUsecase{
		registry:    registry,
		store:       store,
		pub:         pub,
		metrics:     metrics,
		subscribers: make(map[string]map[chan models.TransitionReport]struct{}),
	}
	u.pipe = mid.NewUpdatePipeline(u, metrics, opts...)
	return u
}

// Start launches the pipeline's background flushing.
func (u *AccountUsecase) Start(ctx context.Context) { u.pipe.Start(ctx) }

// Stop stops the pipeline.
func (u *AccountUsecase) Stop() { u.pipe.Stop() }

// Persist implements the pipeline sink: store the report, and publish the
// event when the stage actually moved.
func (u *AccountUsecase) Persist(ctx context.Context, rep *models.TransitionReport) error {
	if u.store != nil {
		if err := u.store.StoreTransition(ctx, *rep); err != nil {
			return err
		}
	}
	if u.pub != nil && rep.Transition != models.TransitionNoChange {
		if err := u.pub.PublishTransition(ctx, *rep); err != nil {
			u.metrics.RecordError("publish_transition")
		}
	}
	return nil
}

// Monitor returns the monitor for an account, creating it with the given
// initial balance if needed.
func (u *AccountUsecase) Monitor(accountID string, initialBalance decimal.Decimal) (*account.Monitor, error) {
	return u.registry.GetOrCreate(accountID, initialBalance)
}

// Snapshot returns the current state for an account.
func (u *AccountUsecase) Snapshot(accountID string) (models.TransitionReport, bool) {
	m, ok := u.registry.Get(accountID)
	if !ok {
		return models.TransitionReport{}, false
	}
	return m.Snapshot(), true
}

// Progress returns stage progress for an account.
func (u *AccountUsecase) Progress(accountID string) (models.StageProgress, bool) {
	m, ok := u.registry.Get(accountID)
	if !ok {
		return models.StageProgress{}, false
	}
	return m.Progress(), true
}

// UpdateBalance applies a balance update for an account that already has a
// monitor, runs the persistence pipeline, and notifies subscribers.
func (u *AccountUsecase) UpdateBalance(ctx context.Context, accountID string, balance decimal.Decimal) (models.TransitionReport, error) {
	m, err := u.registry.GetOrCreate(accountID, balance)
	if err != nil {
		if kind, ok := models.RuleKindOf(err); ok {
			u.metrics.RecordRuleViolation(string(kind))
		}
		return models.TransitionReport{}, err
	}

	start := time.Now()
	rep, err := m.UpdateBalance(balance)
	if err != nil {
		if kind, ok := models.RuleKindOf(err); ok {
			u.metrics.RecordRuleViolation(string(kind))
		}
		return models.TransitionReport{}, err
	}

	bal, _ := rep.CurrentBalance.Float64()
	u.metrics.RecordBalance(accountID, bal)
	u.metrics.RecordStage(accountID, rep.CurrentStage.Ordinal())
	if rep.Transition != models.TransitionNoChange {
		u.metrics.RecordTransition(string(rep.Transition))
	}

	// Pipeline failures are operational, not caller errors: the update
	// itself already succeeded.
	_ = u.pipe.Process(ctx, &rep)

	u.notify(rep)
	u.metrics.RecordLatency("update_balance", time.Since(start).Seconds())
	return rep, nil
}

// History returns persisted transitions for an account.
func (u *AccountUsecase) History(ctx context.Context, accountID string, from, to time.Time, limit int) ([]models.TransitionReport, error) {
	if u.store == nil {
		return nil, nil
	}
	return u.store.QueryTransitions(ctx, accountID, from, to, limit)
}

// Subscribe registers a live update channel for an account. The returned
// cancel func must be called when the subscriber goes away.
func (u *AccountUsecase) Subscribe(accountID string) (<-chan models.TransitionReport, func()) {
	ch := make(chan models.TransitionReport, 16)

	u.subMu.Lock()
	subs, ok := u.subscribers[accountID]
	if !ok {
		subs = make(map[chan models.TransitionReport]struct{})
		u.subscribers[accountID] = subs
	}
	subs[ch] = struct{}{}
	u.subMu.Unlock()

	cancel := func() {
		u.subMu.Lock()
		if subs, ok := u.subscribers[accountID]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(u.subscribers, accountID)
			}
		}
		u.subMu.Unlock()
		close(ch)
	}
	return ch, cancel
}

func (u *AccountUsecase) notify(rep models.TransitionReport) {
	u.subMu.RLock()
	defer u.subMu.RUnlock()
	for ch := range u.subscribers[rep.AccountID] {
		select {
		case ch <- rep:
		default:
			// slow subscriber; drop rather than block the update path
			u.metrics.RecordError("subscriber_drop")
		}
	}
}
