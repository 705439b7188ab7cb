package account

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"TradeStage/internal/domain/models"
	"TradeStage/pkg/quant"
)

// Monitor tracks one account's balance and its stage transitions. It is the
// only mutable state in the calculation core; all methods serialize through
// an internal mutex so one monitor may be shared across requests for the
// same account.
type Monitor struct {
	mu sync.Mutex

	accountID       string
	currentBalance  decimal.Decimal
	previousBalance decimal.Decimal
	currentStage    models.AccountStage
	previousStage   models.AccountStage
	transition      models.StageTransition
}

// NewMonitor creates a monitor seeded with an initial balance. The initial
// balance must be strictly positive; later updates may drop to zero but an
// account cannot be opened empty.
func NewMonitor(accountID string, initialBalance decimal.Decimal) (*Monitor, error) {
	if !initialBalance.IsPositive() {
		return nil, models.NewRuleError(models.RuleInvalidBalance,
			"initial balance must be positive, got %s", initialBalance)
	}
	b := quant.Quantize(initialBalance)
	stage, err := models.StageForBalance(b)
	if err != nil {
		return nil, err
	}
	return &Monitor{
		accountID:       accountID,
		currentBalance:  b,
		previousBalance: b,
		currentStage:    stage,
		previousStage:   stage,
		transition:      models.TransitionNoChange,
	}, nil
}

// AccountID returns the account this monitor tracks.
func (m *Monitor) AccountID() string { return m.accountID }

// Balance returns the current quantized balance.
func (m *Monitor) Balance() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentBalance
}

// Stage returns the current stage.
func (m *Monitor) Stage() models.AccountStage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentStage
}

// UpdateBalance applies a new balance, recomputes the stage and classifies
// the transition. A negative balance is rejected without touching state;
// zero is accepted (an account can be wiped out).
func (m *Monitor) UpdateBalance(newBalance decimal.Decimal) (models.TransitionReport, error) {
	if newBalance.IsNegative() {
		return models.TransitionReport{}, models.NewRuleError(models.RuleInvalidBalance,
			"balance cannot be negative, got %s", newBalance)
	}

	b := quant.Quantize(newBalance)
	stage, err := models.StageForBalance(b)
	if err != nil {
		return models.TransitionReport{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.previousBalance = m.currentBalance
	m.previousStage = m.currentStage
	m.currentBalance = b
	m.currentStage = stage
	m.transition = models.ClassifyTransition(m.previousStage, stage)

	return models.TransitionReport{
		AccountID:       m.accountID,
		PreviousBalance: m.previousBalance,
		CurrentBalance:  m.currentBalance,
		PreviousStage:   m.previousStage,
		CurrentStage:    m.currentStage,
		Transition:      m.transition,
		Timestamp:       time.Now().UTC(),
	}, nil
}

// Snapshot returns the current state as a report without mutating anything.
func (m *Monitor) Snapshot() models.TransitionReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.TransitionReport{
		AccountID:       m.accountID,
		PreviousBalance: m.previousBalance,
		CurrentBalance:  m.currentBalance,
		PreviousStage:   m.previousStage,
		CurrentStage:    m.currentStage,
		Transition:      m.transition,
		Timestamp:       time.Now().UTC(),
	}
}

// Progress reports position within the current stage.
func (m *Monitor) Progress() models.StageProgress {
	m.mu.Lock()
	balance := m.currentBalance
	stage := m.currentStage
	m.mu.Unlock()
	return ProgressFor(stage, balance)
}
