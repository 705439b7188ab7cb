package account

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Registry hands out one Monitor per account id. Monitors are created on
// first use and live for the process lifetime; the registry itself is safe
// for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	monitors map[string]*Monitor
}

// NewRegistry creates an empty monitor registry.
func NewRegistry() *Registry {
	return &Registry{monitors: make(map[string]*Monitor)}
}

// Get returns the monitor for an account if one exists.
func (r *Registry) Get(accountID string) (*Monitor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.monitors[accountID]
	return m, ok
}

// GetOrCreate returns the existing monitor for an account or creates one
// seeded with the given initial balance. The initial balance is only used
// when the monitor does not exist yet.
func (r *Registry) GetOrCreate(accountID string, initialBalance decimal.Decimal) (*Monitor, error) {
	if m, ok := r.Get(accountID); ok {
		return m, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.monitors[accountID]; ok {
		return m, nil
	}
	m, err := NewMonitor(accountID, initialBalance)
	if err != nil {
		return nil, err
	}
	r.monitors[accountID] = m
	return m, nil
}

// Size returns the number of tracked accounts.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.monitors)
}
