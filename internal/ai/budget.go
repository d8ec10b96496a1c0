package ai

import (
	"fmt"
	"sync"
)

// BudgetChecker checks and records assistant token usage against per-user
// budgets.
type BudgetChecker interface {
	// Check returns true if the user has budget remaining.
	Check(userID string) (bool, error)
	// Record records token usage for a user.
	Record(userID string, tokens int) error
	// Usage returns current usage for a user.
	Usage(userID string) (used int64, budget int64, err error)
}

// InMemoryBudget is a simple in-memory budget tracker. A user with no
// budget set falls back to the default budget; with no default either,
// usage is unlimited.
type InMemoryBudget struct {
	mu            sync.RWMutex
	defaultBudget int64
	budgets       map[string]int64
	usage         map[string]int64
}

// NewInMemoryBudget creates a new in-memory budget tracker.
func NewInMemoryBudget() *InMemoryBudget {
	return &InMemoryBudget{
		budgets: make(map[string]int64),
		usage:   make(map[string]int64),
	}
}

// SetBudget sets the token budget for a user.
func (b *InMemoryBudget) SetBudget(userID string, tokens int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.budgets[userID] = tokens
}

// SetDefaultBudget sets the budget applied to users without an explicit
// per-user budget. Zero means unlimited.
func (b *InMemoryBudget) SetDefaultBudget(tokens int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.defaultBudget = tokens
}

func (b *InMemoryBudget) Check(userID string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	budget, hasBudget := b.budgets[userID]
	if !hasBudget {
		budget = b.defaultBudget
	}
	if budget == 0 {
		return true, nil
	}
	return b.usage[userID] < budget, nil
}

func (b *InMemoryBudget) Record(userID string, tokens int) error {
	if tokens < 0 {
		return fmt.Errorf("tokens must be non-negative, got %d", tokens)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.usage[userID] += int64(tokens)
	return nil
}

func (b *InMemoryBudget) Usage(userID string) (int64, int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	budget, ok := b.budgets[userID]
	if !ok {
		budget = b.defaultBudget
	}
	return b.usage[userID], budget, nil
}
