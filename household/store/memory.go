// Package store provides household.Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/household-planner/funding"
	"github.com/warp/household-planner/household"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	earnings collection[funding.Earning]
	expenses collection[funding.Expense]
	savings  collection[funding.Saving]
	payments collection[funding.FuturePayment]
	plan     funding.Plan
}

func NewMemory() *Memory {
	m := &Memory{}
	m.resetLocked()
	return m
}

// collection keeps records in insertion order; saving an existing id
// replaces it in place.
type collection[T any] struct {
	ids   []string
	items map[string]T
}

func newCollection[T any]() collection[T] {
	return collection[T]{items: make(map[string]T)}
}

func (c *collection[T]) save(id string, item T) {
	if _, ok := c.items[id]; !ok {
		c.ids = append(c.ids, id)
	}
	c.items[id] = item
}

func (c *collection[T]) delete(id string) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, existing := range c.ids {
		if existing == id {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			break
		}
	}
	return true
}

func (c *collection[T]) list() []T {
	out := make([]T, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.items[id])
	}
	return out
}

func (m *Memory) ListEarnings(_ context.Context) ([]funding.Earning, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.earnings.list(), nil
}

func (m *Memory) SaveEarning(_ context.Context, e funding.Earning) error {
	if err := household.ValidateEarning(e); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.earnings.save(e.ID, e)
	return nil
}

func (m *Memory) DeleteEarning(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.earnings.delete(id) {
		return &household.NotFoundError{Kind: "earning", ID: id}
	}
	return nil
}

func (m *Memory) ListExpenses(_ context.Context) ([]funding.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expenses.list(), nil
}

func (m *Memory) SaveExpense(_ context.Context, x funding.Expense) error {
	if err := household.ValidateExpense(x); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses.save(x.ID, x)
	return nil
}

func (m *Memory) DeleteExpense(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.expenses.delete(id) {
		return &household.NotFoundError{Kind: "expense", ID: id}
	}
	return nil
}

func (m *Memory) ListSavings(_ context.Context) ([]funding.Saving, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.savings.list(), nil
}

func (m *Memory) SaveSaving(_ context.Context, s funding.Saving) error {
	if err := household.ValidateSaving(s); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.savings.save(s.ID, s)
	return nil
}

func (m *Memory) DeleteSaving(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.savings.delete(id) {
		return &household.NotFoundError{Kind: "saving", ID: id}
	}
	return nil
}

func (m *Memory) ListFuturePayments(_ context.Context) ([]funding.FuturePayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payments.list(), nil
}

func (m *Memory) SaveFuturePayment(_ context.Context, p funding.FuturePayment) error {
	if err := household.ValidateFuturePayment(p); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments.save(p.ID, p)
	return nil
}

func (m *Memory) DeleteFuturePayment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.payments.delete(id) {
		return &household.NotFoundError{Kind: "future payment", ID: id}
	}
	return nil
}

func (m *Memory) GetPlan(_ context.Context) (funding.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clonePlan(m.plan), nil
}

func (m *Memory) SavePlan(_ context.Context, p funding.Plan) error {
	if err := household.ValidatePlan(p); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plan = clonePlan(p)
	return nil
}

func (m *Memory) LoadState(ctx context.Context) (*household.State, error) {
	return household.LoadStateFrom(ctx, m)
}

// ReplaceState validates every record first, then swaps under one lock.
func (m *Memory) ReplaceState(_ context.Context, s *household.State) error {
	if err := household.ValidateState(s); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	for _, e := range s.Earnings {
		m.earnings.save(e.ID, e)
	}
	for _, x := range s.Expenses {
		m.expenses.save(x.ID, x)
	}
	for _, sv := range s.Savings {
		m.savings.save(sv.ID, sv)
	}
	for _, p := range s.FuturePayments {
		m.payments.save(p.ID, p)
	}
	m.plan = clonePlan(s.Plan)
	return nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	return nil
}

func (m *Memory) resetLocked() {
	m.earnings = newCollection[funding.Earning]()
	m.expenses = newCollection[funding.Expense]()
	m.savings = newCollection[funding.Saving]()
	m.payments = newCollection[funding.FuturePayment]()
	m.plan = household.DefaultPlan()
}

func clonePlan(p funding.Plan) funding.Plan {
	p.CustomOrder = append([]string{}, p.CustomOrder...)
	p.SeedSavingsIDs = append([]string{}, p.SeedSavingsIDs...)
	return p
}

var _ household.Store = (*Memory)(nil)
