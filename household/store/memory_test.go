package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/household-planner/funding"
	"github.com/warp/household-planner/household"
	"github.com/warp/household-planner/household/store"
	"github.com/warp/household-planner/household/storetest"
)

func TestMemory(t *testing.T) {
	storetest.Run(t, func(t *testing.T) household.Store { return store.NewMemory() })
}

func TestMemory_PlanIsCopied(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	// GIVEN: a saved plan
	plan := household.DefaultPlan()
	plan.SeedSavingsIDs = []string{"s1"}
	require.NoError(t, m.SavePlan(ctx, plan))

	// WHEN: the caller mutates both its own copy and the returned one
	plan.SeedSavingsIDs[0] = "changed"
	got, err := m.GetPlan(ctx)
	require.NoError(t, err)
	got.SeedSavingsIDs[0] = "also changed"

	// THEN: the stored plan is unaffected
	again, err := m.GetPlan(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, again.SeedSavingsIDs)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = m.SaveExpense(ctx, funding.Expense{
				ID:     household.NewID(),
				Name:   "Expense",
				Amount: funding.NewMoneyFromInt(int64(i), funding.PLN),
			})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = m.LoadState(ctx)
		}()
	}
	wg.Wait()

	got, err := m.ListExpenses(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 20)
}
