package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/household-planner/funding"
	"github.com/warp/household-planner/household"
	"github.com/warp/household-planner/household/storetest"
	"github.com/warp/household-planner/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite(t *testing.T) {
	storetest.Run(t, func(t *testing.T) household.Store { return newStore(t) })
}

func TestSQLite_MigrationsApplied(t *testing.T) {
	s := newStore(t)

	version, dirty, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "household.db")

	// GIVEN: a file database holding the demo household
	s, err := sqlite.New(path)
	require.NoError(t, err)
	demo := household.Demo(funding.MustParseDate("2024-01-15"))
	require.NoError(t, s.ReplaceState(ctx, demo))
	require.NoError(t, s.Close())

	// WHEN: reopening, which runs migrations again
	s, err = sqlite.New(path)
	require.NoError(t, err)
	defer s.Close()

	// THEN: the data is still there
	st, err := s.LoadState(ctx)
	require.NoError(t, err)
	assert.Len(t, st.Earnings, len(demo.Earnings))
	assert.Len(t, st.FuturePayments, len(demo.FuturePayments))
	assert.Equal(t, demo.Plan.Priority, st.Plan.Priority)
}
