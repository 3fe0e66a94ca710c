package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rgehrsitz/rothsim/internal/config"
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rgehrsitz/rothsim/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return store
}

func TestSQLiteStore_Scenarios(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("SaveScenario assigns id, name and timestamps", func(t *testing.T) {
		s := config.DefaultScenario()
		saved := &storage.SavedScenario{Scenario: s}
		require.NoError(t, store.SaveScenario(ctx, saved))

		assert.NotEmpty(t, saved.ID)
		assert.Equal(t, "Default", saved.Name)
		assert.False(t, saved.CreatedAt.IsZero())

		got, err := store.GetScenario(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, saved.Name, got.Name)
		assert.True(t, got.Scenario.IRABalance.Equal(s.IRABalance))
		assert.Equal(t, s.WithdrawalOrder, got.Scenario.WithdrawalOrder)
		assert.Equal(t, s.SpendingPhases[0].Label, got.Scenario.SpendingPhases[0].Label)
	})

	t.Run("SaveScenario with existing id updates in place", func(t *testing.T) {
		saved := &storage.SavedScenario{Name: "First", Scenario: config.DefaultScenario()}
		require.NoError(t, store.SaveScenario(ctx, saved))
		created := saved.CreatedAt

		saved.Name = "Renamed"
		saved.Scenario.SSClaimAge = 70
		require.NoError(t, store.SaveScenario(ctx, saved))

		got, err := store.GetScenario(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Equal(t, 70, got.Scenario.SSClaimAge)
		assert.True(t, got.CreatedAt.Equal(created))
		assert.True(t, got.UpdatedAt.After(created))
	})

	t.Run("ListScenarios newest first", func(t *testing.T) {
		list, err := store.ListScenarios(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Renamed", list[0].Name)
	})

	t.Run("GetScenario unknown id", func(t *testing.T) {
		_, err := store.GetScenario(ctx, "missing")
		assert.True(t, errors.Is(err, storage.ErrNotFound))
	})

	t.Run("DeleteScenario", func(t *testing.T) {
		saved := &storage.SavedScenario{Name: "Doomed", Scenario: config.DefaultScenario()}
		require.NoError(t, store.SaveScenario(ctx, saved))
		require.NoError(t, store.DeleteScenario(ctx, saved.ID))

		_, err := store.GetScenario(ctx, saved.ID)
		assert.True(t, errors.Is(err, storage.ErrNotFound))
		assert.True(t, errors.Is(store.DeleteScenario(ctx, saved.ID), storage.ErrNotFound))
	})
}

func TestSQLiteStore_Runs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved := &storage.SavedScenario{Name: "Plan", Scenario: config.DefaultScenario()}
	require.NoError(t, store.SaveScenario(ctx, saved))

	age := 88
	first := &storage.RunRecord{
		ScenarioID: saved.ID,
		Kind:       storage.RunSimulate,
		Label:      "baseline",
		FinalTANW:  decimal.RequireFromString("1234567.89"),
		Summary:    domain.Summary{FinalTANW: decimal.RequireFromString("1234567.89"), WorstShortfallAge: &age},
	}
	require.NoError(t, store.RecordRun(ctx, first))
	require.NoError(t, store.RecordRun(ctx, &storage.RunRecord{ScenarioID: saved.ID, Kind: storage.RunOptimize, Label: "ss"}))
	require.NoError(t, store.RecordRun(ctx, &storage.RunRecord{Kind: storage.RunGrid, Label: "ad hoc"}))

	all, err := store.ListRuns(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "ad hoc", all[0].Label)
	assert.Empty(t, all[0].ScenarioID)

	forPlan, err := store.ListRuns(ctx, saved.ID, 0)
	require.NoError(t, err)
	require.Len(t, forPlan, 2)
	last := forPlan[1]
	assert.Equal(t, storage.RunSimulate, last.Kind)
	assert.True(t, last.FinalTANW.Equal(decimal.RequireFromString("1234567.89")))
	require.NotNil(t, last.Summary.WorstShortfallAge)
	assert.Equal(t, 88, *last.Summary.WorstShortfallAge)

	limited, err := store.ListRuns(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	// runs go with their scenario
	require.NoError(t, store.DeleteScenario(ctx, saved.ID))
	remaining, err := store.ListRuns(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestSQLiteStore_RecordRunUnknownScenario(t *testing.T) {
	store := newTestStore(t)
	err := store.RecordRun(context.Background(), &storage.RunRecord{ScenarioID: "nope", Kind: storage.RunSimulate})
	assert.Error(t, err)
}

func TestNew_InMemory(t *testing.T) {
	store, err := New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	list, err := store.ListScenarios(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
