package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func mustExpense(t *testing.T, item, payer, amount string, sharedBy ...string) models.Expense {
	t.Helper()
	e, err := models.NewExpense(item, payer, decimal.RequireFromString(amount), sharedBy, models.NewDate(2025, time.June, 1))
	require.NoError(t, err)
	return e
}

func TestSQLiteStore_Trips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateTrip generates ID and name", func(t *testing.T) {
		trip := &models.Trip{Participants: []string{"Alice", "Bob"}}
		require.NoError(t, store.CreateTrip(ctx, trip))

		assert.NotEmpty(t, trip.ID)
		assert.NotEmpty(t, trip.Name)
		assert.NotZero(t, trip.CreatedAt)
	})

	t.Run("GetTrip retrieves roster and expenses in order", func(t *testing.T) {
		original := &models.Trip{
			Name:         "Lisbon",
			Participants: []string{"Charlie", "Alice", "Bob"},
			Expenses: []models.Expense{
				mustExpense(t, "Lunch", "Alice", "30", "Alice", "Bob", "Charlie"),
				mustExpense(t, "Taxi", "Bob", "12.50", "Bob", "Charlie"),
			},
		}
		require.NoError(t, store.CreateTrip(ctx, original))

		got, err := store.GetTrip(ctx, original.ID)
		require.NoError(t, err)

		assert.Equal(t, "Lisbon", got.Name)
		assert.Equal(t, []string{"Charlie", "Alice", "Bob"}, got.Participants)
		require.Len(t, got.Expenses, 2)
		assert.Equal(t, "Lunch", got.Expenses[0].Item)
		assert.Equal(t, "Taxi", got.Expenses[1].Item)
		assert.True(t, decimal.RequireFromString("12.5").Equal(got.Expenses[1].Amount))
		assert.Equal(t, []string{"Bob", "Charlie"}, got.Expenses[1].SharedBy)
		assert.Equal(t, "2025-06-01", got.Expenses[1].Date.String())
	})

	t.Run("GetTrip returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetTrip(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("UpdateParticipants replaces roster", func(t *testing.T) {
		trip := &models.Trip{Name: "Roster", Participants: []string{"A", "B"}}
		require.NoError(t, store.CreateTrip(ctx, trip))

		require.NoError(t, store.UpdateParticipants(ctx, trip.ID, []string{"B", "C", "A"}))
		got, err := store.GetTrip(ctx, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "C", "A"}, got.Participants)

		assert.ErrorIs(t, store.UpdateParticipants(ctx, "missing", []string{"A"}), storage.ErrNotFound)
	})

	t.Run("ListTrips includes counts", func(t *testing.T) {
		trips, err := store.ListTrips(ctx)
		require.NoError(t, err)

		var found bool
		for _, s := range trips {
			if s.Name == "Lisbon" {
				found = true
				assert.Equal(t, 3, s.ParticipantCount)
				assert.Equal(t, 2, s.ExpenseCount)
			}
		}
		assert.True(t, found, "expected Lisbon in trip list")
	})

	t.Run("DeleteTrip cascades", func(t *testing.T) {
		trip := &models.Trip{
			Name:         "Doomed",
			Participants: []string{"A", "B"},
			Expenses:     []models.Expense{mustExpense(t, "Fuel", "A", "20", "A", "B")},
		}
		require.NoError(t, store.CreateTrip(ctx, trip))
		require.NoError(t, store.CreatePayment(ctx, &models.Payment{
			TripID: trip.ID, From: "B", To: "A", Amount: decimal.NewFromInt(10),
		}))

		require.NoError(t, store.DeleteTrip(ctx, trip.ID))

		_, err := store.GetTrip(ctx, trip.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteTrip(ctx, trip.ID), storage.ErrNotFound)

		var orphans int
		require.NoError(t, store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM expenses WHERE trip_id = ?", trip.ID).Scan(&orphans))
		assert.Zero(t, orphans)
	})
}

func TestSQLiteStore_Expenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trip := &models.Trip{Name: "Edits", Participants: []string{"A", "B", "C"}}
	require.NoError(t, store.CreateTrip(ctx, trip))

	items := func() []string {
		got, err := store.GetTrip(ctx, trip.ID)
		require.NoError(t, err)
		var names []string
		for _, e := range got.Expenses {
			names = append(names, e.Item)
		}
		return names
	}

	for i, item := range []string{"One", "Two", "Three"} {
		e := mustExpense(t, item, "A", "9", "A", "B", "C")
		pos, err := store.AddExpense(ctx, trip.ID, &e)
		require.NoError(t, err)
		assert.Equal(t, i, pos)
		assert.NotEmpty(t, e.ID)
	}
	assert.Equal(t, []string{"One", "Two", "Three"}, items())

	t.Run("ReplaceExpense keeps position and ID", func(t *testing.T) {
		before, err := store.GetTrip(ctx, trip.ID)
		require.NoError(t, err)

		e := mustExpense(t, "Two (fixed)", "B", "15.25", "B", "C")
		require.NoError(t, store.ReplaceExpense(ctx, trip.ID, 1, &e))
		assert.Equal(t, before.Expenses[1].ID, e.ID)

		after, err := store.GetTrip(ctx, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, "Two (fixed)", after.Expenses[1].Item)
		assert.Equal(t, "B", after.Expenses[1].Payer)
		assert.Equal(t, []string{"B", "C"}, after.Expenses[1].SharedBy)
	})

	t.Run("RemoveExpense shifts later positions", func(t *testing.T) {
		require.NoError(t, store.RemoveExpense(ctx, trip.ID, 0))
		assert.Equal(t, []string{"Two (fixed)", "Three"}, items())

		e := mustExpense(t, "Four", "C", "3", "C")
		pos, err := store.AddExpense(ctx, trip.ID, &e)
		require.NoError(t, err)
		assert.Equal(t, 2, pos)
		assert.Equal(t, []string{"Two (fixed)", "Three", "Four"}, items())
	})

	t.Run("out of range positions", func(t *testing.T) {
		e := mustExpense(t, "Ghost", "A", "1", "A")
		assert.ErrorIs(t, store.ReplaceExpense(ctx, trip.ID, 7, &e), storage.ErrOutOfRange)
		assert.ErrorIs(t, store.RemoveExpense(ctx, trip.ID, -1), storage.ErrOutOfRange)
	})

	t.Run("missing trip", func(t *testing.T) {
		e := mustExpense(t, "Ghost", "A", "1", "A")
		_, err := store.AddExpense(ctx, "missing", &e)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.RemoveExpense(ctx, "missing", 0), storage.ErrNotFound)
	})
}

func TestSQLiteStore_Payments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trip := &models.Trip{Name: "Payments", Participants: []string{"A", "B"}}
	require.NoError(t, store.CreateTrip(ctx, trip))

	first := &models.Payment{TripID: trip.ID, From: "B", To: "A", Amount: decimal.RequireFromString("5.50"), Note: "cash", CreatedAt: 100}
	second := &models.Payment{TripID: trip.ID, From: "A", To: "B", Amount: decimal.NewFromInt(1), CreatedAt: 200}
	require.NoError(t, store.CreatePayment(ctx, first))
	require.NoError(t, store.CreatePayment(ctx, second))
	assert.NotEmpty(t, first.ID)

	payments, err := store.ListPayments(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, first.ID, payments[0].ID)
	assert.Equal(t, "cash", payments[0].Note)
	assert.True(t, decimal.RequireFromString("5.5").Equal(payments[0].Amount))
	assert.Empty(t, payments[1].Note)

	require.NoError(t, store.DeletePayment(ctx, first.ID))
	assert.ErrorIs(t, store.DeletePayment(ctx, first.ID), storage.ErrNotFound)

	payments, err = store.ListPayments(ctx, trip.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	_, err = store.ListPayments(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.CreatePayment(ctx, &models.Payment{TripID: "missing", From: "A", To: "B", Amount: decimal.NewFromInt(1)}), storage.ErrNotFound)
}

func TestNew_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "trips.db")
	ctx := context.Background()

	store, err := New(path)
	require.NoError(t, err)
	trip := &models.Trip{Name: "Persisted", Participants: []string{"A"}}
	require.NoError(t, store.CreateTrip(ctx, trip))
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "Persisted", got.Name)
}
