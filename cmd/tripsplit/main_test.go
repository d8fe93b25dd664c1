package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripsplit/internal/config"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/internal/storage/jsonfile"
	"github.com/mmynk/tripsplit/internal/storage/sqlite"
)

type harness struct {
	t   *testing.T
	cfg *config.Config
}

func newHarness(t *testing.T) *harness {
	dir := t.TempDir()
	return &harness{t: t, cfg: &config.Config{
		ReportsDir: dir,
		DBPath:     filepath.Join(dir, "trips.db"),
	}}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	err := run(h.cfg, args, &out)
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "tripsplit %v", args)
	return out
}

func (h *harness) seed() {
	h.mustRun("new", "lisbon", "Alice", "Bob", "Carol")
	h.mustRun("add", "lisbon", "--item", "Dinner", "--payer", "Alice", "--amount", "30", "--all", "--date", "2025-06-01")
	h.mustRun("add", "lisbon", "--item", "Taxi", "--payer", "Bob", "--amount", "12.50",
		"--shared-by", "Bob", "--shared-by", "Carol", "--date", "2025-06-02")
}

func TestCLI_Workflow(t *testing.T) {
	h := newHarness(t)
	h.seed()

	assert.Equal(t, "lisbon\n", h.mustRun("reports"))

	assert.Equal(t, "Alice: $20.00\nBob: -$3.75\nCarol: -$16.25\n", h.mustRun("balances", "lisbon"))
	assert.Equal(t, "- Carol pays $16.25 to Alice\n- Bob pays $3.75 to Alice\n", h.mustRun("settle", "lisbon"))

	summary := h.mustRun("summary", "lisbon")
	assert.Contains(t, summary, "Participant")
	assert.Contains(t, summary, "$30.00")
	assert.Contains(t, summary, "-$16.25")
}

func TestCLI_Reports_Empty(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "No reports found.\n", h.mustRun("reports"))
}

func TestCLI_SettledReport(t *testing.T) {
	h := newHarness(t)
	h.mustRun("new", "solo", "Alice")
	h.mustRun("add", "solo", "--item", "Coffee", "--payer", "Alice", "--amount", "4.20", "--all")

	assert.Equal(t, "Everyone is settled up!\n", h.mustRun("settle", "solo"))
}

func TestCLI_Errors(t *testing.T) {
	h := newHarness(t)
	h.mustRun("new", "lisbon", "Alice", "Bob")

	tests := []struct {
		name string
		args []string
		is   error
	}{
		{
			name: "duplicate report",
			args: []string{"new", "lisbon", "Carol"},
		},
		{
			name: "duplicate participant",
			args: []string{"new", "porto", "Alice", "Alice"},
			is:   models.ErrInvalidRoster,
		},
		{
			name: "missing report",
			args: []string{"settle", "porto"},
			is:   storage.ErrNotFound,
		},
		{
			name: "unknown payer",
			args: []string{"add", "lisbon", "--item", "Lunch", "--payer", "Zoe", "--amount", "10", "--all"},
			is:   models.ErrUnknownParticipant,
		},
		{
			name: "too many decimals",
			args: []string{"add", "lisbon", "--item", "Lunch", "--payer", "Alice", "--amount", "10.001", "--all"},
			is:   models.ErrInvalidAmount,
		},
		{
			name: "not a number",
			args: []string{"add", "lisbon", "--item", "Lunch", "--payer", "Alice", "--amount", "ten", "--all"},
			is:   models.ErrInvalidAmount,
		},
		{
			name: "bad date",
			args: []string{"add", "lisbon", "--item", "Lunch", "--payer", "Alice", "--amount", "10", "--all", "--date", "01/06/2025"},
			is:   models.ErrInvalidDate,
		},
		{
			name: "no sharers",
			args: []string{"add", "lisbon", "--item", "Lunch", "--payer", "Alice", "--amount", "10"},
			is:   models.ErrNoSharers,
		},
		{
			name: "unknown command",
			args: []string{"frobnicate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.run(tt.args...)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestCLI_EditExpense(t *testing.T) {
	h := newHarness(t)
	h.seed()

	out := h.mustRun("edit", "lisbon", "1", "--amount", "20", "--all")
	assert.Equal(t, "Updated expense 1: Taxi ($20.00) paid by Bob\n", out)

	// the 20.00 taxi splits 6.67/6.67/6.66 in name order
	assert.Equal(t, "Alice: $13.33\nBob: $3.33\nCarol: -$16.66\n", h.mustRun("balances", "lisbon"))

	trip, err := jsonfile.NewDir(h.cfg.ReportsDir).Load("lisbon")
	require.NoError(t, err)
	require.Len(t, trip.Expenses, 2)
	assert.Equal(t, "Taxi", trip.Expenses[1].Item)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, trip.Expenses[1].SharedBy)
	assert.Equal(t, "2025-06-02", trip.Expenses[1].Date.String())
}

func TestCLI_RemoveExpense(t *testing.T) {
	h := newHarness(t)
	h.seed()

	assert.Equal(t, "Removed expense 0: Dinner\n", h.mustRun("remove", "lisbon", "0"))

	trip, err := jsonfile.NewDir(h.cfg.ReportsDir).Load("lisbon")
	require.NoError(t, err)
	require.Len(t, trip.Expenses, 1)
	assert.Equal(t, "Taxi", trip.Expenses[0].Item)

	assert.Equal(t, "- Carol pays $6.25 to Bob\n", h.mustRun("settle", "lisbon"))
}

func TestCLI_PositionErrors(t *testing.T) {
	h := newHarness(t)
	h.seed()

	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"edit past the end", []string{"edit", "lisbon", "2", "--amount", "5"}, storage.ErrOutOfRange},
		{"remove past the end", []string{"remove", "lisbon", "5"}, storage.ErrOutOfRange},
		{"edit to unknown payer", []string{"edit", "lisbon", "0", "--payer", "Zoe"}, models.ErrUnknownParticipant},
		{"edit missing report", []string{"edit", "porto", "0", "--item", "Tea"}, storage.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.run(tt.args...)
			assert.ErrorIs(t, err, tt.is)
		})
	}

	// failed edits leave the file untouched
	trip, err := jsonfile.NewDir(h.cfg.ReportsDir).Load("lisbon")
	require.NoError(t, err)
	require.Len(t, trip.Expenses, 2)
	assert.Equal(t, "Alice", trip.Expenses[0].Payer)
}

func TestCLI_Export(t *testing.T) {
	h := newHarness(t)
	h.seed()

	output := filepath.Join(t.TempDir(), "lisbon.xlsx")
	assert.Equal(t, "Wrote "+output+"\n", h.mustRun("export", "lisbon", "-o", output))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]))
}

func TestCLI_Import(t *testing.T) {
	h := newHarness(t)
	h.seed()

	out := h.mustRun("import", "lisbon")
	assert.Contains(t, out, "Imported lisbon as trip ")

	store, err := sqlite.New(h.cfg.DBPath)
	require.NoError(t, err)
	defer store.Close()

	trips, err := store.ListTrips(context.Background())
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "lisbon", trips[0].Name)
	assert.Equal(t, 3, trips[0].ParticipantCount)
	assert.Equal(t, 2, trips[0].ExpenseCount)
}

func TestCheckPosition(t *testing.T) {
	trip := &models.Trip{Name: "lisbon", Expenses: make([]models.Expense, 2)}

	assert.NoError(t, checkPosition(trip, 0))
	assert.NoError(t, checkPosition(trip, 1))
	assert.ErrorIs(t, checkPosition(trip, 2), storage.ErrOutOfRange)
	assert.ErrorIs(t, checkPosition(trip, -1), storage.ErrOutOfRange)
}
