package jsonfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

const legacyReport = `{
    "participants": ["Alice", "Bob", "Charlie"],
    "expenses": [
        {
            "item": "Lunch",
            "payer": "Alice",
            "amount": 30.0,
            "shared_by": ["Alice", "Bob", "Charlie"],
            "date": "2025-06-01"
        },
        {
            "item": "Taxi",
            "payer": "Bob",
            "amount": 12.340000000000001,
            "shared_by": ["Bob", "Charlie"],
            "date": "2025-06-02"
        }
    ]
}`

func TestDecode(t *testing.T) {
	trip, err := Decode(strings.NewReader(legacyReport))
	require.NoError(t, err)

	assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, trip.Participants)
	require.Len(t, trip.Expenses, 2)
	assert.Equal(t, "Lunch", trip.Expenses[0].Item)
	assert.True(t, decimal.NewFromInt(30).Equal(trip.Expenses[0].Amount))
	assert.Equal(t, "12.34", trip.Expenses[1].Amount.StringFixed(2))
	assert.Equal(t, "2025-06-02", trip.Expenses[1].Date.String())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "empty shared_by",
			input:   `{"participants":["A"],"expenses":[{"item":"X","payer":"A","amount":5,"shared_by":[],"date":"2025-01-01"}]}`,
			wantErr: models.ErrNoSharers,
		},
		{
			name:    "negative amount",
			input:   `{"participants":["A"],"expenses":[{"item":"X","payer":"A","amount":-5,"shared_by":["A"],"date":"2025-01-01"}]}`,
			wantErr: models.ErrInvalidAmount,
		},
		{
			name:    "duplicate participants",
			input:   `{"participants":["A","A"],"expenses":[]}`,
			wantErr: models.ErrInvalidRoster,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := Decode(strings.NewReader(`{"expenses": [{"date": "01/02/2025"}]}`))
	assert.Error(t, err)
}

func TestDecode_DerivesRoster(t *testing.T) {
	input := `{"expenses":[{"item":"Fuel","payer":"Bob","amount":"20","shared_by":["Alice","Bob"],"date":"2025-03-04"}]}`
	trip, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob", "Alice"}, trip.Participants)
}

func TestEncode_RoundTrip(t *testing.T) {
	e, err := models.NewExpense("Museum", "Alice", decimal.RequireFromString("18.5"), []string{"Alice", "Bob"}, models.NewDate(2025, time.May, 5))
	require.NoError(t, err)
	trip := &models.Trip{Participants: []string{"Alice", "Bob"}, Expenses: []models.Expense{e}}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, trip))
	assert.Contains(t, buf.String(), `"amount": 18.50`)
	assert.Contains(t, buf.String(), `"date": "2025-05-05"`)

	back, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, trip.Participants, back.Participants)
	require.Len(t, back.Expenses, 1)
	assert.True(t, e.Amount.Equal(back.Expenses[0].Amount))
	assert.Equal(t, e.SharedBy, back.Expenses[0].SharedBy)
}

func TestDir(t *testing.T) {
	dir := NewDir(filepath.Join(t.TempDir(), "reports"))

	reports, err := dir.List()
	require.NoError(t, err)
	assert.Empty(t, reports)

	_, err = dir.Load("lisbon")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, dir.Save(&models.Trip{Name: "porto", Participants: []string{"A"}}))
	require.NoError(t, dir.Save(&models.Trip{Name: "lisbon", Participants: []string{"A", "B"}}))
	require.NoError(t, os.WriteFile(filepath.Join(dir.Path, "notes.txt"), []byte("x"), 0644))

	reports, err = dir.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"lisbon", "porto"}, reports)

	trip, err := dir.Load("lisbon")
	require.NoError(t, err)
	assert.Equal(t, "lisbon", trip.Name)
	assert.Equal(t, []string{"A", "B"}, trip.Participants)
	assert.Empty(t, trip.Expenses)

	assert.ErrorIs(t, dir.Save(&models.Trip{Name: "../escape"}), ErrInvalidReportName)
	_, err = dir.Load("")
	assert.ErrorIs(t, err, ErrInvalidReportName)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "expenses_default.json", FileName("default"))
}
