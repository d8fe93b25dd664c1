package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/storage/sqlite"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

type testClients struct {
	trips       apiconnect.TripServiceClient
	settlements apiconnect.SettlementServiceClient
}

// setupTestServer starts both services over a temp SQLite database.
func setupTestServer(t *testing.T) testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	interceptors := connect.WithInterceptors(middleware.LoggingInterceptor())
	tripPath, tripHandler := apiconnect.NewTripServiceHandler(NewTripService(store), interceptors)
	settlementPath, settlementHandler := apiconnect.NewSettlementServiceHandler(NewSettlementService(store), interceptors)

	mux := http.NewServeMux()
	mux.Handle(tripPath, tripHandler)
	mux.Handle(settlementPath, settlementHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return testClients{
		trips:       apiconnect.NewTripServiceClient(http.DefaultClient, server.URL),
		settlements: apiconnect.NewSettlementServiceClient(http.DefaultClient, server.URL),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createTrip(t *testing.T, c testClients, participants ...string) *api.Trip {
	t.Helper()
	resp, err := c.trips.CreateTrip(context.Background(), connect.NewRequest(&api.CreateTripRequest{
		Name:         "Test Trip",
		Participants: participants,
	}))
	require.NoError(t, err)
	return resp.Msg.Trip
}

func addExpense(t *testing.T, c testClients, tripID string, e api.Expense) int {
	t.Helper()
	resp, err := c.trips.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		TripID:  tripID,
		Expense: &e,
	}))
	require.NoError(t, err)
	return resp.Msg.Position
}

func assertCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, connect.CodeOf(err), "error: %v", err)
}

func TestCreateTrip(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	resp, err := c.trips.CreateTrip(ctx, connect.NewRequest(&api.CreateTripRequest{
		Name:         "  Lisbon ",
		Participants: []string{"Alice", " Bob", ""},
		Expenses: []api.Expense{
			{Item: "Lunch", Payer: "Alice", Amount: dec("30"), SharedByAll: true, Date: "2025-06-01"},
		},
	}))
	require.NoError(t, err)

	trip := resp.Msg.Trip
	assert.NotEmpty(t, trip.ID)
	assert.Equal(t, "Lisbon", trip.Name)
	assert.Equal(t, []string{"Alice", "Bob"}, trip.Participants)
	require.Len(t, trip.Expenses, 1)
	assert.Equal(t, []string{"Alice", "Bob"}, trip.Expenses[0].SharedBy)

	got, err := c.trips.GetTrip(ctx, connect.NewRequest(&api.GetTripRequest{TripID: trip.ID}))
	require.NoError(t, err)
	assert.Equal(t, trip.ID, got.Msg.Trip.ID)
	assert.Equal(t, "2025-06-01", got.Msg.Trip.Expenses[0].Date)
}

func TestCreateTrip_InvalidInput(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *api.CreateTripRequest
	}{
		{
			name: "duplicate participant",
			req:  &api.CreateTripRequest{Participants: []string{"A", "A"}},
		},
		{
			name: "unknown payer",
			req: &api.CreateTripRequest{
				Participants: []string{"A"},
				Expenses:     []api.Expense{{Item: "X", Payer: "Z", Amount: dec("1"), SharedBy: []string{"A"}}},
			},
		},
		{
			name: "empty shared_by",
			req: &api.CreateTripRequest{
				Participants: []string{"A"},
				Expenses:     []api.Expense{{Item: "X", Payer: "A", Amount: dec("1")}},
			},
		},
		{
			name: "zero amount",
			req: &api.CreateTripRequest{
				Participants: []string{"A"},
				Expenses:     []api.Expense{{Item: "X", Payer: "A", Amount: dec("0"), SharedBy: []string{"A"}}},
			},
		},
		{
			name: "bad date",
			req: &api.CreateTripRequest{
				Participants: []string{"A"},
				Expenses:     []api.Expense{{Item: "X", Payer: "A", Amount: dec("1"), SharedBy: []string{"A"}, Date: "June 1"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.trips.CreateTrip(ctx, connect.NewRequest(tt.req))
			assertCode(t, connect.CodeInvalidArgument, err)
		})
	}
}

func TestGetTrip_NotFound(t *testing.T) {
	c := setupTestServer(t)

	_, err := c.trips.GetTrip(context.Background(), connect.NewRequest(&api.GetTripRequest{TripID: "missing"}))
	assertCode(t, connect.CodeNotFound, err)

	_, err = c.trips.GetTrip(context.Background(), connect.NewRequest(&api.GetTripRequest{}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestExpenseEditing(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	trip := createTrip(t, c, "A", "B", "C")

	assert.Equal(t, 0, addExpense(t, c, trip.ID, api.Expense{Item: "Lunch", Payer: "A", Amount: dec("30"), SharedByAll: true}))
	assert.Equal(t, 1, addExpense(t, c, trip.ID, api.Expense{Item: "Taxi", Payer: "B", Amount: dec("12"), SharedBy: []string{"B", "C"}}))
	assert.Equal(t, 2, addExpense(t, c, trip.ID, api.Expense{Item: "Museum", Payer: "C", Amount: dec("9"), SharedBy: []string{"C"}}))

	t.Run("empty date defaults to today", func(t *testing.T) {
		got, err := c.trips.GetTrip(ctx, connect.NewRequest(&api.GetTripRequest{TripID: trip.ID}))
		require.NoError(t, err)
		assert.NotEmpty(t, got.Msg.Trip.Expenses[0].Date)
	})

	t.Run("replace at position", func(t *testing.T) {
		_, err := c.trips.ReplaceExpense(ctx, connect.NewRequest(&api.ReplaceExpenseRequest{
			TripID:   trip.ID,
			Position: 1,
			Expense:  &api.Expense{Item: "Taxi", Payer: "B", Amount: dec("15"), SharedBy: []string{"A", "B", "C"}, Date: "2025-06-02"},
		}))
		require.NoError(t, err)

		got, err := c.trips.GetTrip(ctx, connect.NewRequest(&api.GetTripRequest{TripID: trip.ID}))
		require.NoError(t, err)
		assert.True(t, dec("15").Equal(got.Msg.Trip.Expenses[1].Amount))
		assert.Equal(t, []string{"A", "B", "C"}, got.Msg.Trip.Expenses[1].SharedBy)
	})

	t.Run("remove at position", func(t *testing.T) {
		_, err := c.trips.RemoveExpense(ctx, connect.NewRequest(&api.RemoveExpenseRequest{TripID: trip.ID, Position: 0}))
		require.NoError(t, err)

		got, err := c.trips.GetTrip(ctx, connect.NewRequest(&api.GetTripRequest{TripID: trip.ID}))
		require.NoError(t, err)
		require.Len(t, got.Msg.Trip.Expenses, 2)
		assert.Equal(t, "Taxi", got.Msg.Trip.Expenses[0].Item)
		assert.Equal(t, "Museum", got.Msg.Trip.Expenses[1].Item)
	})

	t.Run("position out of range", func(t *testing.T) {
		_, err := c.trips.RemoveExpense(ctx, connect.NewRequest(&api.RemoveExpenseRequest{TripID: trip.ID, Position: 5}))
		assertCode(t, connect.CodeOutOfRange, err)

		_, err = c.trips.ReplaceExpense(ctx, connect.NewRequest(&api.ReplaceExpenseRequest{
			TripID:   trip.ID,
			Position: 2,
			Expense:  &api.Expense{Item: "X", Payer: "A", Amount: dec("1"), SharedBy: []string{"A"}},
		}))
		assertCode(t, connect.CodeOutOfRange, err)
	})

	t.Run("unknown sharer rejected", func(t *testing.T) {
		_, err := c.trips.AddExpense(ctx, connect.NewRequest(&api.AddExpenseRequest{
			TripID:  trip.ID,
			Expense: &api.Expense{Item: "X", Payer: "A", Amount: dec("1"), SharedBy: []string{"Zed"}},
		}))
		assertCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("missing expense rejected", func(t *testing.T) {
		_, err := c.trips.AddExpense(ctx, connect.NewRequest(&api.AddExpenseRequest{TripID: trip.ID}))
		assertCode(t, connect.CodeInvalidArgument, err)
	})
}

func TestUpdateParticipants(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	trip := createTrip(t, c, "A", "B")
	addExpense(t, c, trip.ID, api.Expense{Item: "Fuel", Payer: "A", Amount: dec("20"), SharedBy: []string{"A", "B"}})

	resp, err := c.trips.UpdateParticipants(ctx, connect.NewRequest(&api.UpdateParticipantsRequest{
		TripID:       trip.ID,
		Participants: []string{"A", "B", "C"},
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, resp.Msg.Trip.Participants)

	_, err = c.trips.UpdateParticipants(ctx, connect.NewRequest(&api.UpdateParticipantsRequest{
		TripID:       trip.ID,
		Participants: []string{"A", "C"},
	}))
	assertCode(t, connect.CodeInvalidArgument, err)

	_, err = c.settlements.RecordPayment(ctx, connect.NewRequest(&api.RecordPaymentRequest{
		TripID: trip.ID, From: "C", To: "A", Amount: dec("1"),
	}))
	require.NoError(t, err)

	_, err = c.trips.UpdateParticipants(ctx, connect.NewRequest(&api.UpdateParticipantsRequest{
		TripID:       trip.ID,
		Participants: []string{"A", "B"},
	}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestListAndDeleteTrips(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	first := createTrip(t, c, "A")
	createTrip(t, c, "B", "C")

	resp, err := c.trips.ListTrips(ctx, connect.NewRequest(&api.ListTripsRequest{}))
	require.NoError(t, err)
	assert.Len(t, resp.Msg.Trips, 2)

	_, err = c.trips.DeleteTrip(ctx, connect.NewRequest(&api.DeleteTripRequest{TripID: first.ID}))
	require.NoError(t, err)

	_, err = c.trips.DeleteTrip(ctx, connect.NewRequest(&api.DeleteTripRequest{TripID: first.ID}))
	assertCode(t, connect.CodeNotFound, err)

	resp, err = c.trips.ListTrips(ctx, connect.NewRequest(&api.ListTripsRequest{}))
	require.NoError(t, err)
	assert.Len(t, resp.Msg.Trips, 1)
}

func TestCalculateSettlement(t *testing.T) {
	c := setupTestServer(t)

	tests := []struct {
		name            string
		req             *api.CalculateSettlementRequest
		wantBalances    map[string]string
		wantSettlements []api.Settlement
	}{
		{
			name: "one payer for three",
			req: &api.CalculateSettlementRequest{
				Participants: []string{"A", "B", "C"},
				Expenses: []api.Expense{
					{Item: "Lunch", Payer: "A", Amount: dec("30.00"), SharedBy: []string{"A", "B", "C"}, Date: "2025-06-01"},
				},
			},
			wantBalances: map[string]string{"A": "20", "B": "-10", "C": "-10"},
			wantSettlements: []api.Settlement{
				{From: "B", To: "A", Amount: dec("10")},
				{From: "C", To: "A", Amount: dec("10")},
			},
		},
		{
			name: "two payers",
			req: &api.CalculateSettlementRequest{
				Participants: []string{"A", "B"},
				Expenses: []api.Expense{
					{Item: "Hotel", Payer: "A", Amount: dec("60"), SharedByAll: true, Date: "2025-06-01"},
					{Item: "Dinner", Payer: "B", Amount: dec("40"), SharedByAll: true, Date: "2025-06-01"},
				},
			},
			wantBalances: map[string]string{"A": "10", "B": "-10"},
			wantSettlements: []api.Settlement{
				{From: "B", To: "A", Amount: dec("10")},
			},
		},
		{
			name: "payment clears the debt",
			req: &api.CalculateSettlementRequest{
				Participants: []string{"A", "B"},
				Expenses: []api.Expense{
					{Item: "Hotel", Payer: "A", Amount: dec("60"), SharedByAll: true, Date: "2025-06-01"},
				},
				Payments: []api.Payment{{From: "B", To: "A", Amount: dec("30")}},
			},
			wantBalances:    map[string]string{"A": "30", "B": "-30"},
			wantSettlements: []api.Settlement{},
		},
		{
			name:            "no expenses",
			req:             &api.CalculateSettlementRequest{},
			wantBalances:    map[string]string{},
			wantSettlements: []api.Settlement{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.settlements.CalculateSettlement(context.Background(), connect.NewRequest(tt.req))
			require.NoError(t, err)
			report := resp.Msg.Report

			require.Len(t, report.Balances, len(tt.wantBalances))
			for _, b := range report.Balances {
				assert.True(t, dec(tt.wantBalances[b.Participant]).Equal(b.Amount), "%s: got %s", b.Participant, b.Amount)
			}

			require.Len(t, report.Settlements, len(tt.wantSettlements))
			for i, want := range tt.wantSettlements {
				got := report.Settlements[i]
				assert.Equal(t, want.From, got.From)
				assert.Equal(t, want.To, got.To)
				assert.True(t, want.Amount.Equal(got.Amount), "settlement %d: got %s", i, got.Amount)
			}
			assert.Equal(t, len(tt.wantSettlements) == 0, report.Settled)
		})
	}
}

func TestCalculateSettlement_InvalidPayment(t *testing.T) {
	c := setupTestServer(t)

	_, err := c.settlements.CalculateSettlement(context.Background(), connect.NewRequest(&api.CalculateSettlementRequest{
		Participants: []string{"A", "B"},
		Payments:     []api.Payment{{From: "A", To: "Z", Amount: dec("5")}},
	}))
	assertCode(t, connect.CodeInvalidArgument, err)

	_, err = c.settlements.CalculateSettlement(context.Background(), connect.NewRequest(&api.CalculateSettlementRequest{
		Participants: []string{"A", "B"},
		Payments:     []api.Payment{{From: "A", To: "A", Amount: dec("5")}},
	}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestPayments(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	trip := createTrip(t, c, "A", "B", "C")
	addExpense(t, c, trip.ID, api.Expense{Item: "Lunch", Payer: "A", Amount: dec("30"), SharedByAll: true})

	before, err := c.settlements.GetSettlement(ctx, connect.NewRequest(&api.GetSettlementRequest{TripID: trip.ID}))
	require.NoError(t, err)
	require.Len(t, before.Msg.Report.Settlements, 2)

	recorded, err := c.settlements.RecordPayment(ctx, connect.NewRequest(&api.RecordPaymentRequest{
		TripID: trip.ID, From: "B", To: "A", Amount: dec("10"), Note: "cash",
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, recorded.Msg.Payment.ID)

	report := recorded.Msg.Report
	require.Len(t, report.Settlements, 1)
	assert.Equal(t, "C", report.Settlements[0].From)
	assert.Equal(t, "A", report.Settlements[0].To)
	for _, b := range report.Outstanding {
		if b.Participant == "B" {
			assert.True(t, b.Amount.IsZero())
		}
	}

	list, err := c.settlements.ListPayments(ctx, connect.NewRequest(&api.ListPaymentsRequest{TripID: trip.ID}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Payments, 1)
	assert.Equal(t, "cash", list.Msg.Payments[0].Note)

	_, err = c.settlements.DeletePayment(ctx, connect.NewRequest(&api.DeletePaymentRequest{PaymentID: recorded.Msg.Payment.ID}))
	require.NoError(t, err)

	after, err := c.settlements.GetSettlement(ctx, connect.NewRequest(&api.GetSettlementRequest{TripID: trip.ID}))
	require.NoError(t, err)
	assert.Len(t, after.Msg.Report.Settlements, 2)

	_, err = c.settlements.DeletePayment(ctx, connect.NewRequest(&api.DeletePaymentRequest{PaymentID: recorded.Msg.Payment.ID}))
	assertCode(t, connect.CodeNotFound, err)

	_, err = c.settlements.RecordPayment(ctx, connect.NewRequest(&api.RecordPaymentRequest{
		TripID: trip.ID, From: "B", To: "Nobody", Amount: dec("1"),
	}))
	assertCode(t, connect.CodeInvalidArgument, err)

	_, err = c.settlements.RecordPayment(ctx, connect.NewRequest(&api.RecordPaymentRequest{
		TripID: trip.ID, From: "B", To: "A", Amount: dec("1.001"),
	}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestExportReport(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	trip := createTrip(t, c, "A", "B")
	addExpense(t, c, trip.ID, api.Expense{Item: "Fuel", Payer: "A", Amount: dec("20"), SharedByAll: true})

	resp, err := c.settlements.ExportReport(ctx, connect.NewRequest(&api.ExportReportRequest{TripID: trip.ID}))
	require.NoError(t, err)

	assert.Equal(t, "Test_Trip_expense_report.xlsx", resp.Msg.Filename)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Msg.ContentType)
	// xlsx files are zip archives.
	require.Greater(t, len(resp.Msg.Data), 4)
	assert.Equal(t, "PK", string(resp.Msg.Data[:2]))

	_, err = c.settlements.ExportReport(ctx, connect.NewRequest(&api.ExportReportRequest{TripID: "missing"}))
	assertCode(t, connect.CodeNotFound, err)
}

func TestReportFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Lisbon 2025", "Lisbon_2025_expense_report.xlsx"},
		{"../../etc", "etc_expense_report.xlsx"},
		{"", "trip_expense_report.xlsx"},
		{"  ", "trip_expense_report.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ReportFilename(tt.in))
		})
	}
}
