package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

// TripService implements the Connect TripService: trips, their rosters and
// their expense lists.
type TripService struct {
	apiconnect.UnimplementedTripServiceHandler
	store storage.Store
}

// NewTripService creates a new TripService with the given storage backend.
func NewTripService(store storage.Store) *TripService {
	return &TripService{store: store}
}

// CreateTrip creates a trip with a roster and optional initial expenses.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	slog.Info("CreateTrip request received",
		"name", req.Msg.Name,
		"participants_count", len(req.Msg.Participants),
		"expenses_count", len(req.Msg.Expenses),
	)

	participants, err := models.NormalizeParticipants(req.Msg.Participants)
	if err != nil {
		slog.Error("CreateTrip roster validation failed", "error", err)
		return nil, toConnectError(err)
	}

	expenses, err := toModelExpenses(req.Msg.Expenses, participants)
	if err != nil {
		slog.Error("CreateTrip expense validation failed", "error", err)
		return nil, toConnectError(err)
	}

	trip := &models.Trip{
		Name:         strings.TrimSpace(req.Msg.Name),
		Participants: participants,
		Expenses:     expenses,
	}

	// Save to storage (generates ID, name and CreatedAt)
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		slog.Error("CreateTrip failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Trip created", "trip_id", trip.ID, "name", trip.Name)

	return connect.NewResponse(&api.CreateTripResponse{Trip: toAPITrip(trip)}), nil
}

// GetTrip retrieves a trip with its roster and expenses.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	slog.Info("GetTrip request received", "trip_id", req.Msg.TripID)

	trip, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	slog.Info("GetTrip successful", "trip_id", trip.ID, "expenses_count", len(trip.Expenses))

	return connect.NewResponse(&api.GetTripResponse{Trip: toAPITrip(trip)}), nil
}

// ListTrips returns every trip, newest first.
func (s *TripService) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	slog.Info("ListTrips request received")

	trips, err := s.store.ListTrips(ctx)
	if err != nil {
		slog.Error("ListTrips failed", "error", err)
		return nil, toConnectError(err)
	}

	summaries := make([]api.TripSummary, len(trips))
	for i, t := range trips {
		summaries[i] = api.TripSummary{
			ID:               t.ID,
			Name:             t.Name,
			ParticipantCount: t.ParticipantCount,
			ExpenseCount:     t.ExpenseCount,
			CreatedAt:        t.CreatedAt,
		}
	}

	slog.Info("ListTrips successful", "count", len(trips))

	return connect.NewResponse(&api.ListTripsResponse{Trips: summaries}), nil
}

// UpdateParticipants replaces the roster. A participant still named by an
// expense or a recorded payment cannot be removed.
func (s *TripService) UpdateParticipants(ctx context.Context, req *connect.Request[api.UpdateParticipantsRequest]) (*connect.Response[api.UpdateParticipantsResponse], error) {
	slog.Info("UpdateParticipants request received",
		"trip_id", req.Msg.TripID,
		"participants_count", len(req.Msg.Participants),
	)

	participants, err := models.NormalizeParticipants(req.Msg.Participants)
	if err != nil {
		slog.Error("UpdateParticipants roster validation failed", "error", err)
		return nil, toConnectError(err)
	}

	trip, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	if err := trip.CheckRoster(participants); err != nil {
		slog.Error("UpdateParticipants would orphan an expense", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	payments, err := s.store.ListPayments(ctx, trip.ID)
	if err != nil {
		slog.Error("UpdateParticipants failed to list payments", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	for _, p := range payments {
		if err := p.ValidateFor(participants); err != nil {
			err = fmt.Errorf("%w: payment %s: %v", models.ErrInvalidRoster, p.ID, err)
			slog.Error("UpdateParticipants would orphan a payment", "trip_id", trip.ID, "error", err)
			return nil, toConnectError(err)
		}
	}

	if err := s.store.UpdateParticipants(ctx, trip.ID, participants); err != nil {
		slog.Error("UpdateParticipants failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	trip.Participants = participants

	slog.Info("Participants updated", "trip_id", trip.ID, "participants", participants)

	return connect.NewResponse(&api.UpdateParticipantsResponse{Trip: toAPITrip(trip)}), nil
}

// DeleteTrip removes a trip with its expenses and payments.
func (s *TripService) DeleteTrip(ctx context.Context, req *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	slog.Info("DeleteTrip request received", "trip_id", req.Msg.TripID)

	if err := requireField("trip_id", req.Msg.TripID); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.DeleteTrip(ctx, req.Msg.TripID); err != nil {
		slog.Error("DeleteTrip failed", "trip_id", req.Msg.TripID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Trip deleted", "trip_id", req.Msg.TripID)

	return connect.NewResponse(&api.DeleteTripResponse{}), nil
}

// AddExpense appends an expense to a trip.
func (s *TripService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Info("AddExpense request received", "trip_id", req.Msg.TripID)

	trip, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	expense, err := toModelExpense(req.Msg.Expense, trip.Participants)
	if err != nil {
		slog.Error("AddExpense validation failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	position, err := s.store.AddExpense(ctx, trip.ID, &expense)
	if err != nil {
		slog.Error("AddExpense failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense added",
		"trip_id", trip.ID,
		"position", position,
		"item", expense.Item,
		"amount", expense.Amount.String(),
	)

	out := toAPIExpense(expense)
	return connect.NewResponse(&api.AddExpenseResponse{Position: position, Expense: &out}), nil
}

// ReplaceExpense overwrites the expense at a position.
func (s *TripService) ReplaceExpense(ctx context.Context, req *connect.Request[api.ReplaceExpenseRequest]) (*connect.Response[api.ReplaceExpenseResponse], error) {
	slog.Info("ReplaceExpense request received", "trip_id", req.Msg.TripID, "position", req.Msg.Position)

	trip, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	expense, err := toModelExpense(req.Msg.Expense, trip.Participants)
	if err != nil {
		slog.Error("ReplaceExpense validation failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.ReplaceExpense(ctx, trip.ID, req.Msg.Position, &expense); err != nil {
		slog.Error("ReplaceExpense failed", "trip_id", trip.ID, "position", req.Msg.Position, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense replaced", "trip_id", trip.ID, "position", req.Msg.Position, "expense_id", expense.ID)

	out := toAPIExpense(expense)
	return connect.NewResponse(&api.ReplaceExpenseResponse{Expense: &out}), nil
}

// RemoveExpense deletes the expense at a position; later expenses move up.
func (s *TripService) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	slog.Info("RemoveExpense request received", "trip_id", req.Msg.TripID, "position", req.Msg.Position)

	if err := requireField("trip_id", req.Msg.TripID); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.RemoveExpense(ctx, req.Msg.TripID, req.Msg.Position); err != nil {
		slog.Error("RemoveExpense failed", "trip_id", req.Msg.TripID, "position", req.Msg.Position, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense removed", "trip_id", req.Msg.TripID, "position", req.Msg.Position)

	return connect.NewResponse(&api.RemoveExpenseResponse{}), nil
}

// loadTrip fetches a trip and converts failures to Connect errors.
func loadTrip(ctx context.Context, store storage.Store, tripID string) (*models.Trip, error) {
	if err := requireField("trip_id", tripID); err != nil {
		return nil, toConnectError(err)
	}
	trip, err := store.GetTrip(ctx, tripID)
	if err != nil {
		slog.Error("Failed to get trip", "trip_id", tripID, "error", err)
		return nil, toConnectError(err)
	}
	return trip, nil
}
