// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tripsplit/internal/models"
)

var (
	// ErrNotFound is returned when a trip or payment does not exist.
	ErrNotFound = errors.New("not found")

	// ErrOutOfRange is returned when an expense position does not exist.
	ErrOutOfRange = errors.New("expense position out of range")
)

// Store defines the interface for trip storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Expenses are addressed by their zero-based position in the trip's list.
// Edits are whole-record replacements.
type Store interface {
	// CreateTrip persists a new trip with its roster and any expenses.
	// The trip.ID and trip.CreatedAt fields will be populated by the store.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// GetTrip retrieves a trip with its roster and expenses in order.
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// ListTrips returns every trip, newest first.
	ListTrips(ctx context.Context) ([]models.TripSummary, error)

	// UpdateParticipants replaces the roster of a trip.
	UpdateParticipants(ctx context.Context, tripID string, participants []string) error

	// DeleteTrip removes a trip with its expenses and payments.
	DeleteTrip(ctx context.Context, tripID string) error

	// AddExpense appends an expense and returns its position.
	AddExpense(ctx context.Context, tripID string, expense *models.Expense) (int, error)

	// ReplaceExpense overwrites the expense at position.
	ReplaceExpense(ctx context.Context, tripID string, position int, expense *models.Expense) error

	// RemoveExpense deletes the expense at position; later expenses move up.
	RemoveExpense(ctx context.Context, tripID string, position int) error

	// CreatePayment records a settle-up payment.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// ListPayments returns a trip's payments, oldest first.
	ListPayments(ctx context.Context, tripID string) ([]models.Payment, error)

	// DeletePayment removes a payment by ID.
	DeletePayment(ctx context.Context, paymentID string) error

	// Close releases any resources held by the store.
	Close() error
}
