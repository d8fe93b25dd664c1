package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripsplit/internal/models"
)

// CreateTrip persists a new trip, its roster and any expenses it carries.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = time.Now().Unix()
	}
	if trip.Name == "" {
		trip.Name = generateName(trip.CreatedAt)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO trips (id, name, created_at) VALUES (?, ?, ?)",
		trip.ID, trip.Name, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	if err := insertParticipants(ctx, tx, trip.ID, trip.Participants); err != nil {
		return err
	}

	for i := range trip.Expenses {
		if err := insertExpense(ctx, tx, trip.ID, i, &trip.Expenses[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTrip retrieves a trip by ID, including its roster and expenses.
func (s *SQLiteStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip := &models.Trip{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM trips WHERE id = ?",
		tripID,
	).Scan(&trip.ID, &trip.Name, &trip.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("trip", tripID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	trip.Participants, err = loadParticipants(ctx, s.db, tripID)
	if err != nil {
		return nil, err
	}

	trip.Expenses, err = loadExpenses(ctx, s.db, tripID)
	if err != nil {
		return nil, err
	}

	return trip, nil
}

// ListTrips returns a summary of every trip, newest first.
func (s *SQLiteStore) ListTrips(ctx context.Context) ([]models.TripSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.created_at,
		       (SELECT COUNT(*) FROM trip_participants p WHERE p.trip_id = t.id),
		       (SELECT COUNT(*) FROM expenses e WHERE e.trip_id = t.id)
		FROM trips t
		ORDER BY t.created_at DESC, t.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []models.TripSummary
	for rows.Next() {
		var t models.TripSummary
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.ParticipantCount, &t.ExpenseCount); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}
	return trips, nil
}

// UpdateParticipants replaces a trip's roster.
func (s *SQLiteStore) UpdateParticipants(ctx context.Context, tripID string, participants []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tripExists(ctx, tx, tripID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM trip_participants WHERE trip_id = ?", tripID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	if err := insertParticipants(ctx, tx, tripID, participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteTrip removes a trip. Expenses and payments go with it.
func (s *SQLiteStore) DeleteTrip(ctx context.Context, tripID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM trips WHERE id = ?", tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if n == 0 {
		return notFound("trip", tripID)
	}
	return nil
}

func tripExists(ctx context.Context, q queryer, tripID string) error {
	var exists int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM trips WHERE id = ?", tripID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("trip", tripID)
	}
	if err != nil {
		return fmt.Errorf("failed to check trip existence: %w", err)
	}
	return nil
}

func insertParticipants(ctx context.Context, q queryer, tripID string, participants []string) error {
	for i, name := range participants {
		_, err := q.ExecContext(ctx,
			"INSERT INTO trip_participants (trip_id, name, ordinal) VALUES (?, ?, ?)",
			tripID, name, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}
	return nil
}

func loadParticipants(ctx context.Context, q queryer, tripID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT name FROM trip_participants WHERE trip_id = ? ORDER BY ordinal",
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	participants := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// generateName creates a default report name from the creation time.
func generateName(createdAt int64) string {
	return fmt.Sprintf("Trip - %s", time.Unix(createdAt, 0).Format("Jan 2, 2006"))
}
