package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripsplit/internal/models"
)

// CreatePayment persists a new settle-up payment.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if err := tripExists(ctx, s.db, payment.TripID); err != nil {
		return err
	}

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}

	var note interface{} = nil
	if payment.Note != "" {
		note = payment.Note
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (id, trip_id, from_participant, to_participant, amount, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.TripID, payment.From, payment.To,
		payment.Amount.String(), note, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

// ListPayments retrieves all payments for a trip in the order they were made.
func (s *SQLiteStore) ListPayments(ctx context.Context, tripID string) ([]models.Payment, error) {
	if err := tripExists(ctx, s.db, tripID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trip_id, from_participant, to_participant, amount, note, created_at
		 FROM payments WHERE trip_id = ? ORDER BY created_at, rowid`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		var note sql.NullString

		if err := rows.Scan(&p.ID, &p.TripID, &p.From, &p.To, &p.Amount, &note, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}

		if note.Valid {
			p.Note = note.String
		}

		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

// DeletePayment removes a payment by ID.
func (s *SQLiteStore) DeletePayment(ctx context.Context, paymentID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM payments WHERE id = ?", paymentID)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	if n == 0 {
		return notFound("payment", paymentID)
	}
	return nil
}
