package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// AddExpense appends an expense to the end of a trip's list and returns its
// position.
func (s *SQLiteStore) AddExpense(ctx context.Context, tripID string, expense *models.Expense) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tripExists(ctx, tx, tripID); err != nil {
		return 0, err
	}

	position, err := countExpenses(ctx, tx, tripID)
	if err != nil {
		return 0, err
	}

	if err := insertExpense(ctx, tx, tripID, position, expense); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return position, nil
}

// ReplaceExpense overwrites the expense at position. The stored ID is kept.
func (s *SQLiteStore) ReplaceExpense(ctx context.Context, tripID string, position int, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	expenseID, err := expenseAt(ctx, tx, tripID, position)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE expenses SET item = ?, payer = ?, amount = ?, spent_on = ? WHERE id = ?",
		expense.Item, expense.Payer, expense.Amount.String(), expense.Date.String(), expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_sharers WHERE expense_id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to clear sharers: %w", err)
	}
	if err := insertSharers(ctx, tx, expenseID, expense.SharedBy); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	expense.ID = expenseID
	return nil
}

// RemoveExpense deletes the expense at position and shifts every later
// expense up by one.
func (s *SQLiteStore) RemoveExpense(ctx context.Context, tripID string, position int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	expenseID, err := expenseAt(ctx, tx, tripID, position)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE expenses SET position = position - 1 WHERE trip_id = ? AND position > ?",
		tripID, position,
	)
	if err != nil {
		return fmt.Errorf("failed to reorder expenses: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// expenseAt resolves a position to an expense ID, distinguishing a missing
// trip from a position outside the list.
func expenseAt(ctx context.Context, q queryer, tripID string, position int) (string, error) {
	if err := tripExists(ctx, q, tripID); err != nil {
		return "", err
	}

	var id string
	err := q.QueryRowContext(ctx,
		"SELECT id FROM expenses WHERE trip_id = ? AND position = ?",
		tripID, position,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %d", storage.ErrOutOfRange, position)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get expense: %w", err)
	}
	return id, nil
}

func countExpenses(ctx context.Context, q queryer, tripID string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM expenses WHERE trip_id = ?", tripID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return n, nil
}

func insertExpense(ctx context.Context, q queryer, tripID string, position int, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO expenses (id, trip_id, position, item, payer, amount, spent_on)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, tripID, position, expense.Item, expense.Payer,
		expense.Amount.String(), expense.Date.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	return insertSharers(ctx, q, expense.ID, expense.SharedBy)
}

func insertSharers(ctx context.Context, q queryer, expenseID string, sharedBy []string) error {
	for i, name := range sharedBy {
		_, err := q.ExecContext(ctx,
			"INSERT INTO expense_sharers (expense_id, participant, ordinal) VALUES (?, ?, ?)",
			expenseID, name, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert sharer: %w", err)
		}
	}
	return nil
}

// loadExpenses reads a trip's expenses in list order. Sharers are fetched
// after the expense rows are closed.
func loadExpenses(ctx context.Context, q queryer, tripID string) ([]models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, item, payer, amount, spent_on
		 FROM expenses WHERE trip_id = ? ORDER BY position`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		var spentOn string
		if err := rows.Scan(&e.ID, &e.Item, &e.Payer, &e.Amount, &spentOn); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Date, err = models.ParseDate(spentOn)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to parse expense date: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	for i := range expenses {
		expenses[i].SharedBy, err = loadSharers(ctx, q, expenses[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

func loadSharers(ctx context.Context, q queryer, expenseID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT participant FROM expense_sharers WHERE expense_id = ? ORDER BY ordinal",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get sharers: %w", err)
	}
	defer rows.Close()

	var sharers []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan sharer: %w", err)
		}
		sharers = append(sharers, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sharers: %w", err)
	}
	return sharers, nil
}
