package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidExpense = errors.New("invalid expense")

	ErrEmptyItem          = fmt.Errorf("%w: item is required", ErrInvalidExpense)
	ErrMissingPayer       = fmt.Errorf("%w: payer is required", ErrInvalidExpense)
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be positive with at most two decimal places", ErrInvalidExpense)
	ErrNoSharers          = fmt.Errorf("%w: expense must be shared by at least one participant", ErrInvalidExpense)
	ErrMissingDate        = fmt.Errorf("%w: date is required", ErrInvalidExpense)
	ErrInvalidDate        = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidExpense)
	ErrUnknownParticipant = fmt.Errorf("%w: unknown participant", ErrInvalidExpense)
)

// Expense is a single purchase paid by one participant and split equally
// among SharedBy.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	// Empty until the expense is stored.
	ID string

	// Item is the label of the purchase (e.g., "Lunch", "Taxi").
	Item string

	// Payer is the participant who paid the full amount.
	Payer string

	// Amount is the total paid, in whole cents.
	Amount decimal.Decimal

	// SharedBy is the set of participants splitting the cost. Order does not
	// affect any calculation.
	SharedBy []string

	// Date is the calendar day the expense was incurred.
	Date Date
}

// NewExpense builds a validated expense. Names are trimmed and SharedBy is
// de-duplicated, keeping the first occurrence of each name.
func NewExpense(item, payer string, amount decimal.Decimal, sharedBy []string, date Date) (Expense, error) {
	e := Expense{
		Item:     strings.TrimSpace(item),
		Payer:    strings.TrimSpace(payer),
		Amount:   amount,
		SharedBy: uniqueNames(sharedBy),
		Date:     date,
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// Validate checks the invariants that do not depend on the trip roster.
func (e Expense) Validate() error {
	if e.Item == "" {
		return ErrEmptyItem
	}
	if e.Payer == "" {
		return ErrMissingPayer
	}
	if !IsValidAmount(e.Amount) {
		return fmt.Errorf("%w (got %s)", ErrInvalidAmount, e.Amount)
	}
	if len(e.SharedBy) == 0 {
		return ErrNoSharers
	}
	for _, name := range e.SharedBy {
		if name == "" {
			return ErrNoSharers
		}
	}
	if e.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// ValidateFor checks the expense against a roster: the payer and every
// sharer must be known participants.
func (e Expense) ValidateFor(participants []string) error {
	if err := e.Validate(); err != nil {
		return err
	}
	known := make(map[string]bool, len(participants))
	for _, p := range participants {
		known[p] = true
	}
	if !known[e.Payer] {
		return fmt.Errorf("%w: payer %q", ErrUnknownParticipant, e.Payer)
	}
	for _, name := range e.SharedBy {
		if !known[name] {
			return fmt.Errorf("%w: %q in shared_by", ErrUnknownParticipant, name)
		}
	}
	return nil
}

// Involves reports whether name paid for or shares the expense.
func (e Expense) Involves(name string) bool {
	if e.Payer == name {
		return true
	}
	for _, s := range e.SharedBy {
		if s == name {
			return true
		}
	}
	return false
}

// IsValidAmount reports whether d is a positive amount in whole cents.
func IsValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Round(2).Equal(d)
}

func uniqueNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
