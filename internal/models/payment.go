package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidPayment = errors.New("invalid payment")

// Payment records money one participant has already handed to another to
// settle up. Payments reduce outstanding balances.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// TripID is the trip this payment belongs to.
	TripID string

	// From is the participant who paid (debtor settling up).
	From string

	// To is the participant who received the money (creditor being paid).
	To string

	// Amount is the payment amount in whole cents.
	Amount decimal.Decimal

	// Note is an optional description.
	Note string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}

// NewPayment builds a validated payment.
func NewPayment(from, to string, amount decimal.Decimal, note string) (Payment, error) {
	p := Payment{
		From:   strings.TrimSpace(from),
		To:     strings.TrimSpace(to),
		Amount: amount,
		Note:   strings.TrimSpace(note),
	}
	if p.From == "" || p.To == "" {
		return Payment{}, fmt.Errorf("%w: from and to are required", ErrInvalidPayment)
	}
	if p.From == p.To {
		return Payment{}, fmt.Errorf("%w: %q cannot pay themselves", ErrInvalidPayment, p.From)
	}
	if !IsValidAmount(amount) {
		return Payment{}, fmt.Errorf("%w: amount must be positive with at most two decimal places (got %s)", ErrInvalidPayment, amount)
	}
	return p, nil
}

// ValidateFor checks that both sides of the payment are on the roster.
func (p Payment) ValidateFor(participants []string) error {
	var fromOK, toOK bool
	for _, name := range participants {
		fromOK = fromOK || name == p.From
		toOK = toOK || name == p.To
	}
	if !fromOK {
		return fmt.Errorf("%w: unknown participant %q", ErrInvalidPayment, p.From)
	}
	if !toOK {
		return fmt.Errorf("%w: unknown participant %q", ErrInvalidPayment, p.To)
	}
	return nil
}
