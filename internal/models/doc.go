// Package models defines the core domain models for tripsplit.
//
// # Models
//
//   - Trip: an expense report with a roster of participants and an ordered
//     list of expenses. The expense list is the single source of truth.
//   - Expense: one purchase, paid by a participant and shared equally by a
//     set of participants.
//   - Payment: a settle-up payment the group has already made.
//   - Date: a calendar date without a time of day.
//
// Balances, settlements and summaries are never stored. They are derived from
// a trip on demand by the calculator package.
//
// # Identifiers
//
// Participants are identified by their display name. Names are trimmed and
// must be unique within a trip.
//
// # Validation
//
// Constructors (NewExpense, NewPayment) reject malformed input up front.
// Every rejection wraps one of the sentinel errors (ErrInvalidExpense,
// ErrInvalidPayment, ErrInvalidRoster) so callers can classify it with
// errors.Is.
package models
