package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRoster = errors.New("invalid participant list")

// Trip is an expense report: a roster of participants and the ordered list
// of expenses recorded against it.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// Name is the display name of the report (e.g., "Lisbon 2025").
	Name string

	// Participants is the roster. Every payer and sharer must appear here.
	Participants []string

	// Expenses in the order they were recorded. Edits replace the record at
	// a position.
	Expenses []Expense

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64
}

// TripSummary is the list view of a trip.
type TripSummary struct {
	ID               string
	Name             string
	ParticipantCount int
	ExpenseCount     int
	CreatedAt        int64
}

// NormalizeParticipants trims names and drops empty entries. Duplicate names
// are rejected.
func NormalizeParticipants(names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if seen[n] {
			return nil, fmt.Errorf("%w: duplicate participant %q", ErrInvalidRoster, n)
		}
		seen[n] = true
		out = append(out, n)
	}
	return out, nil
}

// ParseParticipants splits a comma-separated list of names.
func ParseParticipants(s string) ([]string, error) {
	return NormalizeParticipants(strings.Split(s, ","))
}

// HasParticipant reports whether name is on the roster.
func (t *Trip) HasParticipant(name string) bool {
	for _, p := range t.Participants {
		if p == name {
			return true
		}
	}
	return false
}

// CheckRoster verifies that every recorded expense stays valid under the
// given roster, so a participant cannot be removed while still referenced.
func (t *Trip) CheckRoster(participants []string) error {
	for i, e := range t.Expenses {
		if err := e.ValidateFor(participants); err != nil {
			return fmt.Errorf("%w: expense %d (%s): %v", ErrInvalidRoster, i, e.Item, err)
		}
	}
	return nil
}
