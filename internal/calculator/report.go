package calculator

import (
	"fmt"

	"github.com/mmynk/tripsplit/internal/models"
)

// Report is everything derived from a trip's expenses and payments.
type Report struct {
	// Balances from expenses alone.
	Balances Balances

	// Outstanding is Balances after recorded payments.
	Outstanding Balances

	Summaries []ParticipantSummary

	// Settlements that clear Outstanding.
	Settlements []Settlement
}

// Compute derives balances, summaries and settlements in one pass.
// Payments must reference roster participants.
func Compute(expenses []models.Expense, participants []string, payments []models.Payment) (*Report, error) {
	balances, err := CalculateBalances(expenses, participants)
	if err != nil {
		return nil, err
	}

	for i, p := range payments {
		if err := p.ValidateFor(participants); err != nil {
			return nil, fmt.Errorf("payment %d: %w", i, err)
		}
	}
	outstanding := ApplyPayments(balances, payments)

	summaries, err := Summarize(expenses, balances)
	if err != nil {
		return nil, err
	}

	return &Report{
		Balances:    balances,
		Outstanding: outstanding,
		Summaries:   summaries,
		Settlements: SimplifyDebts(outstanding),
	}, nil
}

// Settled reports whether no settlement is needed.
func (r *Report) Settled() bool {
	return len(r.Settlements) == 0
}
