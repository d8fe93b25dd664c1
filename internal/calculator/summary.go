package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/models"
)

// ParticipantSummary is the per-participant reporting row.
type ParticipantSummary struct {
	Participant string
	TotalPaid   decimal.Decimal // Sum of expenses this person paid for
	TotalShare  decimal.Decimal // Sum of this person's shares
	NetBalance  decimal.Decimal // TotalPaid - TotalShare
}

// Summarize builds one row per participant that paid, shared, or appears in
// balances, sorted by name. Values are rounded to cents.
func Summarize(expenses []models.Expense, balances Balances) ([]ParticipantSummary, error) {
	paid := make(map[string]decimal.Decimal)
	share := make(map[string]decimal.Decimal)

	for i, e := range expenses {
		shares, err := SplitShares(e.Amount, e.SharedBy)
		if err != nil {
			return nil, fmt.Errorf("expense %d (%s): %w", i, e.Item, err)
		}
		for name, s := range shares {
			share[name] = share[name].Add(s)
		}
		paid[e.Payer] = paid[e.Payer].Add(e.Amount)
	}

	names := make(map[string]bool)
	for name := range paid {
		names[name] = true
	}
	for name := range share {
		names[name] = true
	}
	for name := range balances {
		names[name] = true
	}

	summaries := make([]ParticipantSummary, 0, len(names))
	for name := range names {
		summaries = append(summaries, ParticipantSummary{
			Participant: name,
			TotalPaid:   paid[name].Round(2),
			TotalShare:  share[name].Round(2),
			NetBalance:  balances[name].Round(2),
		})
	}
	sort.Slice(summaries, func(a, b int) bool {
		return summaries[a].Participant < summaries[b].Participant
	})

	return summaries, nil
}
