package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/models"
)

// Balances maps each participant to a signed net balance.
// Positive = owed money, Negative = owes money.
type Balances map[string]decimal.Decimal

// Sum adds every balance. It is zero for any valid expense list.
func (b Balances) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range b {
		sum = sum.Add(v)
	}
	return sum
}

// Names returns the participants in ascending order.
func (b Balances) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy.
func (b Balances) Clone() Balances {
	out := make(Balances, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// CalculateBalances folds the expense list into a net balance per participant.
//
// Algorithm:
//   - every roster participant starts at zero
//   - for each expense the payer is credited the full amount and every sharer
//     is debited their share (see SplitShares)
//
// Every expense is validated against the roster first. An invalid expense
// aborts the calculation with an error wrapping models.ErrInvalidExpense;
// no partial result is returned. Expense order does not affect the result.
func CalculateBalances(expenses []models.Expense, participants []string) (Balances, error) {
	balances := make(Balances, len(participants))
	for _, p := range participants {
		balances[p] = decimal.Zero
	}

	for i, e := range expenses {
		if err := e.ValidateFor(participants); err != nil {
			return nil, fmt.Errorf("expense %d (%s): %w", i, e.Item, err)
		}
		shares, err := SplitShares(e.Amount, e.SharedBy)
		if err != nil {
			return nil, fmt.Errorf("expense %d (%s): %w", i, e.Item, err)
		}
		for name, share := range shares {
			balances[name] = balances[name].Sub(share)
		}
		balances[e.Payer] = balances[e.Payer].Add(e.Amount)
	}

	return balances, nil
}

// ApplySettlements returns the balances after every settlement has been paid:
// the debtor's balance rises by the amount and the creditor's falls by it.
// The input map is not modified.
func ApplySettlements(balances Balances, settlements []Settlement) Balances {
	out := balances.Clone()
	for _, s := range settlements {
		out[s.From] = out[s.From].Add(s.Amount)
		out[s.To] = out[s.To].Sub(s.Amount)
	}
	return out
}

// ApplyPayments folds recorded settle-up payments into the balances, giving
// the amounts still outstanding.
func ApplyPayments(balances Balances, payments []models.Payment) Balances {
	settlements := make([]Settlement, len(payments))
	for i, p := range payments {
		settlements[i] = Settlement{From: p.From, To: p.To, Amount: p.Amount}
	}
	return ApplySettlements(balances, settlements)
}
