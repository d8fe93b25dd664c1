package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance around zero. Balances within it count as settled
// and matches no larger than it are not emitted.
var Epsilon = decimal.New(1, -2)

// Settlement is one directed payment from a debtor to a creditor.
type Settlement struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

type position struct {
	name    string
	balance decimal.Decimal
}

// SimplifyDebts reduces a balance map to a short list of settlements.
//
// Algorithm (greedy two-pointer matching):
//   - sort participants by balance ascending (biggest debtor first, biggest
//     creditor last), ties broken by name
//   - match the debtor at i with the creditor at j and settle
//     min(-debt, credit), rounded to cents, when it exceeds Epsilon
//   - move i once the debtor is at or above -Epsilon and j once the creditor
//     is at or below +Epsilon; both may move in the same step
//   - stop when the cursors meet or the next match does not exceed Epsilon
//
// Residuals of at most Epsilon per debtor (or per creditor) are left
// unsettled. When every balance is within Epsilon of zero the result is
// empty. The result has at most P-1 settlements for P participants with a
// non-zero balance and is identical for identical input.
func SimplifyDebts(balances Balances) []Settlement {
	positions := make([]position, 0, len(balances))
	for name, b := range balances {
		positions = append(positions, position{name: name, balance: b})
	}
	sort.Slice(positions, func(a, b int) bool {
		if c := positions[a].balance.Cmp(positions[b].balance); c != 0 {
			return c < 0
		}
		return positions[a].name < positions[b].name
	})

	settlements := []Settlement{}
	i, j := 0, len(positions)-1
	for i < j {
		debtor, creditor := &positions[i], &positions[j]

		settled := decimal.Min(debtor.balance.Neg(), creditor.balance)
		if settled.LessThanOrEqual(Epsilon) {
			break
		}

		settlements = append(settlements, Settlement{
			From:   debtor.name,
			To:     creditor.name,
			Amount: settled.Round(2),
		})
		debtor.balance = debtor.balance.Add(settled)
		creditor.balance = creditor.balance.Sub(settled)

		if debtor.balance.GreaterThanOrEqual(Epsilon.Neg()) {
			i++
		}
		if creditor.balance.LessThanOrEqual(Epsilon) {
			j--
		}
	}

	return settlements
}
