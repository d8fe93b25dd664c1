package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/models"
)

// SplitShares divides amount equally among sharedBy in whole cents.
//
// Remainder cents that do not divide evenly go one each to the first sharers
// in ascending name order, so the shares always add up to amount exactly and
// the result does not depend on the order of sharedBy.
//
// Example: 10.00 among [C, A, B] → A: 3.34, B: 3.33, C: 3.33
func SplitShares(amount decimal.Decimal, sharedBy []string) (map[string]decimal.Decimal, error) {
	if len(sharedBy) == 0 {
		return nil, models.ErrNoSharers
	}
	if !models.IsValidAmount(amount) {
		return nil, models.ErrInvalidAmount
	}

	names := make([]string, 0, len(sharedBy))
	seen := make(map[string]bool, len(sharedBy))
	for _, name := range sharedBy {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)

	// Whole cents stay in decimal so no amount overflows an int64.
	cents := amount.Shift(2)
	base, rem := cents.QuoRem(decimal.NewFromInt(int64(len(names))), 0)
	remainder := int(rem.IntPart())

	shares := make(map[string]decimal.Decimal, len(names))
	for i, name := range names {
		c := base
		if i < remainder {
			c = c.Add(decimal.NewFromInt(1))
		}
		shares[name] = c.Shift(-2)
	}
	return shares, nil
}
