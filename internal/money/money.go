// Package money holds the shared currency arithmetic rules. Amounts are
// decimal values, never binary floats; the only approximation in the system
// is the write-time rounding tolerance for share splits.
package money

import "github.com/shopspring/decimal"

// Tolerance absorbs rounding from unequal splits (e.g. 10.00 divided three
// ways). Share sums within this distance of the expense total are balanced;
// net balances within it are settled.
var Tolerance = decimal.New(1, -2) // 0.01

// Settled reports whether a net balance is close enough to zero to be
// treated as cleared.
func Settled(d decimal.Decimal) bool {
	return d.Abs().LessThan(Tolerance)
}

// SumMatches reports whether the share amounts add up to total within
// Tolerance.
func SumMatches(total decimal.Decimal, shares []decimal.Decimal) bool {
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s)
	}
	return sum.Sub(total).Abs().LessThanOrEqual(Tolerance)
}
