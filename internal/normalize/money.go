package normalize

import "math"

// RoundCents converts a dollar amount to int64 cents, rounding half to even
// so that repeated projections do not drift upward.
func RoundCents(v float64) int64 {
	return int64(math.RoundToEven(v * 100))
}

// CentsToDollars converts int64 cents back to a dollar amount.
func CentsToDollars(c int64) float64 {
	return float64(c) / 100
}
