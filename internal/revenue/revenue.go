// Package revenue projects reimbursement from a case-mix index and the
// facility's base daily rate.
package revenue

import (
	"github.com/Efenterprise/serene-care-flow-sub003/internal/normalize"
)

// DaysPerMonth is the fixed billing month; projections are not calendar-aware.
const DaysPerMonth = 30

// Projection holds projected revenue in cents.
type Projection struct {
	BaseRateCents       int64
	DailyRateCents      int64
	MonthlyRevenueCents int64
}

// Project computes daily = base × cmi, rounded half-to-even to the cent, and
// monthly = daily × 30 on the rounded daily figure, so the monthly amount is
// always an exact multiple of what is billed per day.
func Project(caseMixIndex, baseRate float64) Projection {
	daily := normalize.RoundCents(baseRate * caseMixIndex)
	return Projection{
		BaseRateCents:       normalize.RoundCents(baseRate),
		DailyRateCents:      daily,
		MonthlyRevenueCents: daily * DaysPerMonth,
	}
}

// DailyRate returns the projected daily rate in currency units.
func (p Projection) DailyRate() float64 { return normalize.CentsToDollars(p.DailyRateCents) }

// MonthlyRevenue returns the projected monthly revenue in currency units.
func (p Projection) MonthlyRevenue() float64 {
	return normalize.CentsToDollars(p.MonthlyRevenueCents)
}
