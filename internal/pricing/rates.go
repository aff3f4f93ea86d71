package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// daysPerPeriod is the length of one billable monthly period.
const daysPerPeriod = 30

// Flat currency-unit discounts applied to the monthly rate once the rental
// reaches the tier threshold. Rentals shorter than one whole period are
// always billed per day at the undiscounted daily rate.
var (
	tierThreeMonthsOff = decimal.NewFromInt(50)
	tierSixMonthsOff   = decimal.NewFromInt(100)
)

// RateQuote is the computed rate breakdown for a rental window.
type RateQuote struct {
	TotalDays          int             `json:"totalDays"`
	Months             int             `json:"months"`
	RemainingDays      int             `json:"remainingDays"`
	MonthlyRateApplied decimal.Decimal `json:"monthlyRateApplied"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Savings            decimal.Decimal `json:"savings"`
}

// Valid reports whether the quote covers at least one billable day.
func (q RateQuote) Valid() bool {
	return q.TotalDays > 0
}

// BillableDays returns the whole-day count between start and end, rounding
// any partial day up. Zero or negative windows yield zero.
func BillableDays(start, end time.Time) int {
	span := end.Sub(start)
	if span <= 0 {
		return 0
	}
	days := int(span / (24 * time.Hour))
	if span%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// MonthlyRate returns the per-period rate after tier discounts. Tier
// boundaries are inclusive at 3 and 6 whole periods.
func MonthlyRate(baseMonthly decimal.Decimal, months int) decimal.Decimal {
	switch {
	case months >= 6:
		return baseMonthly.Sub(tierSixMonthsOff)
	case months >= 3:
		return baseMonthly.Sub(tierThreeMonthsOff)
	default:
		return baseMonthly
	}
}

// Quote computes the rate breakdown for a rental between start and end.
// Callers must treat an invalid quote (TotalDays == 0) as a blocked
// submission; all monetary fields are zero in that case.
func Quote(start, end time.Time, daily, baseMonthly decimal.Decimal) RateQuote {
	totalDays := BillableDays(start, end)
	if totalDays <= 0 {
		return RateQuote{
			MonthlyRateApplied: decimal.Zero,
			Subtotal:           decimal.Zero,
			Savings:            decimal.Zero,
		}
	}

	months := totalDays / daysPerPeriod
	remaining := totalDays % daysPerPeriod
	applied := MonthlyRate(baseMonthly, months)

	q := RateQuote{
		TotalDays:          totalDays,
		Months:             months,
		RemainingDays:      remaining,
		MonthlyRateApplied: applied,
		Savings:            decimal.Zero,
	}
	if months == 0 {
		q.Subtotal = daily.Mul(decimal.NewFromInt(int64(totalDays)))
		return q
	}

	monthsDec := decimal.NewFromInt(int64(months))
	remainingDec := decimal.NewFromInt(int64(remaining))
	q.Subtotal = monthsDec.Mul(applied).Add(remainingDec.Mul(daily))
	undiscounted := monthsDec.Mul(baseMonthly).Add(remainingDec.Mul(daily))
	q.Savings = undiscounted.Sub(q.Subtotal)
	return q
}
