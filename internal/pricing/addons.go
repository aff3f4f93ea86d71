package pricing

import "github.com/shopspring/decimal"

// AddOn is an optional service billed per whole monthly period.
type AddOn struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	MonthlyRate decimal.Decimal `json:"monthlyRate"`
}

// AddOnsTotal sums the selected add-ons over the number of whole monthly
// periods. Add-ons bill only for whole months: a rental shorter than one
// period (months == 0) is charged nothing for its add-ons. There is no
// per-day proration.
func AddOnsTotal(addons []AddOn, months int) decimal.Decimal {
	total := decimal.Zero
	if months <= 0 {
		return total
	}
	monthsDec := decimal.NewFromInt(int64(months))
	for _, a := range addons {
		if a.MonthlyRate.IsNegative() {
			continue
		}
		total = total.Add(a.MonthlyRate.Mul(monthsDec))
	}
	return total
}
