package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var (
	daily   = decimal.NewFromInt(100)
	monthly = decimal.NewFromInt(2000)
)

func day(n int) time.Time {
	return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestQuoteShortRentalNoDiscount(t *testing.T) {
	for _, days := range []int{1, 7, 29} {
		q := Quote(day(0), day(days), daily, monthly)
		if q.Months != 0 {
			t.Fatalf("days=%d: expected 0 months, got %d", days, q.Months)
		}
		want := daily.Mul(decimal.NewFromInt(int64(days)))
		if !q.Subtotal.Equal(want) {
			t.Fatalf("days=%d: expected subtotal %s, got %s", days, want, q.Subtotal)
		}
		if !q.Savings.IsZero() {
			t.Fatalf("days=%d: expected zero savings, got %s", days, q.Savings)
		}
	}
}

func TestQuoteFortyFiveDays(t *testing.T) {
	q := Quote(day(0), day(45), daily, monthly)
	if q.Months != 1 || q.RemainingDays != 15 {
		t.Fatalf("expected 1 month + 15 days, got %d + %d", q.Months, q.RemainingDays)
	}
	if !q.MonthlyRateApplied.Equal(monthly) {
		t.Fatalf("expected undiscounted monthly rate, got %s", q.MonthlyRateApplied)
	}
	if !q.Subtotal.Equal(decimal.NewFromInt(3500)) {
		t.Fatalf("expected subtotal 3500, got %s", q.Subtotal)
	}
}

func TestQuoteHundredDaysThreeMonthTier(t *testing.T) {
	q := Quote(day(0), day(100), daily, monthly)
	if q.Months != 3 || q.RemainingDays != 10 {
		t.Fatalf("expected 3 months + 10 days, got %d + %d", q.Months, q.RemainingDays)
	}
	if !q.MonthlyRateApplied.Equal(decimal.NewFromInt(1950)) {
		t.Fatalf("expected monthly rate 1950, got %s", q.MonthlyRateApplied)
	}
	if !q.Subtotal.Equal(decimal.NewFromInt(6850)) {
		t.Fatalf("expected subtotal 6850, got %s", q.Subtotal)
	}
	if !q.Savings.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected savings 150, got %s", q.Savings)
	}
}

func TestQuoteTwoHundredDaysSixMonthTier(t *testing.T) {
	q := Quote(day(0), day(200), daily, monthly)
	if q.Months != 6 || q.RemainingDays != 20 {
		t.Fatalf("expected 6 months + 20 days, got %d + %d", q.Months, q.RemainingDays)
	}
	if !q.MonthlyRateApplied.Equal(decimal.NewFromInt(1900)) {
		t.Fatalf("expected monthly rate 1900, got %s", q.MonthlyRateApplied)
	}
	if !q.Subtotal.Equal(decimal.NewFromInt(13400)) {
		t.Fatalf("expected subtotal 13400, got %s", q.Subtotal)
	}
}

func TestQuoteTierBoundariesInclusive(t *testing.T) {
	if rate := MonthlyRate(monthly, 3); !rate.Equal(decimal.NewFromInt(1950)) {
		t.Fatalf("3 months should hit first tier, got %s", rate)
	}
	if rate := MonthlyRate(monthly, 5); !rate.Equal(decimal.NewFromInt(1950)) {
		t.Fatalf("5 months should stay on first tier, got %s", rate)
	}
	if rate := MonthlyRate(monthly, 6); !rate.Equal(decimal.NewFromInt(1900)) {
		t.Fatalf("6 months should hit second tier, got %s", rate)
	}
	if rate := MonthlyRate(monthly, 2); !rate.Equal(monthly) {
		t.Fatalf("2 months should be undiscounted, got %s", rate)
	}
}

func TestQuoteInvariantDayDecomposition(t *testing.T) {
	for days := 1; days <= 400; days++ {
		q := Quote(day(0), day(days), daily, monthly)
		if q.Months*30+q.RemainingDays != q.TotalDays {
			t.Fatalf("days=%d: decomposition broken: %d*30+%d != %d", days, q.Months, q.RemainingDays, q.TotalDays)
		}
		if q.RemainingDays < 0 || q.RemainingDays > 29 {
			t.Fatalf("days=%d: remaining days out of range: %d", days, q.RemainingDays)
		}
	}
}

func TestQuoteInvalidWindow(t *testing.T) {
	q := Quote(day(5), day(5), daily, monthly)
	if q.Valid() {
		t.Fatal("zero-length window must be invalid")
	}
	q = Quote(day(5), day(1), daily, monthly)
	if q.Valid() || !q.Subtotal.IsZero() {
		t.Fatalf("reversed window must be zeroed, got %+v", q)
	}
}

func TestBillableDaysCeiling(t *testing.T) {
	start := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour + time.Minute)
	if got := BillableDays(start, end); got != 2 {
		t.Fatalf("partial day must round up, got %d", got)
	}
	if got := BillableDays(start, start.Add(24*time.Hour)); got != 1 {
		t.Fatalf("exact day must not round up, got %d", got)
	}
}
