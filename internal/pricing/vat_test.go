package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBreakdownFivePercent(t *testing.T) {
	b := Breakdown(decimal.NewFromInt(1000), decimal.NewFromInt(200))
	if !b.VATAmount.Equal(decimal.RequireFromString("60.00")) {
		t.Fatalf("expected VAT 60.00, got %s", b.VATAmount)
	}
	if !b.TotalWithVAT.Equal(decimal.RequireFromString("1260.00")) {
		t.Fatalf("expected total 1260.00, got %s", b.TotalWithVAT)
	}
}

func TestBreakdownSumInvariant(t *testing.T) {
	cases := []struct{ sub, addons string }{
		{"0", "0"},
		{"3500", "0"},
		{"6850", "150"},
		{"13400", "600"},
		{"0.01", "0.01"},
		{"99.99", "33.33"},
		{"12345.67", "890.12"},
	}
	for _, tc := range cases {
		sub := decimal.RequireFromString(tc.sub)
		addons := decimal.RequireFromString(tc.addons)
		b := Breakdown(sub, addons)
		sum := b.Subtotal.Add(b.AddOnsTotal).Add(b.VATAmount)
		if !sum.Equal(b.TotalWithVAT) {
			t.Fatalf("sub=%s addons=%s: %s+%s+%s != %s", tc.sub, tc.addons, b.Subtotal, b.AddOnsTotal, b.VATAmount, b.TotalWithVAT)
		}
		if b.VATAmount.Exponent() < -2 {
			t.Fatalf("sub=%s addons=%s: VAT not rounded to 2dp: %s", tc.sub, tc.addons, b.VATAmount)
		}
	}
}

func TestBreakdownRoundsHalfUp(t *testing.T) {
	// 0.05 * 10.10 = 0.505 which must round to 0.51.
	b := Breakdown(decimal.RequireFromString("10.10"), decimal.Zero)
	if !b.VATAmount.Equal(decimal.RequireFromString("0.51")) {
		t.Fatalf("expected half-up rounding to 0.51, got %s", b.VATAmount)
	}
}

func TestAddOnsTotalWholeMonthsOnly(t *testing.T) {
	addons := []AddOn{
		{ID: "driver", Name: "Additional driver", MonthlyRate: decimal.NewFromInt(150)},
		{ID: "gps", Name: "GPS", MonthlyRate: decimal.NewFromInt(50)},
	}
	if got := AddOnsTotal(addons, 0); !got.IsZero() {
		t.Fatalf("sub-30-day rentals charge no add-ons, got %s", got)
	}
	if got := AddOnsTotal(addons, 2); !got.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("expected 400 over two months, got %s", got)
	}
	if got := AddOnsTotal(nil, 3); !got.IsZero() {
		t.Fatalf("no add-ons means zero, got %s", got)
	}
}
