package pricing

import "github.com/shopspring/decimal"

// VATRate is the flat tax rate applied to the rental plus add-on subtotal.
var VATRate = decimal.New(5, -2) // 0.05

// PriceBreakdown is the final payable composition for a booking. It is
// always derived fresh from its inputs, never mutated in place.
type PriceBreakdown struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	AddOnsTotal  decimal.Decimal `json:"addOnsTotal"`
	VATRate      decimal.Decimal `json:"vatRate"`
	VATAmount    decimal.Decimal `json:"vatAmount"`
	TotalWithVAT decimal.Decimal `json:"totalWithVat"`
}

// Breakdown applies VAT to the combined subtotal. The VAT amount is rounded
// half-up to 2 decimal places; the total is the exact sum of the three
// components so the invariant subtotal+addOns+vat == total always holds.
func Breakdown(subtotal, addOnsTotal decimal.Decimal) PriceBreakdown {
	taxable := subtotal.Add(addOnsTotal)
	vat := taxable.Mul(VATRate).Round(2)
	return PriceBreakdown{
		Subtotal:     subtotal,
		AddOnsTotal:  addOnsTotal,
		VATRate:      VATRate,
		VATAmount:    vat,
		TotalWithVAT: taxable.Add(vat),
	}
}
