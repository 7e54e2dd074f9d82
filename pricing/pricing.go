// Package pricing is the single place where subtotal, shipping fee and
// total are computed. Every cart read, checkout and order projection goes
// through ComputeTotals; no other package re-derives the formula.
package pricing

import "github.com/shopspring/decimal"

// Business constants in DT with millime precision. Candidates for
// externalized configuration, kept as constants until someone asks.
var (
	FreeShippingThreshold = decimal.NewFromInt(250)
	StandardShippingFee   = decimal.NewFromInt(7)
)

// Line is one priced cart or order line.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Total       decimal.Decimal `json:"total"`
}

// ComputeTotals sums the lines and applies the shipping rule: shipping is
// waived only when the subtotal strictly exceeds the threshold. An empty
// line set still pays the full fee.
func ComputeTotals(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	subtotal = subtotal.Round(3)

	fee := StandardShippingFee
	if subtotal.GreaterThan(FreeShippingThreshold) {
		fee = decimal.Zero
	}

	return Totals{
		Subtotal:    subtotal,
		ShippingFee: fee,
		Total:       subtotal.Add(fee),
	}
}
