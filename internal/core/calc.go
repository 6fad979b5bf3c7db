package core

import "math"

// Totals holds the derived amounts for one receipt.
type Totals struct {
	Subtotal Money
	Tax      Money
	Total    Money
}

// LineTotal is quantity times unit price, rounded half-up to whole cents.
// Quantities may be fractional (1.5 hours at $80.00), so this is the first of
// the two places where a float meets money; the other is the tax rate below.
func LineTotal(it ReceiptItem) Money {
	return Money{Cents: roundHalfUp(it.Quantity * float64(it.Price.Cents))}
}

// Subtotal sums the line totals in input order. Addition of cents is exact,
// so item order cannot affect the result.
func (r Receipt) Subtotal() Money {
	var cents int64
	for _, it := range r.Items {
		cents += LineTotal(it).Cents
	}
	return Money{Cents: cents}
}

// ComputeTotals derives subtotal, tax and total. Tax is subtotal times
// TaxRate/100, rounded half-up to whole cents; total = subtotal + tax holds
// exactly by construction.
func (r Receipt) ComputeTotals() Totals {
	sub := r.Subtotal()
	tax := Money{Cents: roundHalfUp(float64(sub.Cents) * r.TaxRate / 100)}
	return Totals{
		Subtotal: sub,
		Tax:      tax,
		Total:    Money{Cents: sub.Cents + tax.Cents},
	}
}

// Total is a shorthand for ComputeTotals().Total.
func (r Receipt) Total() Money {
	return r.ComputeTotals().Total
}

func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
