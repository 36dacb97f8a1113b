package funding

import "github.com/shopspring/decimal"

// =============================================================================
// FX TABLE - Fixed cross rates through a reference currency
// =============================================================================

// FxTable maps each currency to the number of reference-currency units one
// unit of it is worth. The reference currency maps to 1.
type FxTable map[Currency]decimal.Decimal

// ReferenceCurrency is the currency every conversion is routed through.
const ReferenceCurrency = PLN

// DefaultRates is the built-in static table (PLN per unit).
var DefaultRates = FxTable{
	PLN: decimal.NewFromInt(1),
	USD: decimal.RequireFromString("3.63"),
	EUR: decimal.RequireFromString("4.25"),
}

// Rate returns the rate for c. A missing or non-positive entry is a
// programming error since the currency set and the table are fixed.
func (t FxTable) Rate(c Currency) decimal.Decimal {
	r, ok := t[c]
	if !ok || !r.IsPositive() {
		panic(&MissingRateError{Currency: c})
	}
	return r
}

// Complete reports whether the table has a usable rate for every currency.
func (t FxTable) Complete() bool {
	for _, c := range Currencies {
		if r, ok := t[c]; !ok || !r.IsPositive() {
			return false
		}
	}
	return true
}

// ToReference converts m into the reference currency.
func (t FxTable) ToReference(m Money) decimal.Decimal {
	return m.Value.Mul(t.Rate(m.Currency))
}

// Convert converts m into currency `to` via the reference currency.
func Convert(m Money, to Currency, rates FxTable) Money {
	if m.Currency == to {
		rates.Rate(to)
		return m
	}
	ref := rates.ToReference(m)
	return Money{Value: ref.Div(rates.Rate(to)), Currency: to}
}

// Total converts every amount independently and sums them in `to`.
func Total(amounts []Money, to Currency, rates FxTable) Money {
	sum := Zero(to)
	for _, m := range amounts {
		sum = sum.Add(Convert(m, to, rates))
	}
	return sum
}
