/*
Package funding provides the household funding simulation engine.

PURPOSE:
  Projects whether a household's future payments can be funded on time from
  a fixed monthly allocation and a one-time seed drawn from savings. The
  engine is pure: it consumes plain records and returns a result structure.
  It never touches storage, HTTP or files.

KEY CONCEPTS IN THIS FILE (money.go):
  - Currency: Closed enumeration of supported ISO codes
  - Money: A decimal amount tagged with a currency

PIPELINE:
  1. Expand:    future payments -> dated occurrences (recurrence.go)
  2. Order:     occurrences sorted by plan priority (priority.go)
  3. Simulate:  sequential allocation against a growing pool (simulator.go)
  4. Aggregate: budget, remaining and on-time counts (aggregate.go)

DESIGN PRINCIPLES:
  1. Determinism: the reference date is always an explicit input
  2. Precision: decimal.Decimal for every monetary value
  3. Immutability: inputs are never mutated, outputs are freshly allocated

USAGE:
  engine := funding.NewEngine(funding.DefaultRates, nil)
  result := engine.Run(funding.Input{
      FuturePayments:  payments,
      Plan:            plan,
      DisplayCurrency: funding.PLN,
      HorizonMonths:   24,
      ReferenceDate:   funding.NewDate(2024, time.January, 1),
  })

SEE ALSO:
  - fx.go: Conversion through the reference currency
  - engine.go: Full pipeline
*/
package funding

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CURRENCY - Closed enumeration
// =============================================================================

type Currency string

const (
	PLN Currency = "PLN"
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// Currencies lists every supported currency in display order.
var Currencies = []Currency{PLN, USD, EUR}

// ParseCurrency validates a currency code coming from outside the engine.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Currencies {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
}

func (c Currency) Valid() bool {
	_, err := ParseCurrency(string(c))
	return err == nil
}

// =============================================================================
// MONEY - Decimal value tagged with a currency
// =============================================================================

type Money struct {
	Value    decimal.Decimal
	Currency Currency
}

func NewMoney(value float64, currency Currency) Money {
	return Money{Value: decimal.NewFromFloat(value), Currency: currency}
}

func NewMoneyFromInt(value int64, currency Currency) Money {
	return Money{Value: decimal.NewFromInt(value), Currency: currency}
}

func Zero(currency Currency) Money { return Money{Value: decimal.Zero, Currency: currency} }

func (m Money) Add(b Money) Money            { return Money{Value: m.Value.Add(b.Value), Currency: m.Currency} }
func (m Money) Sub(b Money) Money            { return Money{Value: m.Value.Sub(b.Value), Currency: m.Currency} }
func (m Money) Mul(s decimal.Decimal) Money  { return Money{Value: m.Value.Mul(s), Currency: m.Currency} }
func (m Money) Neg() Money                   { return Money{Value: m.Value.Neg(), Currency: m.Currency} }
func (m Money) IsNegative() bool             { return m.Value.IsNegative() }
func (m Money) IsZero() bool                 { return m.Value.IsZero() }
func (m Money) IsPositive() bool             { return m.Value.IsPositive() }
func (m Money) Round() Money                 { return Money{Value: m.Value.Round(2), Currency: m.Currency} }
func (m Money) Float64() float64             { f, _ := m.Value.Float64(); return f }

// ClampZero returns m, or zero in the same currency when m is negative.
func (m Money) ClampZero() Money {
	if m.IsNegative() {
		return Zero(m.Currency)
	}
	return m
}

func (m Money) String() string {
	return m.Value.StringFixed(2) + " " + string(m.Currency)
}
