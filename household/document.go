/*
document.go - Import/export document and legacy shape migration

PURPOSE:
  The whole household is exported as one JSON document for backup and
  restore. Documents written by older versions used different field names,
  so decoding goes through a migration step that maps every known shape to
  the current State and substitutes defaults field by field.

CURRENT SHAPE (version 5):
  {
    "version": 5,
    "earnings":       [{"id": "e1", "source": "Salary", "amount": {"value": 9000, "currency": "PLN"}}],
    "expenses":       [{"id": "x1", "name": "Rent", "amount": {...}}],
    "savings":        [{"id": "s1", "name": "Checking", "amount": {...}}],
    "futurePayments": [{"id": "f1", "name": "Insurance", "amount": {...},
                        "dueDate": "2024-07-01", "recurrence": "yearly"}],
    "plan": {
      "futurePaymentPerMonth":    {"value": 1500, "currency": "PLN"},
      "priority":                 "dueDate",
      "customFuturePaymentOrder": ["f1"],
      "seedSavingsIds":           ["s1"]
    }
  }

LEGACY FIELDS (versions 2-4):
  debts            -> futurePayments
  debtPerMonth     -> plan allocation
  customDebtOrder  -> plan custom order
  label / name     -> earning source

RECOVERY RULES:
  - Unknown fields are ignored
  - Missing plan fields take DefaultPlan values, invalid priority -> dueDate
  - Missing recurrence -> once
  - Records with an unknown currency or non-numeric value are dropped
  - Records without an id get a fresh one
  - Numbers may be float64 (JSON) or int (YAML)
*/
package household

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/warp/household-planner/funding"
)

// DocumentVersion is written into every exported document.
const DocumentVersion = 5

// =============================================================================
// CURRENT SHAPE
// =============================================================================

type Document struct {
	Version        int                 `json:"version" yaml:"version"`
	Earnings       []EarningJSON       `json:"earnings" yaml:"earnings"`
	Expenses       []ExpenseJSON       `json:"expenses" yaml:"expenses"`
	Savings        []SavingJSON        `json:"savings" yaml:"savings"`
	FuturePayments []FuturePaymentJSON `json:"futurePayments" yaml:"futurePayments"`
	Plan           PlanJSON            `json:"plan" yaml:"plan"`
}

type MoneyJSON struct {
	Value    float64 `json:"value" yaml:"value"`
	Currency string  `json:"currency" yaml:"currency"`
}

type EarningJSON struct {
	ID     string    `json:"id" yaml:"id"`
	Source string    `json:"source" yaml:"source"`
	Amount MoneyJSON `json:"amount" yaml:"amount"`
}

type ExpenseJSON struct {
	ID     string    `json:"id" yaml:"id"`
	Name   string    `json:"name" yaml:"name"`
	Amount MoneyJSON `json:"amount" yaml:"amount"`
}

type SavingJSON struct {
	ID     string    `json:"id" yaml:"id"`
	Name   string    `json:"name" yaml:"name"`
	Amount MoneyJSON `json:"amount" yaml:"amount"`
}

type FuturePaymentJSON struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Amount     MoneyJSON `json:"amount" yaml:"amount"`
	DueDate    string    `json:"dueDate" yaml:"dueDate"`
	Recurrence string    `json:"recurrence" yaml:"recurrence"`
}

type PlanJSON struct {
	FuturePaymentPerMonth    MoneyJSON `json:"futurePaymentPerMonth" yaml:"futurePaymentPerMonth"`
	Priority                 string    `json:"priority" yaml:"priority"`
	CustomFuturePaymentOrder []string  `json:"customFuturePaymentOrder" yaml:"customFuturePaymentOrder"`
	SeedSavingsIDs           []string  `json:"seedSavingsIds" yaml:"seedSavingsIds"`
}

// MoneyToJSON rounds to two decimals for display and export.
func MoneyToJSON(m funding.Money) MoneyJSON {
	return MoneyJSON{Value: m.Round().Value.InexactFloat64(), Currency: string(m.Currency)}
}

// MoneyFromJSON validates the currency and the value.
func MoneyFromJSON(m MoneyJSON) (funding.Money, error) {
	c, err := funding.ParseCurrency(m.Currency)
	if err != nil {
		return funding.Money{}, &ValidationError{Field: "currency", Message: err.Error()}
	}
	if math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
		return funding.Money{}, &ValidationError{Field: "value", Message: "must be a finite number"}
	}
	return funding.Money{Value: decimal.NewFromFloat(m.Value), Currency: c}, nil
}

// Export converts a state into the current document shape.
func Export(s *State) Document {
	doc := Document{
		Version:        DocumentVersion,
		Earnings:       make([]EarningJSON, len(s.Earnings)),
		Expenses:       make([]ExpenseJSON, len(s.Expenses)),
		Savings:        make([]SavingJSON, len(s.Savings)),
		FuturePayments: make([]FuturePaymentJSON, len(s.FuturePayments)),
		Plan: PlanJSON{
			FuturePaymentPerMonth:    MoneyToJSON(s.Plan.MonthlyAllocation),
			Priority:                 string(s.Plan.Priority),
			CustomFuturePaymentOrder: nonNil(s.Plan.CustomOrder),
			SeedSavingsIDs:           nonNil(s.Plan.SeedSavingsIDs),
		},
	}
	for i, e := range s.Earnings {
		doc.Earnings[i] = EarningJSON{ID: e.ID, Source: e.Source, Amount: MoneyToJSON(e.Amount)}
	}
	for i, x := range s.Expenses {
		doc.Expenses[i] = ExpenseJSON{ID: x.ID, Name: x.Name, Amount: MoneyToJSON(x.Amount)}
	}
	for i, sv := range s.Savings {
		doc.Savings[i] = SavingJSON{ID: sv.ID, Name: sv.Name, Amount: MoneyToJSON(sv.Amount)}
	}
	for i, p := range s.FuturePayments {
		doc.FuturePayments[i] = FuturePaymentJSON{
			ID:         p.ID,
			Name:       p.Name,
			Amount:     MoneyToJSON(p.Amount),
			DueDate:    p.DueDate,
			Recurrence: string(funding.ParseRecurrence(string(p.Recurrence))),
		}
	}
	return doc
}

// MarshalDocument exports s as indented JSON.
func MarshalDocument(s *State) ([]byte, error) {
	return json.MarshalIndent(Export(s), "", "  ")
}

// ParseDocument decodes a JSON document of any known version.
func ParseDocument(data []byte) (*State, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return DecodeDocument(raw), nil
}

// =============================================================================
// MIGRATION - Any known shape to the current State
// =============================================================================

// DecodeDocument maps an untyped document onto the current State, applying
// legacy field names and defaults. Records that would fail validation are
// dropped, so the result always passes ValidateState. A nil document yields
// an empty state.
func DecodeDocument(raw map[string]any) *State {
	st := NewState()
	if raw == nil {
		return st
	}

	for _, item := range asSlice(raw["earnings"]) {
		rec := asMap(item)
		amount, ok := decodeMoney(rec["amount"])
		if rec == nil || !ok {
			continue
		}
		e := funding.Earning{
			ID:     idOrNew(rec["id"]),
			Source: firstString(rec, "source", "label", "name"),
			Amount: amount,
		}
		if ValidateEarning(e) != nil {
			continue
		}
		st.Earnings = append(st.Earnings, e)
	}

	for _, item := range asSlice(raw["expenses"]) {
		rec := asMap(item)
		amount, ok := decodeMoney(rec["amount"])
		if rec == nil || !ok {
			continue
		}
		x := funding.Expense{
			ID:     idOrNew(rec["id"]),
			Name:   firstString(rec, "name", "label"),
			Amount: amount,
		}
		if ValidateExpense(x) != nil {
			continue
		}
		st.Expenses = append(st.Expenses, x)
	}

	for _, item := range asSlice(raw["savings"]) {
		rec := asMap(item)
		amount, ok := decodeMoney(rec["amount"])
		if rec == nil || !ok {
			continue
		}
		sv := funding.Saving{
			ID:     idOrNew(rec["id"]),
			Name:   asString(rec["name"]),
			Amount: amount,
		}
		if ValidateSaving(sv) != nil {
			continue
		}
		st.Savings = append(st.Savings, sv)
	}

	payments := raw["futurePayments"]
	if payments == nil {
		payments = raw["debts"]
	}
	for _, item := range asSlice(payments) {
		rec := asMap(item)
		amount, ok := decodeMoney(rec["amount"])
		if rec == nil || !ok {
			continue
		}
		p := funding.FuturePayment{
			ID:         idOrNew(rec["id"]),
			Name:       asString(rec["name"]),
			Amount:     amount,
			DueDate:    asString(rec["dueDate"]),
			Recurrence: funding.ParseRecurrence(asString(rec["recurrence"])),
		}
		// Legacy debts may be undated or carry ids with '#'.
		if ValidateFuturePayment(p) != nil {
			continue
		}
		st.FuturePayments = append(st.FuturePayments, p)
	}

	st.Plan = DecodePlan(asMap(raw["plan"]))
	return st
}

// DecodePlan recovers a plan from any known plan shape.
func DecodePlan(raw map[string]any) funding.Plan {
	plan := DefaultPlan()
	if raw == nil {
		return plan
	}

	for _, key := range []string{"futurePaymentPerMonth", "monthlyAllocation", "debtPerMonth"} {
		if m, ok := decodeMoney(raw[key]); ok {
			plan.MonthlyAllocation = m
			break
		}
	}

	plan.Priority = funding.ParsePriority(asString(raw["priority"]))

	for _, key := range []string{"customFuturePaymentOrder", "customOrder", "customDebtOrder"} {
		if order, ok := raw[key].([]any); ok {
			plan.CustomOrder = asStrings(order)
			break
		}
	}

	if seeds, ok := raw["seedSavingsIds"].([]any); ok {
		plan.SeedSavingsIDs = asStrings(seeds)
	}
	return plan
}

func decodeMoney(v any) (funding.Money, bool) {
	m := asMap(v)
	if m == nil {
		return funding.Money{}, false
	}
	value, ok := asNumber(m["value"])
	if !ok {
		return funding.Money{}, false
	}
	c, err := funding.ParseCurrency(asString(m["currency"]))
	if err != nil {
		return funding.Money{}, false
	}
	return funding.Money{Value: value, Currency: c}, true
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStrings(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func firstString(rec map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := asString(rec[k]); s != "" {
			return s
		}
	}
	return ""
}

func asNumber(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
