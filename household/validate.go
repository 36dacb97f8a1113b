package household

import (
	"strings"

	"github.com/warp/household-planner/funding"
)

// =============================================================================
// RECORD VALIDATION - Applied before a record reaches a Store
// =============================================================================

func ValidateEarning(e funding.Earning) error {
	if err := validateID(e.ID); err != nil {
		return err
	}
	return validateAmount("amount", e.Amount)
}

func ValidateExpense(x funding.Expense) error {
	if err := validateID(x.ID); err != nil {
		return err
	}
	return validateAmount("amount", x.Amount)
}

func ValidateSaving(s funding.Saving) error {
	if err := validateID(s.ID); err != nil {
		return err
	}
	return validateAmount("amount", s.Amount)
}

func ValidateFuturePayment(p funding.FuturePayment) error {
	if err := validateID(p.ID); err != nil {
		return err
	}
	if strings.Contains(p.ID, "#") {
		return &ValidationError{Field: "id", Message: "must not contain '#'"}
	}
	if err := validateAmount("amount", p.Amount); err != nil {
		return err
	}
	if _, err := funding.ParseDate(p.DueDate); err != nil {
		return &ValidationError{Field: "dueDate", Message: "must be a yyyy-mm-dd date"}
	}
	switch p.Recurrence {
	case "", funding.RecurrenceOnce, funding.RecurrenceYearly:
	default:
		return &ValidationError{Field: "recurrence", Message: "must be once or yearly"}
	}
	return nil
}

func ValidatePlan(p funding.Plan) error {
	if !p.MonthlyAllocation.Currency.Valid() {
		return &ValidationError{Field: "monthlyAllocation.currency", Message: "unsupported currency"}
	}
	switch p.Priority {
	case funding.PriorityDueDate, funding.PriorityAmount, funding.PriorityCustom:
	default:
		return &ValidationError{Field: "priority", Message: "must be dueDate, amount or custom"}
	}
	return nil
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "id", Message: "is required"}
	}
	return nil
}

func validateAmount(field string, m funding.Money) error {
	if !m.Currency.Valid() {
		return &ValidationError{Field: field + ".currency", Message: "unsupported currency"}
	}
	if m.IsNegative() {
		return &ValidationError{Field: field + ".value", Message: "must not be negative"}
	}
	return nil
}

// ValidateState checks every record and the plan, stopping at the first
// failure.
func ValidateState(s *State) error {
	for _, e := range s.Earnings {
		if err := ValidateEarning(e); err != nil {
			return err
		}
	}
	for _, x := range s.Expenses {
		if err := ValidateExpense(x); err != nil {
			return err
		}
	}
	for _, sv := range s.Savings {
		if err := ValidateSaving(sv); err != nil {
			return err
		}
	}
	for _, p := range s.FuturePayments {
		if err := ValidateFuturePayment(p); err != nil {
			return err
		}
	}
	return ValidatePlan(s.Plan)
}
