/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Record shapes are the
  same as the import/export document (household.*JSON), so a record listed
  by the API can be pasted into a backup file and back.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

AMOUNTS:
  Every amount is {"value": 12.5, "currency": "PLN"}. Values are rounded
  to two decimals on the way out.

SEE ALSO:
  - handlers.go: Uses these types
  - household/document.go: Record JSON shapes
*/
package api

import (
	"github.com/warp/household-planner/funding"
	"github.com/warp/household-planner/household"
)

// =============================================================================
// RECORDS
// =============================================================================

type (
	MoneyDTO         = household.MoneyJSON
	EarningDTO       = household.EarningJSON
	ExpenseDTO       = household.ExpenseJSON
	SavingDTO        = household.SavingJSON
	FuturePaymentDTO = household.FuturePaymentJSON
)

func toEarningDTO(e funding.Earning) EarningDTO {
	return EarningDTO{ID: e.ID, Source: e.Source, Amount: household.MoneyToJSON(e.Amount)}
}

func fromEarningDTO(d EarningDTO) (funding.Earning, error) {
	amount, err := household.MoneyFromJSON(d.Amount)
	if err != nil {
		return funding.Earning{}, err
	}
	return funding.Earning{ID: idOrNew(d.ID), Source: d.Source, Amount: amount}, nil
}

func toExpenseDTO(x funding.Expense) ExpenseDTO {
	return ExpenseDTO{ID: x.ID, Name: x.Name, Amount: household.MoneyToJSON(x.Amount)}
}

func fromExpenseDTO(d ExpenseDTO) (funding.Expense, error) {
	amount, err := household.MoneyFromJSON(d.Amount)
	if err != nil {
		return funding.Expense{}, err
	}
	return funding.Expense{ID: idOrNew(d.ID), Name: d.Name, Amount: amount}, nil
}

func toSavingDTO(s funding.Saving) SavingDTO {
	return SavingDTO{ID: s.ID, Name: s.Name, Amount: household.MoneyToJSON(s.Amount)}
}

func fromSavingDTO(d SavingDTO) (funding.Saving, error) {
	amount, err := household.MoneyFromJSON(d.Amount)
	if err != nil {
		return funding.Saving{}, err
	}
	return funding.Saving{ID: idOrNew(d.ID), Name: d.Name, Amount: amount}, nil
}

func toFuturePaymentDTO(p funding.FuturePayment) FuturePaymentDTO {
	return FuturePaymentDTO{
		ID:         p.ID,
		Name:       p.Name,
		Amount:     household.MoneyToJSON(p.Amount),
		DueDate:    p.DueDate,
		Recurrence: string(funding.ParseRecurrence(string(p.Recurrence))),
	}
}

// fromFuturePaymentDTO keeps the raw recurrence so validation can reject
// unknown values instead of silently treating them as once.
func fromFuturePaymentDTO(d FuturePaymentDTO) (funding.FuturePayment, error) {
	amount, err := household.MoneyFromJSON(d.Amount)
	if err != nil {
		return funding.FuturePayment{}, err
	}
	recurrence := funding.Recurrence(d.Recurrence)
	if recurrence == "" {
		recurrence = funding.RecurrenceOnce
	}
	return funding.FuturePayment{
		ID:         idOrNew(d.ID),
		Name:       d.Name,
		Amount:     amount,
		DueDate:    d.DueDate,
		Recurrence: recurrence,
	}, nil
}

func idOrNew(id string) string {
	if id == "" {
		return household.NewID()
	}
	return id
}

// =============================================================================
// PLAN
// =============================================================================

// PlanDTO is both the PUT /api/plan body and its response.
type PlanDTO struct {
	MonthlyAllocation MoneyDTO `json:"monthlyAllocation"`
	Priority          string   `json:"priority"`
	CustomOrder       []string `json:"customOrder"`
	SeedSavingsIDs    []string `json:"seedSavingsIds"`
}

func toPlanDTO(p funding.Plan) PlanDTO {
	return PlanDTO{
		MonthlyAllocation: household.MoneyToJSON(p.MonthlyAllocation),
		Priority:          string(p.Priority),
		CustomOrder:       nonNil(p.CustomOrder),
		SeedSavingsIDs:    nonNil(p.SeedSavingsIDs),
	}
}

func fromPlanDTO(d PlanDTO) (funding.Plan, error) {
	amount, err := household.MoneyFromJSON(d.MonthlyAllocation)
	if err != nil {
		return funding.Plan{}, err
	}
	priority := funding.Priority(d.Priority)
	if d.Priority == "" {
		priority = funding.PriorityDueDate
	}
	return funding.Plan{
		MonthlyAllocation: amount,
		Priority:          priority,
		CustomOrder:       nonNil(d.CustomOrder),
		SeedSavingsIDs:    nonNil(d.SeedSavingsIDs),
	}, nil
}

// =============================================================================
// SIMULATION
// =============================================================================

type SimulationDTO struct {
	DisplayCurrency          string              `json:"displayCurrency"`
	ReferenceDate            string              `json:"referenceDate"`
	HorizonMonths            int                 `json:"horizonMonths"`
	MonthlyBudget            MoneyDTO            `json:"monthlyBudget"`
	MonthlyAllocation        MoneyDTO            `json:"monthlyAllocation"`
	RemainingAfterAllocation MoneyDTO            `json:"remainingAfterAllocation"`
	Seed                     MoneyDTO            `json:"seed"`
	OnTimeCount              int                 `json:"onTimeCount"`
	TotalCount               int                 `json:"totalCount"`
	TotalShortfall           MoneyDTO            `json:"totalShortfall"`
	Occurrences              []OccurrenceDTO     `json:"occurrences"`
	Skipped                  []SkippedPaymentDTO `json:"skipped"`
}

type OccurrenceDTO struct {
	Key          string   `json:"key"`
	SourceID     string   `json:"sourceId"`
	Period       string   `json:"period,omitempty"`
	Name         string   `json:"name"`
	DueDate      string   `json:"dueDate"`
	Amount       MoneyDTO `json:"amount"`
	Cumulative   MoneyDTO `json:"cumulative"`
	MonthsNeeded *int     `json:"monthsNeeded"`
	FundedBy     *string  `json:"fundedBy"`
	DueOffset    int      `json:"dueOffset"`
	OnTime       bool     `json:"onTime"`
	Shortfall    MoneyDTO `json:"shortfall"`
}

type SkippedPaymentDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// NewSimulationDTO renders a result for the API and the CLI --json output.
func NewSimulationDTO(r *funding.SimulationResult) SimulationDTO {
	dto := SimulationDTO{
		DisplayCurrency:          string(r.DisplayCurrency),
		ReferenceDate:            r.ReferenceDate.String(),
		HorizonMonths:            r.HorizonMonths,
		MonthlyBudget:            household.MoneyToJSON(r.MonthlyBudget),
		MonthlyAllocation:        household.MoneyToJSON(r.MonthlyAllocation),
		RemainingAfterAllocation: household.MoneyToJSON(r.RemainingAfterAllocation),
		Seed:                     household.MoneyToJSON(r.Seed),
		OnTimeCount:              r.OnTimeCount,
		TotalCount:               r.TotalCount,
		TotalShortfall:           household.MoneyToJSON(r.TotalShortfall()),
		Occurrences:              make([]OccurrenceDTO, len(r.Occurrences)),
		Skipped:                  make([]SkippedPaymentDTO, len(r.Skipped)),
	}
	for i, o := range r.Occurrences {
		var fundedBy *string
		if o.FundedBy != nil {
			s := o.FundedBy.String()
			fundedBy = &s
		}
		dto.Occurrences[i] = OccurrenceDTO{
			Key:          o.Key.String(),
			SourceID:     o.Key.SourceID,
			Period:       o.Key.Period,
			Name:         o.Name,
			DueDate:      o.DueDate.String(),
			Amount:       household.MoneyToJSON(o.Amount),
			Cumulative:   household.MoneyToJSON(o.Cumulative),
			MonthsNeeded: o.MonthsNeeded,
			FundedBy:     fundedBy,
			DueOffset:    o.DueOffset,
			OnTime:       o.OnTime,
			Shortfall:    household.MoneyToJSON(o.Shortfall),
		}
	}
	for i, s := range r.Skipped {
		dto.Skipped[i] = SkippedPaymentDTO{ID: s.ID, Name: s.Name, Reason: s.Reason}
	}
	return dto
}

// =============================================================================
// TIMELINE / SUMMARY / CURRENCIES
// =============================================================================

type TimelinePointDTO struct {
	Month     string  `json:"month"`
	Required  float64 `json:"required"`
	Available float64 `json:"available"`
	Covered   bool    `json:"covered"`
}

type TimelineDTO struct {
	Currency string             `json:"currency"`
	Points   []TimelinePointDTO `json:"points"`
}

// NewTimelineDTO renders a funding curve.
func NewTimelineDTO(currency funding.Currency, points []funding.TimelinePoint) TimelineDTO {
	dto := TimelineDTO{Currency: string(currency), Points: make([]TimelinePointDTO, len(points))}
	for i, p := range points {
		dto.Points[i] = TimelinePointDTO{
			Month:     p.Month.String(),
			Required:  p.Required.Float64(),
			Available: p.Available.Float64(),
			Covered:   p.Covered,
		}
	}
	return dto
}

type SummaryDTO struct {
	Currency       string   `json:"currency"`
	Earnings       MoneyDTO `json:"earnings"`
	Expenses       MoneyDTO `json:"expenses"`
	Balance        MoneyDTO `json:"balance"`
	Savings        MoneyDTO `json:"savings"`
	FuturePayments MoneyDTO `json:"futurePayments"`
}

func NewSummaryDTO(s funding.Summary) SummaryDTO {
	return SummaryDTO{
		Currency:       string(s.Currency),
		Earnings:       household.MoneyToJSON(s.Earnings),
		Expenses:       household.MoneyToJSON(s.Expenses),
		Balance:        household.MoneyToJSON(s.Balance),
		Savings:        household.MoneyToJSON(s.Savings),
		FuturePayments: household.MoneyToJSON(s.FuturePayments),
	}
}

// CurrencyDTO lists a supported currency with its fixed rate to the
// reference currency.
type CurrencyDTO struct {
	Code      string  `json:"code"`
	Rate      float64 `json:"rate"`
	Reference bool    `json:"reference"`
}

// =============================================================================
// MISC
// =============================================================================

// ImportResponse reports what an import loaded.
type ImportResponse struct {
	Earnings       int `json:"earnings"`
	Expenses       int `json:"expenses"`
	Savings        int `json:"savings"`
	FuturePayments int `json:"futurePayments"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
