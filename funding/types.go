package funding

// =============================================================================
// SOURCE RECORDS - Supplied by the storage collaborator
// =============================================================================

type Recurrence string

const (
	RecurrenceOnce   Recurrence = "once"
	RecurrenceYearly Recurrence = "yearly"
)

// ParseRecurrence maps anything other than "yearly" to once.
func ParseRecurrence(s string) Recurrence {
	if Recurrence(s) == RecurrenceYearly {
		return RecurrenceYearly
	}
	return RecurrenceOnce
}

// FuturePayment is an obligation the household must fund by its due date.
type FuturePayment struct {
	ID         string
	Name       string
	Amount     Money
	DueDate    string // ISO yyyy-mm-dd
	Recurrence Recurrence
}

type Saving struct {
	ID     string
	Name   string
	Amount Money
}

type Earning struct {
	ID     string
	Source string
	Amount Money
}

type Expense struct {
	ID     string
	Name   string
	Amount Money
}

type Priority string

const (
	PriorityDueDate Priority = "dueDate"
	PriorityAmount  Priority = "amount"
	PriorityCustom  Priority = "custom"
)

// ParsePriority maps unknown values to PriorityDueDate.
func ParsePriority(s string) Priority {
	switch p := Priority(s); p {
	case PriorityAmount, PriorityCustom, PriorityDueDate:
		return p
	default:
		return PriorityDueDate
	}
}

// Plan configures how future payments are funded.
type Plan struct {
	MonthlyAllocation Money
	Priority          Priority
	CustomOrder       []string // future payment ids, highest priority first
	SeedSavingsIDs    []string
}

// =============================================================================
// OCCURRENCES - Derived, never persisted
// =============================================================================

// OccurrenceKey identifies one dated instance of a future payment. Period is
// empty for one-time payments and "YYYY-MM" for yearly expansions.
type OccurrenceKey struct {
	SourceID string
	Period   string
}

func (k OccurrenceKey) String() string {
	if k.Period == "" {
		return k.SourceID
	}
	return k.SourceID + "#" + k.Period
}

// IsRecurring reports whether the key was produced by a yearly expansion.
func (k OccurrenceKey) IsRecurring() bool { return k.Period != "" }

type Occurrence struct {
	Key     OccurrenceKey
	Name    string
	Amount  Money
	DueDate Date
}

// FundedOccurrence is the simulator's verdict for one occurrence. All money
// values are in the display currency.
type FundedOccurrence struct {
	Key        OccurrenceKey
	Name       string
	DueDate    Date
	Amount     Money
	Cumulative Money

	// MonthsNeeded is nil when the occurrence can never be funded.
	MonthsNeeded *int
	FundedBy     *Month

	// DueOffset is the signed month difference between the reference date
	// and the due date.
	DueOffset int
	OnTime    bool
	Shortfall Money
}

// SimulationResult is what the presentation layer renders.
type SimulationResult struct {
	DisplayCurrency          Currency
	ReferenceDate            Date
	HorizonMonths            int
	MonthlyBudget            Money
	MonthlyAllocation        Money
	RemainingAfterAllocation Money
	Seed                     Money
	Occurrences              []FundedOccurrence
	OnTimeCount              int
	TotalCount               int
	Skipped                  []SkippedPayment
}
