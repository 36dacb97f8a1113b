/*
recurrence.go - Future payment expansion

PURPOSE:
  Turns future payment definitions into concrete dated occurrences inside a
  forward-looking window of horizonMonths months starting at the reference
  month.

WINDOW RULE:
  An occurrence is inside the window when the signed month difference
  between the reference month and its due month lies in [0, horizonMonths].
  The day of month is ignored, so a payment due earlier this month is still
  in scope.

YEARLY EXPANSION:
  The due month/day is re-anchored onto every year from one year before the
  reference year through ceil(horizon/12)+1 years after it, and each
  candidate is tested against the window. The anchor's own year plays no
  part, so a payment first due in a later year still recurs inside the
  window. A due day missing from the target month
  (Feb 29) is clamped to the last day of that month.

  Each yearly occurrence is keyed (sourceID, "YYYY-MM") so repeated runs over
  the same input produce the same keys.
*/
package funding

// Expand unrolls payments into occurrences within the horizon. Payments whose
// due date cannot be parsed are returned as skipped instead of failing the run.
func Expand(payments []FuturePayment, horizonMonths int, ref Date) ([]Occurrence, []SkippedPayment) {
	if horizonMonths < 0 {
		horizonMonths = 0
	}

	occurrences := make([]Occurrence, 0, len(payments))
	var skipped []SkippedPayment

	for _, p := range payments {
		due, err := ParseDate(p.DueDate)
		if err != nil {
			skipped = append(skipped, SkippedPayment{ID: p.ID, Name: p.Name, Reason: err.Error()})
			continue
		}

		switch ParseRecurrence(string(p.Recurrence)) {
		case RecurrenceYearly:
			occurrences = append(occurrences, expandYearly(p, due, horizonMonths, ref)...)
		default:
			if inWindow(MonthsBetween(ref, due), horizonMonths) {
				occurrences = append(occurrences, Occurrence{
					Key:     OccurrenceKey{SourceID: p.ID},
					Name:    p.Name,
					Amount:  p.Amount,
					DueDate: due,
				})
			}
		}
	}
	return occurrences, skipped
}

func expandYearly(p FuturePayment, anchor Date, horizonMonths int, ref Date) []Occurrence {
	lastYear := ref.Year() + ceilDiv(horizonMonths, 12) + 1

	var out []Occurrence
	for year := ref.Year() - 1; year <= lastYear; year++ {
		month := Month{Year: year, Month: anchor.Month()}
		due := month.Day(anchor.Day())
		if !inWindow(MonthsBetween(ref, due), horizonMonths) {
			continue
		}
		out = append(out, Occurrence{
			Key:     OccurrenceKey{SourceID: p.ID, Period: month.String()},
			Name:    p.Name,
			Amount:  p.Amount,
			DueDate: due,
		})
	}
	return out
}

func inWindow(offset, horizonMonths int) bool {
	return offset >= 0 && offset <= horizonMonths
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
