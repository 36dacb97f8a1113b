package funding

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PRIORITY ORDERER - Which occurrence claims the pool first
// =============================================================================

// Order returns a new slice with occurrences sorted by the plan priority.
// The sort is stable: equal keys keep their input order.
//
//   - dueDate: earliest due date first
//   - amount:  smallest amount first, compared in the reference currency
//   - custom:  sources listed in customOrder first, by list position, with
//              instances of one source in due-date order; unlisted sources
//              follow in due-date order
//
// Under custom priority every listed source precedes every unlisted one,
// even an unlisted source due earlier. The two groups are not interleaved
// by due date.
func Order(occurrences []Occurrence, priority Priority, customOrder []string, rates FxTable) []Occurrence {
	out := make([]Occurrence, len(occurrences))
	copy(out, occurrences)

	switch ParsePriority(string(priority)) {
	case PriorityAmount:
		keys := make([]referenceKey, len(out))
		for i, o := range out {
			keys[i] = referenceKey{occ: o, ref: rates.ToReference(o.Amount)}
		}
		sort.SliceStable(keys, func(i, j int) bool { return keys[i].ref.LessThan(keys[j].ref) })
		for i := range keys {
			out[i] = keys[i].occ
		}

	case PriorityCustom:
		if len(customOrder) == 0 {
			sortByDueDate(out)
			break
		}
		rank := make(map[string]int, len(customOrder))
		for i, id := range customOrder {
			if _, seen := rank[id]; !seen {
				rank[id] = i
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			ri, iListed := rank[out[i].Key.SourceID]
			rj, jListed := rank[out[j].Key.SourceID]
			switch {
			case iListed && jListed && ri != rj:
				return ri < rj
			case iListed != jListed:
				return iListed
			default:
				return out[i].DueDate.Before(out[j].DueDate)
			}
		})

	default:
		sortByDueDate(out)
	}
	return out
}

type referenceKey struct {
	occ Occurrence
	ref decimal.Decimal
}

func sortByDueDate(occurrences []Occurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].DueDate.Before(occurrences[j].DueDate)
	})
}
