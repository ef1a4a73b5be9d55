package core

import "sort"

// Filter narrows a transaction collection before aggregation. Every field
// is optional; zero values mean "no constraint". Present predicates are
// combined with AND.
type Filter struct {
	Start    Date
	End      Date
	Category string
	Type     TransactionType
}

// WithRange returns a copy of the filter bounded by the given range.
func (f Filter) WithRange(r DateRange) Filter {
	f.Start = r.Start
	f.End = r.End
	return f
}

// Matches reports whether t satisfies every present predicate. Date bounds
// are inclusive on both ends.
func (f Filter) Matches(t Transaction) bool {
	if !f.Start.IsZero() && t.Date.Before(f.Start.Time) {
		return false
	}
	if !f.End.IsZero() && t.Date.After(f.End.Time) {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	return true
}

// FilterTransactions returns the transactions satisfying the filter,
// sorted most-recent-first. The input slice is never mutated.
func FilterTransactions(txs []Transaction, f Filter) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}
