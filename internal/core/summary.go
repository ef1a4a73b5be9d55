package core

import (
	"sort"
	"time"
)

type (
	// Summary is the income/expense/balance rollup for a filtered set.
	Summary struct {
		Income   Money
		Expenses Money
		Balance  Money
		// SavingsRate is balance over income as a percentage, 0 when
		// there is no income.
		SavingsRate float64
	}

	// BreakdownEntry is one category's share of total expenses.
	BreakdownEntry struct {
		Category   string
		Amount     Money
		Percentage float64
	}

	// TrendPoint is the income/expense total for one calendar month.
	TrendPoint struct {
		Month    string
		Income   Money
		Expenses Money
	}
)

// ComputeSummary derives the summary for an already-filtered set.
// The empty set yields all zeros, never NaN.
func ComputeSummary(txs []Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Type {
		case Income:
			s.Income.Cents += t.Amount.Cents
		case Expense:
			s.Expenses.Cents += t.Amount.Cents
		}
	}
	s.Balance.Cents = s.Income.Cents - s.Expenses.Cents
	if s.Income.Cents > 0 {
		s.SavingsRate = float64(s.Balance.Cents) / float64(s.Income.Cents) * 100
	}
	return s
}

// ComputeCategoryBreakdown groups expense transactions by category and
// computes each group's share of the total. The caller is responsible for
// passing an expense-only set; income entries would distort the total.
// Entries are sorted by amount descending, ties keeping first-seen order.
func ComputeCategoryBreakdown(txs []Transaction) []BreakdownEntry {
	var total int64
	index := make(map[string]int)
	entries := make([]BreakdownEntry, 0)
	for _, t := range txs {
		i, ok := index[t.Category]
		if !ok {
			i = len(entries)
			index[t.Category] = i
			entries = append(entries, BreakdownEntry{Category: t.Category})
		}
		entries[i].Amount.Cents += t.Amount.Cents
		total += t.Amount.Cents
	}
	if total > 0 {
		for i := range entries {
			entries[i].Percentage = float64(entries[i].Amount.Cents) / float64(total) * 100
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Amount.Cents > entries[j].Amount.Cents
	})
	return entries
}

// ComputeMonthlyTrend returns per-month income/expense totals for the
// months consecutive calendar months ending with now's month, oldest
// first. A months value below 1 is clamped to 1. Labels are short month
// names, year-qualified once the window spans more than a year.
func ComputeMonthlyTrend(txs []Transaction, months int, now time.Time) []TrendPoint {
	if months < 1 {
		months = 1
	}
	label := "Jan"
	if months > 12 {
		label = "Jan 2006"
	}
	out := make([]TrendPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		r := monthRange(now.Year(), int(now.Month())-i)
		p := TrendPoint{Month: r.Start.Format(label)}
		for _, t := range txs {
			if t.Date.Before(r.Start.Time) || t.Date.After(r.End.Time) {
				continue
			}
			switch t.Type {
			case Income:
				p.Income.Cents += t.Amount.Cents
			case Expense:
				p.Expenses.Cents += t.Amount.Cents
			}
		}
		out = append(out, p)
	}
	return out
}
