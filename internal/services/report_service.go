package services

import (
	"context"
	"fmt"
	"time"

	"finboard/internal/core"
	"finboard/internal/store"
)

// ReportQuery selects the slice of a user's history a report runs over.
// Start and End are only consulted for the custom period.
type ReportQuery struct {
	Period   core.Period
	Start    core.Date
	End      core.Date
	Category string
	Type     core.TransactionType
}

// ReportService computes dashboard aggregates over the store.
type ReportService struct {
	store store.Store
	now   func() time.Time
}

func NewReportService(s store.Store) *ReportService {
	return &ReportService{
		store: s,
		now:   time.Now,
	}
}

func (s *ReportService) resolveRange(q ReportQuery) core.DateRange {
	if q.Period == core.PeriodCustom {
		return core.DateRange{Start: q.Start, End: q.End}
	}
	return core.ResolvePeriod(q.Period, s.now())
}

func (s *ReportService) fetch(ctx context.Context, userID int64, f core.Filter) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.FilterTransactions(txs, f), nil
}

// Summary returns the income/expense/balance rollup for the query window.
func (s *ReportService) Summary(ctx context.Context, userID int64, q ReportQuery) (core.Summary, error) {
	f := core.Filter{Category: q.Category, Type: q.Type}.WithRange(s.resolveRange(q))
	txs, err := s.fetch(ctx, userID, f)
	if err != nil {
		return core.Summary{}, err
	}
	return core.ComputeSummary(txs), nil
}

// Breakdown returns the per-category expense shares for the query window.
// Only expense transactions participate regardless of q.Type.
func (s *ReportService) Breakdown(ctx context.Context, userID int64, q ReportQuery) ([]core.BreakdownEntry, error) {
	f := core.Filter{Category: q.Category, Type: core.Expense}.WithRange(s.resolveRange(q))
	txs, err := s.fetch(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	return core.ComputeCategoryBreakdown(txs), nil
}

// Trend returns per-month totals for the trailing months window, oldest
// first. Values below 1 are clamped to a single month.
func (s *ReportService) Trend(ctx context.Context, userID int64, months int) ([]core.TrendPoint, error) {
	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.ComputeMonthlyTrend(txs, months, s.now()), nil
}

// Transactions returns the raw transactions behind a report, most recent
// first.
func (s *ReportService) Transactions(ctx context.Context, userID int64, q ReportQuery) ([]core.Transaction, error) {
	f := core.Filter{Category: q.Category, Type: q.Type}.WithRange(s.resolveRange(q))
	return s.fetch(ctx, userID, f)
}

// Categories lists the selectable categories, optionally narrowed to one
// transaction type.
func (s *ReportService) Categories(ctx context.Context, t core.TransactionType) ([]core.Category, error) {
	if t == "" {
		return s.store.ListCategories(ctx)
	}
	return s.store.ListCategoriesByType(ctx, t)
}
