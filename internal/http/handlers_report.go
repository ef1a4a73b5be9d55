package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"finboard/internal/core"
	"finboard/internal/services"
)

type summaryResponse struct {
	Income      float64 `json:"income"`
	Expenses    float64 `json:"expenses"`
	Balance     float64 `json:"balance"`
	SavingsRate float64 `json:"savingsRate"`
}

type breakdownEntryResponse struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

type trendPointResponse struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
	Type string `json:"type"`
}

// parseReportQuery reads the shared report parameters. A missing period
// defaults to the current month; unknown periods fall back the same way
// inside the resolver.
func (s *Server) parseReportQuery(w http.ResponseWriter, r *http.Request) (services.ReportQuery, bool) {
	q := services.ReportQuery{
		Period:   core.Period(strings.TrimSpace(r.URL.Query().Get("period"))),
		Category: sanitizeInput(r.URL.Query().Get("category")),
	}
	if q.Period == "" {
		q.Period = core.PeriodThisMonth
	}

	if t := strings.TrimSpace(r.URL.Query().Get("type")); t != "" {
		tt := core.TransactionType(t)
		if !tt.Valid() {
			writeError(w, http.StatusUnprocessableEntity, "invalid type, expected income or expense")
			return services.ReportQuery{}, false
		}
		q.Type = tt
	}

	if v := strings.TrimSpace(r.URL.Query().Get("startDate")); v != "" {
		d, err := parseDate(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid startDate, expected YYYY-MM-DD")
			return services.ReportQuery{}, false
		}
		q.Start = d
	}
	if v := strings.TrimSpace(r.URL.Query().Get("endDate")); v != "" {
		d, err := parseDate(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid endDate, expected YYYY-MM-DD")
			return services.ReportQuery{}, false
		}
		q.End = d
	}

	return q, true
}

// parseFilter turns the report parameters into a transaction filter for
// the list endpoint.
func (s *Server) parseFilter(w http.ResponseWriter, r *http.Request) (core.Filter, bool) {
	q, ok := s.parseReportQuery(w, r)
	if !ok {
		return core.Filter{}, false
	}

	f := core.Filter{Category: q.Category, Type: q.Type}
	if q.Period == core.PeriodCustom {
		f.Start, f.End = q.Start, q.End
		return f, true
	}
	// Listing without any period parameter means the full history.
	if strings.TrimSpace(r.URL.Query().Get("period")) == "" {
		f.Start, f.End = q.Start, q.End
		return f, true
	}
	return f.WithRange(core.ResolvePeriod(q.Period, time.Now())), true
}

func reportKeyParts(q services.ReportQuery) []string {
	return []string{
		string(q.Period),
		q.Start.Format("2006-01-02"),
		q.End.Format("2006-01-02"),
		q.Category,
		string(q.Type),
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, user core.User) {
	q, ok := s.parseReportQuery(w, r)
	if !ok {
		return
	}

	key := s.reportCacheKey(user.ID, reportKeyParts(q)...)
	summary, found := s.summaryCache.Get(key)
	if !found {
		var err error
		summary, err = s.reports.Summary(r.Context(), user.ID, q)
		if err != nil {
			slog.ErrorContext(r.Context(), "Summary failed", "error", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		s.summaryCache.Set(key, summary)
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Income:      summary.Income.Float64(),
		Expenses:    summary.Expenses.Float64(),
		Balance:     summary.Balance.Float64(),
		SavingsRate: summary.SavingsRate,
	})
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request, user core.User) {
	q, ok := s.parseReportQuery(w, r)
	if !ok {
		return
	}

	key := s.reportCacheKey(user.ID, append([]string{"breakdown"}, reportKeyParts(q)...)...)
	entries, found := s.breakdownCache.Get(key)
	if !found {
		var err error
		entries, err = s.reports.Breakdown(r.Context(), user.ID, q)
		if err != nil {
			slog.ErrorContext(r.Context(), "Breakdown failed", "error", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		s.breakdownCache.Set(key, entries)
	}

	out := make([]breakdownEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, breakdownEntryResponse{
			Category:   e.Category,
			Amount:     e.Amount.Float64(),
			Percentage: e.Percentage,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// maxTrendMonths caps the trend window at ten years so a single query
// cannot demand an arbitrarily large allocation.
const maxTrendMonths = 120

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request, user core.User) {
	months := 6
	if v := strings.TrimSpace(r.URL.Query().Get("months")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m > maxTrendMonths {
			writeError(w, http.StatusUnprocessableEntity, "invalid months")
			return
		}
		months = m
	}

	key := s.reportCacheKey(user.ID, "trend", strconv.Itoa(months))
	points, found := s.trendCache.Get(key)
	if !found {
		var err error
		points, err = s.reports.Trend(r.Context(), user.ID, months)
		if err != nil {
			slog.ErrorContext(r.Context(), "Trend failed", "error", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		s.trendCache.Set(key, points)
	}

	out := make([]trendPointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, trendPointResponse{
			Month:    p.Month,
			Income:   p.Income.Float64(),
			Expenses: p.Expenses.Float64(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request, _ core.User) {
	var t core.TransactionType
	if v := strings.TrimSpace(r.URL.Query().Get("type")); v != "" {
		tt := core.TransactionType(v)
		if !tt.Valid() {
			writeError(w, http.StatusUnprocessableEntity, "invalid type, expected income or expense")
			return
		}
		t = tt
	}

	cats, err := s.reports.Categories(r.Context(), t)
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{
			ID:   c.ID,
			Name: c.Name,
			Icon: c.Icon,
			Type: string(c.Type),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
