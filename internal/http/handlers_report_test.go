package http

import (
	"encoding/json"
	"math"
	"net/http"
	"testing"
)

func seedWorkedExample(t *testing.T, s *Server) string {
	t.Helper()
	token := registerUser(t, s, "demo")
	createTransaction(t, s, token, "1000.00", "income", "Salary", "2024-03-01")
	createTransaction(t, s, token, "400.00", "expense", "food", "2024-03-05")
	createTransaction(t, s, token, "200.00", "expense", "food", "2024-03-08")
	createTransaction(t, s, token, "300.00", "expense", "transport", "2024-03-12")
	return token
}

func TestSummaryWorkedExample(t *testing.T) {
	s := newTestServer(t)
	token := seedWorkedExample(t, s)

	rec := doJSON(t, s, http.MethodGet,
		"/api/summary?period=custom&startDate=2024-03-01&endDate=2024-03-31", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary: status %d, body %s", rec.Code, rec.Body.String())
	}

	var got summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if got.Income != 1000 || got.Expenses != 900 || got.Balance != 100 {
		t.Errorf("summary = %+v, want income 1000 expenses 900 balance 100", got)
	}
	if math.Abs(got.SavingsRate-10) > 0.01 {
		t.Errorf("savings rate = %v, want 10", got.SavingsRate)
	}
}

func TestSummaryEmpty(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "demo")

	rec := doJSON(t, s, http.MethodGet, "/api/summary", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary: status %d", rec.Code)
	}
	var got summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Income != 0 || got.Expenses != 0 || got.Balance != 0 || got.SavingsRate != 0 {
		t.Errorf("empty summary = %+v, want all zeros", got)
	}
}

func TestBreakdownSortedWithPercentages(t *testing.T) {
	s := newTestServer(t)
	token := seedWorkedExample(t, s)

	rec := doJSON(t, s, http.MethodGet,
		"/api/breakdown?period=custom&startDate=2024-03-01&endDate=2024-03-31", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("breakdown: status %d", rec.Code)
	}

	var got []breakdownEntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode breakdown: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if got[0].Category != "food" || got[0].Amount != 600 {
		t.Errorf("top entry = %+v, want food 600", got[0])
	}
	if got[1].Category != "transport" || got[1].Amount != 300 {
		t.Errorf("second entry = %+v, want transport 300", got[1])
	}
	if math.Abs(got[0].Percentage-66.67) > 0.01 || math.Abs(got[1].Percentage-33.33) > 0.01 {
		t.Errorf("percentages = [%v %v], want [66.67 33.33]", got[0].Percentage, got[1].Percentage)
	}

	var sum float64
	for _, e := range got {
		sum += e.Percentage
	}
	if math.Abs(sum-100) > 0.01 {
		t.Errorf("percentages sum to %v, want 100", sum)
	}
}

func TestTrendDefaultsToSixMonths(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "demo")

	rec := doJSON(t, s, http.MethodGet, "/api/trend", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("trend: status %d", rec.Code)
	}
	var got []trendPointResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode trend: %v", err)
	}
	if len(got) != 6 {
		t.Errorf("points = %d, want 6", len(got))
	}
}

func TestTrendClampsMonths(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "demo")

	rec := doJSON(t, s, http.MethodGet, "/api/trend?months=0", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("trend: status %d", rec.Code)
	}
	var got []trendPointResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode trend: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("points = %d, want clamp to 1", len(got))
	}
}

func TestTrendRejectsOversizedWindow(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "demo")

	for _, months := range []string{"121", "2000000000"} {
		rec := doJSON(t, s, http.MethodGet, "/api/trend?months="+months, token, nil)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("months=%s: status %d, want 422", months, rec.Code)
		}
	}

	rec := doJSON(t, s, http.MethodGet, "/api/trend?months=120", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("months=120: status %d", rec.Code)
	}
	var got []trendPointResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode trend: %v", err)
	}
	if len(got) != 120 {
		t.Errorf("points = %d, want 120", len(got))
	}
}

func TestReportCacheInvalidatedOnWrite(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "demo")
	path := "/api/summary?period=custom&startDate=2024-03-01&endDate=2024-03-31"

	// Prime the cache with an empty summary.
	rec := doJSON(t, s, http.MethodGet, path, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary: status %d", rec.Code)
	}

	createTransaction(t, s, token, "100.00", "income", "Salary", "2024-03-01")

	rec = doJSON(t, s, http.MethodGet, path, token, nil)
	var got summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Income != 100 {
		t.Errorf("income = %v after write, want 100 (stale cache served)", got.Income)
	}
}

func TestInvalidReportParams(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "demo")

	cases := []string{
		"/api/summary?type=transfer",
		"/api/summary?period=custom&startDate=bogus",
		"/api/trend?months=abc",
		"/api/categories?type=transfer",
	}
	for _, path := range cases {
		rec := doJSON(t, s, http.MethodGet, path, token, nil)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status %d, want 422", path, rec.Code)
		}
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "demo")

	rec := doJSON(t, s, http.MethodGet, "/api/categories", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("categories: status %d", rec.Code)
	}
	var all []categoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(all) != 15 {
		t.Errorf("categories = %d, want 15", len(all))
	}

	rec = doJSON(t, s, http.MethodGet, "/api/categories?type=income", token, nil)
	var income []categoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &income); err != nil {
		t.Fatalf("decode income categories: %v", err)
	}
	for _, c := range income {
		if c.Type != "income" {
			t.Errorf("category %q has type %s, want income", c.Name, c.Type)
		}
	}
}

func TestListTransactionsFiltered(t *testing.T) {
	s := newTestServer(t)
	token := seedWorkedExample(t, s)

	rec := doJSON(t, s, http.MethodGet, "/api/transactions?category=food", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	var got []transactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("filtered = %d, want 2", len(got))
	}
	// Most recent first.
	if got[0].Date != "2024-03-08" || got[1].Date != "2024-03-05" {
		t.Errorf("order = [%s %s], want most recent first", got[0].Date, got[1].Date)
	}
}
