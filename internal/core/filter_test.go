package core

import "testing"

func sampleTransactions() []Transaction {
	return []Transaction{
		{ID: 1, UserID: 1, Amount: Money{Cents: 100000}, Type: Income, Category: "Salary", Date: NewDate(2024, 1, 15)},
		{ID: 2, UserID: 1, Amount: Money{Cents: 40000}, Type: Expense, Category: "Food", Date: NewDate(2024, 1, 20)},
		{ID: 3, UserID: 1, Amount: Money{Cents: 20000}, Type: Expense, Category: "Transportation", Date: NewDate(2024, 1, 22)},
		{ID: 4, UserID: 1, Amount: Money{Cents: 15000}, Type: Expense, Category: "Food", Date: NewDate(2024, 2, 3)},
	}
}

func TestFilterTransactionsDateBoundsInclusive(t *testing.T) {
	txs := sampleTransactions()
	got := FilterTransactions(txs, Filter{
		Start: NewDate(2024, 1, 20),
		End:   NewDate(2024, 1, 22),
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(got))
	}
	// Most-recent-first ordering.
	if got[0].ID != 3 || got[1].ID != 2 {
		t.Fatalf("unexpected order: %d, %d", got[0].ID, got[1].ID)
	}
}

func TestFilterTransactionsPredicatesAreANDed(t *testing.T) {
	txs := sampleTransactions()
	got := FilterTransactions(txs, Filter{
		Start:    NewDate(2024, 1, 1),
		End:      NewDate(2024, 1, 31),
		Category: "Food",
		Type:     Expense,
	})
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected only transaction 2, got %+v", got)
	}
}

func TestFilterTransactionsEmptyFilterKeepsAll(t *testing.T) {
	txs := sampleTransactions()
	got := FilterTransactions(txs, Filter{})
	if len(got) != len(txs) {
		t.Fatalf("expected %d transactions, got %d", len(txs), len(got))
	}
}

func TestFilterTransactionsDoesNotMutateInput(t *testing.T) {
	txs := sampleTransactions()
	FilterTransactions(txs, Filter{Type: Expense})
	if txs[0].ID != 1 || txs[3].ID != 4 {
		t.Fatalf("input slice was reordered")
	}
}

func TestFilterMatchesSubset(t *testing.T) {
	txs := sampleTransactions()
	f := Filter{Type: Expense}
	for _, tx := range FilterTransactions(txs, f) {
		if !f.Matches(tx) {
			t.Fatalf("filtered output contains non-matching transaction %d", tx.ID)
		}
	}
}
