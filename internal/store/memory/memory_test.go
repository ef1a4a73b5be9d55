package memory

import (
	"context"
	"errors"
	"testing"

	"finboard/internal/core"
	"finboard/internal/store"
)

func TestCreateAndListTransactionsScopedByUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	mine, err := s.CreateTransaction(ctx, core.Transaction{
		UserID: 1, Amount: core.Money{Cents: 1200}, Type: core.Expense,
		Category: "Food", Date: core.NewDate(2024, 1, 5),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if mine.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	_, err = s.CreateTransaction(ctx, core.Transaction{
		UserID: 2, Amount: core.Money{Cents: 900}, Type: core.Income,
		Category: "Salary", Date: core.NewDate(2024, 1, 6),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	txs, err := s.ListTransactions(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 || txs[0].UserID != 1 {
		t.Fatalf("expected only user 1's transactions, got %+v", txs)
	}
}

func TestCreateTransactionRejectsInvalid(t *testing.T) {
	s := New()
	_, err := s.CreateTransaction(context.Background(), core.Transaction{
		UserID: 1, Amount: core.Money{Cents: -5}, Type: core.Expense,
		Category: "Food", Date: core.NewDate(2024, 1, 5),
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestUpdateTransactionPartial(t *testing.T) {
	s := New()
	ctx := context.Background()
	created, _ := s.CreateTransaction(ctx, core.Transaction{
		UserID: 1, Amount: core.Money{Cents: 1200}, Type: core.Expense,
		Category: "Food", Date: core.NewDate(2024, 1, 5),
	})

	amount := core.Money{Cents: 1500}
	updated, err := s.UpdateTransaction(ctx, created.ID, store.TransactionUpdate{Amount: &amount})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount.Cents != 1500 || updated.Category != "Food" {
		t.Fatalf("partial update went wrong: %+v", updated)
	}

	// Updates must preserve the positive-amount invariant.
	bad := core.Money{Cents: 0}
	if _, err := s.UpdateTransaction(ctx, created.ID, store.TransactionUpdate{Amount: &bad}); err == nil {
		t.Fatalf("expected error for zero amount update")
	}
}

func TestDeleteTransaction(t *testing.T) {
	s := New()
	ctx := context.Background()
	created, _ := s.CreateTransaction(ctx, core.Transaction{
		UserID: 1, Amount: core.Money{Cents: 100}, Type: core.Expense,
		Category: "Food", Date: core.NewDate(2024, 1, 5),
	})
	if err := s.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteTransaction(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDefaultCategoriesSeeded(t *testing.T) {
	s := New()
	ctx := context.Background()
	all, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(all) != 15 {
		t.Fatalf("expected 15 default categories, got %d", len(all))
	}
	income, _ := s.ListCategoriesByType(ctx, core.Income)
	if len(income) != 5 {
		t.Fatalf("expected 5 income categories, got %d", len(income))
	}
}

func TestUserUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()
	u, err := s.CreateUser(ctx, core.User{Username: "demo", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := s.CreateUser(ctx, core.User{Username: "demo", PasswordHash: "y"}); !errors.Is(err, store.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	got, err := s.GetUserByUsername(ctx, "demo")
	if err != nil || got.ID != u.ID {
		t.Fatalf("lookup by username failed: %+v, %v", got, err)
	}
}
