package store

import (
	"context"
	"errors"

	"finboard/internal/core"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// TransactionUpdate describes a partial update. Nil fields are left
// untouched; set fields must still satisfy the transaction invariants.
type TransactionUpdate struct {
	Amount   *core.Money
	Type     *core.TransactionType
	Category *string
	Date     *core.Date
	Note     *string
}

// Ports for persistence backends.
type (
	TransactionStore interface {
		// ListTransactions returns every transaction for one user.
		// Scoping to a single user happens here, never in the
		// aggregation engine.
		ListTransactions(ctx context.Context, userID int64) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, id int64, upd TransactionUpdate) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id int64) error
	}

	CategoryStore interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		ListCategoriesByType(ctx context.Context, t core.TransactionType) ([]core.Category, error)
	}

	UserStore interface {
		GetUser(ctx context.Context, id int64) (core.User, error)
		GetUserByUsername(ctx context.Context, username string) (core.User, error)
		CreateUser(ctx context.Context, u core.User) (core.User, error)
	}

	// Store is the unified backend consumed by the service layer.
	Store interface {
		TransactionStore
		CategoryStore
		UserStore
		Close() error
	}
)

// Apply merges the update into t. It does not validate; callers run
// Validate on the result before persisting.
func (u TransactionUpdate) Apply(t core.Transaction) core.Transaction {
	if u.Amount != nil {
		t.Amount = *u.Amount
	}
	if u.Type != nil {
		t.Type = *u.Type
	}
	if u.Category != nil {
		t.Category = *u.Category
	}
	if u.Date != nil {
		t.Date = *u.Date
	}
	if u.Note != nil {
		t.Note = *u.Note
	}
	return t
}
