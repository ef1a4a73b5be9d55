package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finboard/internal/core"
	"finboard/internal/store"
)

// ErrForbidden is returned when a user touches a transaction owned by
// someone else.
var ErrForbidden = errors.New("transaction belongs to another user")

// SyncPublisher pushes export notifications onto the message queue.
// *amqp.Client satisfies it; tests use a fake.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id, version int64) error
	PublishTransactionDelete(ctx context.Context, id int64) error
}

// TransactionService orchestrates transaction writes across the store
// and the export queue. Queue failures never fail the request, the
// worker's pending scan picks stragglers up later.
type TransactionService struct {
	store     store.Store
	publisher SyncPublisher
}

func NewTransactionService(s store.Store, publisher SyncPublisher) *TransactionService {
	return &TransactionService{
		store:     s,
		publisher: publisher,
	}
}

// List returns the user's transactions matching the filter, most recent
// first.
func (s *TransactionService) List(ctx context.Context, userID int64, f core.Filter) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.FilterTransactions(txs, f), nil
}

// Get fetches one transaction, enforcing ownership.
func (s *TransactionService) Get(ctx context.Context, userID, id int64) (core.Transaction, error) {
	t, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if t.UserID != userID {
		return core.Transaction{}, ErrForbidden
	}
	return t, nil
}

// Create saves a transaction locally and publishes a sync message.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	// Publish async sync message (non-blocking, version 1 for new rows)
	if err := s.publishSync(ctx, created.ID, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", created.ID, "error", err)
		// Don't fail the request - transaction is saved locally
	}

	return created, nil
}

// Update applies a partial update, enforcing ownership, and publishes a
// sync message for the new revision.
func (s *TransactionService) Update(ctx context.Context, userID, id int64, upd store.TransactionUpdate) (core.Transaction, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return core.Transaction{}, err
	}

	updated, err := s.store.UpdateTransaction(ctx, id, upd)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	// Version 0 tells the worker to resolve the current version itself.
	if err := s.publishSync(ctx, id, 0); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "error", err)
	}

	return updated, nil
}

// Delete removes a transaction, enforcing ownership, and publishes a
// delete message.
func (s *TransactionService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if err := s.publishDelete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"id", id, "error", err)
		// Don't fail the request - transaction is deleted locally
	}

	return nil
}

func (s *TransactionService) publishSync(ctx context.Context, id, version int64) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Sync publisher not available, skipping sync message")
		return nil
	}
	return s.publisher.PublishTransactionSync(ctx, id, version)
}

func (s *TransactionService) publishDelete(ctx context.Context, id int64) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Sync publisher not available, skipping delete message")
		return nil
	}
	return s.publisher.PublishTransactionDelete(ctx, id)
}
