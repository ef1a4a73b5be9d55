package worker

import (
	"context"
	"errors"
	"testing"

	"finboard/internal/amqp"
	"finboard/internal/core"
	exportmem "finboard/internal/export/memory"
	"finboard/internal/storage"
)

type fakeSyncStore struct {
	txs     map[int64]core.Transaction
	pending []storage.PendingSyncTransaction
	synced  []int64
	errored []int64
}

func newFakeSyncStore() *fakeSyncStore {
	return &fakeSyncStore{txs: make(map[int64]core.Transaction)}
}

func (s *fakeSyncStore) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	t, ok := s.txs[id]
	if !ok {
		return core.Transaction{}, errors.New("not found")
	}
	return t, nil
}

func (s *fakeSyncStore) GetPendingSyncTransactions(_ context.Context, limit int) ([]storage.PendingSyncTransaction, error) {
	if len(s.pending) > limit {
		return s.pending[:limit], nil
	}
	return s.pending, nil
}

func (s *fakeSyncStore) MarkSynced(_ context.Context, id int64) error {
	s.synced = append(s.synced, id)
	return nil
}

func (s *fakeSyncStore) MarkSyncError(_ context.Context, id int64) error {
	s.errored = append(s.errored, id)
	return nil
}

func sampleTx() core.Transaction {
	return core.Transaction{
		UserID:   1,
		Amount:   core.Money{Cents: 4200},
		Type:     core.Expense,
		Category: "food",
		Date:     core.NewDate(2024, 3, 10),
	}
}

type failingWriter struct{}

func (failingWriter) Append(context.Context, int64, core.Transaction) (string, error) {
	return "", errors.New("quota exceeded")
}

func TestHandleSyncMessageExportsAndMarks(t *testing.T) {
	store := newFakeSyncStore()
	store.txs[7] = sampleTx()
	exporter := exportmem.New()
	w := NewSyncWorker(store, exporter, exporter, 10)

	msg := amqp.NewTransactionSyncMessage(7, 1)
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle sync: %v", err)
	}

	if _, ok := exporter.Get(7); !ok {
		t.Error("transaction not exported")
	}
	if len(store.synced) != 1 || store.synced[0] != 7 {
		t.Errorf("synced = %v, want [7]", store.synced)
	}
}

func TestHandleSyncMessageMissingTransaction(t *testing.T) {
	store := newFakeSyncStore()
	exporter := exportmem.New()
	w := NewSyncWorker(store, exporter, exporter, 10)

	msg := amqp.NewTransactionSyncMessage(99, 1)
	if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error for missing transaction")
	}
}

func TestHandleSyncMessageWriterFailureMarksError(t *testing.T) {
	store := newFakeSyncStore()
	store.txs[7] = sampleTx()
	w := NewSyncWorker(store, failingWriter{}, nil, 10)

	msg := amqp.NewTransactionSyncMessage(7, 1)
	if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
		t.Fatal("expected writer failure to propagate")
	}
	if len(store.errored) != 1 || store.errored[0] != 7 {
		t.Errorf("errored = %v, want [7]", store.errored)
	}
	if len(store.synced) != 0 {
		t.Errorf("synced = %v, want none", store.synced)
	}
}

func TestHandleDeleteMessage(t *testing.T) {
	store := newFakeSyncStore()
	store.txs[7] = sampleTx()
	exporter := exportmem.New()
	w := NewSyncWorker(store, exporter, exporter, 10)

	ctx := context.Background()
	if err := w.HandleSyncMessage(ctx, amqp.NewTransactionSyncMessage(7, 1)); err != nil {
		t.Fatalf("handle sync: %v", err)
	}
	if err := w.HandleDeleteMessage(ctx, amqp.NewTransactionDeleteMessage(7)); err != nil {
		t.Fatalf("handle delete: %v", err)
	}
	if _, ok := exporter.Get(7); ok {
		t.Error("exported copy should be removed")
	}
}

func TestHandleDeleteMessageNilDeleter(t *testing.T) {
	w := NewSyncWorker(newFakeSyncStore(), exportmem.New(), nil, 10)
	if err := w.HandleDeleteMessage(context.Background(), amqp.NewTransactionDeleteMessage(7)); err != nil {
		t.Fatalf("nil deleter should be skipped, got %v", err)
	}
}

func TestProcessPendingTransactions(t *testing.T) {
	store := newFakeSyncStore()
	store.txs[1] = sampleTx()
	store.txs[2] = sampleTx()
	store.pending = []storage.PendingSyncTransaction{{ID: 1, Version: 1}, {ID: 2, Version: 3}}
	exporter := exportmem.New()
	w := NewSyncWorker(store, exporter, exporter, 10)

	if err := w.ProcessPendingTransactions(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if exporter.Len() != 2 {
		t.Errorf("exported = %d, want 2", exporter.Len())
	}
	if len(store.synced) != 2 {
		t.Errorf("synced = %v, want two entries", store.synced)
	}
}

func TestProcessPendingRespectsBatchSize(t *testing.T) {
	store := newFakeSyncStore()
	for i := int64(1); i <= 5; i++ {
		store.txs[i] = sampleTx()
		store.pending = append(store.pending, storage.PendingSyncTransaction{ID: i, Version: 1})
	}
	exporter := exportmem.New()
	w := NewSyncWorker(store, exporter, exporter, 2)

	if err := w.ProcessPendingTransactions(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if exporter.Len() != 2 {
		t.Errorf("exported = %d, want batch of 2", exporter.Len())
	}
}

func TestProcessPendingContinuesPastFailures(t *testing.T) {
	store := newFakeSyncStore()
	// ID 1 is pending but missing from storage, ID 2 is fine.
	store.txs[2] = sampleTx()
	store.pending = []storage.PendingSyncTransaction{{ID: 1, Version: 1}, {ID: 2, Version: 1}}
	exporter := exportmem.New()
	w := NewSyncWorker(store, exporter, exporter, 10)

	if err := w.ProcessPendingTransactions(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if len(store.errored) != 1 || store.errored[0] != 1 {
		t.Errorf("errored = %v, want [1]", store.errored)
	}
	if _, ok := exporter.Get(2); !ok {
		t.Error("healthy transaction should still be exported")
	}
}
