package memory

import (
	"context"
	"fmt"
	"sync"

	"finboard/internal/core"
)

// Exporter keeps exported transactions in memory. Used in tests and as
// the backend when no spreadsheet is configured.
type Exporter struct {
	mu    sync.Mutex
	items map[int64]core.Transaction
}

func New() *Exporter {
	return &Exporter{items: make(map[int64]core.Transaction)}
}

// Append stores the transaction and returns a synthetic row reference.
func (e *Exporter) Append(_ context.Context, id int64, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.items[id] = t
	return fmt.Sprintf("mem:%d", id), nil
}

// Delete removes the exported copy if present.
func (e *Exporter) Delete(_ context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.items, id)
	return nil
}

// Get returns the exported copy, for assertions in tests.
func (e *Exporter) Get(id int64) (core.Transaction, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.items[id]
	return t, ok
}

// Len returns the number of exported transactions.
func (e *Exporter) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.items)
}
