package memory

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"expensemate/internal/core"
	"expensemate/internal/store"
)

var _ store.RecordLister = (*Store)(nil)

// Store is a read-only in-process record provider.
type Store struct {
	mu      sync.RWMutex
	records []core.ExpenseRecord
}

func New(records []core.ExpenseRecord) *Store {
	return &Store{records: append([]core.ExpenseRecord(nil), records...)}
}

// NewDemo returns a store seeded with the built-in demonstration dataset.
func NewDemo() *Store {
	return New(store.DemoRecords())
}

// NewFromFile seeds the store from a JSON seed file. A missing path or file
// falls back to the demonstration dataset; a malformed file is an error.
func NewFromFile(path string) (*Store, error) {
	if path == "" {
		return NewDemo(), nil
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		slog.Warn("Seed file not found, using demo dataset", "path", path)
		return NewDemo(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	records, err := store.DecodeSeed(f)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return New(records), nil
}

// ListRecords returns a copy of the records in store order.
func (s *Store) ListRecords(_ context.Context) ([]core.ExpenseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.ExpenseRecord(nil), s.records...), nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
