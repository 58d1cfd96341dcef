// Package memory provides in-process implementations of the storage ports,
// used when no database is configured and in tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/iho/daybook/internal/domain"
)

// EntryStore is a mutex-guarded, always-sorted ledger.
type EntryStore struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry
}

// NewEntryStore creates an empty EntryStore.
func NewEntryStore() *EntryStore {
	return &EntryStore{}
}

// List returns copies of all entries in ledger order.
func (s *EntryStore) List(_ context.Context) ([]*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.LedgerEntry, len(s.entries))
	for i, e := range s.entries {
		c := *e
		out[i] = &c
	}
	return out, nil
}

// Insert places entry at its ledger position and recomputes balances from
// there on.
func (s *EntryStore) Insert(ctx context.Context, entry *domain.LedgerEntry) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	stored := *entry

	s.mu.Lock()
	defer s.mu.Unlock()

	pos := domain.InsertPosition(s.entries, &stored)
	s.entries = slices.Insert(s.entries, pos, &stored)

	changed := domain.RunningBalances(s.entries, pos)
	entry.Balance = stored.Balance

	// only later entries count as rebalanced
	rebalanced := 0
	for _, e := range changed {
		if e != &stored {
			rebalanced++
		}
	}

	return rebalanced, nil
}

// Remove deletes the entry with id and recomputes the balances after it.
func (s *EntryStore) Remove(ctx context.Context, id string) (*domain.LedgerEntry, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pos := slices.IndexFunc(s.entries, func(e *domain.LedgerEntry) bool { return e.ID == id })
	if pos < 0 {
		return nil, 0, domain.ErrEntryNotFound
	}

	removed := *s.entries[pos]
	s.entries = slices.Delete(s.entries, pos, pos+1)

	changed := domain.RunningBalances(s.entries, pos)

	return &removed, len(changed), nil
}

// Totals computes the ledger totals.
func (s *EntryStore) Totals(_ context.Context) (domain.LedgerTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.TotalsOf(s.entries), nil
}
