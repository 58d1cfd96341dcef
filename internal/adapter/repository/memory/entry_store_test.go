package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/daybook/internal/domain"
)

func day(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func entry(id, date string, dr, cr int64) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:          id,
		EntryDate:   day(date),
		Particulars: id,
		DrAmount:    decimal.NewFromInt(dr),
		CrAmount:    decimal.NewFromInt(cr),
	}
}

func TestEntryStore_InsertAppends(t *testing.T) {
	ctx := context.Background()
	store := NewEntryStore()

	first := entry("01A", "2024-01-01", 0, 1000)
	n, err := store.Insert(ctx, first)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, first.Balance.Equal(decimal.NewFromInt(1000)))

	second := entry("01B", "2024-01-03", 200, 0)
	_, err = store.Insert(ctx, second)
	require.NoError(t, err)
	assert.True(t, second.Balance.Equal(decimal.NewFromInt(800)))
}

func TestEntryStore_BackdatedInsertRebalancesLaterEntries(t *testing.T) {
	ctx := context.Background()
	store := NewEntryStore()

	_, _ = store.Insert(ctx, entry("01A", "2024-01-01", 0, 1000))
	_, _ = store.Insert(ctx, entry("01B", "2024-01-03", 200, 0))
	_, _ = store.Insert(ctx, entry("01C", "2024-01-05", 0, 50))

	backdated := entry("01D", "2024-01-02", 100, 0)
	n, err := store.Insert(ctx, backdated)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, backdated.Balance.Equal(decimal.NewFromInt(900)))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"01A", "01D", "01B", "01C"}, ids(entries))
	assert.True(t, entries[3].Balance.Equal(decimal.NewFromInt(750)))
	require.NoError(t, domain.VerifyRunningBalances(entries))
}

func TestEntryStore_ZeroEntryLeavesBalancesUnchanged(t *testing.T) {
	ctx := context.Background()
	store := NewEntryStore()

	_, _ = store.Insert(ctx, entry("01A", "2024-01-01", 0, 1000))
	_, _ = store.Insert(ctx, entry("01B", "2024-01-03", 200, 0))
	_, _ = store.Insert(ctx, entry("01C", "2024-01-05", 0, 50))

	before, err := store.List(ctx)
	require.NoError(t, err)

	for _, tt := range []struct {
		name string
		memo *domain.LedgerEntry
		prev string
	}{
		{name: "appended", memo: entry("01D", "2024-01-06", 0, 0), prev: "01C"},
		{name: "back-dated", memo: entry("01E", "2024-01-02", 0, 0), prev: "01A"},
		{name: "same day", memo: entry("01F", "2024-01-03", 0, 0), prev: "01B"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			n, err := store.Insert(ctx, tt.memo)
			require.NoError(t, err)
			assert.Zero(t, n, "no later entry is rewritten")

			entries, err := store.List(ctx)
			require.NoError(t, err)

			byID := map[string]*domain.LedgerEntry{}
			for _, e := range entries {
				byID[e.ID] = e
			}
			assert.True(t, tt.memo.Balance.Equal(byID[tt.prev].Balance),
				"memo balance %s, predecessor %s", tt.memo.Balance, byID[tt.prev].Balance)

			for _, old := range before {
				assert.True(t, byID[old.ID].Balance.Equal(old.Balance), "entry %s changed", old.ID)
			}
			require.NoError(t, domain.VerifyRunningBalances(entries))
		})
	}
}

func TestEntryStore_Remove(t *testing.T) {
	ctx := context.Background()
	store := NewEntryStore()

	_, _ = store.Insert(ctx, entry("01A", "2024-01-01", 0, 1000))
	_, _ = store.Insert(ctx, entry("01B", "2024-01-02", 100, 0))
	_, _ = store.Insert(ctx, entry("01C", "2024-01-03", 200, 0))

	removed, n, err := store.Remove(ctx, "01B")
	require.NoError(t, err)
	assert.Equal(t, "01B", removed.ID)
	assert.Equal(t, 1, n)

	totals, err := store.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.TotalEntries)
	assert.True(t, totals.CurrentBalance.Equal(decimal.NewFromInt(800)))

	_, _, err = store.Remove(ctx, "01B")
	require.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestEntryStore_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewEntryStore()
	_, _ = store.Insert(ctx, entry("01A", "2024-01-01", 0, 10))

	entries, _ := store.List(ctx)
	entries[0].Balance = decimal.NewFromInt(-1)

	again, _ := store.List(ctx)
	assert.True(t, again[0].Balance.Equal(decimal.NewFromInt(10)))
}

func TestEntryStore_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	store := NewEntryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Insert(ctx, entry(fmt.Sprintf("%03d", i), fmt.Sprintf("2024-01-%02d", 1+i%28), 0, 2))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 50)
	require.NoError(t, domain.VerifyRunningBalances(entries))

	totals, _ := store.Totals(ctx)
	assert.True(t, totals.CurrentBalance.Equal(decimal.NewFromInt(100)))
}

func TestEntryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEntryStore().Insert(ctx, entry("01A", "2024-01-01", 0, 1))
	require.ErrorIs(t, err, context.Canceled)
}

func ids(entries []*domain.LedgerEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
