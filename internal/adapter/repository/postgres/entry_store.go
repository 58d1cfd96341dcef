package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/daybook/internal/domain"
	"github.com/iho/daybook/internal/infrastructure/postgres/generated"
)

// ledgerLockKey is the advisory lock serializing all ledger writers.
const ledgerLockKey int64 = 0x64617962_6f6f6b // "daybook"

// EntryStore implements usecase.EntryStore on PostgreSQL.
//
// Writers take a transaction-scoped advisory lock, so running balances are
// recomputed by one writer at a time while readers are never blocked.
type EntryStore struct {
	queries   *generated.Queries
	txManager *TxManager
}

// NewEntryStore creates a new EntryStore.
func NewEntryStore(pool *pgxpool.Pool) *EntryStore {
	return newEntryStoreWithPool(pool)
}

func newEntryStoreWithPool(pool pgxPool) *EntryStore {
	return &EntryStore{
		queries:   generated.New(pool),
		txManager: newTxManagerWithPool(pool),
	}
}

// List returns every entry in ledger order.
func (s *EntryStore) List(ctx context.Context) ([]*domain.LedgerEntry, error) {
	rows, err := s.queries.ListLedgerEntries(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToLedgerEntry(row))
	}

	return entries, nil
}

// Insert stores entry with its running balance and shifts the balance of
// every later entry by the entry's net amount.
func (s *EntryStore) Insert(ctx context.Context, entry *domain.LedgerEntry) (int, error) {
	var shifted int64

	err := s.txManager.RunInTx(ctx, func(q *generated.Queries) error {
		if err := q.LockLedger(ctx, ledgerLockKey); err != nil {
			return err
		}

		entryDate := dateToPgDate(entry.EntryDate)

		previous, err := q.GetPrecedingBalance(ctx, generated.GetPrecedingBalanceParams{
			EntryDate: entryDate,
			ID:        entry.ID,
		})
		if err != nil {
			return err
		}

		balance := numericToDecimal(previous).Add(entry.Net())

		if _, err := q.InsertLedgerEntry(ctx, generated.InsertLedgerEntryParams{
			ID:          entry.ID,
			EntryDate:   entryDate,
			Particulars: entry.Particulars,
			DrAmount:    decimalToNumeric(entry.DrAmount),
			CrAmount:    decimalToNumeric(entry.CrAmount),
			Balance:     decimalToNumeric(balance),
			CreatedAt:   timeToPgTimestamptz(entry.CreatedAt),
		}); err != nil {
			return err
		}

		if net := entry.Net(); !net.IsZero() {
			shifted, err = q.ShiftBalancesAfter(ctx, generated.ShiftBalancesAfterParams{
				EntryDate: entryDate,
				ID:        entry.ID,
				Delta:     decimalToNumeric(net),
			})
			if err != nil {
				return err
			}
		}

		entry.Balance = balance
		return nil
	})
	if err != nil {
		return 0, err
	}

	return int(shifted), nil
}

// Remove deletes an entry and takes its net amount back out of every later
// balance.
func (s *EntryStore) Remove(ctx context.Context, id string) (*domain.LedgerEntry, int, error) {
	var (
		removed *domain.LedgerEntry
		shifted int64
	)

	err := s.txManager.RunInTx(ctx, func(q *generated.Queries) error {
		if err := q.LockLedger(ctx, ledgerLockKey); err != nil {
			return err
		}

		row, err := q.DeleteLedgerEntry(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrEntryNotFound
			}
			return err
		}

		removed = rowToLedgerEntry(row)

		if net := removed.Net(); !net.IsZero() {
			shifted, err = q.ShiftBalancesAfter(ctx, generated.ShiftBalancesAfterParams{
				EntryDate: row.EntryDate,
				ID:        row.ID,
				Delta:     decimalToNumeric(net.Neg()),
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return removed, int(shifted), nil
}

// Totals returns ledger-wide sums computed by the database.
func (s *EntryStore) Totals(ctx context.Context) (domain.LedgerTotals, error) {
	row, err := s.queries.GetLedgerTotals(ctx)
	if err != nil {
		return domain.LedgerTotals{}, err
	}

	return domain.LedgerTotals{
		TotalDr:        numericToDecimal(row.TotalDr),
		TotalCr:        numericToDecimal(row.TotalCr),
		CurrentBalance: numericToDecimal(row.CurrentBalance),
		TotalEntries:   row.TotalEntries,
	}, nil
}

func rowToLedgerEntry(row generated.LedgerEntry) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:          row.ID,
		EntryDate:   row.EntryDate.Time,
		Particulars: row.Particulars,
		DrAmount:    numericToDecimal(row.DrAmount),
		CrAmount:    numericToDecimal(row.CrAmount),
		Balance:     numericToDecimal(row.Balance),
		CreatedAt:   row.CreatedAt.Time,
	}
}
