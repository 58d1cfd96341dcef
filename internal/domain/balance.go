package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceResult is the opening/closing position of the ledger for one day.
type BalanceResult struct {
	Date        time.Time
	Opening     decimal.Decimal
	Closing     decimal.Decimal
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	EntryCount  int
}

// ZeroBalance returns the zero-valued result for date.
func ZeroBalance(date time.Time) BalanceResult {
	return BalanceResult{
		Date:        Day(date),
		Opening:     decimal.Zero,
		Closing:     decimal.Zero,
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
}

// BalanceAsOf derives the opening and closing balance for date.
//
// Entries must be in ledger order. Opening is the cached balance of the last
// entry on an earlier day, or zero. Closing is always
// opening + credits - debits of the entries dated on that day.
func BalanceAsOf(date time.Time, entries []*LedgerEntry) BalanceResult {
	result := ZeroBalance(date)

	for _, e := range entries {
		switch {
		case DayBefore(e.EntryDate, date):
			result.Opening = e.Balance
		case SameDay(e.EntryDate, date):
			result.TotalDebit = result.TotalDebit.Add(e.DrAmount)
			result.TotalCredit = result.TotalCredit.Add(e.CrAmount)
			result.EntryCount++
		}
	}

	result.Closing = result.Opening.Add(result.TotalCredit).Sub(result.TotalDebit)

	return result
}

// RunningBalances rewrites the cached balance of entries[from:] from the
// balance of entries[from-1]. It returns the entries whose balance changed.
// Entries must be in ledger order.
func RunningBalances(entries []*LedgerEntry, from int) []*LedgerEntry {
	if from < 0 {
		from = 0
	}

	prev := decimal.Zero
	if from > 0 && from <= len(entries) {
		prev = entries[from-1].Balance
	}

	var changed []*LedgerEntry
	for i := from; i < len(entries); i++ {
		next := prev.Add(entries[i].Net())
		if !next.Equal(entries[i].Balance) {
			entries[i].Balance = next
			changed = append(changed, entries[i])
		}
		prev = next
	}

	return changed
}

// InsertPosition returns the index at which entry belongs in sorted entries.
func InsertPosition(entries []*LedgerEntry, entry *LedgerEntry) int {
	for i, e := range entries {
		if EntryLess(entry, e) {
			return i
		}
	}
	return len(entries)
}

// VerifyRunningBalances checks the running-balance invariant over entries in
// ledger order and returns an error naming the first offending entry.
func VerifyRunningBalances(entries []*LedgerEntry) error {
	expected := decimal.Zero
	for _, e := range entries {
		expected = expected.Add(e.Net())
		if !expected.Equal(e.Balance) {
			return fmt.Errorf("%w: entry %s has balance %s, expected %s",
				ErrInconsistentLedger, e.ID, e.Balance.String(), expected.String())
		}
	}

	return nil
}
