package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one dated debit-or-credit record in the day book.
// Balance is the running balance as of and including this entry.
type LedgerEntry struct {
	CreatedAt   time.Time
	EntryDate   time.Time
	ID          string
	Particulars string
	DrAmount    decimal.Decimal
	CrAmount    decimal.Decimal
	Balance     decimal.Decimal
}

// Net returns the signed effect of the entry on the running balance.
func (e *LedgerEntry) Net() decimal.Decimal {
	return e.CrAmount.Sub(e.DrAmount)
}

// IsAmbiguous reports whether both sides of the entry carry an amount.
func (e *LedgerEntry) IsAmbiguous() bool {
	return !e.DrAmount.IsZero() && !e.CrAmount.IsZero()
}

// EntryDraft is the caller-supplied part of a new ledger entry.
type EntryDraft struct {
	EntryDate   time.Time
	Particulars string
	DrAmount    decimal.Decimal
	CrAmount    decimal.Decimal
}

// LedgerTotals summarises the whole ledger.
type LedgerTotals struct {
	TotalDr        decimal.Decimal
	TotalCr        decimal.Decimal
	CurrentBalance decimal.Decimal
	TotalEntries   int64
}

// Day returns midnight of t's calendar day in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dayKey orders calendar days without caring about time of day or location.
func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return dayKey(a) == dayKey(b)
}

// DayBefore reports whether a falls on a calendar day strictly before b.
func DayBefore(a, b time.Time) bool {
	return dayKey(a) < dayKey(b)
}

// EntryLess is the ledger ordering: calendar day first, then ID.
func EntryLess(a, b *LedgerEntry) bool {
	ka, kb := dayKey(a.EntryDate), dayKey(b.EntryDate)
	if ka != kb {
		return ka < kb
	}
	return a.ID < b.ID
}

// SortEntries sorts entries in ledger order in place.
func SortEntries(entries []*LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return EntryLess(entries[i], entries[j])
	})
}

// TotalsOf computes ledger-wide totals over entries already in ledger order.
func TotalsOf(entries []*LedgerEntry) LedgerTotals {
	totals := LedgerTotals{
		TotalDr:        decimal.Zero,
		TotalCr:        decimal.Zero,
		CurrentBalance: decimal.Zero,
		TotalEntries:   int64(len(entries)),
	}

	for _, e := range entries {
		totals.TotalDr = totals.TotalDr.Add(e.DrAmount)
		totals.TotalCr = totals.TotalCr.Add(e.CrAmount)
	}

	if n := len(entries); n > 0 {
		totals.CurrentBalance = entries[n-1].Balance
	}

	return totals
}
