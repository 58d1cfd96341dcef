package domain

import "time"

// Event types
const (
	EventTypeEntryCreated = "ledger.entry.created"
	EventTypeEntryRemoved = "ledger.entry.removed"
)

// LedgerEvent announces a change to the ledger. Rebalanced counts the later
// entries whose cached balance was rewritten by the change.
type LedgerEvent struct {
	OccurredAt time.Time `json:"occurred_at"`
	EntryDate  time.Time `json:"entry_date"`
	Type       string    `json:"type"`
	EntryID    string    `json:"entry_id"`
	Rebalanced int       `json:"rebalanced"`
}
