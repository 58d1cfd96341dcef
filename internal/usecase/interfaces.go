package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/daybook/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// EntryStore is the ordered collection of ledger entries.
//
// Insert and Remove are atomic and serialized against each other: the new
// entry's balance and every later entry's balance are written in one step.
// The store does not validate drafts.
type EntryStore interface {
	// List returns all entries ordered by calendar day, then ID.
	List(ctx context.Context) ([]*domain.LedgerEntry, error)
	// Insert stores entry, sets entry.Balance and returns how many later
	// entries had their balance rewritten.
	Insert(ctx context.Context, entry *domain.LedgerEntry) (int, error)
	// Remove deletes the entry with id and rebalances later entries.
	Remove(ctx context.Context, id string) (*domain.LedgerEntry, int, error)
	// Totals returns ledger-wide debit/credit totals and the current balance.
	Totals(ctx context.Context) (domain.LedgerTotals, error)
}

// SalesSource reads point-of-sale lines. Implementations may use period to
// narrow the query; a nil period means all lines.
type SalesSource interface {
	ListSaleLines(ctx context.Context, period *domain.Period) ([]domain.SaleLine, error)
}

// SubscriberSource reads recurring-service subscribers.
type SubscriberSource interface {
	ListSubscribers(ctx context.Context) ([]domain.Subscriber, error)
}

// PurchaseSource reads stock purchases.
type PurchaseSource interface {
	ListPurchases(ctx context.Context, period *domain.Period) ([]domain.Purchase, error)
}

// EventPublisher announces ledger changes.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent)
}

// EventSubscription is a live feed of ledger events.
type EventSubscription interface {
	Events() <-chan domain.LedgerEvent
	Unsubscribe()
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Delete releases a key so the request can be retried.
	Delete(ctx context.Context, key string) error
}

// Metrics records ledger activity.
type Metrics interface {
	EntryInserted()
	EntryRemoved()
	Rebalanced(n int)
	SummaryFallback(part string)
	ObserveDayBook(d time.Duration)
}
