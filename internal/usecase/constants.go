package usecase

import (
	"context"
	"time"
)

const (
	// DefaultTransactionTimeout is the maximum duration for a ledger write
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultSummaryCacheTTL is how long a computed summary is served from cache
	DefaultSummaryCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// Summary parts reported to Metrics.SummaryFallback
	SummaryPartBalance = "balance"
	SummaryPartRevenue = "revenue"
)

// NopMetrics discards all measurements.
type NopMetrics struct{}

func (NopMetrics) EntryInserted()               {}
func (NopMetrics) EntryRemoved()                {}
func (NopMetrics) Rebalanced(int)               {}
func (NopMetrics) SummaryFallback(string)       {}
func (NopMetrics) ObserveDayBook(time.Duration) {}

// NoRetry runs the operation exactly once.
type NoRetry struct{}

// Retry implements Retrier.
func (NoRetry) Retry(_ context.Context, operation func() error) error {
	return operation()
}

// IdempotencyPending marks an idempotency key whose request is still running.
const IdempotencyPending = "processing"
