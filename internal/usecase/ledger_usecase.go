package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/daybook/internal/domain"
)

// LedgerUseCase handles ledger entry business logic.
type LedgerUseCase struct {
	store     EntryStore
	idGen     IDGenerator
	publisher EventPublisher
	retrier   Retrier
	metrics   Metrics
	logger    zerolog.Logger
	hooks     []func(context.Context, domain.LedgerEvent)
}

// NewLedgerUseCase creates a new LedgerUseCase. A nil publisher, retrier or
// metrics falls back to a no-op.
func NewLedgerUseCase(
	store EntryStore,
	idGen IDGenerator,
	publisher EventPublisher,
	retrier Retrier,
	metrics Metrics,
	logger zerolog.Logger,
) *LedgerUseCase {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if retrier == nil {
		retrier = NoRetry{}
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}

	return &LedgerUseCase{
		store:     store,
		idGen:     idGen,
		publisher: publisher,
		retrier:   retrier,
		metrics:   metrics,
		logger:    logger.With().Str("component", "ledger").Logger(),
	}
}

// OnChange registers fn to run after every successful write, before the write
// returns and before the event is published. Register hooks before serving
// requests.
func (uc *LedgerUseCase) OnChange(fn func(context.Context, domain.LedgerEvent)) {
	uc.hooks = append(uc.hooks, fn)
}

func (uc *LedgerUseCase) changed(ctx context.Context, event domain.LedgerEvent) {
	for _, hook := range uc.hooks {
		hook(ctx, event)
	}
	uc.publisher.Publish(ctx, event)
}

// CreateEntryInput represents input for adding a ledger entry.
type CreateEntryInput struct {
	EntryDate   time.Time
	Particulars string
	DrAmount    decimal.Decimal
	CrAmount    decimal.Decimal
}

// ListEntries returns the whole ledger in order.
func (uc *LedgerUseCase) ListEntries(ctx context.Context) ([]*domain.LedgerEntry, error) {
	return uc.store.List(ctx)
}

// CreateEntry validates and appends a ledger entry.
func (uc *LedgerUseCase) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.LedgerEntry, error) {
	draft := domain.EntryDraft{
		EntryDate:   input.EntryDate,
		Particulars: strings.TrimSpace(input.Particulars),
		DrAmount:    input.DrAmount,
		CrAmount:    input.CrAmount,
	}

	if err := domain.ValidateDraft(draft); err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:          uc.idGen.Generate(),
		EntryDate:   domain.Day(draft.EntryDate),
		Particulars: draft.Particulars,
		DrAmount:    draft.DrAmount,
		CrAmount:    draft.CrAmount,
		CreatedAt:   time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	var rebalanced int
	err := uc.retrier.Retry(ctx, func() error {
		var err error
		rebalanced, err = uc.store.Insert(ctx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.EntryInserted()
	uc.metrics.Rebalanced(rebalanced)

	uc.logger.Info().
		Str("entry_id", entry.ID).
		Str("entry_date", entry.EntryDate.Format(domain.DateLayout)).
		Str("balance", entry.Balance.String()).
		Int("rebalanced", rebalanced).
		Msg("ledger entry created")

	uc.changed(ctx, domain.LedgerEvent{
		OccurredAt: entry.CreatedAt,
		EntryDate:  entry.EntryDate,
		Type:       domain.EventTypeEntryCreated,
		EntryID:    entry.ID,
		Rebalanced: rebalanced,
	})

	return entry, nil
}

// DeleteEntry removes a ledger entry by id.
func (uc *LedgerUseCase) DeleteEntry(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrEntryNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	var (
		removed    *domain.LedgerEntry
		rebalanced int
	)
	err := uc.retrier.Retry(ctx, func() error {
		var err error
		removed, rebalanced, err = uc.store.Remove(ctx, id)
		return err
	})
	if err != nil {
		return err
	}

	uc.metrics.EntryRemoved()
	uc.metrics.Rebalanced(rebalanced)

	uc.logger.Info().
		Str("entry_id", id).
		Int("rebalanced", rebalanced).
		Msg("ledger entry removed")

	uc.changed(ctx, domain.LedgerEvent{
		OccurredAt: time.Now().UTC(),
		EntryDate:  removed.EntryDate,
		Type:       domain.EventTypeEntryRemoved,
		EntryID:    id,
		Rebalanced: rebalanced,
	})

	return nil
}

// Totals returns the ledger summary figures.
func (uc *LedgerUseCase) Totals(ctx context.Context) (domain.LedgerTotals, error) {
	return uc.store.Totals(ctx)
}

// BalanceAsOf returns the opening and closing balance for date.
func (uc *LedgerUseCase) BalanceAsOf(ctx context.Context, date time.Time) (domain.BalanceResult, error) {
	entries, err := uc.store.List(ctx)
	if err != nil {
		return domain.ZeroBalance(date), err
	}

	return domain.BalanceAsOf(date, entries), nil
}

// ConsistencyReport is the outcome of a running-balance check.
type ConsistencyReport struct {
	CheckedAt       time.Time
	Problem         string
	TotalEntries    int
	ExpectedBalance decimal.Decimal
	RecordedBalance decimal.Decimal
	Consistent      bool
}

// CheckConsistency verifies every cached running balance against the
// entries' debits and credits.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	entries, err := uc.store.List(ctx)
	if err != nil {
		return nil, err
	}

	expected := decimal.Zero
	for _, e := range entries {
		expected = expected.Add(e.Net())
	}

	report := &ConsistencyReport{
		CheckedAt:       time.Now().UTC(),
		TotalEntries:    len(entries),
		ExpectedBalance: expected,
		RecordedBalance: domain.TotalsOf(entries).CurrentBalance,
		Consistent:      true,
	}

	if err := domain.VerifyRunningBalances(entries); err != nil {
		if !errors.Is(err, domain.ErrInconsistentLedger) {
			return nil, err
		}

		report.Consistent = false
		report.Problem = err.Error()

		uc.logger.Warn().Err(err).Msg("ledger consistency check failed")
	}

	return report, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, domain.LedgerEvent) {}
