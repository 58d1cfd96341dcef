package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/daybook/internal/domain"
)

const summaryCachePrefix = "daybook:summary:"

// ReportUseCase combines the ledger balance and the day book into one summary.
//
// Either half failing degrades to zeros for that half instead of failing the
// whole report.
type ReportUseCase struct {
	ledger   *LedgerUseCase
	daybook  *DayBookUseCase
	cache    Cache
	cacheTTL time.Duration
	metrics  Metrics
	logger   zerolog.Logger

	// generation advances on every invalidation
	generation atomic.Uint64
}

// NewReportUseCase creates a new ReportUseCase. cache may be nil; when set,
// every ledger write drops the cached summaries before it returns.
func NewReportUseCase(
	ledger *LedgerUseCase,
	daybook *DayBookUseCase,
	cache Cache,
	cacheTTL time.Duration,
	metrics Metrics,
	logger zerolog.Logger,
) *ReportUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultSummaryCacheTTL
	}

	uc := &ReportUseCase{
		ledger:   ledger,
		daybook:  daybook,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		logger:   logger.With().Str("component", "report").Logger(),
	}
	if cache != nil {
		ledger.OnChange(uc.Invalidate)
	}

	return uc
}

// Summary returns the balance of q.Anchor's day and the day book of q's
// period. Only an invalid period is reported as an error.
func (uc *ReportUseCase) Summary(ctx context.Context, q DayBookQuery) (domain.PeriodSummary, error) {
	if q.Anchor.IsZero() {
		q.Anchor = uc.daybook.now()
	}

	period, err := uc.daybook.ResolvePeriod(q)
	if err != nil {
		return domain.PeriodSummary{}, err
	}

	key := summaryKey(q.Anchor, period)
	if summary, ok := uc.fromCache(ctx, key); ok {
		return summary, nil
	}

	generation := uc.generation.Load()
	degraded := false

	balance, err := uc.ledger.BalanceAsOf(ctx, q.Anchor)
	if err != nil {
		degraded = true
		uc.logger.Error().Err(err).Msg("balance unavailable, reporting zeros")
		uc.metrics.SummaryFallback(SummaryPartBalance)
		balance = domain.ZeroBalance(q.Anchor)
	}

	book, err := uc.daybook.BuildForPeriod(ctx, period)
	if err != nil {
		degraded = true
		uc.logger.Error().Err(err).Msg("revenue unavailable, reporting zeros")
		uc.metrics.SummaryFallback(SummaryPartRevenue)
		book = domain.EmptyDayBook(period)
	}

	summary := domain.NewPeriodSummary(balance, book)

	// degraded summaries are not cached, nor ones a write raced with
	if uc.cache != nil && !degraded && uc.generation.Load() == generation {
		uc.toCache(ctx, key, summary)
	}

	return summary, nil
}

// Invalidate removes every cached summary.
func (uc *ReportUseCase) Invalidate(ctx context.Context, event domain.LedgerEvent) {
	if uc.cache == nil {
		return
	}
	uc.generation.Add(1)

	if err := uc.cache.DeletePrefix(ctx, summaryCachePrefix); err != nil {
		uc.logger.Warn().Err(err).Str("event", event.Type).Msg("failed to invalidate summary cache")
		return
	}

	uc.logger.Debug().Str("event", event.Type).Str("entry_id", event.EntryID).Msg("summary cache invalidated")
}

func (uc *ReportUseCase) fromCache(ctx context.Context, key string) (domain.PeriodSummary, bool) {
	var summary domain.PeriodSummary
	if uc.cache == nil {
		return summary, false
	}

	data, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			uc.logger.Warn().Err(err).Str("key", key).Msg("summary cache read failed")
		}
		return summary, false
	}

	if err := json.Unmarshal(data, &summary); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("discarding corrupt cached summary")
		return summary, false
	}

	return summary, true
}

func (uc *ReportUseCase) toCache(ctx context.Context, key string, summary domain.PeriodSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, key, data, uc.cacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("summary cache write failed")
	}
}

func summaryKey(anchor time.Time, period *domain.Period) string {
	day := anchor.Format(domain.DateLayout)
	if period == nil {
		return fmt.Sprintf("%s%s:all", summaryCachePrefix, day)
	}

	return fmt.Sprintf("%s%s:%s:%s", summaryCachePrefix, day,
		period.Start.Format(domain.DateLayout), period.End.Format(domain.DateLayout))
}
