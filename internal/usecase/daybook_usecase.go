package usecase

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iho/daybook/internal/domain"
)

// DayBookQuery selects the period of a day-book report.
type DayBookQuery struct {
	Anchor      time.Time
	CustomStart *time.Time
	CustomEnd   *time.Time
	Kind        domain.PeriodKind
}

// DayBookUseCase builds income/expenditure reports from the revenue sources.
type DayBookUseCase struct {
	sales       SalesSource
	subscribers SubscriberSource
	purchases   PurchaseSource
	metrics     Metrics
	now         func() time.Time
}

// NewDayBookUseCase creates a new DayBookUseCase.
func NewDayBookUseCase(sales SalesSource, subscribers SubscriberSource, purchases PurchaseSource, metrics Metrics) *DayBookUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}

	return &DayBookUseCase{
		sales:       sales,
		subscribers: subscribers,
		purchases:   purchases,
		metrics:     metrics,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ResolvePeriod turns a query into a concrete period. A zero anchor means now.
func (uc *DayBookUseCase) ResolvePeriod(q DayBookQuery) (*domain.Period, error) {
	anchor := q.Anchor
	if anchor.IsZero() {
		anchor = uc.now()
	}

	return domain.ResolvePeriod(q.Kind, anchor, q.CustomStart, q.CustomEnd)
}

// Build resolves the period and aggregates all sources over it.
func (uc *DayBookUseCase) Build(ctx context.Context, q DayBookQuery) (domain.DayBook, error) {
	period, err := uc.ResolvePeriod(q)
	if err != nil {
		return domain.EmptyDayBook(nil), err
	}

	return uc.BuildForPeriod(ctx, period)
}

// BuildForPeriod aggregates all sources over an already resolved period.
// The three sources are read concurrently.
func (uc *DayBookUseCase) BuildForPeriod(ctx context.Context, period *domain.Period) (domain.DayBook, error) {
	started := time.Now()
	defer func() { uc.metrics.ObserveDayBook(time.Since(started)) }()

	var sources domain.DayBookSources

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lines, err := uc.sales.ListSaleLines(gctx, period)
		sources.Sales = lines
		return err
	})
	g.Go(func() error {
		subs, err := uc.subscribers.ListSubscribers(gctx)
		sources.Subscribers = subs
		return err
	})
	g.Go(func() error {
		purchases, err := uc.purchases.ListPurchases(gctx, period)
		sources.Purchases = purchases
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.EmptyDayBook(period), err
	}

	return domain.Aggregate(sources, period, uc.now()), nil
}
