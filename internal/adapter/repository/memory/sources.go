package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/iho/daybook/internal/domain"
)

// RevenueSources holds sale lines, subscribers and purchases in memory.
type RevenueSources struct {
	mu          sync.RWMutex
	sales       []domain.SaleLine
	subscribers []domain.Subscriber
	purchases   []domain.Purchase
}

// NewRevenueSources creates empty revenue sources.
func NewRevenueSources() *RevenueSources {
	return &RevenueSources{}
}

// AddSaleLines appends point-of-sale lines.
func (r *RevenueSources) AddSaleLines(lines ...domain.SaleLine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales = append(r.sales, lines...)
}

// AddSubscribers appends subscribers.
func (r *RevenueSources) AddSubscribers(subs ...domain.Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers = append(r.subscribers, subs...)
}

// AddPurchases appends purchases.
func (r *RevenueSources) AddPurchases(purchases ...domain.Purchase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purchases = append(r.purchases, purchases...)
}

func (r *RevenueSources) ListSaleLines(_ context.Context, period *domain.Period) ([]domain.SaleLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.FilterByPeriod(r.sales, func(l domain.SaleLine) time.Time { return l.TransactionDate }, period), nil
}

func (r *RevenueSources) ListSubscribers(_ context.Context) ([]domain.Subscriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.subscribers), nil
}

func (r *RevenueSources) ListPurchases(_ context.Context, period *domain.Period) ([]domain.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.FilterByPeriod(r.purchases, func(p domain.Purchase) time.Time { return p.PurchaseDate }, period), nil
}
