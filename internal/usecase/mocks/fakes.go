package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/iho/daybook/internal/domain"
	"github.com/iho/daybook/internal/usecase"
)

// FakeIDGenerator returns sequential, sortable IDs.
type FakeIDGenerator struct {
	mu      sync.Mutex
	counter int
}

func NewFakeIDGenerator() *FakeIDGenerator {
	return &FakeIDGenerator{}
}

func (g *FakeIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("id-%04d", g.counter)
}

// FakePublisher records published events.
type FakePublisher struct {
	mu     sync.Mutex
	events []domain.LedgerEvent
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (p *FakePublisher) Publish(_ context.Context, event domain.LedgerEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Events returns a copy of everything published so far.
func (p *FakePublisher) Events() []domain.LedgerEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.LedgerEvent(nil), p.events...)
}

// Reset forgets every recorded event.
func (p *FakePublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

// FakeCache is a map-backed Cache. TTLs are ignored.
type FakeCache struct {
	mu   sync.Mutex
	data map[string][]byte

	GetErr error
}

func NewFakeCache() *FakeCache {
	return &FakeCache{data: make(map[string][]byte)}
}

func (c *FakeCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, usecase.ErrCacheMiss
}

func (c *FakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *FakeCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

// Len returns the number of cached keys.
func (c *FakeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// FakeSubscription is an EventSubscription fed by the test.
type FakeSubscription struct {
	C            chan domain.LedgerEvent
	once         sync.Once
	Unsubscribed chan struct{}
}

func NewFakeSubscription(buffer int) *FakeSubscription {
	return &FakeSubscription{
		C:            make(chan domain.LedgerEvent, buffer),
		Unsubscribed: make(chan struct{}),
	}
}

func (s *FakeSubscription) Events() <-chan domain.LedgerEvent {
	return s.C
}

func (s *FakeSubscription) Unsubscribe() {
	s.once.Do(func() { close(s.Unsubscribed) })
}
