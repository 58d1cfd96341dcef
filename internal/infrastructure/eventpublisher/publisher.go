package eventpublisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/daybook/internal/domain"
	"github.com/iho/daybook/internal/usecase"
)

// EventPublisher forwards ledger events from an in-process subscription to an
// external Publisher. Events that fail to publish are retried on the next
// tick, up to maxPending of them.
type EventPublisher struct {
	source     usecase.EventSubscription
	publisher  Publisher
	logger     zerolog.Logger
	batchSize  int
	interval   time.Duration
	maxPending int
	pending    []domain.LedgerEvent
}

// Publisher defines the interface for publishing events to external systems.
type Publisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent) error
}

// Config for EventPublisher.
type Config struct {
	Source     usecase.EventSubscription
	Publisher  Publisher
	Logger     zerolog.Logger
	BatchSize  int           // Pending events that trigger an immediate flush
	Interval   time.Duration // Flush interval
	MaxPending int           // Oldest events are dropped beyond this
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.MaxPending == 0 {
		cfg.MaxPending = 10 * cfg.BatchSize
	}

	return &EventPublisher{
		source:     cfg.Source,
		publisher:  cfg.Publisher,
		logger:     cfg.Logger.With().Str("component", "event_publisher").Logger(),
		batchSize:  cfg.BatchSize,
		interval:   cfg.Interval,
		maxPending: cfg.MaxPending,
	}
}

// Start forwards events until the context is cancelled or the source closes.
// It unsubscribes from the source on return.
func (ep *EventPublisher) Start(ctx context.Context) error {
	defer ep.source.Unsubscribe()

	ep.logger.Info().
		Int("batch_size", ep.batchSize).
		Dur("interval", ep.interval).
		Msg("event publisher started")

	ticker := time.NewTicker(ep.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ep.drain()
			ep.logger.Info().Int("undelivered", len(ep.pending)).Msg("event publisher shutting down")
			return ctx.Err()
		case event, ok := <-ep.source.Events():
			if !ok {
				ep.drain()
				ep.logger.Info().Msg("event source closed")
				return nil
			}
			ep.enqueue(event)
			if len(ep.pending) >= ep.batchSize {
				ep.processEvents(ctx)
			}
		case <-ticker.C:
			ep.processEvents(ctx)
		}
	}
}

// drain makes one last delivery attempt with a short deadline of its own.
func (ep *EventPublisher) drain() {
	if len(ep.pending) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), ep.interval)
	defer cancel()
	ep.processEvents(ctx)
}

func (ep *EventPublisher) enqueue(event domain.LedgerEvent) {
	ep.pending = append(ep.pending, event)

	if over := len(ep.pending) - ep.maxPending; over > 0 {
		ep.logger.Warn().Int("dropped", over).Msg("too many undelivered events, dropping oldest")
		ep.pending = append(ep.pending[:0], ep.pending[over:]...)
	}
}

// processEvents publishes pending events in order and keeps the ones that
// failed.
func (ep *EventPublisher) processEvents(ctx context.Context) {
	if len(ep.pending) == 0 {
		return
	}

	ep.logger.Debug().Int("count", len(ep.pending)).Msg("processing events")

	failed := ep.pending[:0]
	for _, event := range ep.pending {
		if err := ep.publisher.Publish(ctx, event); err != nil {
			ep.logger.Error().
				Err(err).
				Str("event_type", event.Type).
				Str("entry_id", event.EntryID).
				Msg("failed to publish event")
			// Continue processing other events even if one fails
			failed = append(failed, event)
			continue
		}
	}

	ep.pending = failed
}

// LogPublisher is a simple publisher that logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, event domain.LedgerEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_type", event.Type).
		Str("entry_id", event.EntryID).
		RawJSON("payload", payload).
		Msg("ledger event")

	return nil
}
