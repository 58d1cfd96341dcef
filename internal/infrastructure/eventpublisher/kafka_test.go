package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/iho/daybook/internal/domain"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherWritesKeyedMessage(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	event := domain.LedgerEvent{
		Type:       domain.EventTypeEntryCreated,
		EntryID:    "01HX",
		OccurredAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		Rebalanced: 2,
	}

	if err := p.Publish(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(w.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(w.messages))
	}
	msg := w.messages[0]
	if string(msg.Key) != "01HX" {
		t.Fatalf("expected entry id key, got %q", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != domain.EventTypeEntryCreated {
		t.Fatalf("expected event type header, got %#v", msg.Headers)
	}

	var decoded domain.LedgerEvent
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if decoded.Rebalanced != 2 || decoded.Type != event.Type {
		t.Fatalf("unexpected payload %#v", decoded)
	}

	if err := p.Close(); err != nil || !w.closed {
		t.Fatalf("expected writer to be closed")
	}
}

func TestKafkaPublisherReturnsWriteError(t *testing.T) {
	writeErr := errors.New("leader not available")
	p := &KafkaPublisher{writer: &fakeWriter{err: writeErr}}

	if err := p.Publish(context.Background(), domain.LedgerEvent{EntryID: "x"}); !errors.Is(err, writeErr) {
		t.Fatalf("expected write error, got %v", err)
	}
}
