package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/daybook/internal/domain"
	"github.com/iho/daybook/internal/usecase"
	"github.com/iho/daybook/internal/usecase/mocks"
)

func TestEventsHandler_StreamsUntilSubscriptionCloses(t *testing.T) {
	sub := mocks.NewFakeSubscription(4)
	h := NewEventsHandler(func(int) usecase.EventSubscription { return sub }, zerolog.Nop())

	sub.C <- domain.LedgerEvent{Type: domain.EventTypeEntryCreated, EntryID: "01A", Rebalanced: 2}
	close(sub.C)

	rr := httptest.NewRecorder()
	h.Stream(rr, httptest.NewRequest(http.MethodGet, "/events", nil))

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "event: "+domain.EventTypeEntryCreated+"\n")
	assert.Contains(t, rr.Body.String(), `"entry_id":"01A"`)

	select {
	case <-sub.Unsubscribed:
	default:
		t.Fatal("expected subscription to be released")
	}
}

func TestEventsHandler_UnsubscribesOnDisconnect(t *testing.T) {
	sub := mocks.NewFakeSubscription(1)
	h := NewEventsHandler(func(int) usecase.EventSubscription { return sub }, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Stream(httptest.NewRecorder(), req)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after disconnect")
	}

	select {
	case <-sub.Unsubscribed:
	default:
		t.Fatal("expected subscription to be released")
	}
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler(map[string]Check{
		"postgres": func(ctx context.Context) error { return nil },
	})

	rr := httptest.NewRecorder()
	h.Liveness(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.Readiness(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"postgres":"ok"`)

	failing := NewHealthHandler(map[string]Check{
		"redis": func(ctx context.Context) error { return context.DeadlineExceeded },
	})
	rr = httptest.NewRecorder()
	failing.Readiness(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
