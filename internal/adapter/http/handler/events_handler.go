package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/daybook/internal/usecase"
)

const (
	eventBuffer       = 16
	keepAliveInterval = 15 * time.Second
)

// SubscribeFunc opens a new ledger event subscription.
type SubscribeFunc func(buffer int) usecase.EventSubscription

// EventsHandler streams ledger events as server-sent events.
type EventsHandler struct {
	subscribe SubscribeFunc
	logger    zerolog.Logger
	keepAlive time.Duration
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(subscribe SubscribeFunc, logger zerolog.Logger) *EventsHandler {
	return &EventsHandler{subscribe: subscribe, logger: logger, keepAlive: keepAliveInterval}
}

// Stream handles GET /events. The subscription ends with the request.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	// the stream outlives the server write timeout
	_ = rc.SetWriteDeadline(time.Time{})

	sub := h.subscribe(eventBuffer)
	defer sub.Unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := rc.Flush(); err != nil {
		h.logger.Warn().Err(err).Msg("streaming unsupported")
		return
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case event, ok := <-sub.Events():
			if !ok {
				return
			}

			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error().Err(err).Str("entry_id", event.EntryID).Msg("failed to encode event")
				continue
			}

			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload); err != nil {
				return
			}
		}

		if err := rc.Flush(); err != nil {
			return
		}
	}
}
