package handler

import (
	"net/http"

	"github.com/josh-kwaku/stripe-live-feed/internal/domain"
)

type eventReader interface {
	Snapshot() []domain.NormalizedEvent
	HasNewerThan(since string) bool
}

// EventsHandler serves the polling API. Both operations are reads.
type EventsHandler struct {
	events eventReader
}

func NewEventsHandler(events eventReader) *EventsHandler {
	return &EventsHandler{events: events}
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.events.Snapshot())
}

// CheckNew answers whether anything arrived after the client's lastTimestamp.
// A client that has seen nothing yet is always told to fetch.
func (h *EventsHandler) CheckNew(w http.ResponseWriter, r *http.Request) {
	since := r.URL.Query().Get("lastTimestamp")
	hasNew := since == "" || h.events.HasNewerThan(since)
	RespondJSON(w, http.StatusOK, checkNewResponse{HasNewEvents: hasNew})
}

func (h *EventsHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	RespondAppError(w, ErrEndpointNotFound)
}
