package handler

import (
	"net/http"
	"strconv"

	"github.com/IANDYI/care-log/internal/core/domain"
	"github.com/IANDYI/care-log/internal/core/ports"
)

// EventHandler handles HTTP requests for care events
type EventHandler struct {
	eventService ports.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService ports.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// RecordEvent handles POST /babies/{baby_id}/events/{kind}
// PARENT: owned, active profiles only (ADMIN cannot record events)
func (h *EventHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	req, ok := begin(w, r)
	if !ok {
		return
	}
	babyID, ok := req.pathID(w, r, "baby_id")
	if !ok {
		return
	}
	payload, ok := req.body(w, r)
	if !ok {
		return
	}
	kind := domain.EventKind(r.PathValue("kind"))

	record, err := h.eventService.RecordEvent(r.Context(), babyID, kind, payload, req.userID(), req.isAdmin())
	if err != nil {
		req.fail(w, "record "+string(kind)+" event", err)
		return
	}
	req.respond(w, http.StatusCreated, record)
}

// ListEvents handles GET /babies/{baby_id}/events?kind=&limit=
// ADMIN: any baby, PARENT: owned only
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	req, ok := begin(w, r)
	if !ok {
		return
	}
	babyID, ok := req.pathID(w, r, "baby_id")
	if !ok {
		return
	}

	var kind *domain.EventKind
	var limit *int

	if kindParam := r.URL.Query().Get("kind"); kindParam != "" {
		k := domain.EventKind(kindParam)
		kind = &k
	}
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		limitInt, err := strconv.Atoi(limitParam)
		if err != nil || limitInt <= 0 {
			req.writeError(w, http.StatusBadRequest, "invalid limit parameter (must be positive integer)")
			return
		}
		limit = &limitInt
	}

	records, err := h.eventService.ListEvents(r.Context(), babyID, req.userID(), req.isAdmin(), kind, limit)
	if err != nil {
		req.fail(w, "list events", err)
		return
	}
	req.respond(w, http.StatusOK, records)
}

// GetEvent handles GET /events/{event_id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	req, ok := begin(w, r)
	if !ok {
		return
	}
	eventID, ok := req.pathID(w, r, "event_id")
	if !ok {
		return
	}

	record, err := h.eventService.GetEvent(r.Context(), eventID, req.userID(), req.isAdmin())
	if err != nil {
		req.fail(w, "get event", err)
		return
	}
	req.respond(w, http.StatusOK, record)
}

// UpdateEvent handles PATCH /events/{event_id}
// Body is a sparse change-set; the merged event is revalidated in full
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	req, ok := begin(w, r)
	if !ok {
		return
	}
	eventID, ok := req.pathID(w, r, "event_id")
	if !ok {
		return
	}
	patch, ok := req.body(w, r)
	if !ok {
		return
	}

	record, err := h.eventService.UpdateEvent(r.Context(), eventID, patch, req.userID(), req.isAdmin())
	if err != nil {
		req.fail(w, "update event", err)
		return
	}
	req.respond(w, http.StatusOK, record)
}

// DeleteEvent handles DELETE /events/{event_id}
// PARENT only (ADMIN cannot delete events)
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	req, ok := begin(w, r)
	if !ok {
		return
	}
	eventID, ok := req.pathID(w, r, "event_id")
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(r.Context(), eventID, req.userID(), req.isAdmin()); err != nil {
		req.fail(w, "delete event", err)
		return
	}
	req.respond(w, http.StatusNoContent, nil)
}
