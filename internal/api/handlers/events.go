package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/crashmonitor/server/internal/api/problem"
	"github.com/crashmonitor/server/internal/domain/events"
	"github.com/crashmonitor/server/internal/metrics"
)

type EventsHandler struct {
	Service *events.Service
	Env     string
}

func NewEventsHandler(service *events.Service, env string) *EventsHandler {
	return &EventsHandler{Service: service, Env: env}
}

// Create accepts a single event payload and returns the stored record with
// its server-assigned identity. Schema violations are reported as 422 with
// the offending field; storage failures are 500 and never leak a partial id.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		problem.Write(w, r, http.StatusInternalServerError, "https://crash-monitor.dev/problems/server-error", "Server error", nil, h.Env)
		return
	}

	var input events.Payload
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&input); err != nil {
		problem.Write(w, r, http.StatusUnprocessableEntity,
			"https://crash-monitor.dev/problems/validation-error", "Invalid event payload", err, h.Env,
			problem.WithErrors(map[string]interface{}{"body": "malformed JSON"}))
		return
	}

	event, err := h.Service.Ingest(r.Context(), input)
	if err != nil {
		var verr events.ValidationError
		if errors.As(err, &verr) {
			problem.Write(w, r, http.StatusUnprocessableEntity,
				"https://crash-monitor.dev/problems/validation-error", "Invalid event payload", err, h.Env,
				problem.WithErrors(map[string]interface{}{verr.Field: verr.Message}))
			return
		}
		problem.Write(w, r, http.StatusInternalServerError,
			"https://crash-monitor.dev/problems/storage-error", "Storage error", err, h.Env)
		return
	}

	metrics.EventsIngested.WithLabelValues(event.Payload.Level, event.Payload.EventType).Inc()
	writeJSON(w, http.StatusCreated, events.NewResponse(*event))
}

// List returns recent events, newest first. Unknown query parameters are
// ignored and malformed pagination values fall back to defaults, so this
// endpoint never rejects a read.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		problem.Write(w, r, http.StatusInternalServerError, "https://crash-monitor.dev/problems/server-error", "Server error", nil, h.Env)
		return
	}

	filters, pagination := events.ParseFilters(r.URL.Query())

	items, err := h.Service.List(r.Context(), filters, pagination)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError,
			"https://crash-monitor.dev/problems/storage-error", "Storage error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, events.NewListResponse(items))
}

// Get returns a single event by identifier. Malformed identifiers are a 400
// so callers can distinguish bad input from a genuine miss.
func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		problem.Write(w, r, http.StatusInternalServerError, "https://crash-monitor.dev/problems/server-error", "Server error", nil, h.Env)
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))

	event, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, events.ErrInvalidID) {
			problem.Write(w, r, http.StatusBadRequest,
				"https://crash-monitor.dev/problems/validation-error", "Invalid event id", err, h.Env,
				problem.WithErrors(map[string]interface{}{"id": "must be a valid event identifier"}))
			return
		}
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound,
				"https://crash-monitor.dev/problems/not-found", "Event not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError,
			"https://crash-monitor.dev/problems/storage-error", "Storage error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, events.NewResponse(*event))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
