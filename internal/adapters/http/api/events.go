// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
)

// EventsHandler handles match import and read requests.
type EventsHandler struct {
	deps MatchDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps MatchDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandlePostEvents handles POST /matches/{matchID}/events. The body is a JSON
// array of event records.
func (h *EventsHandler) HandlePostEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_events"
	var events []model.Event
	if err := decodeJSON(w, r, op, &events); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.deps.ImportEvents(r.Context(), r.PathValue("matchID"), events)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	status := http.StatusOK
	if res.Accepted > 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}

// HandleGetEvents handles GET /matches/{matchID}/events.
func (h *EventsHandler) HandleGetEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_events"
	events, err := h.deps.MatchEvents(r.Context(), r.PathValue("matchID"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, nonNil(events))
}

// HandleListMatches handles GET /matches.
func (h *EventsHandler) HandleListMatches(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_matches"
	matches, err := h.deps.Matches(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, nonNil(matches))
}
