package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
)

// SessionsHandler handles analysis session requests.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

type createSessionRequest struct {
	MatchID  string   `json:"match_id"`
	OurTeams []string `json:"our_teams"`
}

type filtersRequest struct {
	Filters []model.Descriptor `json:"filters"`
}

// HandleCreate handles POST /sessions.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	var req createSessionRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.MatchID == "" {
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("missing match_id")))
		return
	}
	view, err := h.deps.CreateSession(r.Context(), req.MatchID, req.OurTeams)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// HandleGet handles GET /sessions/{id}.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_session"
	view, err := h.deps.Session(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleClose handles DELETE /sessions/{id}.
func (h *SessionsHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	const op = "api.close_session"
	if err := h.deps.CloseSession(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleEvents handles GET /sessions/{id}/events.
func (h *SessionsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.session_events"
	events, err := h.deps.SessionEvents(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, nonNil(events))
}

// HandleSummary handles GET /sessions/{id}/summary.
func (h *SessionsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.session_summary"
	report, err := h.deps.SessionSummary(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleClick handles POST /sessions/{id}/clicks. The body is a click payload
// tagged by its "kind" member.
func (h *SessionsHandler) HandleClick(w http.ResponseWriter, r *http.Request) {
	const op = "api.session_click"
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Click(r.Context(), r.PathValue("id"), raw)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleReplaceFilters handles PUT /sessions/{id}/filters.
func (h *SessionsHandler) HandleReplaceFilters(w http.ResponseWriter, r *http.Request) {
	const op = "api.replace_filters"
	var req filtersRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validDescriptors(op, req.Filters); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.deps.ReplaceFilters(r.Context(), r.PathValue("id"), req.Filters)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleToggleFilters handles POST /sessions/{id}/filters/toggle. The filters
// form one group: all removed when all present, otherwise the missing added.
func (h *SessionsHandler) HandleToggleFilters(w http.ResponseWriter, r *http.Request) {
	const op = "api.toggle_filters"
	var req filtersRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Filters) == 0 {
		writeError(w, WrapKind(op, ErrUnprocessable, errors.New("empty filter group")))
		return
	}
	if err := validDescriptors(op, req.Filters); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.deps.ToggleFilters(r.Context(), r.PathValue("id"), req.Filters)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleClearFilters handles DELETE /sessions/{id}/filters.
func (h *SessionsHandler) HandleClearFilters(w http.ResponseWriter, r *http.Request) {
	const op = "api.clear_filters"
	view, err := h.deps.ClearFilters(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
