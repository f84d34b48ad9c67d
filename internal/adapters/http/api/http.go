// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/summary"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/types"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 32 << 20

// MatchDependencies imports and reads stored matches.
type MatchDependencies interface {
	ImportEvents(ctx context.Context, matchID string, events []model.Event) (types.ImportResult, error)
	MatchEvents(ctx context.Context, matchID string) ([]model.Event, error)
	Matches(ctx context.Context) ([]types.MatchInfo, error)
}

// SessionDependencies drives analysis sessions.
type SessionDependencies interface {
	CreateSession(ctx context.Context, matchID string, ourTeams []string) (types.SessionView, error)
	Session(ctx context.Context, id string) (types.SessionView, error)
	SessionEvents(ctx context.Context, id string) ([]model.Event, error)
	SessionSummary(ctx context.Context, id string) (summary.Report, error)
	Click(ctx context.Context, id string, raw []byte) (types.ClickResult, error)
	ToggleFilters(ctx context.Context, id string, group []model.Descriptor) (types.SessionView, error)
	ReplaceFilters(ctx context.Context, id string, ds []model.Descriptor) (types.SessionView, error)
	ClearFilters(ctx context.Context, id string) (types.SessionView, error)
	CloseSession(ctx context.Context, id string) error
}

// FilterDependencies filters events outside any session.
type FilterDependencies interface {
	Filter(ctx context.Context, events []model.Event, descs []model.Descriptor, ourTeams []string) []model.Event
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	MatchDependencies
	SessionDependencies
	FilterDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	opsHandler      *OpsHandler
	eventsHandler   *EventsHandler
	sessionsHandler *SessionsHandler
	filterHandler   *FilterHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		opsHandler:      NewOpsHandler(deps),
		eventsHandler:   NewEventsHandler(deps),
		sessionsHandler: NewSessionsHandler(deps),
		filterHandler:   NewFilterHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}

	route("GET /healthz", "healthz", s.opsHandler.HandleHealth)
	route("GET /metrics", "metrics", s.opsHandler.HandleMetrics)
	route("GET /stats", "stats", s.opsHandler.HandleStats)

	route("GET /matches", "matches", s.eventsHandler.HandleListMatches)
	route("GET /matches/{matchID}/events", "match_events", s.eventsHandler.HandleGetEvents)
	route("POST /matches/{matchID}/events", "match_events", s.eventsHandler.HandlePostEvents)

	route("POST /sessions", "sessions", s.sessionsHandler.HandleCreate)
	route("GET /sessions/{id}", "session", s.sessionsHandler.HandleGet)
	route("DELETE /sessions/{id}", "session", s.sessionsHandler.HandleClose)
	route("GET /sessions/{id}/events", "session_events", s.sessionsHandler.HandleEvents)
	route("GET /sessions/{id}/summary", "session_summary", s.sessionsHandler.HandleSummary)
	route("POST /sessions/{id}/clicks", "session_clicks", s.sessionsHandler.HandleClick)
	route("PUT /sessions/{id}/filters", "session_filters", s.sessionsHandler.HandleReplaceFilters)
	route("DELETE /sessions/{id}/filters", "session_filters", s.sessionsHandler.HandleClearFilters)
	route("POST /sessions/{id}/filters/toggle", "session_filters", s.sessionsHandler.HandleToggleFilters)

	route("POST /filter", "filter", s.filterHandler.HandleFilter)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with the status the error kind maps to.
func writeError(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	recordErrorCode(w, code)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return WrapKind(op, ErrBadRequest, fmt.Errorf("decode body: %w", err))
	}
	return nil
}

// validDescriptors rejects descriptors without a name.
func validDescriptors(op string, ds []model.Descriptor) error {
	for i, d := range ds {
		if d.Name == "" {
			return WrapKind(op, ErrUnprocessable, fmt.Errorf("filter %d has no descriptor", i))
		}
	}
	return nil
}

// nonNil keeps empty lists encoded as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
