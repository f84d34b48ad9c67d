package api

import (
	"net/http"

	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/model"
)

// FilterHandler handles stateless filter requests.
type FilterHandler struct {
	deps FilterDependencies
}

// NewFilterHandler creates a new filter handler.
func NewFilterHandler(deps FilterDependencies) *FilterHandler {
	return &FilterHandler{deps: deps}
}

type filterRequest struct {
	Events   []model.Event      `json:"events"`
	Filters  []model.Descriptor `json:"filters"`
	OurTeams []string           `json:"our_teams"`
}

// HandleFilter handles POST /filter.
func (h *FilterHandler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	const op = "api.filter"
	var req filterRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validDescriptors(op, req.Filters); err != nil {
		writeError(w, err)
		return
	}
	out := h.deps.Filter(r.Context(), req.Events, req.Filters, req.OurTeams)
	writeJSON(w, http.StatusOK, nonNil(out))
}
