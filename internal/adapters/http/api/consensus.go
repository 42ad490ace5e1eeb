// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
)

// ConsensusHandler handles consensus requests.
type ConsensusHandler struct {
	deps Dependencies
}

// NewConsensusHandler creates a new consensus handler.
func NewConsensusHandler(deps Dependencies) *ConsensusHandler {
	return &ConsensusHandler{deps: deps}
}

// HandleGetConsensus handles GET /consensus/{event_id} requests. An event
// with no decided weight yields 204, distinct from an error.
func (h *ConsensusHandler) HandleGetConsensus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	eventID := strings.TrimPrefix(r.URL.Path, "/consensus/")
	if eventID == "" || strings.Contains(eventID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	res, err := h.deps.ComputeConsensus(r.Context(), eventID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if res == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
