// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	service "github.com/huddleup/pickem/internal/app"
	"github.com/huddleup/pickem/internal/domain/types"
)

// buildFunc is the shape shared by both leaderboard scopes.
type buildFunc func(ctx context.Context, id string, windowDays int) ([]types.LeaderboardEntry, error)

// LeaderboardHandler handles leaderboard requests for both scopes.
type LeaderboardHandler struct {
	deps Dependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps Dependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

// HandleGetGroup handles GET /leaderboards/group/{group_id}?window=N.
func (h *LeaderboardHandler) HandleGetGroup(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "/leaderboards/group/", h.deps.BuildGroupLeaderboard)
}

// HandleGetKnown handles GET /leaderboards/known/{viewer_id}?window=N.
func (h *LeaderboardHandler) HandleGetKnown(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "/leaderboards/known/", h.deps.BuildKnownLeaderboard)
}

func (h *LeaderboardHandler) handle(w http.ResponseWriter, r *http.Request, prefix string, build buildFunc) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	windowDays, err := parseWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	entries, err := build(r.Context(), id, windowDays)
	if err != nil {
		if errors.Is(err, service.ErrInvalidWindow) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
