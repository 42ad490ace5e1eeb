// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/huddleup/pickem/internal/domain/model"
	"github.com/huddleup/pickem/internal/domain/types"
	"github.com/huddleup/pickem/internal/domain/window"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SubmitPick enqueues a pick for async ingestion. Returns false on
	// backpressure.
	SubmitPick(ctx context.Context, pick model.PickRecord) bool

	// ResolveOutcome settles a pending pick.
	ResolveOutcome(ctx context.Context, pickID string, outcome model.Outcome) error

	// Read operations expose the engine's derived artifacts.
	ComputeRating(ctx context.Context, userID string, windowDays int) (types.PickStats, error)
	ComputeConsensus(ctx context.Context, eventID string) (*types.ConsensusResult, error)
	BuildGroupLeaderboard(ctx context.Context, groupID string, windowDays int) ([]types.LeaderboardEntry, error)
	BuildKnownLeaderboard(ctx context.Context, viewerID string, windowDays int) ([]types.LeaderboardEntry, error)

	// Plumbing writes for the in-memory collaborator stores.
	AddFriend(ctx context.Context, ownerID, friendID string)
	AddGroupMember(ctx context.Context, groupID, userID string)
	SetProfile(ctx context.Context, userID, displayName string)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	picksHandler       *PicksHandler
	ratingHandler      *RatingHandler
	consensusHandler   *ConsensusHandler
	leaderboardHandler *LeaderboardHandler
	graphHandler       *GraphHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		picksHandler:       NewPicksHandler(deps),
		ratingHandler:      NewRatingHandler(deps),
		consensusHandler:   NewConsensusHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		graphHandler:       NewGraphHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/picks", MetricsMiddleware(s.picksHandler.HandlePostPick, "picks"))
	mux.HandleFunc("/outcomes", MetricsMiddleware(s.picksHandler.HandlePostOutcome, "outcomes"))
	mux.HandleFunc("/ratings/", MetricsMiddleware(s.ratingHandler.HandleGetRating, "ratings"))
	mux.HandleFunc("/consensus/", MetricsMiddleware(s.consensusHandler.HandleGetConsensus, "consensus"))
	mux.HandleFunc("/leaderboards/group/", MetricsMiddleware(s.leaderboardHandler.HandleGetGroup, "leaderboard_group"))
	mux.HandleFunc("/leaderboards/known/", MetricsMiddleware(s.leaderboardHandler.HandleGetKnown, "leaderboard_known"))
	mux.HandleFunc("/friends", MetricsMiddleware(s.graphHandler.HandlePostFriend, "friends"))
	mux.HandleFunc("/groups/", MetricsMiddleware(s.graphHandler.HandlePostGroupMember, "group_members"))
	mux.HandleFunc("/profiles/", MetricsMiddleware(s.graphHandler.HandlePutProfile, "profiles"))
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

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// parseWindow reads the window query parameter in days. Absent means
// all-time. Negative values are rejected.
func parseWindow(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("window")
	if raw == "" {
		return window.AllTimeDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 0, ErrBadRequest
	}
	return days, nil
}
