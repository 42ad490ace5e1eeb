// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/huddleup/pickem/internal/adapters/repository"
	"github.com/huddleup/pickem/internal/domain/model"
)

// PicksHandler handles pick submission and outcome resolution.
type PicksHandler struct {
	deps Dependencies
}

// NewPicksHandler creates a new picks handler.
func NewPicksHandler(deps Dependencies) *PicksHandler {
	return &PicksHandler{deps: deps}
}

// pickRequest mirrors the OpenAPI schema for POST /picks.
type pickRequest struct {
	PickID      string `json:"pick_id"`
	UserID      string `json:"user_id"`
	EventID     string `json:"event_id"`
	Side        string `json:"side"`
	Confidence  string `json:"confidence"`
	SubmittedAt string `json:"submitted_at"`
}

func (p pickRequest) validate() error {
	switch {
	case strings.TrimSpace(p.UserID) == "":
		return errors.New("missing user_id")
	case strings.TrimSpace(p.EventID) == "":
		return errors.New("missing event_id")
	case !model.Side(p.Side).Valid():
		return errors.New("side must be home or away")
	}
	if p.SubmittedAt != "" {
		if _, err := time.Parse(time.RFC3339, p.SubmittedAt); err != nil {
			return errors.New("invalid submitted_at; must be RFC3339")
		}
	}
	return nil
}

type pickAckResponse struct {
	Status string `json:"status"`
	PickID string `json:"pick_id"`
}

// HandlePostPick handles POST /picks requests.
func (h *PicksHandler) HandlePostPick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req pickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	pickID := strings.TrimSpace(req.PickID)
	if pickID == "" {
		pickID = uuid.New().String()
	}
	submittedAt := time.Now().UTC()
	if req.SubmittedAt != "" {
		submittedAt, _ = time.Parse(time.RFC3339, req.SubmittedAt)
	}

	pick := model.PickRecord{
		PickID:      pickID,
		UserID:      req.UserID,
		EventID:     req.EventID,
		Side:        model.Side(req.Side),
		Confidence:  model.ParseConfidence(req.Confidence),
		Outcome:     model.OutcomePending,
		SubmittedAt: submittedAt,
	}
	if !h.deps.SubmitPick(r.Context(), pick) {
		writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
		return
	}
	writeJSON(w, http.StatusAccepted, pickAckResponse{Status: "accepted", PickID: pickID})
}

// outcomeRequest mirrors the OpenAPI schema for POST /outcomes.
type outcomeRequest struct {
	PickID  string `json:"pick_id"`
	Outcome string `json:"outcome"`
}

// HandlePostOutcome handles POST /outcomes requests. Outcomes are resolved
// by the game-score pipeline, not by users; the endpoint only records the
// verdict.
func (h *PicksHandler) HandlePostOutcome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req outcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if strings.TrimSpace(req.PickID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing pick_id"))
		return
	}

	err := h.deps.ResolveOutcome(r.Context(), req.PickID, model.Outcome(req.Outcome))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, repository.ErrPickNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrOutcomeResolved):
		writeError(w, http.StatusConflict, "already_resolved", err)
	case errors.Is(err, repository.ErrInvalidOutcome):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
