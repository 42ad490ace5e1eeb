// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// GraphHandler exposes thin plumbing writes for the in-memory collaborator
// stores: friendships, group memberships, and profiles. No engine logic
// lives here.
type GraphHandler struct {
	deps Dependencies
}

// NewGraphHandler creates a new graph handler.
func NewGraphHandler(deps Dependencies) *GraphHandler {
	return &GraphHandler{deps: deps}
}

type friendRequest struct {
	OwnerID  string `json:"owner_id"`
	FriendID string `json:"friend_id"`
}

// HandlePostFriend handles POST /friends requests. The edge is recorded on
// the owner's side only, matching how acceptance is stored upstream.
func (h *GraphHandler) HandlePostFriend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req friendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if strings.TrimSpace(req.OwnerID) == "" || strings.TrimSpace(req.FriendID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing owner_id or friend_id"))
		return
	}
	h.deps.AddFriend(r.Context(), req.OwnerID, req.FriendID)
	w.WriteHeader(http.StatusNoContent)
}

type memberRequest struct {
	UserID string `json:"user_id"`
}

// HandlePostGroupMember handles POST /groups/{group_id}/members requests.
func (h *GraphHandler) HandlePostGroupMember(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/groups/")
	groupID, tail, ok := strings.Cut(rest, "/")
	if !ok || groupID == "" || tail != "members" {
		http.NotFound(w, r)
		return
	}
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing user_id"))
		return
	}
	h.deps.AddGroupMember(r.Context(), groupID, req.UserID)
	w.WriteHeader(http.StatusNoContent)
}

type profileRequest struct {
	DisplayName string `json:"display_name"`
}

// HandlePutProfile handles PUT /profiles/{user_id} requests.
func (h *GraphHandler) HandlePutProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	userID := strings.TrimPrefix(r.URL.Path, "/profiles/")
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	h.deps.SetProfile(r.Context(), userID, req.DisplayName)
	w.WriteHeader(http.StatusNoContent)
}
