package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/huddleup/pickem/internal/domain/model"
	"github.com/huddleup/pickem/internal/domain/types"
)

const requestTimeout = 10 * time.Second

// client is a minimal HTTP driver for the engine API.
type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string) *client {
	return &client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

func (c *client) postJSON(ctx context.Context, path string, method string, body any, wantStatus ...int) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s body: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	for _, s := range wantStatus {
		if resp.StatusCode == s {
			return nil
		}
	}
	return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
}

func (c *client) submitPick(ctx context.Context, p model.PickRecord) error {
	body := map[string]string{
		"pick_id":      p.PickID,
		"user_id":      p.UserID,
		"event_id":     p.EventID,
		"side":         string(p.Side),
		"confidence":   string(p.Confidence),
		"submitted_at": p.SubmittedAt.Format(time.RFC3339),
	}
	return c.postJSON(ctx, "/picks", http.MethodPost, body, http.StatusAccepted)
}

func (c *client) resolveOutcome(ctx context.Context, pickID string, correct bool) error {
	outcome := "incorrect"
	if correct {
		outcome = "correct"
	}
	body := map[string]string{"pick_id": pickID, "outcome": outcome}
	return c.postJSON(ctx, "/outcomes", http.MethodPost, body, http.StatusNoContent)
}

func (c *client) setProfile(ctx context.Context, userID, name string) error {
	body := map[string]string{"display_name": name}
	return c.postJSON(ctx, "/profiles/"+userID, http.MethodPut, body, http.StatusNoContent)
}

func (c *client) addGroupMember(ctx context.Context, groupID, userID string) error {
	body := map[string]string{"user_id": userID}
	return c.postJSON(ctx, "/groups/"+groupID+"/members", http.MethodPost, body, http.StatusNoContent)
}

func (c *client) groupLeaderboard(ctx context.Context, groupID string, windowDays int) ([]types.LeaderboardEntry, error) {
	url := fmt.Sprintf("%s/leaderboards/group/%s?window=%d", c.baseURL, groupID, windowDays)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build leaderboard request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get leaderboard: unexpected status %d", resp.StatusCode)
	}
	var entries []types.LeaderboardEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return entries, nil
}
