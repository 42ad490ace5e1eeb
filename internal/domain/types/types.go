// Package types contains common types used across the application
package types

import "time"

// PickStats aggregates one user's pick history over a time window.
type PickStats struct {
	UserID            string     `json:"user_id"`
	CorrectCount      int        `json:"correct_count"`
	IncorrectCount    int        `json:"incorrect_count"`
	PendingCount      int        `json:"pending_count"`
	TotalCount        int        `json:"total_count"`
	ConfidenceImpact  float64    `json:"confidence_impact"`
	DaysSinceLastPick int        `json:"days_since_last_pick"`
	Rating            int        `json:"rating"`
	LastPickAt        *time.Time `json:"last_pick_at,omitempty"`
}

// ConsensusResult is the weighted aggregate recommendation for one event.
type ConsensusResult struct {
	EventID         string  `json:"event_id"`
	HomeWeight      float64 `json:"home_weight"`
	AwayWeight      float64 `json:"away_weight"`
	HomePercentage  int     `json:"home_percentage"`
	AwayPercentage  int     `json:"away_percentage"`
	RecommendedSide string  `json:"recommended_side"`
	HomePickCount   int     `json:"home_pick_count"`
	AwayPickCount   int     `json:"away_pick_count"`
}

// LeaderboardEntry represents one ranked leaderboard row.
type LeaderboardEntry struct {
	Rank          int        `json:"rank"`
	UserID        string     `json:"user_id"`
	DisplayName   string     `json:"display_name"`
	IsAnonymized  bool       `json:"is_anonymized"`
	Rating        int        `json:"rating"`
	TotalPicks    int        `json:"total_picks"`
	CorrectPicks  int        `json:"correct_picks"`
	WinPercentage int        `json:"win_percentage"`
	LastPickAt    *time.Time `json:"last_pick_at,omitempty"`
}
