// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Side is the side of an event a pick backs.
type Side string

// Pick sides.
const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Valid reports whether s is a recognized side.
func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// Confidence is the stated confidence level of a pick.
type Confidence string

// Confidence levels, weakest to strongest.
const (
	ConfidenceLow      Confidence = "low"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceHigh     Confidence = "high"
	ConfidenceVeryHigh Confidence = "very_high"
)

// ParseConfidence normalizes a confidence label. Unrecognized labels fall
// back to medium rather than failing, since picks arrive from clients whose
// label sets have drifted over time.
func ParseConfidence(s string) Confidence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return ConfidenceLow
	case "medium":
		return ConfidenceMedium
	case "high":
		return ConfidenceHigh
	case "very_high", "very high", "veryhigh":
		return ConfidenceVeryHigh
	default:
		return ConfidenceMedium
	}
}

// Outcome is the resolution state of a pick.
type Outcome string

// Pick outcomes. A pick stays pending until its event resolves; once set to
// correct or incorrect it never changes again.
const (
	OutcomePending   Outcome = "pending"
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// Decided reports whether the outcome has been resolved.
func (o Outcome) Decided() bool {
	return o == OutcomeCorrect || o == OutcomeIncorrect
}

// PickRecord is one user's prediction on one event.
type PickRecord struct {
	PickID      string
	UserID      string
	EventID     string
	Side        Side
	Confidence  Confidence
	Outcome     Outcome
	SubmittedAt time.Time
}
