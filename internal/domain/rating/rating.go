// Package rating converts a user's pick history into a bounded skill rating.
//
// The rating rewards calibration, not just raw accuracy: a correct pick at
// high stated confidence counts for more than one at low confidence, and a
// wrong pick at high confidence costs more than a timid miss.
package rating

import (
	"math"
	"time"

	"github.com/huddleup/pickem/internal/domain/model"
)

// Rating formula constants.
const (
	accuracyWeight      = 70.0 // accuracy is the dominant signal
	participationCap    = 20.0 // bonus points, capped
	participationTarget = 20.0 // picks needed to reach the cap
	recencyPenaltyCap   = 10.0 // penalty points, capped
	recencyPenaltyDays  = 14.0 // days of inactivity to reach the cap
	impactScale         = 0.2  // confidence impact -> score modifier
	maxRating           = 100.0
	percentScale        = 100.0
)

// NoPickDays is the DaysSinceLastPick sentinel for a user with no records
// in the window.
const NoPickDays = 999

// Stats aggregates one user's pick records within a time window.
type Stats struct {
	UserID            string
	CorrectCount      int
	IncorrectCount    int
	PendingCount      int
	TotalCount        int
	ConfidenceImpact  float64
	DaysSinceLastPick int
	Rating            int
	LastPickAt        *time.Time
}

// DecidedCount returns the number of resolved picks.
func (s Stats) DecidedCount() int {
	return s.CorrectCount + s.IncorrectCount
}

// WinRate returns the all-decided win percentage in 0-100, or 0 when
// nothing has been decided yet.
func (s Stats) WinRate() float64 {
	decided := s.DecidedCount()
	if decided == 0 {
		return 0
	}
	return percentScale * float64(s.CorrectCount) / float64(decided)
}

// impactFor maps a confidence level and correctness to a signed multiplier.
// Being wrong at high confidence is penalized harder than at low confidence.
func impactFor(c model.Confidence, correct bool) float64 {
	switch c {
	case model.ConfidenceHigh, model.ConfidenceVeryHigh:
		if correct {
			return 1.2
		}
		return -1.0
	case model.ConfidenceLow:
		if correct {
			return 0.6
		}
		return -0.3
	default: // medium, and anything unrecognized
		if correct {
			return 1.0
		}
		return -0.5
	}
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithClock overrides the time source, used by tests for deterministic
// recency math.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}

// Calculator computes Stats from raw pick records. It is stateless apart
// from its clock and safe for concurrent use.
type Calculator struct {
	now func() time.Time
}

// NewCalculator creates a calculator with configuration options.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate produces Stats for userID over the supplied records. The caller
// is responsible for restricting records to the desired window; Calculate
// itself performs no I/O and never fails for well-formed input.
func (c *Calculator) Calculate(userID string, records []model.PickRecord) Stats {
	s := Stats{UserID: userID, DaysSinceLastPick: NoPickDays}

	var impactSum float64
	var last time.Time
	for _, r := range records {
		s.TotalCount++
		switch r.Outcome {
		case model.OutcomeCorrect:
			s.CorrectCount++
			impactSum += impactFor(r.Confidence, true)
		case model.OutcomeIncorrect:
			s.IncorrectCount++
			impactSum += impactFor(r.Confidence, false)
		default:
			s.PendingCount++
		}
		if r.SubmittedAt.After(last) {
			last = r.SubmittedAt
		}
	}

	decided := s.DecidedCount()
	if decided > 0 {
		s.ConfidenceImpact = impactSum / float64(decided)
	}
	if !last.IsZero() {
		t := last
		s.LastPickAt = &t
		days := int(c.now().Sub(last).Hours() / 24)
		if days < 0 {
			days = 0
		}
		s.DaysSinceLastPick = days
	}

	s.Rating = c.score(s, decided)
	return s
}

// score applies the rating formula to already-partitioned counts.
func (c *Calculator) score(s Stats, decided int) int {
	var accuracy float64
	switch {
	case decided > 0:
		accuracy = float64(s.CorrectCount) / float64(decided)
	case s.TotalCount > 0:
		// Only pending picks: guard the divide, accuracy stays zero.
		accuracy = float64(s.CorrectCount) / float64(s.TotalCount)
	}

	accuracyScore := accuracy * accuracyWeight
	participation := math.Min(participationCap, float64(s.TotalCount)/participationTarget*participationCap)

	var recencyPenalty float64
	if s.DaysSinceLastPick != 0 {
		recencyPenalty = math.Min(recencyPenaltyCap, float64(s.DaysSinceLastPick)/recencyPenaltyDays*recencyPenaltyCap)
	}

	modifier := 1 + s.ConfidenceImpact*impactScale
	raw := math.Round((accuracyScore + participation - recencyPenalty) * modifier)
	return int(math.Max(0, math.Min(maxRating, raw)))
}
