// Package consensus aggregates every pick on one event into a weighted
// home/away recommendation.
package consensus

import (
	"math"

	"github.com/huddleup/pickem/internal/domain/model"
)

// Display-scale confidence strengths. These are ordinal weights distinct
// from the signed multipliers used by the rating formula.
const (
	lowValue      = 40.0
	mediumValue   = 60.0
	highValue     = 85.0
	veryHighValue = 95.0
)

const percentTotal = 100

// Result is the weighted aggregate for one event.
type Result struct {
	HomeWeight      float64
	AwayWeight      float64
	HomePercentage  int
	AwayPercentage  int
	RecommendedSide model.Side
	HomePickCount   int
	AwayPickCount   int
}

// confidenceValue maps a confidence level to its display-scale strength.
func confidenceValue(c model.Confidence) float64 {
	switch c {
	case model.ConfidenceLow:
		return lowValue
	case model.ConfidenceHigh:
		return highValue
	case model.ConfidenceVeryHigh:
		return veryHighValue
	default:
		return mediumValue
	}
}

// Aggregate computes the consensus over records, weighting each pick by the
// picker's stated confidence and all-time win rate (0-100, keyed by user id;
// missing users weigh in at a 0% win rate). It returns nil when the total
// weight is zero so callers can tell "no data" apart from a 50/50 split.
//
// Aggregate recomputes from scratch on every call; it holds no state and is
// safe to run concurrently across events.
func Aggregate(records []model.PickRecord, winRates map[string]float64) *Result {
	res := &Result{}
	for _, r := range records {
		weight := confidenceValue(r.Confidence) * (1 + winRates[r.UserID]/100)
		switch r.Side {
		case model.SideHome:
			res.HomeWeight += weight
			res.HomePickCount++
		case model.SideAway:
			res.AwayWeight += weight
			res.AwayPickCount++
		}
	}

	total := res.HomeWeight + res.AwayWeight
	if total == 0 {
		return nil
	}

	res.HomePercentage = int(math.Round(percentTotal * res.HomeWeight / total))
	// Derive the away share from the home share so the pair always sums to
	// exactly 100 regardless of rounding.
	res.AwayPercentage = percentTotal - res.HomePercentage
	if res.HomePercentage > percentTotal/2 {
		res.RecommendedSide = model.SideHome
	} else {
		// A 50/50 tie lands here; callers wanting a different tie-break
		// should special-case HomePercentage == 50 before reading this.
		res.RecommendedSide = model.SideAway
	}
	return res
}
