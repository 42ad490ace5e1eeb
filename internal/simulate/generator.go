package simulate

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/huddleup/pickem/internal/domain/model"
)

// Picker accuracy profiles. Sharps hit often and say so; fades are
// overconfident and wrong, which the rating formula punishes.
const (
	profileSharp   = 0
	profileAverage = 1
	profileFade    = 2
)

type picker struct {
	userID  string
	name    string
	profile int
}

type generatedPick struct {
	pick    model.PickRecord
	correct bool // outcome to resolve, if this pick is resolved
}

// generatePickers creates users with stable ids and mixed profiles.
func generatePickers(cfg *Config, rng *rand.Rand) []picker {
	pickers := make([]picker, cfg.NumUsers)
	for i := range pickers {
		pickers[i] = picker{
			userID:  uuid.New().String(),
			name:    fmt.Sprintf("Picker %d", i+1),
			profile: rng.Intn(3),
		}
	}
	return pickers
}

// generatePicks creates each user's picks across the event pool.
func generatePicks(cfg *Config, rng *rand.Rand, pickers []picker) []generatedPick {
	events := make([]string, cfg.NumEvents)
	for i := range events {
		events[i] = fmt.Sprintf("event-%d", i+1)
	}

	now := time.Now().UTC()
	out := make([]generatedPick, 0, cfg.NumUsers*cfg.PicksPerUser)
	for _, p := range pickers {
		hitRate := hitRateFor(p.profile)
		for i := 0; i < cfg.PicksPerUser; i++ {
			side := model.SideHome
			if rng.Intn(2) == 1 {
				side = model.SideAway
			}
			out = append(out, generatedPick{
				pick: model.PickRecord{
					PickID:      uuid.New().String(),
					UserID:      p.userID,
					EventID:     events[rng.Intn(len(events))],
					Side:        side,
					Confidence:  confidenceFor(p.profile, rng),
					SubmittedAt: now.AddDate(0, 0, -rng.Intn(30)),
				},
				correct: rng.Float64() < hitRate,
			})
		}
	}
	return out
}

func hitRateFor(profile int) float64 {
	switch profile {
	case profileSharp:
		return 0.72
	case profileFade:
		return 0.35
	default:
		return 0.52
	}
}

func confidenceFor(profile int, rng *rand.Rand) model.Confidence {
	// Sharps and fades both lean on high confidence; the difference shows
	// up in their hit rates.
	levels := []model.Confidence{
		model.ConfidenceLow,
		model.ConfidenceMedium,
		model.ConfidenceHigh,
		model.ConfidenceVeryHigh,
	}
	if profile == profileAverage {
		if rng.Intn(2) == 0 {
			return model.ConfidenceMedium
		}
		return model.ConfidenceLow
	}
	return levels[1+rng.Intn(3)]
}
