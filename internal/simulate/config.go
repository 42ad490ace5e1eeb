// Package simulate generates synthetic pick traffic against a running
// engine and sanity-checks the resulting leaderboard.
package simulate

// Config controls a simulation run.
type Config struct {
	// BaseURL of the engine, e.g. http://localhost:9080.
	BaseURL string

	// NumUsers is the number of synthetic pickers.
	NumUsers int

	// PicksPerUser is how many picks each user submits.
	PicksPerUser int

	// NumEvents is the pool of events picks are spread across.
	NumEvents int

	// GroupSize controls how many users share each synthetic group.
	GroupSize int

	// ResolveFraction is the share of picks whose outcome gets resolved,
	// in [0,1].
	ResolveFraction float64

	// Workers bounds concurrent HTTP requests.
	Workers int

	// Seed makes a run reproducible.
	Seed int64
}

// DefaultConfig returns a small but representative simulation.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "http://localhost:9080",
		NumUsers:        40,
		PicksPerUser:    25,
		NumEvents:       60,
		GroupSize:       8,
		ResolveFraction: 0.8,
		Workers:         8,
		Seed:            1,
	}
}
