// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file and env on top.
// - External errors are wrapped via this package's sentinels.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory pick submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingestion workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// LeaderboardConcurrency bounds the per-candidate fan-out when building
	// a leaderboard.
	LeaderboardConcurrency int `koanf:"leaderboard_concurrency"`

	// KnownLeaderboardSize caps the "people I know" leaderboard.
	KnownLeaderboardSize int `koanf:"known_leaderboard_size"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		QueueSize:              100_000,
		WorkerCount:            runtime.NumCPU() * 2,
		DedupeSize:             500_000,
		LeaderboardConcurrency: 8,
		KnownLeaderboardSize:   5,
	}
}
