// Package repository defines the pick/outcome store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/huddleup/pickem/internal/domain/model"
)

// Query narrows a Picks call. Zero-valued fields are ignored, so the store
// supports lookups by user (ratings), by event (consensus), and by a
// lower-bound timestamp (window filtering) in any combination.
type Query struct {
	UserID  string
	EventID string
	Since   time.Time
}

// Store provides access to pick records. The engine reads through Picks;
// writes happen only in the ingestion pipeline and outcome resolution.
type Store interface {
	// RecordPick stores a new pick. Returns ErrDuplicatePick if the pick id
	// already exists.
	RecordPick(ctx context.Context, pick model.PickRecord) error

	// ResolveOutcome sets a pending pick to correct or incorrect. A pick
	// resolves at most once; ErrOutcomeResolved is returned afterwards.
	ResolveOutcome(ctx context.Context, pickID string, outcome model.Outcome) error

	// Pick returns a single record by id, or ErrPickNotFound.
	Pick(ctx context.Context, pickID string) (model.PickRecord, error)

	// Picks returns the records matching q, oldest first.
	Picks(ctx context.Context, q Query) ([]model.PickRecord, error)

	// Count returns the number of stored picks.
	Count(ctx context.Context) int
}
