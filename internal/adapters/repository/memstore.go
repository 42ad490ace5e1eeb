package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/huddleup/pickem/internal/domain/model"
)

// MemStore implements Store with in-memory maps indexed by pick id, user id,
// and event id. Writes are rare relative to reads, so a single RWMutex
// covers the whole store.
type MemStore struct {
	mu      sync.RWMutex
	byID    map[string]*model.PickRecord
	byUser  map[string][]string // pick ids in insertion order
	byEvent map[string][]string
	order   []string
}

// NewMemStore creates an empty in-memory pick store.
func NewMemStore(_ context.Context) *MemStore {
	return &MemStore{
		byID:    make(map[string]*model.PickRecord),
		byUser:  make(map[string][]string),
		byEvent: make(map[string][]string),
	}
}

// RecordPick stores a new pick.
func (s *MemStore) RecordPick(_ context.Context, pick model.PickRecord) error {
	if strings.TrimSpace(pick.PickID) == "" ||
		strings.TrimSpace(pick.UserID) == "" ||
		strings.TrimSpace(pick.EventID) == "" ||
		!pick.Side.Valid() {
		return ErrInvalidPick
	}
	if pick.Outcome == "" {
		pick.Outcome = model.OutcomePending
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[pick.PickID]; ok {
		return ErrDuplicatePick
	}
	r := pick
	s.byID[r.PickID] = &r
	s.byUser[r.UserID] = append(s.byUser[r.UserID], r.PickID)
	s.byEvent[r.EventID] = append(s.byEvent[r.EventID], r.PickID)
	s.order = append(s.order, r.PickID)
	return nil
}

// ResolveOutcome sets a pending pick to a decided outcome, exactly once.
func (s *MemStore) ResolveOutcome(_ context.Context, pickID string, outcome model.Outcome) error {
	if !outcome.Decided() {
		return ErrInvalidOutcome
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[pickID]
	if !ok {
		return ErrPickNotFound
	}
	if r.Outcome.Decided() {
		return ErrOutcomeResolved
	}
	r.Outcome = outcome
	return nil
}

// Pick returns a single record by id.
func (s *MemStore) Pick(_ context.Context, pickID string) (model.PickRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[pickID]
	if !ok {
		return model.PickRecord{}, ErrPickNotFound
	}
	return *r, nil
}

// Picks returns the records matching q, oldest first.
func (s *MemStore) Picks(_ context.Context, q Query) ([]model.PickRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	switch {
	case q.UserID != "" && q.EventID != "":
		// Intersect via the smaller user index.
		for _, id := range s.byUser[q.UserID] {
			if s.byID[id].EventID == q.EventID {
				ids = append(ids, id)
			}
		}
	case q.UserID != "":
		ids = s.byUser[q.UserID]
	case q.EventID != "":
		ids = s.byEvent[q.EventID]
	default:
		ids = s.order
	}

	out := make([]model.PickRecord, 0, len(ids))
	for _, id := range ids {
		r := s.byID[id]
		if !q.Since.IsZero() && r.SubmittedAt.Before(q.Since) {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

// Count returns the number of stored picks.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
