// Package leaderboard ranks users by rating within a social scope.
package leaderboard

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/huddleup/pickem/internal/domain/identity"
	"github.com/huddleup/pickem/internal/domain/model"
	"github.com/huddleup/pickem/internal/domain/rating"
	"github.com/huddleup/pickem/internal/domain/social"
	"github.com/huddleup/pickem/internal/domain/types"
	"github.com/huddleup/pickem/pkg/logger"
	"github.com/huddleup/pickem/pkg/metrics"
)

// Default builder configuration constants.
const (
	defaultConcurrency = 8
	defaultKnownLimit  = 5
)

// PickSource supplies one user's pick records with an optional lower-bound
// timestamp. The zero time means no bound.
type PickSource interface {
	UserPicks(ctx context.Context, userID string, since time.Time) ([]model.PickRecord, error)
}

// ProfileSource supplies display names. ok is false when the user has no
// profile at all, which is distinct from an empty display name.
type ProfileSource interface {
	DisplayName(ctx context.Context, userID string) (name string, ok bool, err error)
}

// KnownChecker answers whether a subject is known to a viewer.
type KnownChecker interface {
	IsKnown(ctx context.Context, viewerID, subjectID string) (bool, error)
}

// Builder orchestrates rating computation, the known-user check, and
// identity disclosure over a candidate set of users.
type Builder struct {
	picks    PickSource
	graph    social.GraphStore
	known    KnownChecker
	profiles ProfileSource
	calc     *rating.Calculator

	concurrency int
	knownLimit  int
	logger      logger.Logger
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithConcurrency bounds the per-candidate fan-out.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithKnownLimit sets how many entries the known-scope leaderboard keeps.
func WithKnownLimit(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.knownLimit = n
		}
	}
}

// WithLogger sets a custom logger for the builder.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a Builder with configuration options.
func NewBuilder(picks PickSource, graph social.GraphStore, known KnownChecker, profiles ProfileSource, calc *rating.Calculator, opts ...Option) *Builder {
	b := &Builder{
		picks:       picks,
		graph:       graph,
		known:       known,
		profiles:    profiles,
		calc:        calc,
		concurrency: defaultConcurrency,
		knownLimit:  defaultKnownLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logger.Get().Named("leaderboard")
	}
	return b
}

// BuildGroup ranks every member of a group. Shared group membership makes
// everyone known, so entries always carry real display names. The result is
// untruncated.
func (b *Builder) BuildGroup(ctx context.Context, groupID string, since time.Time) ([]types.LeaderboardEntry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordLeaderboardDuration(float64(time.Since(start).Milliseconds()))
	}()

	memberSet, err := b.graph.GroupMemberIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}

	entries, err := b.collect(ctx, sortedIDs(memberSet), since, func(ctx context.Context, userID string) (string, bool, bool, error) {
		name, ok, err := b.profiles.DisplayName(ctx, userID)
		if err != nil {
			return "", false, false, err
		}
		if !ok {
			return "", false, true, nil
		}
		// Disclose as known: subject shares this group with any viewer.
		display, _ := identity.DisplayName(userID, userID, true, name)
		return display, false, false, nil
	})
	if err != nil {
		return nil, err
	}

	rank(entries)
	metrics.RecordLeaderboardBuilt("group")
	return entries, nil
}

// BuildKnown ranks everyone the viewer plausibly knows: members of the
// viewer's groups plus direct friends, minus the viewer. Unknown candidates
// (friends of friends reached through a shared group being disbanded, etc.)
// are shown pseudonymously. Ranks reflect position in the full sorted
// candidate set; truncation to the configured limit happens afterwards.
func (b *Builder) BuildKnown(ctx context.Context, viewerID string, since time.Time) ([]types.LeaderboardEntry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordLeaderboardDuration(float64(time.Since(start).Milliseconds()))
	}()

	candidates, err := b.candidateSet(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		// A viewer with no groups and no friends has no leaderboard; do not
		// fall back to everyone.
		return []types.LeaderboardEntry{}, nil
	}

	entries, err := b.collect(ctx, sortedIDs(candidates), since, func(ctx context.Context, userID string) (string, bool, bool, error) {
		known, err := b.known.IsKnown(ctx, viewerID, userID)
		if err != nil {
			return "", false, false, err
		}
		if !known {
			display, anon := identity.DisplayName(viewerID, userID, false, "")
			return display, anon, false, nil
		}
		name, ok, err := b.profiles.DisplayName(ctx, userID)
		if err != nil {
			return "", false, false, err
		}
		if !ok {
			return "", false, true, nil
		}
		display, anon := identity.DisplayName(viewerID, userID, true, name)
		return display, anon, false, nil
	})
	if err != nil {
		return nil, err
	}

	rank(entries)
	if len(entries) > b.knownLimit {
		entries = entries[:b.knownLimit]
	}
	metrics.RecordLeaderboardBuilt("known")
	return entries, nil
}

// candidateSet unions the members of every group the viewer belongs to with
// the viewer's direct friends, then removes the viewer.
func (b *Builder) candidateSet(ctx context.Context, viewerID string) (map[string]struct{}, error) {
	candidates := make(map[string]struct{})

	groups, err := b.graph.GroupIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	for g := range groups {
		members, err := b.graph.GroupMemberIDs(ctx, g)
		if err != nil {
			return nil, err
		}
		for m := range members {
			candidates[m] = struct{}{}
		}
	}

	friends, err := b.graph.FriendIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	for f := range friends {
		candidates[f] = struct{}{}
	}

	delete(candidates, viewerID)
	return candidates, nil
}

// discloseFunc resolves the display name for one candidate. skip asks the
// collector to drop the candidate (missing profile).
type discloseFunc func(ctx context.Context, userID string) (display string, anonymized bool, skip bool, err error)

// collect computes stats and display names for candidates concurrently and
// returns the surviving entries in candidate order.
func (b *Builder) collect(ctx context.Context, candidates []string, since time.Time, disclose discloseFunc) ([]types.LeaderboardEntry, error) {
	results := make([]*types.LeaderboardEntry, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, userID := range candidates {
		i, userID := i, userID
		g.Go(func() error {
			display, anonymized, skip, err := disclose(gctx, userID)
			if err != nil {
				return err
			}
			if skip {
				b.logger.Warn(gctx, "skipping user without profile", logger.String("userID", userID))
				metrics.RecordLeaderboardEntrySkipped()
				return nil
			}

			records, err := b.picks.UserPicks(gctx, userID, since)
			if err != nil {
				return err
			}
			stats := b.calc.Calculate(userID, records)

			results[i] = &types.LeaderboardEntry{
				UserID:        userID,
				DisplayName:   display,
				IsAnonymized:  anonymized,
				Rating:        stats.Rating,
				TotalPicks:    stats.TotalCount,
				CorrectPicks:  stats.CorrectCount,
				WinPercentage: int(math.Round(stats.WinRate())),
				LastPickAt:    stats.LastPickAt,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]types.LeaderboardEntry, 0, len(results))
	for _, e := range results {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	return entries, nil
}

// rank sorts by rating descending and assigns 1-based ranks. The sort is
// stable, so equal ratings keep candidate-id order, which makes the full
// ordering deterministic for a fixed input set.
func rank(entries []types.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Rating > entries[j].Rating
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
