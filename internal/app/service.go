// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/huddleup/pickem/internal/adapters/mq/queue"
	workerpool "github.com/huddleup/pickem/internal/adapters/mq/worker"
	"github.com/huddleup/pickem/internal/adapters/profile"
	"github.com/huddleup/pickem/internal/adapters/repository"
	"github.com/huddleup/pickem/internal/adapters/socialgraph"
	"github.com/huddleup/pickem/internal/domain/consensus"
	"github.com/huddleup/pickem/internal/domain/dedupe"
	"github.com/huddleup/pickem/internal/domain/leaderboard"
	"github.com/huddleup/pickem/internal/domain/model"
	"github.com/huddleup/pickem/internal/domain/rating"
	"github.com/huddleup/pickem/internal/domain/social"
	"github.com/huddleup/pickem/internal/domain/types"
	"github.com/huddleup/pickem/internal/domain/window"
	"github.com/huddleup/pickem/pkg/logger"
	"github.com/huddleup/pickem/pkg/metrics"
)

// ErrInvalidWindow rejects negative lookback windows. This is a programmer
// error on the caller's side, not a runtime condition.
var ErrInvalidWindow = errors.New("invalid lookback window")

// pickSource adapts repository.Store to leaderboard.PickSource.
type pickSource struct {
	store repository.Store
}

func (p *pickSource) UserPicks(ctx context.Context, userID string, since time.Time) ([]model.PickRecord, error) {
	return p.store.Picks(ctx, repository.Query{UserID: userID, Since: since})
}

// profileSource adapts profile.Store to leaderboard.ProfileSource,
// translating the not-found sentinel into the ok flag.
type profileSource struct {
	store profile.Store
}

func (p *profileSource) DisplayName(ctx context.Context, userID string) (string, bool, error) {
	name, err := p.store.DisplayName(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return name, true, nil
}

// Service implements the API dependencies for the pick'em engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	picks    *repository.MemStore
	graph    *socialgraph.MemStore
	profiles *profile.MemStore
	calc     *rating.Calculator
	resolver *social.Resolver
	builder  *leaderboard.Builder
	subQueue queue.Queue
	deduper  dedupe.Deduper
	pool     *workerpool.Pool

	// All-time win rates keyed by user id, consumed by consensus weighting.
	// Invalidated whenever an outcome resolves for that user.
	winRates   map[string]float64
	winRatesMu sync.Mutex

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	lbConcurrency int
	knownLimit    int
	clock         func() time.Time
	started       bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of ingestion workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the submission queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLeaderboardConcurrency bounds the leaderboard fan-out.
func WithLeaderboardConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.lbConcurrency = n
		}
	}
}

// WithKnownLeaderboardSize caps the known-scope leaderboard.
func WithKnownLeaderboardSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.knownLimit = n
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU() * 2,
		queueSize:     100_000,
		dedupeSize:    500_000,
		lbConcurrency: 8,
		knownLimit:    5,
		clock:         time.Now,
		winRates:      make(map[string]float64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting pick'em engine...")

	s.picks = repository.NewMemStore(ctx)
	s.graph = socialgraph.NewMemStore(ctx)
	s.profiles = profile.NewMemStore(ctx)
	s.calc = rating.NewCalculator(rating.WithClock(s.clock))
	s.resolver = social.NewResolver(s.graph)
	s.builder = leaderboard.NewBuilder(
		&pickSource{store: s.picks},
		s.graph,
		s.resolver,
		&profileSource{store: s.profiles},
		s.calc,
		leaderboard.WithConcurrency(s.lbConcurrency),
		leaderboard.WithKnownLimit(s.knownLimit),
		leaderboard.WithLogger(s.logger.Named("leaderboard")),
	)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.subQueue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.subQueue, s.picks)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "pick'em engine started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping pick'em engine...")

	if s.subQueue != nil {
		_ = s.subQueue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}

	s.started = false
	s.logger.Info(ctx, "pick'em engine stopped")
}

// SubmitPick validates and enqueues a pick for asynchronous ingestion.
// Returns false on backpressure. Duplicate submissions are acknowledged
// without re-enqueueing.
func (s *Service) SubmitPick(ctx context.Context, pick model.PickRecord) bool {
	if s.deduper.SeenAndRecord(ctx, pick.PickID) {
		s.logger.Debug(ctx, "duplicate pick submission", logger.String("pickID", pick.PickID))
		metrics.RecordPickDuplicate()
		return true
	}

	if !s.subQueue.Enqueue(ctx, pick) {
		// Let the client retry the same pick id later.
		s.deduper.Unrecord(ctx, pick.PickID)
		metrics.RecordPickRejected()
		return false
	}
	return true
}

// ResolveOutcome sets a pending pick to a decided outcome and invalidates
// the picker's cached win rate.
func (s *Service) ResolveOutcome(ctx context.Context, pickID string, outcome model.Outcome) error {
	rec, err := s.pickByID(ctx, pickID)
	if err != nil {
		return err
	}
	if err := s.picks.ResolveOutcome(ctx, pickID, outcome); err != nil {
		return err
	}

	s.winRatesMu.Lock()
	delete(s.winRates, rec.UserID)
	s.winRatesMu.Unlock()

	metrics.RecordOutcomeResolved()
	return nil
}

// ComputeRating produces PickStats for a user over a lookback window.
func (s *Service) ComputeRating(ctx context.Context, userID string, windowDays int) (types.PickStats, error) {
	cutoff, err := window.Cutoff(s.clock(), windowDays)
	if err != nil {
		return types.PickStats{}, fmt.Errorf("%w: %d days", ErrInvalidWindow, windowDays)
	}

	records, err := s.picks.Picks(ctx, repository.Query{UserID: userID, Since: cutoff})
	if err != nil {
		return types.PickStats{}, err
	}

	stats := s.calc.Calculate(userID, records)
	metrics.RecordRatingComputed()
	return toPickStats(stats), nil
}

// ComputeConsensus aggregates every pick on an event into a weighted
// recommendation. Returns (nil, nil) when there is no weight to aggregate.
func (s *Service) ComputeConsensus(ctx context.Context, eventID string) (*types.ConsensusResult, error) {
	records, err := s.picks.Picks(ctx, repository.Query{EventID: eventID})
	if err != nil {
		return nil, err
	}

	winRates := make(map[string]float64)
	for _, r := range records {
		if _, ok := winRates[r.UserID]; ok {
			continue
		}
		wr, err := s.winRate(ctx, r.UserID)
		if err != nil {
			return nil, err
		}
		winRates[r.UserID] = wr
	}

	res := consensus.Aggregate(records, winRates)
	if res == nil {
		metrics.RecordConsensusEmpty()
		return nil, nil
	}
	metrics.RecordConsensusComputed()
	return &types.ConsensusResult{
		EventID:         eventID,
		HomeWeight:      res.HomeWeight,
		AwayWeight:      res.AwayWeight,
		HomePercentage:  res.HomePercentage,
		AwayPercentage:  res.AwayPercentage,
		RecommendedSide: string(res.RecommendedSide),
		HomePickCount:   res.HomePickCount,
		AwayPickCount:   res.AwayPickCount,
	}, nil
}

// BuildGroupLeaderboard ranks every member of a group over a window.
func (s *Service) BuildGroupLeaderboard(ctx context.Context, groupID string, windowDays int) ([]types.LeaderboardEntry, error) {
	cutoff, err := window.Cutoff(s.clock(), windowDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %d days", ErrInvalidWindow, windowDays)
	}
	return s.builder.BuildGroup(ctx, groupID, cutoff)
}

// BuildKnownLeaderboard ranks the people the viewer knows over a window.
func (s *Service) BuildKnownLeaderboard(ctx context.Context, viewerID string, windowDays int) ([]types.LeaderboardEntry, error) {
	cutoff, err := window.Cutoff(s.clock(), windowDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %d days", ErrInvalidWindow, windowDays)
	}
	return s.builder.BuildKnown(ctx, viewerID, cutoff)
}

// AddFriend records an accepted friend edge owned by ownerID.
func (s *Service) AddFriend(ctx context.Context, ownerID, friendID string) {
	s.graph.AddFriend(ctx, ownerID, friendID)
}

// AddGroupMember records a group membership.
func (s *Service) AddGroupMember(ctx context.Context, groupID, userID string) {
	s.graph.AddGroupMember(ctx, groupID, userID)
}

// SetProfile creates or replaces a user's display name.
func (s *Service) SetProfile(ctx context.Context, userID, displayName string) {
	s.profiles.Set(ctx, userID, displayName)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if s.started {
		stats["queueLength"] = s.subQueue.Len(ctx)
		stats["totalPicks"] = s.picks.Count(ctx)
		stats["dedupeEntries"] = s.deduper.Size()
	}
	return stats
}

// winRate returns the cached all-time win rate for userID, computing and
// caching it on a miss.
func (s *Service) winRate(ctx context.Context, userID string) (float64, error) {
	s.winRatesMu.Lock()
	if wr, ok := s.winRates[userID]; ok {
		s.winRatesMu.Unlock()
		return wr, nil
	}
	s.winRatesMu.Unlock()

	records, err := s.picks.Picks(ctx, repository.Query{UserID: userID})
	if err != nil {
		return 0, err
	}
	wr := s.calc.Calculate(userID, records).WinRate()

	s.winRatesMu.Lock()
	s.winRates[userID] = wr
	s.winRatesMu.Unlock()
	return wr, nil
}

// pickByID fetches a single stored pick.
func (s *Service) pickByID(ctx context.Context, pickID string) (model.PickRecord, error) {
	return s.picks.Pick(ctx, pickID)
}

// toPickStats converts domain stats to the API shape.
func toPickStats(st rating.Stats) types.PickStats {
	return types.PickStats{
		UserID:            st.UserID,
		CorrectCount:      st.CorrectCount,
		IncorrectCount:    st.IncorrectCount,
		PendingCount:      st.PendingCount,
		TotalCount:        st.TotalCount,
		ConfidenceImpact:  round2(st.ConfidenceImpact),
		DaysSinceLastPick: st.DaysSinceLastPick,
		Rating:            st.Rating,
		LastPickAt:        st.LastPickAt,
	}
}

// round2 keeps the JSON payload tidy without losing meaningful precision.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
