package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/huddleup/pickem/internal/domain/window"
	"github.com/huddleup/pickem/pkg/logger"
)

const settleDelay = 500 * time.Millisecond

// Run drives a full simulation: seed profiles and groups, submit picks,
// resolve outcomes, then fetch each group's leaderboard and check ordering.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Get().Named("simulate")
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible traffic, not crypto

	c := newClient(cfg.BaseURL)
	pickers := generatePickers(cfg, rng)
	picks := generatePicks(cfg, rng, pickers)

	log.Info(ctx, "seeding profiles and groups",
		logger.Int("users", len(pickers)),
		logger.Int("picks", len(picks)),
	)

	groups := make([]string, 0)
	for i, p := range pickers {
		if err := c.setProfile(ctx, p.userID, p.name); err != nil {
			return err
		}
		groupID := fmt.Sprintf("group-%d", i/cfg.GroupSize+1)
		if i%cfg.GroupSize == 0 {
			groups = append(groups, groupID)
		}
		if err := c.addGroupMember(ctx, groupID, p.userID); err != nil {
			return err
		}
	}

	log.Info(ctx, "submitting picks", logger.Int("workers", cfg.Workers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, gp := range picks {
		gp := gp
		g.Go(func() error {
			return c.submitPick(gctx, gp.pick)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Give the worker pool a moment to drain the queue before resolving.
	time.Sleep(settleDelay)

	log.Info(ctx, "resolving outcomes", logger.Float64("fraction", cfg.ResolveFraction))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, gp := range picks {
		if float64(i%100)/100 >= cfg.ResolveFraction {
			continue
		}
		gp := gp
		g.Go(func() error {
			return c.resolveOutcome(gctx, gp.pick.PickID, gp.correct)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, groupID := range groups {
		entries, err := c.groupLeaderboard(ctx, groupID, window.AllTimeDays)
		if err != nil {
			return err
		}
		for i := 1; i < len(entries); i++ {
			if entries[i].Rating > entries[i-1].Rating {
				return fmt.Errorf("leaderboard %s not sorted at rank %d", groupID, entries[i].Rank)
			}
		}
		top := "-"
		if len(entries) > 0 {
			top = fmt.Sprintf("%s (%d)", entries[0].DisplayName, entries[0].Rating)
		}
		log.Info(ctx, "group leaderboard verified",
			logger.String("group", groupID),
			logger.Int("entries", len(entries)),
			logger.String("top", top),
		)
	}

	log.Info(ctx, "simulation complete")
	return nil
}
