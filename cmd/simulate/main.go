package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/huddleup/pickem/internal/simulate"
	"github.com/huddleup/pickem/pkg/logger"
)

func main() {
	cfg := simulate.DefaultConfig()
	flag.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "engine base URL")
	flag.IntVar(&cfg.NumUsers, "users", cfg.NumUsers, "number of synthetic users")
	flag.IntVar(&cfg.PicksPerUser, "picks", cfg.PicksPerUser, "picks per user")
	flag.IntVar(&cfg.NumEvents, "events", cfg.NumEvents, "size of the event pool")
	flag.IntVar(&cfg.GroupSize, "group-size", cfg.GroupSize, "users per synthetic group")
	flag.Float64Var(&cfg.ResolveFraction, "resolve", cfg.ResolveFraction, "fraction of picks to resolve")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent requests")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := simulate.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "simulation failed", logger.Error(err))
		os.Exit(1)
	}
}
