package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dimitrije/rosterdesk-api/internal/config"
	"github.com/dimitrije/rosterdesk-api/internal/logger"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, !cfg.IsProduction())
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := &runner{cfg: cfg, log: log, out: os.Stdout}

	app := &cli.Command{
		Name:  "rosterdesk-admin",
		Usage: "Maintenance tasks for the Rosterdesk API database",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Apply database migrations",
				Action: r.migrate,
			},
			{
				Name:      "promote-admin",
				Usage:     "Grant a user the super admin role",
				ArgsUsage: "<email>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "revoke",
						Usage: "Demote the user back to a regular account",
					},
				},
				Action: r.promoteAdmin,
			},
			{
				Name:  "sync-stale",
				Usage: "Resync performance for artists with a missing or stale snapshot",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "List the artists that would be synced without calling the scraper",
					},
				},
				Action: r.syncStale,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
