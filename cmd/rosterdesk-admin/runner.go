package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/config"
	"github.com/dimitrije/rosterdesk-api/internal/database"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/perfsync"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage: rosterdesk-admin promote-admin <email>")

type runner struct {
	cfg *config.Config
	log *zap.Logger
	out io.Writer
}

func (r *runner) connect(ctx context.Context) (*database.DB, error) {
	db, err := database.New(ctx, r.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (r *runner) migrate(ctx context.Context, _ *cli.Command) error {
	db, err := r.connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "migrations applied")
	return nil
}

func (r *runner) promoteAdmin(ctx context.Context, cmd *cli.Command) error {
	email := strings.TrimSpace(cmd.Args().First())
	if email == "" || cmd.Args().Len() != 1 {
		return errUsage
	}

	role := models.GlobalRoleSuperAdmin
	if cmd.Bool("revoke") {
		role = models.GlobalRoleUser
	}

	db, err := r.connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := services.NewUserService(db).SetGlobalRole(ctx, email, role); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return fmt.Errorf("no user found with email %s", email)
		}
		return err
	}

	fmt.Fprintf(r.out, "%s is now %s\n", email, role)
	return nil
}

// candidateLister and batchSyncer keep syncStale testable without a database.
type candidateLister interface {
	ListSyncCandidates(ctx context.Context, now time.Time, staleAfter time.Duration) ([]perfsync.Request, error)
}

type batchSyncer interface {
	SyncAll(ctx context.Context, reqs []perfsync.Request) perfsync.Report
}

func (r *runner) syncStale(ctx context.Context, cmd *cli.Command) error {
	if r.cfg.PerformanceSync.URL == "" && !cmd.Bool("dry-run") {
		return perfsync.ErrNotConfigured
	}

	db, err := r.connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	store := services.NewPerformanceService(db)
	syncer := perfsync.NewSyncer(
		perfsync.NewClient(r.cfg.PerformanceSync.URL, r.cfg.PerformanceSync.APIKey, nil),
		store, r.log, nil,
	)
	return r.runSyncStale(ctx, store, syncer, cmd.Bool("dry-run"), time.Now())
}

func (r *runner) runSyncStale(ctx context.Context, lister candidateLister, syncer batchSyncer, dryRun bool, now time.Time) error {
	reqs, err := lister.ListSyncCandidates(ctx, now, models.StaleAfter)
	if err != nil {
		return err
	}

	if len(reqs) == 0 {
		fmt.Fprintln(r.out, "all snapshots are fresh")
		return nil
	}

	if dryRun {
		for _, req := range reqs {
			fmt.Fprintf(r.out, "%s\t%s\t%s\n", req.ArtistID, req.SpotifyID, req.ArtistName)
		}
		return nil
	}

	report := syncer.SyncAll(ctx, reqs)
	for _, msg := range report.Errors {
		fmt.Fprintf(r.out, "failed: %s\n", msg)
	}
	fmt.Fprintf(r.out, "synced %d, skipped %d, failed %d\n", report.Synced, report.Skipped, report.Failed)

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d syncs failed", report.Failed, len(reqs))
	}
	return nil
}
