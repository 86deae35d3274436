package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/database"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/perfsync"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PerformanceService struct {
	db *database.DB
}

func NewPerformanceService(db *database.DB) *PerformanceService {
	return &PerformanceService{db: db}
}

const snapshotColumns = `artist_id, lead_streams_total, monthly_streams, est_monthly_revenue, raw, scraped_at`

func scanSnapshot(row pgx.Row) (*models.PerformanceSnapshot, error) {
	var snap models.PerformanceSnapshot
	err := row.Scan(&snap.ArtistID, &snap.LeadStreamsTotal, &snap.MonthlyStreams, &snap.EstMonthlyRevenue, &snap.Raw, &snap.ScrapedAt)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *PerformanceService) Get(ctx context.Context, artistID uuid.UUID) (*models.PerformanceSnapshot, error) {
	snap, err := scanSnapshot(s.db.Pool.QueryRow(ctx, `
		SELECT `+snapshotColumns+` FROM performance_snapshots WHERE artist_id = $1
	`, artistID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return snap, nil
}

// Upsert replaces the artist's snapshot row wholesale.
func (s *PerformanceService) Upsert(ctx context.Context, snap *models.PerformanceSnapshot) (*models.PerformanceSnapshot, error) {
	raw := snap.Raw
	if len(raw) == 0 {
		raw = []byte(`{}`)
	}

	saved, err := scanSnapshot(s.db.Pool.QueryRow(ctx, `
		INSERT INTO performance_snapshots (artist_id, lead_streams_total, monthly_streams, est_monthly_revenue, raw, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (artist_id) DO UPDATE SET
			lead_streams_total = EXCLUDED.lead_streams_total,
			monthly_streams = EXCLUDED.monthly_streams,
			est_monthly_revenue = EXCLUDED.est_monthly_revenue,
			raw = EXCLUDED.raw,
			scraped_at = EXCLUDED.scraped_at
		RETURNING `+snapshotColumns,
		snap.ArtistID, snap.LeadStreamsTotal, snap.MonthlyStreams, snap.EstMonthlyRevenue, raw, snap.ScrapedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}
	return saved, nil
}

// ListSyncCandidates returns artists linked to Spotify whose snapshot is
// missing or older than staleAfter.
func (s *PerformanceService) ListSyncCandidates(ctx context.Context, now time.Time, staleAfter time.Duration) ([]perfsync.Request, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT a.id, a.spotify_id, a.name, a.team_id
		FROM artists a
		LEFT JOIN performance_snapshots p ON p.artist_id = a.id
		WHERE a.spotify_id IS NOT NULL AND a.spotify_id <> ''
		  AND (p.artist_id IS NULL OR p.scraped_at < $1)
		ORDER BY a.name
	`, now.Add(-staleAfter))
	if err != nil {
		return nil, fmt.Errorf("failed to list sync candidates: %w", err)
	}
	defer rows.Close()

	reqs := []perfsync.Request{}
	for rows.Next() {
		var req perfsync.Request
		if err := rows.Scan(&req.ArtistID, &req.SpotifyID, &req.ArtistName, &req.TeamID); err != nil {
			return nil, fmt.Errorf("failed to scan sync candidate: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}
