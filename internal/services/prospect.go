package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/database"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CreateProspectParams struct {
	TeamID       uuid.UUID
	ArtistName   string
	Stage        string
	Priority     string
	Genre        *string
	City         *string
	NextFollowUp *time.Time
	Notes        *string
}

type ProspectService struct {
	db *database.DB
}

func NewProspectService(db *database.DB) *ProspectService {
	return &ProspectService{db: db}
}

const prospectColumns = `id, team_id, artist_name, stage, priority, genre, city, next_follow_up, notes, created_at, updated_at`

func scanProspect(row pgx.Row) (*models.Prospect, error) {
	var p models.Prospect
	err := row.Scan(&p.ID, &p.TeamID, &p.ArtistName, &p.Stage, &p.Priority, &p.Genre, &p.City, &p.NextFollowUp, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByTeam filters by stage when stage is non-empty.
func (s *ProspectService) ListByTeam(ctx context.Context, teamID uuid.UUID, stage string) ([]models.Prospect, error) {
	if stage != "" && !models.IsValidStage(stage) {
		return nil, ErrInvalidStage
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+prospectColumns+`
		FROM prospects WHERE team_id = $1 AND ($2 = '' OR stage = $2)
		ORDER BY next_follow_up NULLS LAST, artist_name
	`, teamID, stage)
	if err != nil {
		return nil, fmt.Errorf("failed to list prospects: %w", err)
	}
	defer rows.Close()

	prospects := []models.Prospect{}
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prospect: %w", err)
		}
		prospects = append(prospects, *p)
	}
	return prospects, rows.Err()
}

// StageCounts returns a count for every stage, zero included.
func (s *ProspectService) StageCounts(ctx context.Context, teamID uuid.UUID) (map[string]int, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT stage, COUNT(*) FROM prospects WHERE team_id = $1 GROUP BY stage
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to count prospects: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int, len(models.ProspectStages))
	for _, stage := range models.ProspectStages {
		counts[stage] = 0
	}
	for rows.Next() {
		var stage string
		var n int
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, fmt.Errorf("failed to scan stage count: %w", err)
		}
		counts[stage] = n
	}
	return counts, rows.Err()
}

func (s *ProspectService) GetByID(ctx context.Context, prospectID uuid.UUID) (*models.Prospect, error) {
	p, err := scanProspect(s.db.Pool.QueryRow(ctx, `
		SELECT `+prospectColumns+` FROM prospects WHERE id = $1
	`, prospectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProspectNotFound
		}
		return nil, fmt.Errorf("failed to get prospect: %w", err)
	}
	return p, nil
}

func (s *ProspectService) Create(ctx context.Context, p CreateProspectParams) (*models.Prospect, error) {
	p.ArtistName = strings.TrimSpace(p.ArtistName)
	if p.ArtistName == "" {
		return nil, ErrNameRequired
	}
	if p.Stage == "" {
		p.Stage = models.StageDiscovered
	}
	if p.Priority == "" {
		p.Priority = models.PriorityMedium
	}
	if !models.IsValidStage(p.Stage) {
		return nil, ErrInvalidStage
	}
	if !models.IsValidPriority(p.Priority) {
		return nil, ErrInvalidPriority
	}

	prospect, err := scanProspect(s.db.Pool.QueryRow(ctx, `
		INSERT INTO prospects (team_id, artist_name, stage, priority, genre, city, next_follow_up, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+prospectColumns,
		p.TeamID, p.ArtistName, p.Stage, p.Priority, p.Genre, p.City, p.NextFollowUp, p.Notes))
	if err != nil {
		return nil, fmt.Errorf("failed to create prospect: %w", err)
	}
	return prospect, nil
}

// Update accepts any stage change; only enum membership is checked.
func (s *ProspectService) Update(ctx context.Context, prospectID uuid.UUID, u models.ProspectUpdate) (*models.Prospect, error) {
	if u.ArtistName == nil && u.Stage == nil && u.Priority == nil && u.Genre == nil &&
		u.City == nil && u.NextFollowUp == nil && u.Notes == nil {
		return nil, ErrNoFieldsToUpdate
	}
	if u.ArtistName != nil && strings.TrimSpace(*u.ArtistName) == "" {
		return nil, ErrNameRequired
	}
	if u.Stage != nil && !models.IsValidStage(*u.Stage) {
		return nil, ErrInvalidStage
	}
	if u.Priority != nil && !models.IsValidPriority(*u.Priority) {
		return nil, ErrInvalidPriority
	}

	p, err := scanProspect(s.db.Pool.QueryRow(ctx, `
		UPDATE prospects SET
			artist_name = COALESCE($1, artist_name),
			stage = COALESCE($2, stage),
			priority = COALESCE($3, priority),
			genre = COALESCE($4, genre),
			city = COALESCE($5, city),
			next_follow_up = COALESCE($6, next_follow_up),
			notes = COALESCE($7, notes),
			updated_at = NOW()
		WHERE id = $8
		RETURNING `+prospectColumns,
		u.ArtistName, u.Stage, u.Priority, u.Genre, u.City, u.NextFollowUp, u.Notes, prospectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProspectNotFound
		}
		return nil, fmt.Errorf("failed to update prospect: %w", err)
	}
	return p, nil
}

func (s *ProspectService) Delete(ctx context.Context, prospectID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM prospects WHERE id = $1`, prospectID)
	if err != nil {
		return fmt.Errorf("failed to delete prospect: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProspectNotFound
	}
	return nil
}
