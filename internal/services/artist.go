package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/rosterdesk-api/internal/database"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/spotify"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ArtistLookup resolves a Spotify artist id to its public profile.
type ArtistLookup interface {
	GetArtist(ctx context.Context, id string) (*spotify.Artist, error)
}

type CreateArtistParams struct {
	TeamID           uuid.UUID
	Name             string
	AvatarURL        *string
	SpotifyID        *string
	Genres           []string
	MonthlyListeners int64
}

type ArtistService struct {
	db     *database.DB
	lookup ArtistLookup
	logger *zap.Logger
}

// NewArtistService accepts a nil lookup, in which case artists are stored
// exactly as submitted.
func NewArtistService(db *database.DB, lookup ArtistLookup, logger *zap.Logger) *ArtistService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArtistService{db: db, lookup: lookup, logger: logger.Named("artists")}
}

const artistColumns = `id, team_id, name, avatar_url, spotify_id, genres, monthly_listeners, created_at, updated_at`

func scanArtist(row pgx.Row) (*models.Artist, error) {
	var a models.Artist
	err := row.Scan(&a.ID, &a.TeamID, &a.Name, &a.AvatarURL, &a.SpotifyID, &a.Genres, &a.MonthlyListeners, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if a.Genres == nil {
		a.Genres = []string{}
	}
	return &a, nil
}

func (s *ArtistService) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Artist, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+artistColumns+`
		FROM artists WHERE team_id = $1
		ORDER BY name
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	defer rows.Close()

	artists := []models.Artist{}
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}
		artists = append(artists, *a)
	}
	return artists, rows.Err()
}

func (s *ArtistService) GetByID(ctx context.Context, artistID uuid.UUID) (*models.Artist, error) {
	a, err := scanArtist(s.db.Pool.QueryRow(ctx, `
		SELECT `+artistColumns+` FROM artists WHERE id = $1
	`, artistID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("failed to get artist: %w", err)
	}
	return a, nil
}

// Create stores a new roster artist. When a Spotify id is given, blanks in
// the submitted profile are filled from Spotify; lookup failures only cost
// the enrichment.
func (s *ArtistService) Create(ctx context.Context, p CreateArtistParams) (*models.Artist, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.SpotifyID != nil && *p.SpotifyID != "" && s.lookup != nil {
		s.enrich(ctx, &p)
	}
	if p.Name == "" {
		return nil, ErrNameRequired
	}
	if p.Genres == nil {
		p.Genres = []string{}
	}

	a, err := scanArtist(s.db.Pool.QueryRow(ctx, `
		INSERT INTO artists (team_id, name, avatar_url, spotify_id, genres, monthly_listeners)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+artistColumns,
		p.TeamID, p.Name, p.AvatarURL, p.SpotifyID, p.Genres, p.MonthlyListeners))
	if err != nil {
		return nil, fmt.Errorf("failed to create artist: %w", err)
	}
	return a, nil
}

func (s *ArtistService) enrich(ctx context.Context, p *CreateArtistParams) {
	profile, err := s.lookup.GetArtist(ctx, *p.SpotifyID)
	if err != nil {
		s.logger.Warn("spotify enrichment skipped",
			zap.String("spotify_id", *p.SpotifyID),
			zap.Error(err),
		)
		return
	}

	if p.Name == "" {
		p.Name = profile.Name
	}
	if p.AvatarURL == nil && len(profile.Images) > 0 {
		avatar := profile.Images[0].URL
		p.AvatarURL = &avatar
	}
	if len(p.Genres) == 0 {
		p.Genres = profile.Genres
	}
}

func (s *ArtistService) Update(ctx context.Context, artistID uuid.UUID, u models.ArtistUpdate) (*models.Artist, error) {
	if u.Name == nil && u.AvatarURL == nil && u.SpotifyID == nil && u.Genres == nil && u.MonthlyListeners == nil {
		return nil, ErrNoFieldsToUpdate
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return nil, ErrNameRequired
	}

	a, err := scanArtist(s.db.Pool.QueryRow(ctx, `
		UPDATE artists SET
			name = COALESCE($1, name),
			avatar_url = COALESCE($2, avatar_url),
			spotify_id = COALESCE($3, spotify_id),
			genres = COALESCE($4, genres),
			monthly_listeners = COALESCE($5, monthly_listeners),
			updated_at = NOW()
		WHERE id = $6
		RETURNING `+artistColumns,
		u.Name, u.AvatarURL, u.SpotifyID, u.Genres, u.MonthlyListeners, artistID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("failed to update artist: %w", err)
	}
	return a, nil
}

func (s *ArtistService) Delete(ctx context.Context, artistID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM artists WHERE id = $1`, artistID)
	if err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrArtistNotFound
	}
	return nil
}
