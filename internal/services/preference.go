package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dimitrije/rosterdesk-api/internal/database"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	MoveUp   = "up"
	MoveDown = "down"
)

// SettingsRepository persists one settings document per user.
type SettingsRepository interface {
	Load(ctx context.Context, userID uuid.UUID) (models.SectionSettings, error)
	Save(ctx context.Context, userID uuid.UUID, settings models.SectionSettings) error
}

type PgSettingsRepository struct {
	db     *database.DB
	logger *zap.Logger
}

func NewPgSettingsRepository(db *database.DB, logger *zap.Logger) *PgSettingsRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PgSettingsRepository{db: db, logger: logger.Named("preferences")}
}

// Load falls back to defaults when the user has no row or the stored
// document cannot be decoded.
func (r *PgSettingsRepository) Load(ctx context.Context, userID uuid.UUID) (models.SectionSettings, error) {
	var raw []byte
	err := r.db.Pool.QueryRow(ctx, `
		SELECT settings FROM section_preferences WHERE user_id = $1
	`, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.DefaultSectionSettings(), nil
		}
		return models.SectionSettings{}, fmt.Errorf("failed to load preferences: %w", err)
	}

	var settings models.SectionSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		r.logger.Warn("discarding unreadable preferences",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return models.DefaultSectionSettings(), nil
	}
	return settings, nil
}

func (r *PgSettingsRepository) Save(ctx context.Context, userID uuid.UUID, settings models.SectionSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO section_preferences (user_id, settings, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET settings = EXCLUDED.settings, updated_at = NOW()
	`, userID, raw)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// PreferenceService applies dashboard layout edits. Every read and write
// passes through Normalize, so callers always see the full catalog.
type PreferenceService struct {
	repo SettingsRepository
}

func NewPreferenceService(repo SettingsRepository) *PreferenceService {
	return &PreferenceService{repo: repo}
}

func (s *PreferenceService) Get(ctx context.Context, userID uuid.UUID) (models.SectionSettings, error) {
	settings, err := s.repo.Load(ctx, userID)
	if err != nil {
		return models.SectionSettings{}, err
	}
	return settings.Normalize(), nil
}

func (s *PreferenceService) Replace(ctx context.Context, userID uuid.UUID, settings models.SectionSettings) (models.SectionSettings, error) {
	return s.save(ctx, userID, settings.Normalize())
}

func (s *PreferenceService) Reset(ctx context.Context, userID uuid.UUID) (models.SectionSettings, error) {
	return s.save(ctx, userID, models.DefaultSectionSettings())
}

// Move swaps the section with its neighbour. Moving past either end is a
// no-op.
func (s *PreferenceService) Move(ctx context.Context, userID uuid.UUID, section, direction string) (models.SectionSettings, error) {
	if direction != MoveUp && direction != MoveDown {
		return models.SectionSettings{}, ErrInvalidDirection
	}
	return s.update(ctx, userID, section, func(settings *models.SectionSettings) {
		i := indexOf(settings.Order, section)
		j := i - 1
		if direction == MoveDown {
			j = i + 1
		}
		if j < 0 || j >= len(settings.Order) {
			return
		}
		settings.Order[i], settings.Order[j] = settings.Order[j], settings.Order[i]
	})
}

func (s *PreferenceService) ToggleHidden(ctx context.Context, userID uuid.UUID, section string) (models.SectionSettings, error) {
	return s.update(ctx, userID, section, func(settings *models.SectionSettings) {
		settings.Hidden = toggle(settings.Hidden, section)
	})
}

func (s *PreferenceService) ToggleCollapsed(ctx context.Context, userID uuid.UUID, section string) (models.SectionSettings, error) {
	return s.update(ctx, userID, section, func(settings *models.SectionSettings) {
		settings.Collapsed = toggle(settings.Collapsed, section)
	})
}

func (s *PreferenceService) update(ctx context.Context, userID uuid.UUID, section string, apply func(*models.SectionSettings)) (models.SectionSettings, error) {
	if !models.IsKnownSection(section) {
		return models.SectionSettings{}, ErrUnknownSection
	}
	settings, err := s.Get(ctx, userID)
	if err != nil {
		return models.SectionSettings{}, err
	}
	apply(&settings)
	return s.save(ctx, userID, settings)
}

func (s *PreferenceService) save(ctx context.Context, userID uuid.UUID, settings models.SectionSettings) (models.SectionSettings, error) {
	if err := s.repo.Save(ctx, userID, settings); err != nil {
		return models.SectionSettings{}, err
	}
	return settings, nil
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func toggle(ids []string, id string) []string {
	if i := indexOf(ids, id); i >= 0 {
		return append(ids[:i:i], ids[i+1:]...)
	}
	return append(ids, id)
}
