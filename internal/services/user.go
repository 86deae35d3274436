package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/rosterdesk-api/internal/database"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/oauth"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

const userColumns = `id, email, name, avatar_url, provider, provider_id, global_role, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.Provider, &u.ProviderID, &u.GlobalRole, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindOrCreateFromOAuth upserts on (provider, provider_id). Profile fields
// follow the provider on every login, except that a missing avatar never
// clears a stored one.
func (s *UserService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name, avatar_url, provider, provider_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provider, provider_id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			avatar_url = COALESCE(EXCLUDED.avatar_url, users.avatar_url),
			updated_at = NOW()
		RETURNING `+userColumns,
		strings.TrimSpace(info.Email), strings.TrimSpace(info.Name), nullableString(info.AvatarURL), info.Provider, info.ID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert %s user: %w", info.Provider, err)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(s.db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail matches case-insensitively; teammates are added by typed address.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE LOWER(email) = LOWER($1)
	`, strings.TrimSpace(email)))
}

func (s *UserService) SetGlobalRole(ctx context.Context, email, role string) error {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET global_role = $1, updated_at = NOW()
		WHERE LOWER(email) = LOWER($2)
	`, role, strings.TrimSpace(email))
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		UPDATE users SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns,
		name, id,
	))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, err
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
