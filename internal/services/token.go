package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrRefreshTokenInvalid covers unknown, revoked and expired refresh tokens.
var ErrRefreshTokenInvalid = errors.New("refresh token is invalid or expired")

// TokenService stores refresh tokens by SHA-256 hash only.
type TokenService struct {
	db *database.DB
}

func NewTokenService(db *database.DB) *TokenService {
	return &TokenService{db: db}
}

func (s *TokenService) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	if _, err := s.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// ValidateRefreshToken returns the owner of a live token.
func (s *TokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	var owner uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT user_id FROM refresh_tokens
		WHERE token_hash = $1 AND expires_at > NOW()
	`, tokenHash).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrRefreshTokenInvalid
		}
		return uuid.Nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	return owner, nil
}

func (s *TokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAllUserTokens signs the user out of every device.
func (s *TokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// CleanupExpired deletes expired rows and reports how many went.
func (s *TokenService) CleanupExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
