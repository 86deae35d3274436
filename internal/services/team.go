package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/rosterdesk-api/internal/database"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TeamService owns labels and their staff memberships. Artists, tasks and
// budgets hang off a team and cascade with it.
type TeamService struct {
	db *database.DB
}

func NewTeamService(db *database.DB) *TeamService {
	return &TeamService{db: db}
}

const teamColumns = `id, name, avatar_url, owner_id, created_at, updated_at`

func scanTeam(row pgx.Row, extra ...any) (*models.Team, error) {
	var t models.Team
	dest := append([]any{&t.ID, &t.Name, &t.AvatarURL, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create inserts the team and the creator's owner membership atomically.
func (s *TeamService) Create(ctx context.Context, name string, avatarURL *string, ownerID uuid.UUID) (*models.Team, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	team, err := scanTeam(tx.QueryRow(ctx, `
		INSERT INTO teams (name, avatar_url, owner_id)
		VALUES ($1, $2, $3)
		RETURNING `+teamColumns,
		name, avatarURL, ownerID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create team %q: %w", name, err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO team_members (team_id, user_id, role) VALUES ($1, $2, $3)`,
		team.ID, ownerID, models.RoleOwner,
	); err != nil {
		return nil, fmt.Errorf("failed to add team owner: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit team: %w", err)
	}
	return team, nil
}

func (s *TeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	team, err := scanTeam(s.db.Pool.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, teamID))
	if err != nil && !errors.Is(err, ErrTeamNotFound) {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, err
}

// GetUserTeams returns the caller's teams alongside the caller's role in each,
// ordered by team name.
func (s *TeamService) GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, []string, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT t.id, t.name, t.avatar_url, t.owner_id, t.created_at, t.updated_at, tm.role
		FROM teams t
		JOIN team_members tm ON tm.team_id = t.id
		WHERE tm.user_id = $1
		ORDER BY t.name
	`, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := []models.Team{}
	roles := []string{}
	for rows.Next() {
		var role string
		team, err := scanTeam(rows, &role)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, *team)
		roles = append(roles, role)
	}
	return teams, roles, rows.Err()
}

// Update renames the team. A nil avatar leaves the stored one alone.
func (s *TeamService) Update(ctx context.Context, teamID uuid.UUID, name string, avatarURL *string) (*models.Team, error) {
	team, err := scanTeam(s.db.Pool.QueryRow(ctx, `
		UPDATE teams SET name = $1, avatar_url = COALESCE($2, avatar_url), updated_at = NOW()
		WHERE id = $3
		RETURNING `+teamColumns,
		name, avatarURL, teamID,
	))
	if err != nil && !errors.Is(err, ErrTeamNotFound) {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return team, err
}

func (s *TeamService) Delete(ctx context.Context, teamID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, teamID)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTeamNotFound
	}
	return nil
}

// GetMemberRole returns ErrNotTeamMember when the user has no membership row.
func (s *TeamService) GetMemberRole(ctx context.Context, teamID, userID uuid.UUID) (string, error) {
	var role string
	err := s.db.Pool.QueryRow(ctx,
		`SELECT role FROM team_members WHERE team_id = $1 AND user_id = $2`,
		teamID, userID,
	).Scan(&role)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return "", ErrNotTeamMember
	case err != nil:
		return "", fmt.Errorf("failed to get member role: %w", err)
	}
	return role, nil
}

// GetMembers lists memberships in join order with the staff profile attached.
func (s *TeamService) GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT tm.id, tm.team_id, tm.user_id, tm.role, tm.created_at,
		       u.id, u.email, u.name, u.avatar_url, u.provider, u.global_role, u.created_at, u.updated_at
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY tm.created_at
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []models.TeamMember{}
	for rows.Next() {
		var m models.TeamMember
		u := &models.User{}
		if err := rows.Scan(
			&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.CreatedAt,
			&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.Provider, &u.GlobalRole, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.User = u
		members = append(members, m)
	}
	return members, rows.Err()
}

// AddMember grants admin or member access. Ownership is only ever set by
// Create.
func (s *TeamService) AddMember(ctx context.Context, teamID, userID uuid.UUID, role string) error {
	if !models.IsValidMemberRole(role) {
		return ErrInvalidRole
	}

	tag, err := s.db.Pool.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, user_id) DO NOTHING
	`, teamID, userID, role)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyMember
	}
	return nil
}

// editableRole resolves a member's current role for SetMemberRole and
// RemoveMember, both of which refuse to touch the owner.
func (s *TeamService) editableRole(ctx context.Context, teamID, userID uuid.UUID, ownerErr error) error {
	current, err := s.GetMemberRole(ctx, teamID, userID)
	if errors.Is(err, ErrNotTeamMember) {
		return ErrMemberNotFound
	}
	if err != nil {
		return err
	}
	if current == models.RoleOwner {
		return ownerErr
	}
	return nil
}

func (s *TeamService) SetMemberRole(ctx context.Context, teamID, userID uuid.UUID, role string) error {
	if !models.IsValidMemberRole(role) {
		return ErrInvalidRole
	}
	if err := s.editableRole(ctx, teamID, userID, ErrCannotChangeOwner); err != nil {
		return err
	}

	if _, err := s.db.Pool.Exec(ctx,
		`UPDATE team_members SET role = $1 WHERE team_id = $2 AND user_id = $3`,
		role, teamID, userID,
	); err != nil {
		return fmt.Errorf("failed to set member role: %w", err)
	}
	return nil
}

func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	if err := s.editableRole(ctx, teamID, userID, ErrCannotRemoveOwner); err != nil {
		return err
	}

	if _, err := s.db.Pool.Exec(ctx,
		`DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`,
		teamID, userID,
	); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}
