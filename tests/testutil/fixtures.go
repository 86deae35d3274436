package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/database"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/oauth"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Fixtures inserts roster data straight into a test database. Names are
// numbered so fixtures never collide on unique columns.
type Fixtures struct {
	db      *database.DB
	teams   *services.TeamService
	counter int
}

func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db, teams: services.NewTeamService(db)}
}

func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:      fmt.Sprintf("staff%d@northpier.test", f.counter),
		Name:       fmt.Sprintf("Staff %d", f.counter),
		Provider:   "google",
		ProviderID: fmt.Sprintf("google-%d", f.counter),
		GlobalRole: models.GlobalRoleUser,
	}
	for _, opt := range opts {
		opt(user)
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO users (email, name, avatar_url, provider, provider_id, global_role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, user.Email, user.Name, user.AvatarURL, user.Provider, user.ProviderID, user.GlobalRole).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	require.NoError(t, err, "failed to create user")
	return user
}

type UserOption func(*models.User)

func WithEmail(email string) UserOption {
	return func(u *models.User) { u.Email = email }
}

func WithName(name string) UserOption {
	return func(u *models.User) { u.Name = name }
}

func AsSuperAdmin() UserOption {
	return func(u *models.User) { u.GlobalRole = models.GlobalRoleSuperAdmin }
}

// CreateTeam goes through TeamService so the owner membership row exists
// exactly as it does in production.
func (f *Fixtures) CreateTeam(t *testing.T, owner *models.User, opts ...TeamOption) *models.Team {
	t.Helper()
	f.counter++

	draft := &models.Team{Name: fmt.Sprintf("Label %d", f.counter)}
	for _, opt := range opts {
		opt(draft)
	}

	team, err := f.teams.Create(context.Background(), draft.Name, draft.AvatarURL, owner.ID)
	require.NoError(t, err, "failed to create team")
	return team
}

type TeamOption func(*models.Team)

func WithTeamName(name string) TeamOption {
	return func(t *models.Team) { t.Name = name }
}

func (f *Fixtures) AddTeamMember(t *testing.T, team *models.Team, user *models.User) {
	t.Helper()
	require.NoError(t, f.teams.AddMember(context.Background(), team.ID, user.ID, models.RoleMember), "failed to add team member")
}

func (f *Fixtures) CreateArtist(t *testing.T, team *models.Team, opts ...ArtistOption) *models.Artist {
	t.Helper()
	f.counter++

	artist := &models.Artist{
		TeamID: team.ID,
		Name:   fmt.Sprintf("Test Artist %d", f.counter),
		Genres: []string{},
	}

	for _, opt := range opts {
		opt(artist)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO artists (team_id, name, spotify_id, genres, monthly_listeners)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, artist.TeamID, artist.Name, artist.SpotifyID, artist.Genres, artist.MonthlyListeners).Scan(
		&artist.ID, &artist.CreatedAt, &artist.UpdatedAt,
	)
	require.NoError(t, err, "failed to create artist")

	return artist
}

type ArtistOption func(*models.Artist)

func WithArtistName(name string) ArtistOption {
	return func(a *models.Artist) {
		a.Name = name
	}
}

func WithSpotifyID(id string) ArtistOption {
	return func(a *models.Artist) {
		a.SpotifyID = &id
	}
}

func WithGenres(genres ...string) ArtistOption {
	return func(a *models.Artist) {
		a.Genres = genres
	}
}

// CreateTask creates an open task for the artist
func (f *Fixtures) CreateTask(t *testing.T, artist *models.Artist, dueDate *time.Time) *models.Task {
	t.Helper()
	f.counter++

	task := &models.Task{
		ArtistID: artist.ID,
		TeamID:   artist.TeamID,
		Title:    fmt.Sprintf("Test Task %d", f.counter),
		DueDate:  dueDate,
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO tasks (artist_id, team_id, title, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, task.ArtistID, task.TeamID, task.Title, task.DueDate).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	require.NoError(t, err, "failed to create task")

	return task
}

// CreateBudget records a budget line for the artist
func (f *Fixtures) CreateBudget(t *testing.T, artist *models.Artist, quarter, kind string, amountCents int64) *models.Budget {
	t.Helper()
	f.counter++

	budget := &models.Budget{
		ArtistID:    artist.ID,
		TeamID:      artist.TeamID,
		Quarter:     quarter,
		Category:    fmt.Sprintf("Category %d", f.counter),
		Kind:        kind,
		AmountCents: amountCents,
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO budgets (artist_id, team_id, quarter, category, kind, amount_cents)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, budget.ArtistID, budget.TeamID, budget.Quarter, budget.Category, budget.Kind, budget.AmountCents).Scan(
		&budget.ID, &budget.CreatedAt, &budget.UpdatedAt,
	)
	require.NoError(t, err, "failed to create budget")

	return budget
}

// CreateRefreshToken inserts a hash without going through TokenService, so
// already expired tokens can be seeded.
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	require.NoError(t, err, "failed to create refresh token")
}

func OAuthUserInfo(email, name, provider, id string) *oauth.UserInfo {
	return &oauth.UserInfo{
		Email:     email,
		Name:      name,
		AvatarURL: "https://example.com/avatar.png",
		ID:        id,
		Provider:  provider,
	}
}
