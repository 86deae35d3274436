package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/metadata"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/oauth"
	"github.com/dimitrije/rosterdesk-api/internal/perfsync"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/internal/spotify"
	"github.com/dimitrije/rosterdesk-api/internal/sse"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error)
}

// TeamServiceInterface defines the methods used by handlers from TeamService
type TeamServiceInterface interface {
	Create(ctx context.Context, name string, avatarURL *string, ownerID uuid.UUID) (*models.Team, error)
	GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
	GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, []string, error)
	Update(ctx context.Context, teamID uuid.UUID, name string, avatarURL *string) (*models.Team, error)
	Delete(ctx context.Context, teamID uuid.UUID) error
	GetMemberRole(ctx context.Context, teamID, userID uuid.UUID) (string, error)
	GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error)
	AddMember(ctx context.Context, teamID, userID uuid.UUID, role string) error
	SetMemberRole(ctx context.Context, teamID, userID uuid.UUID, role string) error
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
}

type ArtistServiceInterface interface {
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Artist, error)
	GetByID(ctx context.Context, artistID uuid.UUID) (*models.Artist, error)
	Create(ctx context.Context, p services.CreateArtistParams) (*models.Artist, error)
	Update(ctx context.Context, artistID uuid.UUID, u models.ArtistUpdate) (*models.Artist, error)
	Delete(ctx context.Context, artistID uuid.UUID) error
}

type TaskServiceInterface interface {
	ListByArtist(ctx context.Context, artistID uuid.UUID) ([]models.Task, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID, openOnly bool) ([]models.Task, error)
	GetByID(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
	Create(ctx context.Context, artistID uuid.UUID, title string, dueDate *time.Time) (*models.Task, error)
	Update(ctx context.Context, taskID uuid.UUID, title *string, dueDate *time.Time) (*models.Task, error)
	SetCompleted(ctx context.Context, taskID uuid.UUID, completed bool) (*models.Task, error)
	Delete(ctx context.Context, taskID uuid.UUID) error
}

type ProspectServiceInterface interface {
	ListByTeam(ctx context.Context, teamID uuid.UUID, stage string) ([]models.Prospect, error)
	StageCounts(ctx context.Context, teamID uuid.UUID) (map[string]int, error)
	GetByID(ctx context.Context, prospectID uuid.UUID) (*models.Prospect, error)
	Create(ctx context.Context, p services.CreateProspectParams) (*models.Prospect, error)
	Update(ctx context.Context, prospectID uuid.UUID, u models.ProspectUpdate) (*models.Prospect, error)
	Delete(ctx context.Context, prospectID uuid.UUID) error
}

type BudgetServiceInterface interface {
	ListByArtist(ctx context.Context, artistID uuid.UUID) ([]models.Budget, error)
	ListByTeamQuarter(ctx context.Context, teamID uuid.UUID, quarter string) ([]models.Budget, error)
	GetByID(ctx context.Context, budgetID uuid.UUID) (*models.Budget, error)
	Create(ctx context.Context, p services.CreateBudgetParams) (*models.Budget, error)
	Update(ctx context.Context, budgetID uuid.UUID, u models.BudgetUpdate) (*models.Budget, error)
	Delete(ctx context.Context, budgetID uuid.UUID) error
}

type PerformanceServiceInterface interface {
	Get(ctx context.Context, artistID uuid.UUID) (*models.PerformanceSnapshot, error)
}

// SyncerInterface is satisfied by perfsync.Syncer
type SyncerInterface interface {
	Sync(ctx context.Context, req perfsync.Request) (*models.PerformanceSnapshot, error)
	Status(artistID uuid.UUID) perfsync.Status
}

type OverviewServiceInterface interface {
	Quarter(ctx context.Context, teamID uuid.UUID, quarter string) (*services.Overview, error)
}

type PreferenceServiceInterface interface {
	Get(ctx context.Context, userID uuid.UUID) (models.SectionSettings, error)
	Replace(ctx context.Context, userID uuid.UUID, settings models.SectionSettings) (models.SectionSettings, error)
	Reset(ctx context.Context, userID uuid.UUID) (models.SectionSettings, error)
	Move(ctx context.Context, userID uuid.UUID, section, direction string) (models.SectionSettings, error)
	ToggleHidden(ctx context.Context, userID uuid.UUID, section string) (models.SectionSettings, error)
	ToggleCollapsed(ctx context.Context, userID uuid.UUID, section string) (models.SectionSettings, error)
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email, globalRole string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

// EmailServiceInterface defines the methods used by handlers from EmailService
type EmailServiceInterface interface {
	SendTeamMemberAdded(to, teamName, addedBy, teamURL string) error
}

// MetadataFetcher is satisfied by metadata.Fetcher
type MetadataFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*metadata.Result, error)
}

// SpotifyClient is satisfied by spotify.Client
type SpotifyClient interface {
	SearchArtists(ctx context.Context, query string) ([]spotify.Artist, error)
	GetArtist(ctx context.Context, id string) (*spotify.Artist, error)
}

// SyncCandidateLister is satisfied by services.PerformanceService
type SyncCandidateLister interface {
	ListSyncCandidates(ctx context.Context, now time.Time, staleAfter time.Duration) ([]perfsync.Request, error)
}

// BatchSyncer is satisfied by perfsync.Syncer
type BatchSyncer interface {
	SyncAll(ctx context.Context, reqs []perfsync.Request) perfsync.Report
}

// RoleAssigner is satisfied by services.UserService
type RoleAssigner interface {
	SetGlobalRole(ctx context.Context, email, role string) error
}

// EventHub is satisfied by sse.Hub
type EventHub interface {
	Register(client *sse.Client)
	Unregister(client *sse.Client)
}
