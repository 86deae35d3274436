package testutil

import (
	"context"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/metadata"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/oauth"
	"github.com/dimitrije/rosterdesk-api/internal/perfsync"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/internal/spotify"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) SetGlobalRole(ctx context.Context, email, role string) error {
	args := m.Called(ctx, email, role)
	return args.Error(0)
}

// MockTeamService mocks the TeamService
type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) Create(ctx context.Context, name string, avatarURL *string, ownerID uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, name, avatarURL, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, []string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]models.Team), args.Get(1).([]string), args.Error(2)
}

func (m *MockTeamService) Update(ctx context.Context, teamID uuid.UUID, name string, avatarURL *string) (*models.Team, error) {
	args := m.Called(ctx, teamID, name, avatarURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) Delete(ctx context.Context, teamID uuid.UUID) error {
	args := m.Called(ctx, teamID)
	return args.Error(0)
}

func (m *MockTeamService) GetMemberRole(ctx context.Context, teamID, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, teamID, userID)
	return args.String(0), args.Error(1)
}

func (m *MockTeamService) GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TeamMember), args.Error(1)
}

func (m *MockTeamService) AddMember(ctx context.Context, teamID, userID uuid.UUID, role string) error {
	args := m.Called(ctx, teamID, userID, role)
	return args.Error(0)
}

func (m *MockTeamService) SetMemberRole(ctx context.Context, teamID, userID uuid.UUID, role string) error {
	args := m.Called(ctx, teamID, userID, role)
	return args.Error(0)
}

func (m *MockTeamService) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

// MockArtistService mocks the ArtistService
type MockArtistService struct {
	mock.Mock
}

func (m *MockArtistService) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.Artist, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Artist), args.Error(1)
}

func (m *MockArtistService) GetByID(ctx context.Context, artistID uuid.UUID) (*models.Artist, error) {
	args := m.Called(ctx, artistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artist), args.Error(1)
}

func (m *MockArtistService) Create(ctx context.Context, p services.CreateArtistParams) (*models.Artist, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artist), args.Error(1)
}

func (m *MockArtistService) Update(ctx context.Context, artistID uuid.UUID, u models.ArtistUpdate) (*models.Artist, error) {
	args := m.Called(ctx, artistID, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artist), args.Error(1)
}

func (m *MockArtistService) Delete(ctx context.Context, artistID uuid.UUID) error {
	args := m.Called(ctx, artistID)
	return args.Error(0)
}

// MockTaskService mocks the TaskService
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) ListByArtist(ctx context.Context, artistID uuid.UUID) ([]models.Task, error) {
	args := m.Called(ctx, artistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockTaskService) ListByTeam(ctx context.Context, teamID uuid.UUID, openOnly bool) ([]models.Task, error) {
	args := m.Called(ctx, teamID, openOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockTaskService) GetByID(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, artistID uuid.UUID, title string, dueDate *time.Time) (*models.Task, error) {
	args := m.Called(ctx, artistID, title, dueDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, taskID uuid.UUID, title *string, dueDate *time.Time) (*models.Task, error) {
	args := m.Called(ctx, taskID, title, dueDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) SetCompleted(ctx context.Context, taskID uuid.UUID, completed bool) (*models.Task, error) {
	args := m.Called(ctx, taskID, completed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, taskID uuid.UUID) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

// MockProspectService mocks the ProspectService
type MockProspectService struct {
	mock.Mock
}

func (m *MockProspectService) ListByTeam(ctx context.Context, teamID uuid.UUID, stage string) ([]models.Prospect, error) {
	args := m.Called(ctx, teamID, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Prospect), args.Error(1)
}

func (m *MockProspectService) StageCounts(ctx context.Context, teamID uuid.UUID) (map[string]int, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockProspectService) GetByID(ctx context.Context, prospectID uuid.UUID) (*models.Prospect, error) {
	args := m.Called(ctx, prospectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prospect), args.Error(1)
}

func (m *MockProspectService) Create(ctx context.Context, p services.CreateProspectParams) (*models.Prospect, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prospect), args.Error(1)
}

func (m *MockProspectService) Update(ctx context.Context, prospectID uuid.UUID, u models.ProspectUpdate) (*models.Prospect, error) {
	args := m.Called(ctx, prospectID, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prospect), args.Error(1)
}

func (m *MockProspectService) Delete(ctx context.Context, prospectID uuid.UUID) error {
	args := m.Called(ctx, prospectID)
	return args.Error(0)
}

// MockBudgetService mocks the BudgetService
type MockBudgetService struct {
	mock.Mock
}

func (m *MockBudgetService) ListByArtist(ctx context.Context, artistID uuid.UUID) ([]models.Budget, error) {
	args := m.Called(ctx, artistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Budget), args.Error(1)
}

func (m *MockBudgetService) ListByTeamQuarter(ctx context.Context, teamID uuid.UUID, quarter string) ([]models.Budget, error) {
	args := m.Called(ctx, teamID, quarter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Budget), args.Error(1)
}

func (m *MockBudgetService) GetByID(ctx context.Context, budgetID uuid.UUID) (*models.Budget, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Budget), args.Error(1)
}

func (m *MockBudgetService) Create(ctx context.Context, p services.CreateBudgetParams) (*models.Budget, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Budget), args.Error(1)
}

func (m *MockBudgetService) Update(ctx context.Context, budgetID uuid.UUID, u models.BudgetUpdate) (*models.Budget, error) {
	args := m.Called(ctx, budgetID, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Budget), args.Error(1)
}

func (m *MockBudgetService) Delete(ctx context.Context, budgetID uuid.UUID) error {
	args := m.Called(ctx, budgetID)
	return args.Error(0)
}

// MockPerformanceService mocks the PerformanceService
type MockPerformanceService struct {
	mock.Mock
}

func (m *MockPerformanceService) Get(ctx context.Context, artistID uuid.UUID) (*models.PerformanceSnapshot, error) {
	args := m.Called(ctx, artistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PerformanceSnapshot), args.Error(1)
}

func (m *MockPerformanceService) ListSyncCandidates(ctx context.Context, now time.Time, staleAfter time.Duration) ([]perfsync.Request, error) {
	args := m.Called(ctx, now, staleAfter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]perfsync.Request), args.Error(1)
}

// MockSyncer mocks perfsync.Syncer
type MockSyncer struct {
	mock.Mock
}

func (m *MockSyncer) Sync(ctx context.Context, req perfsync.Request) (*models.PerformanceSnapshot, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PerformanceSnapshot), args.Error(1)
}

func (m *MockSyncer) Status(artistID uuid.UUID) perfsync.Status {
	args := m.Called(artistID)
	return args.Get(0).(perfsync.Status)
}

func (m *MockSyncer) SyncAll(ctx context.Context, reqs []perfsync.Request) perfsync.Report {
	args := m.Called(ctx, reqs)
	return args.Get(0).(perfsync.Report)
}

// MockOverviewService mocks the OverviewService
type MockOverviewService struct {
	mock.Mock
}

func (m *MockOverviewService) Quarter(ctx context.Context, teamID uuid.UUID, quarter string) (*services.Overview, error) {
	args := m.Called(ctx, teamID, quarter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Overview), args.Error(1)
}

// MockPreferenceService mocks the PreferenceService
type MockPreferenceService struct {
	mock.Mock
}

func (m *MockPreferenceService) settings(args mock.Arguments) (models.SectionSettings, error) {
	if args.Get(0) == nil {
		return models.SectionSettings{}, args.Error(1)
	}
	return args.Get(0).(models.SectionSettings), args.Error(1)
}

func (m *MockPreferenceService) Get(ctx context.Context, userID uuid.UUID) (models.SectionSettings, error) {
	return m.settings(m.Called(ctx, userID))
}

func (m *MockPreferenceService) Replace(ctx context.Context, userID uuid.UUID, s models.SectionSettings) (models.SectionSettings, error) {
	return m.settings(m.Called(ctx, userID, s))
}

func (m *MockPreferenceService) Reset(ctx context.Context, userID uuid.UUID) (models.SectionSettings, error) {
	return m.settings(m.Called(ctx, userID))
}

func (m *MockPreferenceService) Move(ctx context.Context, userID uuid.UUID, section, direction string) (models.SectionSettings, error) {
	return m.settings(m.Called(ctx, userID, section, direction))
}

func (m *MockPreferenceService) ToggleHidden(ctx context.Context, userID uuid.UUID, section string) (models.SectionSettings, error) {
	return m.settings(m.Called(ctx, userID, section))
}

func (m *MockPreferenceService) ToggleCollapsed(ctx context.Context, userID uuid.UUID, section string) (models.SectionSettings, error) {
	return m.settings(m.Called(ctx, userID, section))
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockTokenService) CleanupExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockEmailService mocks the EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendTeamMemberAdded(to, teamName, addedBy, teamURL string) error {
	args := m.Called(to, teamName, addedBy, teamURL)
	return args.Error(0)
}

// MockMetadataFetcher mocks metadata.Fetcher
type MockMetadataFetcher struct {
	mock.Mock
}

func (m *MockMetadataFetcher) Fetch(ctx context.Context, rawURL string) (*metadata.Result, error) {
	args := m.Called(ctx, rawURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metadata.Result), args.Error(1)
}

// MockSpotifyClient mocks spotify.Client
type MockSpotifyClient struct {
	mock.Mock
}

func (m *MockSpotifyClient) SearchArtists(ctx context.Context, query string) ([]spotify.Artist, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]spotify.Artist), args.Error(1)
}

func (m *MockSpotifyClient) GetArtist(ctx context.Context, id string) (*spotify.Artist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*spotify.Artist), args.Error(1)
}

// MockOAuthProvider mocks an OAuth provider
type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) GetConsentURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*oauth.UserInfo, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.UserInfo), args.Error(1)
}

func (m *MockOAuthProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

// MockJWTService mocks the JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokenPair(userID uuid.UUID, email, globalRole string) (*services.TokenPair, error) {
	args := m.Called(userID, email, globalRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockJWTService) RefreshExpiry() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}
