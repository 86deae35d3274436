package integration

import (
	"net/http"
	"testing"

	"github.com/dimitrije/rosterdesk-api/internal/config"
	"github.com/dimitrije/rosterdesk-api/internal/metadata"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/perfsync"
	"github.com/dimitrije/rosterdesk-api/internal/server"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/internal/spotify"
	"github.com/dimitrije/rosterdesk-api/internal/sse"
	"github.com/dimitrije/rosterdesk-api/pkg/dto"
	"github.com/dimitrije/rosterdesk-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, tdb *testutil.TestDB) *testutil.HTTPTestClient {
	t.Helper()

	db := tdb.DB
	performance := services.NewPerformanceService(db)
	prospects := services.NewProspectService(db)

	api := server.New(server.Deps{
		Config:      &config.Config{Env: "test", FrontendURL: "http://localhost:5173"},
		JWT:         testutil.TestJWTService(),
		Users:       services.NewUserService(db),
		Tokens:      services.NewTokenService(db),
		Teams:       services.NewTeamService(db),
		Email:       services.NewEmailService(config.SMTPConfig{}),
		Artists:     services.NewArtistService(db, nil, nil),
		Tasks:       services.NewTaskService(db),
		Prospects:   prospects,
		Budgets:     services.NewBudgetService(db),
		Performance: performance,
		Overview:    services.NewOverviewService(db, prospects),
		Preferences: services.NewPreferenceService(services.NewPgSettingsRepository(db, nil)),
		Fetcher:     metadata.NewFetcher(),
		Spotify:     spotify.NewClient(config.SpotifyConfig{}),
		Syncer:      perfsync.NewSyncer(perfsync.NewClient("", "", nil), performance, nil, nil),
		Hub:         sse.NewHub(),
	})
	return testutil.NewHTTPTestClient(t, api)
}

func TestAPI_Integration_Health(t *testing.T) {
	client := newTestAPI(t, setupTest(t))

	rec := client.GET("/api/v1/health")
	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.AssertJSON(t, rec, map[string]any{"status": "ok"})
}

func TestAPI_Integration_RosterFlow(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	client := newTestAPI(t, tdb)

	manager := fixtures.CreateUser(t, testutil.WithEmail("manager@northpier.test"))
	api := client.AsUser(manager)

	rec := api.POST("/api/v1/teams", dto.CreateTeamRequest{Name: "North Pier Records"})
	testutil.AssertStatus(t, rec, http.StatusCreated)
	var team dto.TeamResponse
	testutil.ParseJSON(t, rec, &team)
	assert.Equal(t, models.RoleOwner, team.Role)

	rec = api.POST("/api/v1/teams/"+team.ID.String()+"/artists", dto.CreateArtistRequest{
		Name:   "Nova Lane",
		Genres: []string{"dream pop"},
	})
	testutil.AssertStatus(t, rec, http.StatusCreated)
	var artist models.Artist
	testutil.ParseJSON(t, rec, &artist)
	assert.Equal(t, team.ID, artist.TeamID)

	rec = api.POST("/api/v1/artists/"+artist.ID.String()+"/tasks", dto.CreateTaskRequest{Title: "Deliver stems"})
	testutil.AssertStatus(t, rec, http.StatusCreated)
	var task models.Task
	testutil.ParseJSON(t, rec, &task)
	assert.False(t, task.IsCompleted)

	rec = api.POST("/api/v1/tasks/"+task.ID.String()+"/complete", dto.SetTaskCompletedRequest{IsCompleted: true})
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = api.GET("/api/v1/teams/"+team.ID.String()+"/overview")
	testutil.AssertStatus(t, rec, http.StatusOK)
	var overview services.Overview
	testutil.ParseJSON(t, rec, &overview)
	require.Len(t, overview.Completion, 1)
	assert.Equal(t, "Nova Lane", overview.Completion[0].ArtistName)
	assert.InDelta(t, 100.0, overview.Completion[0].Percent, 0.001)

	rec = api.GET("/api/v1/artists/"+artist.ID.String()+"/performance")
	testutil.AssertStatus(t, rec, http.StatusOK)
	var perf dto.PerformanceResponse
	testutil.ParseJSON(t, rec, &perf)
	assert.Nil(t, perf.Snapshot)
	assert.True(t, perf.IsStale)
}

func TestAPI_Integration_ForeignTeamIsInvisible(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	client := newTestAPI(t, tdb)

	owner := fixtures.CreateUser(t)
	outsider := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, owner)
	artist := fixtures.CreateArtist(t, team, testutil.WithArtistName("Low Tide"), testutil.WithGenres("shoegaze"))
	ownerAPI, outsiderAPI := client.AsUser(owner), client.AsUser(outsider)

	rec := outsiderAPI.GET("/api/v1/artists/"+artist.ID.String())
	testutil.AssertStatus(t, rec, http.StatusNotFound)

	rec = outsiderAPI.GET("/api/v1/teams/"+team.ID.String()+"/artists")
	testutil.AssertStatus(t, rec, http.StatusNotFound)

	rec = outsiderAPI.PATCH("/api/v1/artists/"+artist.ID.String(), map[string]string{"name": "Hijacked"})
	testutil.AssertStatus(t, rec, http.StatusNotFound)

	rec = ownerAPI.GET("/api/v1/artists/"+artist.ID.String())
	testutil.AssertStatus(t, rec, http.StatusOK)
}

func TestAPI_Integration_MemberCannotDeleteArtist(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	client := newTestAPI(t, tdb)

	owner := fixtures.CreateUser(t)
	member := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, owner)
	fixtures.AddTeamMember(t, team, member)
	artist := fixtures.CreateArtist(t, team)
	ownerAPI, memberAPI := client.AsUser(owner), client.AsUser(member)

	rec := memberAPI.DELETE("/api/v1/artists/"+artist.ID.String())
	testutil.AssertStatus(t, rec, http.StatusForbidden)

	rec = ownerAPI.DELETE("/api/v1/artists/"+artist.ID.String())
	testutil.AssertStatus(t, rec, http.StatusOK)
}

func TestAPI_Integration_AdminPromotion(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	client := newTestAPI(t, tdb)

	admin := fixtures.CreateUser(t, testutil.AsSuperAdmin())
	scout := fixtures.CreateUser(t, testutil.WithEmail("scout@northpier.test"))

	rec := client.AsUser(scout).POST("/api/v1/admin/users/role", dto.SetGlobalRoleRequest{Email: scout.Email, Role: models.GlobalRoleSuperAdmin})
	testutil.AssertStatus(t, rec, http.StatusForbidden)

	rec = client.AsUser(admin).POST("/api/v1/admin/users/role", dto.SetGlobalRoleRequest{Email: "SCOUT@northpier.test", Role: models.GlobalRoleSuperAdmin})
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = client.AsUser(admin).POST("/api/v1/admin/users/role", dto.SetGlobalRoleRequest{Email: "nobody@northpier.test", Role: models.GlobalRoleUser})
	testutil.AssertStatus(t, rec, http.StatusNotFound)

	rec = client.AsUser(scout).GET("/api/v1/users/me")
	testutil.AssertStatus(t, rec, http.StatusOK)
	var me dto.UserResponse
	testutil.ParseJSON(t, rec, &me)
	assert.True(t, me.IsAdmin)
}
