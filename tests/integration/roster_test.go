package integration

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/metadata"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestArtistService_Integration_CreateAndDeleteCascades(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	artists := services.NewArtistService(tdb.DB, nil, zap.NewNop())
	tasks := services.NewTaskService(tdb.DB)
	budgets := services.NewBudgetService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, owner)

	artist, err := artists.Create(ctx, services.CreateArtistParams{
		TeamID: team.ID,
		Name:   "Nova Lane",
		Genres: []string{"indie pop"},
	})
	require.NoError(t, err)
	assert.Equal(t, team.ID, artist.TeamID)
	assert.Equal(t, []string{"indie pop"}, artist.Genres)

	listed, err := artists.ListByTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	task := fixtures.CreateTask(t, artist, nil)
	budget := fixtures.CreateBudget(t, artist, "2026-Q3", models.BudgetExpense, 50000)

	require.NoError(t, artists.Delete(ctx, artist.ID))

	_, err = artists.GetByID(ctx, artist.ID)
	assert.ErrorIs(t, err, services.ErrArtistNotFound)
	_, err = tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, services.ErrTaskNotFound)
	_, err = budgets.GetByID(ctx, budget.ID)
	assert.ErrorIs(t, err, services.ErrBudgetNotFound)
}

func TestTaskService_Integration_Completion(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewTaskService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, owner)
	artist := fixtures.CreateArtist(t, team)

	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	task, err := svc.Create(ctx, artist.ID, "Master the single", &due)
	require.NoError(t, err)
	assert.Equal(t, team.ID, task.TeamID)
	assert.False(t, task.IsCompleted)

	done, err := svc.SetCompleted(ctx, task.ID, true)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)
	assert.NotNil(t, done.CompletedAt)

	open, err := svc.ListByTeam(ctx, team.ID, true)
	require.NoError(t, err)
	assert.Empty(t, open)

	reopened, err := svc.SetCompleted(ctx, task.ID, false)
	require.NoError(t, err)
	assert.False(t, reopened.IsCompleted)
	assert.Nil(t, reopened.CompletedAt)
}

func TestOverviewService_Integration_Quarter(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	prospects := services.NewProspectService(tdb.DB)
	perf := services.NewPerformanceService(tdb.DB)
	svc := services.NewOverviewService(tdb.DB, prospects)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, owner)
	artist := fixtures.CreateArtist(t, team, testutil.WithArtistName("Nova Lane"))

	fixtures.CreateBudget(t, artist, "2026-Q4", models.BudgetIncome, 1_250_000)
	fixtures.CreateBudget(t, artist, "2026-Q4", models.BudgetExpense, 250_000)
	fixtures.CreateBudget(t, artist, "2026-Q3", models.BudgetIncome, 999)

	done := fixtures.CreateTask(t, artist, nil)
	fixtures.CreateTask(t, artist, nil)
	_, err := services.NewTaskService(tdb.DB).SetCompleted(ctx, done.ID, true)
	require.NoError(t, err)

	_, err = perf.Upsert(ctx, &models.PerformanceSnapshot{
		ArtistID:          artist.ID,
		MonthlyStreams:    100_000,
		EstMonthlyRevenue: 400,
		ScrapedAt:         time.Now(),
	})
	require.NoError(t, err)

	_, err = prospects.Create(ctx, services.CreateProspectParams{TeamID: team.ID, ArtistName: "Low Tide"})
	require.NoError(t, err)

	o, err := svc.Quarter(ctx, team.ID, "2026-Q4")
	require.NoError(t, err)

	assert.Equal(t, int64(1_250_000), o.IncomeCents)
	assert.Equal(t, int64(250_000), o.ExpenseCents)
	assert.Equal(t, int64(1_000_000), o.NetCents)
	assert.Equal(t, "$10,000.00", o.Net)
	assert.InDelta(t, 1200.0, o.ProjectedStreamsRevenue, 0.001)
	assert.Equal(t, 1, o.StageCounts[models.StageDiscovered])
	assert.Equal(t, 0, o.StaleSnapshots)

	require.Len(t, o.Completion, 1)
	assert.Equal(t, 2, o.Completion[0].Total)
	assert.Equal(t, 1, o.Completion[0].Completed)
	assert.Equal(t, 50.0, o.Completion[0].Percent)

	_, err = svc.Quarter(ctx, team.ID, "Q4-2026")
	assert.ErrorIs(t, err, services.ErrInvalidQuarter)
}

func TestPerformanceService_Integration_SyncCandidates(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewPerformanceService(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, owner)
	fresh := fixtures.CreateArtist(t, team, testutil.WithArtistName("A Fresh"), testutil.WithSpotifyID("sp-fresh"))
	stale := fixtures.CreateArtist(t, team, testutil.WithArtistName("B Stale"), testutil.WithSpotifyID("sp-stale"))
	never := fixtures.CreateArtist(t, team, testutil.WithArtistName("C Never"), testutil.WithSpotifyID("sp-never"))
	fixtures.CreateArtist(t, team, testutil.WithArtistName("D Unlinked"))

	now := time.Now()
	_, err := svc.Upsert(ctx, &models.PerformanceSnapshot{ArtistID: fresh.ID, ScrapedAt: now.Add(-time.Hour)})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, &models.PerformanceSnapshot{ArtistID: stale.ID, ScrapedAt: now.Add(-48 * time.Hour)})
	require.NoError(t, err)

	candidates, err := svc.ListSyncCandidates(ctx, now, models.StaleAfter)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, stale.ID, candidates[0].ArtistID)
	assert.Equal(t, never.ID, candidates[1].ArtistID)

	snap, err := svc.Upsert(ctx, &models.PerformanceSnapshot{ArtistID: stale.ID, MonthlyStreams: 42, ScrapedAt: now})
	require.NoError(t, err)
	assert.Equal(t, int64(42), snap.MonthlyStreams)
	assert.JSONEq(t, `{}`, string(snap.Raw))
}

func TestPreferenceService_Integration_Persists(t *testing.T) {
	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewPreferenceService(services.NewPgSettingsRepository(tdb.DB, zap.NewNop()))
	ctx := context.Background()

	user := fixtures.CreateUser(t)

	initial, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSectionSettings(), initial)

	_, err = svc.Move(ctx, user.ID, models.SectionRoster, services.MoveUp)
	require.NoError(t, err)
	_, err = svc.ToggleHidden(ctx, user.ID, models.SectionBudgets)
	require.NoError(t, err)

	loaded, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SectionRoster, loaded.Order[0])
	assert.Equal(t, []string{models.SectionBudgets}, loaded.Hidden)

	reset, err := svc.Reset(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSectionSettings(), reset)
}

func TestMetadataRedisCache_Integration(t *testing.T) {
	requireContainers(t)
	client := testutil.SetupTestRedis(t)
	cache := metadata.NewRedisCache(client, time.Minute, zap.NewNop())
	ctx := context.Background()

	_, ok := cache.Get(ctx, "https://example.com")
	assert.False(t, ok)

	title := "Example"
	cache.Set(ctx, "https://example.com", &metadata.Result{Success: true, Title: &title})

	got, ok := cache.Get(ctx, "https://example.com")
	require.True(t, ok)
	require.NotNil(t, got.Title)
	assert.Equal(t, "Example", *got.Title)

	ttl, err := client.TTL(ctx, "linkmeta:https://example.com").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
