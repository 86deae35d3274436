package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/database"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var prospectCols = []string{"id", "team_id", "artist_name", "stage", "priority", "genre", "city", "next_follow_up", "notes", "created_at", "updated_at"}

func setupProspectService(t *testing.T) (*ProspectService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewProspectService(db), mock
}

func TestProspectService_ListByTeam_StageFilter(t *testing.T) {
	svc, mock := setupProspectService(t)
	teamID := uuid.New()
	now := time.Now()
	city := "Belgrade"

	mock.ExpectQuery(`FROM prospects WHERE team_id = \$1`).
		WithArgs(teamID, models.StageInTalks).
		WillReturnRows(pgxmock.NewRows(prospectCols).
			AddRow(uuid.New(), teamID, "Sassja", models.StageInTalks, models.PriorityHigh, nil, &city, nil, nil, now, now))

	prospects, err := svc.ListByTeam(context.Background(), teamID, models.StageInTalks)

	require.NoError(t, err)
	require.Len(t, prospects, 1)
	assert.Equal(t, "Sassja", prospects[0].ArtistName)
	assert.Equal(t, "Belgrade", *prospects[0].City)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProspectService_ListByTeam_InvalidStage(t *testing.T) {
	svc, _ := setupProspectService(t)

	_, err := svc.ListByTeam(context.Background(), uuid.New(), "shortlisted")

	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestProspectService_StageCounts(t *testing.T) {
	svc, mock := setupProspectService(t)
	teamID := uuid.New()

	mock.ExpectQuery(`SELECT stage, COUNT\(\*\) FROM prospects`).
		WithArgs(teamID).
		WillReturnRows(pgxmock.NewRows([]string{"stage", "count"}).
			AddRow(models.StageContacted, 3).
			AddRow(models.StageSigned, 1))

	counts, err := svc.StageCounts(context.Background(), teamID)

	require.NoError(t, err)
	assert.Len(t, counts, len(models.ProspectStages))
	assert.Equal(t, 3, counts[models.StageContacted])
	assert.Equal(t, 1, counts[models.StageSigned])
	assert.Equal(t, 0, counts[models.StageDiscovered])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProspectService_Create_Defaults(t *testing.T) {
	svc, mock := setupProspectService(t)
	teamID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO prospects`).
		WithArgs(teamID, "Sassja", models.StageDiscovered, models.PriorityMedium,
			(*string)(nil), (*string)(nil), (*time.Time)(nil), (*string)(nil)).
		WillReturnRows(pgxmock.NewRows(prospectCols).
			AddRow(uuid.New(), teamID, "Sassja", models.StageDiscovered, models.PriorityMedium, nil, nil, nil, nil, now, now))

	p, err := svc.Create(context.Background(), CreateProspectParams{TeamID: teamID, ArtistName: "Sassja"})

	require.NoError(t, err)
	assert.Equal(t, models.StageDiscovered, p.Stage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProspectService_Create_Validation(t *testing.T) {
	svc, _ := setupProspectService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProspectParams{TeamID: uuid.New()})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Create(ctx, CreateProspectParams{TeamID: uuid.New(), ArtistName: "x", Stage: "maybe"})
	assert.ErrorIs(t, err, ErrInvalidStage)

	_, err = svc.Create(ctx, CreateProspectParams{TeamID: uuid.New(), ArtistName: "x", Priority: "urgent"})
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

// Moving straight from discovered to signed is allowed.
func TestProspectService_Update_AnyStageTransition(t *testing.T) {
	svc, mock := setupProspectService(t)
	id := uuid.New()
	stage := models.StageSigned
	now := time.Now()

	mock.ExpectQuery(`UPDATE prospects SET`).
		WithArgs((*string)(nil), &stage, (*string)(nil), (*string)(nil), (*string)(nil), (*time.Time)(nil), (*string)(nil), id).
		WillReturnRows(pgxmock.NewRows(prospectCols).
			AddRow(id, uuid.New(), "Sassja", stage, models.PriorityLow, nil, nil, nil, nil, now, now))

	p, err := svc.Update(context.Background(), id, models.ProspectUpdate{Stage: &stage})

	require.NoError(t, err)
	assert.Equal(t, models.StageSigned, p.Stage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProspectService_Update_InvalidPriority(t *testing.T) {
	svc, _ := setupProspectService(t)
	priority := "asap"

	_, err := svc.Update(context.Background(), uuid.New(), models.ProspectUpdate{Priority: &priority})

	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestProspectService_Delete_NotFound(t *testing.T) {
	svc, mock := setupProspectService(t)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM prospects`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, svc.Delete(context.Background(), id), ErrProspectNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
