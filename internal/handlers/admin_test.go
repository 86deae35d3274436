package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/perfsync"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/pkg/dto"
	"github.com/dimitrije/rosterdesk-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupAdminTest() (*testutil.MockPerformanceService, *testutil.MockSyncer, *testutil.MockUserService, *AdminHandler) {
	perf := new(testutil.MockPerformanceService)
	syncer := new(testutil.MockSyncer)
	users := new(testutil.MockUserService)
	h := NewAdminHandler(perf, syncer, users, nil)
	return perf, syncer, users, h
}

func TestAdminHandler_SyncStale(t *testing.T) {
	perf, syncer, _, h := setupAdminTest()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	reqs := []perfsync.Request{{ArtistID: uuid.New(), SpotifyID: "sp1", ArtistName: "Nova Lane"}}
	perf.On("ListSyncCandidates", mock.Anything, now, models.StaleAfter).Return(reqs, nil)
	syncer.On("SyncAll", mock.Anything, reqs).Return(perfsync.Report{Synced: 1})

	rec := serveRoute(nil, http.MethodPost, "/admin/performance/sync-stale", h.SyncStale,
		jsonRequest(t, http.MethodPost, "/admin/performance/sync-stale", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var report perfsync.Report
	decodeJSON(t, rec, &report)
	assert.Equal(t, 1, report.Synced)
	syncer.AssertExpectations(t)
}

func TestAdminHandler_SyncStale_ListError(t *testing.T) {
	perf, syncer, _, h := setupAdminTest()
	perf.On("ListSyncCandidates", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	rec := serveRoute(nil, http.MethodPost, "/admin/performance/sync-stale", h.SyncStale,
		jsonRequest(t, http.MethodPost, "/admin/performance/sync-stale", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	syncer.AssertNotCalled(t, "SyncAll", mock.Anything, mock.Anything)
}

func TestAdminHandler_SetGlobalRole(t *testing.T) {
	tests := []struct {
		name       string
		body       dto.SetGlobalRoleRequest
		setupMock  func(*testutil.MockUserService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "promotes",
			body: dto.SetGlobalRoleRequest{Email: " ops@label.fm ", Role: models.GlobalRoleSuperAdmin},
			setupMock: func(m *testutil.MockUserService) {
				m.On("SetGlobalRole", mock.Anything, "ops@label.fm", models.GlobalRoleSuperAdmin).Return(nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "super_admin",
		},
		{
			name:       "missing email",
			body:       dto.SetGlobalRoleRequest{Role: models.GlobalRoleUser},
			setupMock:  func(*testutil.MockUserService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "email is required",
		},
		{
			name:       "unknown role",
			body:       dto.SetGlobalRoleRequest{Email: "a@b.c", Role: "root"},
			setupMock:  func(*testutil.MockUserService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "role must be",
		},
		{
			name: "no such user",
			body: dto.SetGlobalRoleRequest{Email: "ghost@label.fm", Role: models.GlobalRoleUser},
			setupMock: func(m *testutil.MockUserService) {
				m.On("SetGlobalRole", mock.Anything, "ghost@label.fm", models.GlobalRoleUser).Return(services.ErrUserNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantBody:   "user not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, users, h := setupAdminTest()
			tt.setupMock(users)

			rec := serveRoute(nil, http.MethodPost, "/admin/users/role", h.SetGlobalRole,
				jsonRequest(t, http.MethodPost, "/admin/users/role", tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
