package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/pkg/dto"
	"github.com/dimitrije/rosterdesk-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func setupTeamTest(t *testing.T) (*testutil.MockTeamService, *testutil.MockUserService, *testutil.MockEmailService, *TeamHandler, *services.JWTService) {
	t.Helper()
	mockTeamService := new(testutil.MockTeamService)
	mockUserService := new(testutil.MockUserService)
	mockEmailService := new(testutil.MockEmailService)
	handler := NewTeamHandler(mockTeamService, mockUserService, mockEmailService, "http://localhost:5173/", zap.NewNop())
	return mockTeamService, mockUserService, mockEmailService, handler, newTestJWTService()
}

func TestTeamHandler_Create_Success(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	team := &models.Team{ID: uuid.New(), Name: "North Star Records", OwnerID: userID}
	mockTeamService.On("Create", mock.Anything, "North Star Records", (*string)(nil), userID).Return(team, nil)

	req := authedRequest(t, jwtSvc, userID, http.MethodPost, "/teams", dto.CreateTeamRequest{Name: "  North Star Records "})
	rec := serveRoute(jwtSvc, http.MethodPost, "/teams", handler.Create, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var response dto.TeamResponse
	decodeJSON(t, rec, &response)
	assert.Equal(t, team.ID, response.ID)
	assert.Equal(t, models.RoleOwner, response.Role)
	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Create_EmptyName(t *testing.T) {
	_, _, _, handler, jwtSvc := setupTeamTest(t)

	req := authedRequest(t, jwtSvc, uuid.New(), http.MethodPost, "/teams", dto.CreateTeamRequest{Name: "   "})
	rec := serveRoute(jwtSvc, http.MethodPost, "/teams", handler.Create, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name is required")
}

func TestTeamHandler_Create_ServiceError(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	mockTeamService.On("Create", mock.Anything, "Label", (*string)(nil), userID).Return(nil, errors.New("db down"))

	req := authedRequest(t, jwtSvc, userID, http.MethodPost, "/teams", dto.CreateTeamRequest{Name: "Label"})
	rec := serveRoute(jwtSvc, http.MethodPost, "/teams", handler.Create, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to create team")
}

func TestTeamHandler_List(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teams := []models.Team{
		{ID: uuid.New(), Name: "Alpha", OwnerID: userID},
		{ID: uuid.New(), Name: "Beta", OwnerID: uuid.New()},
	}
	mockTeamService.On("GetUserTeams", mock.Anything, userID).Return(teams, []string{models.RoleOwner, models.RoleMember}, nil)

	req := authedRequest(t, jwtSvc, userID, http.MethodGet, "/teams", nil)
	rec := serveRoute(jwtSvc, http.MethodGet, "/teams", handler.List, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response []dto.TeamResponse
	decodeJSON(t, rec, &response)
	assert.Len(t, response, 2)
	assert.Equal(t, models.RoleOwner, response[0].Role)
	assert.Equal(t, models.RoleMember, response[1].Role)
}

func TestTeamHandler_Get(t *testing.T) {
	tests := []struct {
		name       string
		roleErr    error
		wantStatus int
	}{
		{"member sees team", nil, http.StatusOK},
		{"non-member gets not found", services.ErrNotTeamMember, http.StatusNotFound},
		{"membership lookup fails", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

			userID := uuid.New()
			teamID := uuid.New()
			mockTeamService.On("GetMemberRole", mock.Anything, teamID, userID).Return(models.RoleMember, tt.roleErr)
			mockTeamService.On("GetByID", mock.Anything, teamID).Return(&models.Team{ID: teamID, Name: "Alpha"}, nil).Maybe()

			req := authedRequest(t, jwtSvc, userID, http.MethodGet, "/teams/"+teamID.String(), nil)
			rec := serveRoute(jwtSvc, http.MethodGet, "/teams/:id", handler.Get, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestTeamHandler_Get_InvalidID(t *testing.T) {
	_, _, _, handler, jwtSvc := setupTeamTest(t)

	req := authedRequest(t, jwtSvc, uuid.New(), http.MethodGet, "/teams/not-a-uuid", nil)
	rec := serveRoute(jwtSvc, http.MethodGet, "/teams/:id", handler.Get, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid team id")
}

func TestTeamHandler_Update(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"owner", models.RoleOwner, http.StatusOK},
		{"admin", models.RoleAdmin, http.StatusOK},
		{"member forbidden", models.RoleMember, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

			userID := uuid.New()
			teamID := uuid.New()
			mockTeamService.On("GetMemberRole", mock.Anything, teamID, userID).Return(tt.role, nil)
			mockTeamService.On("Update", mock.Anything, teamID, "Renamed", (*string)(nil)).
				Return(&models.Team{ID: teamID, Name: "Renamed"}, nil).Maybe()

			req := authedRequest(t, jwtSvc, userID, http.MethodPatch, "/teams/"+teamID.String(), dto.UpdateTeamRequest{Name: "Renamed"})
			rec := serveRoute(jwtSvc, http.MethodPatch, "/teams/:id", handler.Update, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Contains(t, rec.Body.String(), "only owners and admins can update the team")
				mockTeamService.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestTeamHandler_Delete(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		wantStatus int
		wantBody   string
	}{
		{"owner deletes", models.RoleOwner, http.StatusOK, "team deleted"},
		{"admin cannot delete", models.RoleAdmin, http.StatusForbidden, "only owner can delete team"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

			userID := uuid.New()
			teamID := uuid.New()
			mockTeamService.On("GetMemberRole", mock.Anything, teamID, userID).Return(tt.role, nil)
			mockTeamService.On("Delete", mock.Anything, teamID).Return(nil).Maybe()

			req := authedRequest(t, jwtSvc, userID, http.MethodDelete, "/teams/"+teamID.String(), nil)
			rec := serveRoute(jwtSvc, http.MethodDelete, "/teams/:id", handler.Delete, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestTeamHandler_GetMembers(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()
	members := []models.TeamMember{{
		ID:     uuid.New(),
		TeamID: teamID,
		UserID: userID,
		Role:   models.RoleOwner,
		User:   &models.User{ID: userID, Email: "ana@example.com", Name: "Ana", GlobalRole: models.GlobalRoleUser},
	}}
	mockTeamService.On("GetMemberRole", mock.Anything, teamID, userID).Return(models.RoleOwner, nil)
	mockTeamService.On("GetMembers", mock.Anything, teamID).Return(members, nil)

	req := authedRequest(t, jwtSvc, userID, http.MethodGet, "/teams/"+teamID.String()+"/members", nil)
	rec := serveRoute(jwtSvc, http.MethodGet, "/teams/:id/members", handler.GetMembers, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response []dto.TeamMemberResponse
	decodeJSON(t, rec, &response)
	assert.Len(t, response, 1)
	assert.Equal(t, "ana@example.com", response[0].User.Email)
}

func TestTeamHandler_AddMember_SendsNotification(t *testing.T) {
	mockTeamService, mockUserService, mockEmailService, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()
	invitee := &models.User{ID: uuid.New(), Email: "new@example.com", Name: "New"}

	mockTeamService.On("GetMemberRole", mock.Anything, teamID, userID).Return(models.RoleAdmin, nil)
	mockUserService.On("GetByEmail", mock.Anything, "new@example.com").Return(invitee, nil)
	mockTeamService.On("AddMember", mock.Anything, teamID, invitee.ID, models.RoleMember).Return(nil)
	mockTeamService.On("GetByID", mock.Anything, teamID).Return(&models.Team{ID: teamID, Name: "Alpha"}, nil)
	mockUserService.On("GetByID", mock.Anything, userID).Return(&models.User{ID: userID, Name: "Ana"}, nil)
	mockEmailService.On("SendTeamMemberAdded", "new@example.com", "Alpha", "Ana", "http://localhost:5173/teams/"+teamID.String()).Return(nil)

	req := authedRequest(t, jwtSvc, userID, http.MethodPost, "/teams/"+teamID.String()+"/members", dto.AddMemberRequest{Email: "new@example.com"})
	rec := serveRoute(jwtSvc, http.MethodPost, "/teams/:id/members", handler.AddMember, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	mockTeamService.AssertExpectations(t)
	mockEmailService.AssertExpectations(t)
}

func TestTeamHandler_AddMember_NotificationFailureStillSucceeds(t *testing.T) {
	mockTeamService, mockUserService, mockEmailService, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()
	invitee := &models.User{ID: uuid.New(), Email: "new@example.com"}

	mockTeamService.On("GetMemberRole", mock.Anything, teamID, userID).Return(models.RoleOwner, nil)
	mockUserService.On("GetByEmail", mock.Anything, "new@example.com").Return(invitee, nil)
	mockTeamService.On("AddMember", mock.Anything, teamID, invitee.ID, models.RoleAdmin).Return(nil)
	mockTeamService.On("GetByID", mock.Anything, teamID).Return(&models.Team{ID: teamID, Name: "Alpha"}, nil)
	mockUserService.On("GetByID", mock.Anything, userID).Return(nil, services.ErrUserNotFound)
	mockEmailService.On("SendTeamMemberAdded", "new@example.com", "Alpha", "A teammate", mock.Anything).Return(errors.New("smtp down"))

	req := authedRequest(t, jwtSvc, userID, http.MethodPost, "/teams/"+teamID.String()+"/members",
		dto.AddMemberRequest{Email: "new@example.com", Role: models.RoleAdmin})
	rec := serveRoute(jwtSvc, http.MethodPost, "/teams/:id/members", handler.AddMember, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestTeamHandler_AddMember_Errors(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		email      string
		lookupErr  error
		addErr     error
		wantStatus int
		wantBody   string
	}{
		{"member forbidden", models.RoleMember, "x@example.com", nil, nil, http.StatusForbidden, "only owners and admins can add members"},
		{"missing email", models.RoleOwner, " ", nil, nil, http.StatusBadRequest, "email is required"},
		{"unknown user", models.RoleOwner, "x@example.com", services.ErrUserNotFound, nil, http.StatusNotFound, "user with this email not found"},
		{"already member", models.RoleOwner, "x@example.com", nil, services.ErrAlreadyMember, http.StatusConflict, "user is already a member"},
		{"invalid role", models.RoleOwner, "x@example.com", nil, services.ErrInvalidRole, http.StatusBadRequest, "role must be admin or member"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTeamService, mockUserService, _, handler, jwtSvc := setupTeamTest(t)

			userID := uuid.New()
			teamID := uuid.New()
			invitee := &models.User{ID: uuid.New(), Email: tt.email}
			mockTeamService.On("GetMemberRole", mock.Anything, teamID, userID).Return(tt.role, nil)
			if tt.lookupErr != nil {
				mockUserService.On("GetByEmail", mock.Anything, tt.email).Return(nil, tt.lookupErr).Maybe()
			} else {
				mockUserService.On("GetByEmail", mock.Anything, tt.email).Return(invitee, nil).Maybe()
			}
			mockTeamService.On("AddMember", mock.Anything, teamID, invitee.ID, models.RoleMember).Return(tt.addErr).Maybe()

			req := authedRequest(t, jwtSvc, userID, http.MethodPost, "/teams/"+teamID.String()+"/members", dto.AddMemberRequest{Email: tt.email})
			rec := serveRoute(jwtSvc, http.MethodPost, "/teams/:id/members", handler.AddMember, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestTeamHandler_UpdateMemberRole(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"owner row", services.ErrCannotChangeOwner, http.StatusBadRequest},
		{"unknown member", services.ErrMemberNotFound, http.StatusNotFound},
		{"bad role", services.ErrInvalidRole, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

			userID := uuid.New()
			teamID := uuid.New()
			memberID := uuid.New()
			mockTeamService.On("GetMemberRole", mock.Anything, teamID, userID).Return(models.RoleOwner, nil)
			mockTeamService.On("SetMemberRole", mock.Anything, teamID, memberID, models.RoleAdmin).Return(tt.serviceErr)

			path := "/teams/" + teamID.String() + "/members/" + memberID.String()
			req := authedRequest(t, jwtSvc, userID, http.MethodPatch, path, dto.UpdateMemberRoleRequest{Role: models.RoleAdmin})
			rec := serveRoute(jwtSvc, http.MethodPatch, "/teams/:id/members/:memberId", handler.UpdateMemberRole, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestTeamHandler_RemoveMember(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantBody   string
	}{
		{"success", nil, http.StatusOK, "member removed"},
		{"owner", services.ErrCannotRemoveOwner, http.StatusBadRequest, "cannot remove team owner"},
		{"unknown", services.ErrMemberNotFound, http.StatusNotFound, "member not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

			userID := uuid.New()
			teamID := uuid.New()
			memberID := uuid.New()
			mockTeamService.On("GetMemberRole", mock.Anything, teamID, userID).Return(models.RoleAdmin, nil)
			mockTeamService.On("RemoveMember", mock.Anything, teamID, memberID).Return(tt.serviceErr)

			path := "/teams/" + teamID.String() + "/members/" + memberID.String()
			req := authedRequest(t, jwtSvc, userID, http.MethodDelete, path, nil)
			rec := serveRoute(jwtSvc, http.MethodDelete, "/teams/:id/members/:memberId", handler.RemoveMember, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestTeamHandler_LeaveTeam(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantBody   string
	}{
		{"member leaves", nil, http.StatusOK, "left team"},
		{"owner cannot leave", services.ErrCannotRemoveOwner, http.StatusBadRequest, "owner cannot leave team"},
		{"not a member", services.ErrMemberNotFound, http.StatusNotFound, "not a member"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

			userID := uuid.New()
			teamID := uuid.New()
			mockTeamService.On("RemoveMember", mock.Anything, teamID, userID).Return(tt.serviceErr)

			req := authedRequest(t, jwtSvc, userID, http.MethodPost, "/teams/"+teamID.String()+"/leave", nil)
			rec := serveRoute(jwtSvc, http.MethodPost, "/teams/:id/leave", handler.LeaveTeam, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestTeamHandler_Unauthenticated(t *testing.T) {
	_, _, _, handler, jwtSvc := setupTeamTest(t)

	req := jsonRequest(t, http.MethodGet, "/teams", nil)
	rec := serveRoute(jwtSvc, http.MethodGet, "/teams", handler.List, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
