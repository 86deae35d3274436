package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type TeamHandler struct {
	teamService  TeamServiceInterface
	userService  UserServiceInterface
	emailService EmailServiceInterface
	frontendURL  string
	logger       *zap.Logger
}

func NewTeamHandler(teamService TeamServiceInterface, userService UserServiceInterface, emailService EmailServiceInterface, frontendURL string, logger *zap.Logger) *TeamHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeamHandler{
		teamService:  teamService,
		userService:  userService,
		emailService: emailService,
		frontendURL:  strings.TrimRight(frontendURL, "/"),
		logger:       logger.Named("teams"),
	}
}

func teamResponse(team *models.Team, role string) dto.TeamResponse {
	return dto.TeamResponse{
		ID:        team.ID,
		Name:      team.Name,
		AvatarURL: team.AvatarURL,
		OwnerID:   team.OwnerID,
		Role:      role,
	}
}

func (h *TeamHandler) Create(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.CreateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	team, err := h.teamService.Create(c.Request.Context(), req.Name, req.AvatarURL, userID)
	if err != nil {
		c.InternalServerError("failed to create team")
		return
	}

	_ = c.JSON(201, teamResponse(team, models.RoleOwner))
}

func (h *TeamHandler) List(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	teams, roles, err := h.teamService.GetUserTeams(c.Request.Context(), userID)
	if err != nil {
		c.InternalServerError("failed to get teams")
		return
	}

	response := make([]dto.TeamResponse, len(teams))
	for i := range teams {
		response[i] = teamResponse(&teams[i], roles[i])
	}

	_ = c.JSON(200, response)
}

func (h *TeamHandler) Get(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id", "team")
	if !ok {
		return
	}

	role, ok := memberRole(c, h.teamService, teamID, userID, "team not found")
	if !ok {
		return
	}

	team, err := h.teamService.GetByID(c.Request.Context(), teamID)
	if err != nil {
		c.NotFound("team not found")
		return
	}

	_ = c.JSON(200, teamResponse(team, role))
}

func (h *TeamHandler) Update(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id", "team")
	if !ok {
		return
	}

	role, ok := requireManager(c, h.teamService, teamID, userID, "update the team")
	if !ok {
		return
	}

	var req dto.UpdateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	team, err := h.teamService.Update(c.Request.Context(), teamID, req.Name, req.AvatarURL)
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			c.NotFound("team not found")
			return
		}
		c.InternalServerError("failed to update team")
		return
	}

	_ = c.JSON(200, teamResponse(team, role))
}

func (h *TeamHandler) Delete(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id", "team")
	if !ok {
		return
	}

	role, ok := memberRole(c, h.teamService, teamID, userID, "team not found")
	if !ok {
		return
	}
	if role != models.RoleOwner {
		c.Forbidden("only owner can delete team")
		return
	}

	if err := h.teamService.Delete(c.Request.Context(), teamID); err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			c.NotFound("team not found")
			return
		}
		c.InternalServerError("failed to delete team")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "team deleted"})
}

func (h *TeamHandler) GetMembers(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id", "team")
	if !ok {
		return
	}

	if _, ok := memberRole(c, h.teamService, teamID, userID, "team not found"); !ok {
		return
	}

	members, err := h.teamService.GetMembers(c.Request.Context(), teamID)
	if err != nil {
		c.InternalServerError("failed to get members")
		return
	}

	response := make([]dto.TeamMemberResponse, len(members))
	for i, m := range members {
		response[i] = dto.TeamMemberResponse{
			ID:     m.ID,
			UserID: m.UserID,
			Role:   m.Role,
		}
		if m.User != nil {
			response[i].User = userResponse(m.User)
		}
	}

	_ = c.JSON(200, response)
}

// AddMember adds an existing user by email. The notification mail is best
// effort.
func (h *TeamHandler) AddMember(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id", "team")
	if !ok {
		return
	}

	if _, ok := requireManager(c, h.teamService, teamID, userID, "add members"); !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		c.BadRequest("email is required")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleMember
	}

	ctx := c.Request.Context()

	user, err := h.userService.GetByEmail(ctx, req.Email)
	if err != nil {
		c.NotFound("user with this email not found")
		return
	}

	if err := h.teamService.AddMember(ctx, teamID, user.ID, req.Role); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			c.BadRequest("role must be admin or member")
		case errors.Is(err, services.ErrAlreadyMember):
			_ = c.JSON(409, map[string]string{"error": "user is already a member"})
		default:
			c.InternalServerError("failed to add member")
		}
		return
	}

	h.notifyAdded(ctx, teamID, userID, user.Email)

	_ = c.JSON(201, map[string]string{"message": "member added"})
}

func (h *TeamHandler) notifyAdded(ctx context.Context, teamID, adderID uuid.UUID, to string) {
	if h.emailService == nil {
		return
	}

	team, err := h.teamService.GetByID(ctx, teamID)
	if err != nil {
		h.logger.Warn("member notification skipped", zap.String("team_id", teamID.String()), zap.Error(err))
		return
	}

	addedBy := "A teammate"
	if adder, err := h.userService.GetByID(ctx, adderID); err == nil {
		addedBy = adder.DisplayName()
	}

	teamURL := fmt.Sprintf("%s/teams/%s", h.frontendURL, teamID)
	if err := h.emailService.SendTeamMemberAdded(to, team.Name, addedBy, teamURL); err != nil {
		h.logger.Warn("member notification failed", zap.String("team_id", teamID.String()), zap.Error(err))
	}
}

func (h *TeamHandler) UpdateMemberRole(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id", "team")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "memberId", "member")
	if !ok {
		return
	}

	if _, ok := requireManager(c, h.teamService, teamID, userID, "change roles"); !ok {
		return
	}

	var req dto.UpdateMemberRoleRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if err := h.teamService.SetMemberRole(c.Request.Context(), teamID, memberID, req.Role); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			c.BadRequest("role must be admin or member")
		case errors.Is(err, services.ErrCannotChangeOwner):
			c.BadRequest("cannot change the owner's role")
		case errors.Is(err, services.ErrMemberNotFound):
			c.NotFound("member not found")
		default:
			c.InternalServerError("failed to update member role")
		}
		return
	}

	_ = c.JSON(200, map[string]string{"message": "role updated"})
}

func (h *TeamHandler) RemoveMember(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id", "team")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "memberId", "member")
	if !ok {
		return
	}

	if _, ok := requireManager(c, h.teamService, teamID, userID, "remove members"); !ok {
		return
	}

	if err := h.teamService.RemoveMember(c.Request.Context(), teamID, memberID); err != nil {
		if errors.Is(err, services.ErrCannotRemoveOwner) {
			c.BadRequest("cannot remove team owner")
			return
		}
		if errors.Is(err, services.ErrMemberNotFound) {
			c.NotFound("member not found")
			return
		}
		c.InternalServerError("failed to remove member")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "member removed"})
}

func (h *TeamHandler) LeaveTeam(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id", "team")
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(c.Request.Context(), teamID, userID); err != nil {
		if errors.Is(err, services.ErrCannotRemoveOwner) {
			c.BadRequest("owner cannot leave team, transfer ownership or delete it")
			return
		}
		if errors.Is(err, services.ErrMemberNotFound) {
			c.NotFound("team not found or not a member")
			return
		}
		c.InternalServerError("failed to leave team")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "left team"})
}
