package handlers

import (
	"errors"

	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type ProspectHandler struct {
	prospectService ProspectServiceInterface
	teamService     TeamServiceInterface
}

func NewProspectHandler(prospectService ProspectServiceInterface, teamService TeamServiceInterface) *ProspectHandler {
	return &ProspectHandler{
		prospectService: prospectService,
		teamService:     teamService,
	}
}

// List returns the team's pipeline, filtered by ?stage when given.
func (h *ProspectHandler) List(c *drift.Context) {
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

	prospects, err := h.prospectService.ListByTeam(c.Request.Context(), teamID, c.QueryParam("stage"))
	if err != nil {
		if rejectInvalid(c, err, services.ErrInvalidStage) {
			return
		}
		c.InternalServerError("failed to list prospects")
		return
	}

	_ = c.JSON(200, prospects)
}

func (h *ProspectHandler) StageCounts(c *drift.Context) {
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

	counts, err := h.prospectService.StageCounts(c.Request.Context(), teamID)
	if err != nil {
		c.InternalServerError("failed to count prospects")
		return
	}

	_ = c.JSON(200, dto.ProspectStageCountsResponse{Counts: counts})
}

func (h *ProspectHandler) Create(c *drift.Context) {
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

	var req dto.CreateProspectRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	followUp, err := dto.ParseDate(req.NextFollowUp)
	if err != nil {
		c.BadRequest(err.Error())
		return
	}

	prospect, err := h.prospectService.Create(c.Request.Context(), services.CreateProspectParams{
		TeamID:       teamID,
		ArtistName:   req.ArtistName,
		Stage:        req.Stage,
		Priority:     req.Priority,
		Genre:        req.Genre,
		City:         req.City,
		NextFollowUp: followUp,
		Notes:        req.Notes,
	})
	if err != nil {
		if rejectInvalid(c, err, services.ErrNameRequired, services.ErrInvalidStage, services.ErrInvalidPriority) {
			return
		}
		c.InternalServerError("failed to create prospect")
		return
	}

	_ = c.JSON(201, prospect)
}

func (h *ProspectHandler) prospectAccess(c *drift.Context, userID uuid.UUID) (*models.Prospect, bool) {
	prospectID, ok := parseIDParam(c, "id", "prospect")
	if !ok {
		return nil, false
	}

	prospect, err := h.prospectService.GetByID(c.Request.Context(), prospectID)
	if err != nil {
		if errors.Is(err, services.ErrProspectNotFound) {
			c.NotFound("prospect not found")
			return nil, false
		}
		c.InternalServerError("failed to get prospect")
		return nil, false
	}

	if _, ok := memberRole(c, h.teamService, prospect.TeamID, userID, "prospect not found"); !ok {
		return nil, false
	}
	return prospect, true
}

func (h *ProspectHandler) Get(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	prospect, ok := h.prospectAccess(c, userID)
	if !ok {
		return
	}

	_ = c.JSON(200, prospect)
}

// Update edits any subset of fields. Stage moves are unrestricted.
func (h *ProspectHandler) Update(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	prospect, ok := h.prospectAccess(c, userID)
	if !ok {
		return
	}

	var req dto.UpdateProspectRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	followUp, err := dto.ParseDate(req.NextFollowUp)
	if err != nil {
		c.BadRequest(err.Error())
		return
	}

	updated, err := h.prospectService.Update(c.Request.Context(), prospect.ID, models.ProspectUpdate{
		ArtistName:   req.ArtistName,
		Stage:        req.Stage,
		Priority:     req.Priority,
		Genre:        req.Genre,
		City:         req.City,
		NextFollowUp: followUp,
		Notes:        req.Notes,
	})
	if err != nil {
		if rejectInvalid(c, err, services.ErrNoFieldsToUpdate, services.ErrNameRequired, services.ErrInvalidStage, services.ErrInvalidPriority) {
			return
		}
		if errors.Is(err, services.ErrProspectNotFound) {
			c.NotFound("prospect not found")
			return
		}
		c.InternalServerError("failed to update prospect")
		return
	}

	_ = c.JSON(200, updated)
}

func (h *ProspectHandler) Delete(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	prospect, ok := h.prospectAccess(c, userID)
	if !ok {
		return
	}

	if err := h.prospectService.Delete(c.Request.Context(), prospect.ID); err != nil {
		if errors.Is(err, services.ErrProspectNotFound) {
			c.NotFound("prospect not found")
			return
		}
		c.InternalServerError("failed to delete prospect")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "prospect deleted"})
}
