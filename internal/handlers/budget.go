package handlers

import (
	"errors"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type BudgetHandler struct {
	budgetService BudgetServiceInterface
	artistService ArtistServiceInterface
	teamService   TeamServiceInterface
	now           func() time.Time
}

func NewBudgetHandler(budgetService BudgetServiceInterface, artistService ArtistServiceInterface, teamService TeamServiceInterface) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		artistService: artistService,
		teamService:   teamService,
		now:           time.Now,
	}
}

func budgetValidationError(c *drift.Context, err error) bool {
	if errors.Is(err, services.ErrNameRequired) {
		c.BadRequest("category is required")
		return true
	}
	return rejectInvalid(c, err, services.ErrInvalidQuarter, services.ErrInvalidBudgetKind, services.ErrInvalidAmount, services.ErrNoFieldsToUpdate)
}

func (h *BudgetHandler) ListByArtist(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	artistID, ok := parseIDParam(c, "id", "artist")
	if !ok {
		return
	}

	if _, _, ok := artistAccess(c, h.artistService, h.teamService, artistID, userID); !ok {
		return
	}

	budgets, err := h.budgetService.ListByArtist(c.Request.Context(), artistID)
	if err != nil {
		c.InternalServerError("failed to list budgets")
		return
	}

	_ = c.JSON(200, budgets)
}

// ListByTeam returns one quarter of the team's budget lines; ?quarter
// defaults to the current one.
func (h *BudgetHandler) ListByTeam(c *drift.Context) {
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

	quarter := c.QueryParam("quarter")
	if quarter == "" {
		quarter = models.QuarterOf(h.now())
	}

	budgets, err := h.budgetService.ListByTeamQuarter(c.Request.Context(), teamID, quarter)
	if err != nil {
		if budgetValidationError(c, err) {
			return
		}
		c.InternalServerError("failed to list budgets")
		return
	}

	_ = c.JSON(200, budgets)
}

func (h *BudgetHandler) Create(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	artistID, ok := parseIDParam(c, "id", "artist")
	if !ok {
		return
	}

	if _, _, ok := artistAccess(c, h.artistService, h.teamService, artistID, userID); !ok {
		return
	}

	var req dto.CreateBudgetRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	budget, err := h.budgetService.Create(c.Request.Context(), services.CreateBudgetParams{
		ArtistID:    artistID,
		Quarter:     req.Quarter,
		Category:    req.Category,
		Kind:        req.Kind,
		AmountCents: req.AmountCents,
		Description: req.Description,
	})
	if err != nil {
		if budgetValidationError(c, err) {
			return
		}
		if errors.Is(err, services.ErrArtistNotFound) {
			c.NotFound("artist not found")
			return
		}
		c.InternalServerError("failed to create budget")
		return
	}

	_ = c.JSON(201, budget)
}

func (h *BudgetHandler) budgetAccess(c *drift.Context, userID uuid.UUID) (*models.Budget, bool) {
	budgetID, ok := parseIDParam(c, "id", "budget")
	if !ok {
		return nil, false
	}

	budget, err := h.budgetService.GetByID(c.Request.Context(), budgetID)
	if err != nil {
		if errors.Is(err, services.ErrBudgetNotFound) {
			c.NotFound("budget line not found")
			return nil, false
		}
		c.InternalServerError("failed to get budget")
		return nil, false
	}

	if _, ok := memberRole(c, h.teamService, budget.TeamID, userID, "budget line not found"); !ok {
		return nil, false
	}
	return budget, true
}

func (h *BudgetHandler) Update(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	budget, ok := h.budgetAccess(c, userID)
	if !ok {
		return
	}

	var req dto.UpdateBudgetRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	updated, err := h.budgetService.Update(c.Request.Context(), budget.ID, models.BudgetUpdate{
		Quarter:     req.Quarter,
		Category:    req.Category,
		Kind:        req.Kind,
		AmountCents: req.AmountCents,
		Description: req.Description,
	})
	if err != nil {
		if budgetValidationError(c, err) {
			return
		}
		if errors.Is(err, services.ErrBudgetNotFound) {
			c.NotFound("budget line not found")
			return
		}
		c.InternalServerError("failed to update budget")
		return
	}

	_ = c.JSON(200, updated)
}

func (h *BudgetHandler) Delete(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	budget, ok := h.budgetAccess(c, userID)
	if !ok {
		return
	}

	if err := h.budgetService.Delete(c.Request.Context(), budget.ID); err != nil {
		if errors.Is(err, services.ErrBudgetNotFound) {
			c.NotFound("budget line not found")
			return
		}
		c.InternalServerError("failed to delete budget")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "budget line deleted"})
}
