package handlers

import (
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
)

type OverviewHandler struct {
	overviewService OverviewServiceInterface
	teamService     TeamServiceInterface
}

func NewOverviewHandler(overviewService OverviewServiceInterface, teamService TeamServiceInterface) *OverviewHandler {
	return &OverviewHandler{
		overviewService: overviewService,
		teamService:     teamService,
	}
}

// Get serves the quarterly dashboard for ?quarter, or the current quarter.
func (h *OverviewHandler) Get(c *drift.Context) {
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

	overview, err := h.overviewService.Quarter(c.Request.Context(), teamID, c.QueryParam("quarter"))
	if err != nil {
		if rejectInvalid(c, err, services.ErrInvalidQuarter) {
			return
		}
		c.InternalServerError("failed to build overview")
		return
	}

	_ = c.JSON(200, overview)
}
