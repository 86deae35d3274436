package handlers

import (
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

// PreferenceHandler serves the caller's dashboard layout. Every mutation
// answers with the full normalized settings.
type PreferenceHandler struct {
	preferenceService PreferenceServiceInterface
}

func NewPreferenceHandler(preferenceService PreferenceServiceInterface) *PreferenceHandler {
	return &PreferenceHandler{preferenceService: preferenceService}
}

func (h *PreferenceHandler) respond(c *drift.Context, settings models.SectionSettings, err error) {
	if err != nil {
		if rejectInvalid(c, err, services.ErrUnknownSection, services.ErrInvalidDirection) {
			return
		}
		c.InternalServerError("failed to update preferences")
		return
	}
	_ = c.JSON(200, settings)
}

func (h *PreferenceHandler) Get(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	settings, err := h.preferenceService.Get(c.Request.Context(), userID)
	if err != nil {
		c.InternalServerError("failed to load preferences")
		return
	}

	_ = c.JSON(200, settings)
}

func (h *PreferenceHandler) Replace(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.SectionSettings
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	settings, err := h.preferenceService.Replace(c.Request.Context(), userID, req)
	h.respond(c, settings, err)
}

func (h *PreferenceHandler) Reset(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	settings, err := h.preferenceService.Reset(c.Request.Context(), userID)
	h.respond(c, settings, err)
}

func (h *PreferenceHandler) Move(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.MoveSectionRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	settings, err := h.preferenceService.Move(c.Request.Context(), userID, c.Param("section"), req.Direction)
	h.respond(c, settings, err)
}

func (h *PreferenceHandler) ToggleHidden(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	settings, err := h.preferenceService.ToggleHidden(c.Request.Context(), userID, c.Param("section"))
	h.respond(c, settings, err)
}

func (h *PreferenceHandler) ToggleCollapsed(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	settings, err := h.preferenceService.ToggleCollapsed(c.Request.Context(), userID, c.Param("section"))
	h.respond(c, settings, err)
}
