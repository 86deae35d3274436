package handlers

import (
	"errors"
	"strings"

	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type ArtistHandler struct {
	artistService ArtistServiceInterface
	teamService   TeamServiceInterface
}

func NewArtistHandler(artistService ArtistServiceInterface, teamService TeamServiceInterface) *ArtistHandler {
	return &ArtistHandler{
		artistService: artistService,
		teamService:   teamService,
	}
}

func (h *ArtistHandler) List(c *drift.Context) {
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

	artists, err := h.artistService.ListByTeam(c.Request.Context(), teamID)
	if err != nil {
		c.InternalServerError("failed to list artists")
		return
	}

	_ = c.JSON(200, artists)
}

func (h *ArtistHandler) Create(c *drift.Context) {
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

	var req dto.CreateArtistRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	artist, err := h.artistService.Create(c.Request.Context(), services.CreateArtistParams{
		TeamID:           teamID,
		Name:             strings.TrimSpace(req.Name),
		AvatarURL:        req.AvatarURL,
		SpotifyID:        req.SpotifyID,
		Genres:           req.Genres,
		MonthlyListeners: req.MonthlyListeners,
	})
	if err != nil {
		if errors.Is(err, services.ErrNameRequired) {
			c.BadRequest("name is required")
			return
		}
		c.InternalServerError("failed to create artist")
		return
	}

	_ = c.JSON(201, artist)
}

func (h *ArtistHandler) Get(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	artistID, ok := parseIDParam(c, "id", "artist")
	if !ok {
		return
	}

	artist, _, ok := artistAccess(c, h.artistService, h.teamService, artistID, userID)
	if !ok {
		return
	}

	_ = c.JSON(200, artist)
}

func (h *ArtistHandler) Update(c *drift.Context) {
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

	var req dto.UpdateArtistRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			c.BadRequest("name cannot be empty")
			return
		}
		req.Name = &name
	}

	artist, err := h.artistService.Update(c.Request.Context(), artistID, models.ArtistUpdate{
		Name:             req.Name,
		AvatarURL:        req.AvatarURL,
		SpotifyID:        req.SpotifyID,
		Genres:           req.Genres,
		MonthlyListeners: req.MonthlyListeners,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoFieldsToUpdate):
			c.BadRequest("no fields to update")
		case errors.Is(err, services.ErrArtistNotFound):
			c.NotFound("artist not found")
		default:
			c.InternalServerError("failed to update artist")
		}
		return
	}

	_ = c.JSON(200, artist)
}

// Delete removes the artist with its tasks, budgets and snapshot. Owners and
// admins only.
func (h *ArtistHandler) Delete(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	artistID, ok := parseIDParam(c, "id", "artist")
	if !ok {
		return
	}

	_, role, ok := artistAccess(c, h.artistService, h.teamService, artistID, userID)
	if !ok {
		return
	}
	if !models.CanManage(role) {
		c.Forbidden("only owners and admins can delete artists")
		return
	}

	if err := h.artistService.Delete(c.Request.Context(), artistID); err != nil {
		if errors.Is(err, services.ErrArtistNotFound) {
			c.NotFound("artist not found")
			return
		}
		c.InternalServerError("failed to delete artist")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "artist deleted"})
}
