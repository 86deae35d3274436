package handlers

import (
	"errors"

	"github.com/dimitrije/rosterdesk-api/internal/middleware"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

func requireUser(c *drift.Context) (uuid.UUID, bool) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return uuid.Nil, false
	}
	return userID, true
}

func parseIDParam(c *drift.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.BadRequest("invalid " + label + " id")
		return uuid.Nil, false
	}
	return id, true
}

// memberRole returns the caller's role in teamID. Non-members get the
// supplied not-found message so foreign resources stay invisible.
func memberRole(c *drift.Context, teams TeamServiceInterface, teamID, userID uuid.UUID, notFound string) (string, bool) {
	role, err := teams.GetMemberRole(c.Request.Context(), teamID, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotTeamMember) {
			c.NotFound(notFound)
			return "", false
		}
		c.InternalServerError("failed to check team membership")
		return "", false
	}
	return role, true
}

func requireManager(c *drift.Context, teams TeamServiceInterface, teamID, userID uuid.UUID, action string) (string, bool) {
	role, ok := memberRole(c, teams, teamID, userID, "team not found")
	if !ok {
		return "", false
	}
	if !models.CanManage(role) {
		c.Forbidden("only owners and admins can " + action)
		return "", false
	}
	return role, true
}

// artistAccess loads the artist and checks the caller belongs to its team.
// Unknown artists and foreign artists both answer 404.
func artistAccess(c *drift.Context, artists ArtistServiceInterface, teams TeamServiceInterface, artistID, userID uuid.UUID) (*models.Artist, string, bool) {
	artist, err := artists.GetByID(c.Request.Context(), artistID)
	if err != nil {
		if errors.Is(err, services.ErrArtistNotFound) {
			c.NotFound("artist not found")
			return nil, "", false
		}
		c.InternalServerError("failed to get artist")
		return nil, "", false
	}

	role, ok := memberRole(c, teams, artist.TeamID, userID, "artist not found")
	if !ok {
		return nil, "", false
	}
	return artist, role, true
}

// rejectInvalid answers 400 with the error text when err is one of the
// listed validation errors.
func rejectInvalid(c *drift.Context, err error, invalid ...error) bool {
	for _, target := range invalid {
		if errors.Is(err, target) {
			c.BadRequest(err.Error())
			return true
		}
	}
	return false
}
