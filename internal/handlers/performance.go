package handlers

import (
	"errors"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/perfsync"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type PerformanceHandler struct {
	performanceService PerformanceServiceInterface
	syncer             SyncerInterface
	artistService      ArtistServiceInterface
	teamService        TeamServiceInterface
	now                func() time.Time
}

func NewPerformanceHandler(performanceService PerformanceServiceInterface, syncer SyncerInterface, artistService ArtistServiceInterface, teamService TeamServiceInterface) *PerformanceHandler {
	return &PerformanceHandler{
		performanceService: performanceService,
		syncer:             syncer,
		artistService:      artistService,
		teamService:        teamService,
		now:                time.Now,
	}
}

// Get returns the stored snapshot with its staleness and the sync state.
// An artist never synced has a null snapshot and counts as stale.
func (h *PerformanceHandler) Get(c *drift.Context) {
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

	response := dto.PerformanceResponse{IsStale: true, Sync: h.syncer.Status(artistID)}

	snapshot, err := h.performanceService.Get(c.Request.Context(), artistID)
	switch {
	case err == nil:
		response.Snapshot = snapshot
		response.IsStale = snapshot.IsStale(h.now())
	case !errors.Is(err, services.ErrSnapshotNotFound):
		c.InternalServerError("failed to get performance")
		return
	}

	_ = c.JSON(200, response)
}

func (h *PerformanceHandler) SyncStatus(c *drift.Context) {
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

	_ = c.JSON(200, h.syncer.Status(artistID))
}

// Sync scrapes fresh numbers for the artist and replaces its snapshot.
func (h *PerformanceHandler) Sync(c *drift.Context) {
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
	if artist.SpotifyID == nil || *artist.SpotifyID == "" {
		c.BadRequest("artist has no spotify id")
		return
	}

	snapshot, err := h.syncer.Sync(c.Request.Context(), perfsync.Request{
		ArtistID:   artist.ID,
		SpotifyID:  *artist.SpotifyID,
		ArtistName: artist.Name,
		TeamID:     artist.TeamID,
	})
	if err != nil {
		switch {
		case errors.Is(err, perfsync.ErrSyncInProgress):
			_ = c.JSON(409, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, perfsync.ErrNotConfigured):
			_ = c.JSON(503, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, perfsync.ErrSyncMismatch):
			_ = c.JSON(422, dto.ErrorResponse{Error: err.Error()})
		default:
			_ = c.JSON(502, dto.ErrorResponse{Error: err.Error()})
		}
		return
	}

	_ = c.JSON(200, dto.PerformanceResponse{
		Snapshot: snapshot,
		IsStale:  snapshot.IsStale(h.now()),
		Sync:     h.syncer.Status(artistID),
	})
}
