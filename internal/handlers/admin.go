package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

// AdminHandler serves the super-admin routes. Mount it behind
// middleware.RequireSuperAdmin.
type AdminHandler struct {
	candidates SyncCandidateLister
	syncer     BatchSyncer
	users      RoleAssigner
	logger     *zap.Logger
	now        func() time.Time
}

func NewAdminHandler(candidates SyncCandidateLister, syncer BatchSyncer, users RoleAssigner, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{
		candidates: candidates,
		syncer:     syncer,
		users:      users,
		logger:     logger.Named("admin"),
		now:        time.Now,
	}
}

// SyncStale resyncs every linked artist whose snapshot is missing or older
// than models.StaleAfter, across all teams.
func (h *AdminHandler) SyncStale(c *drift.Context) {
	ctx := c.Request.Context()

	reqs, err := h.candidates.ListSyncCandidates(ctx, h.now(), models.StaleAfter)
	if err != nil {
		c.InternalServerError("failed to list stale artists")
		return
	}

	report := h.syncer.SyncAll(ctx, reqs)
	h.logger.Info("stale sync finished",
		zap.Int("candidates", len(reqs)),
		zap.Int("synced", report.Synced),
		zap.Int("failed", report.Failed),
	)

	_ = c.JSON(200, report)
}

func (h *AdminHandler) SetGlobalRole(c *drift.Context) {
	var req dto.SetGlobalRoleRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		c.BadRequest("email is required")
		return
	}
	if !models.IsValidGlobalRole(req.Role) {
		c.BadRequest("role must be super_admin or user")
		return
	}

	if err := h.users.SetGlobalRole(c.Request.Context(), email, req.Role); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.NotFound("user not found")
			return
		}
		c.InternalServerError("failed to update role")
		return
	}

	_ = c.JSON(200, map[string]string{"email": email, "global_role": req.Role})
}
