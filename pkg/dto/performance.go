package dto

import (
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/perfsync"
)

type PerformanceResponse struct {
	Snapshot *models.PerformanceSnapshot `json:"snapshot"`
	IsStale  bool                        `json:"is_stale"`
	Sync     perfsync.Status             `json:"sync"`
}
