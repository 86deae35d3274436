package models

import (
	"time"

	"github.com/google/uuid"
)

// Pipeline stages. Any stage may follow any other.
const (
	StageDiscovered  = "discovered"
	StageContacted   = "contacted"
	StageInTalks     = "in_talks"
	StageNegotiating = "negotiating"
	StageSigned      = "signed"
	StagePassed      = "passed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var ProspectStages = []string{
	StageDiscovered,
	StageContacted,
	StageInTalks,
	StageNegotiating,
	StageSigned,
	StagePassed,
}

var ProspectPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

type Prospect struct {
	ID           uuid.UUID  `json:"id"`
	TeamID       uuid.UUID  `json:"team_id"`
	ArtistName   string     `json:"artist_name"`
	Stage        string     `json:"stage"`
	Priority     string     `json:"priority"`
	Genre        *string    `json:"genre,omitempty"`
	City         *string    `json:"city,omitempty"`
	NextFollowUp *time.Time `json:"next_follow_up,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type ProspectUpdate struct {
	ArtistName   *string
	Stage        *string
	Priority     *string
	Genre        *string
	City         *string
	NextFollowUp *time.Time
	Notes        *string
}

func IsValidStage(stage string) bool {
	for _, s := range ProspectStages {
		if s == stage {
			return true
		}
	}
	return false
}

func IsValidPriority(priority string) bool {
	for _, p := range ProspectPriorities {
		if p == priority {
			return true
		}
	}
	return false
}
