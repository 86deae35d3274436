package models

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID  `json:"id"`
	ArtistID    uuid.UUID  `json:"artist_id"`
	TeamID      uuid.UUID  `json:"team_id"`
	Title       string     `json:"title"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsOverdue is true for open tasks whose due date lies before today.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.IsCompleted || t.DueDate == nil {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return t.DueDate.Before(today)
}
