package models

import (
	"time"

	"github.com/google/uuid"
)

type Artist struct {
	ID               uuid.UUID `json:"id"`
	TeamID           uuid.UUID `json:"team_id"`
	Name             string    `json:"name"`
	AvatarURL        *string   `json:"avatar_url,omitempty"`
	SpotifyID        *string   `json:"spotify_id,omitempty"`
	Genres           []string  `json:"genres"`
	MonthlyListeners int64     `json:"monthly_listeners"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ArtistUpdate carries an inline edit; nil fields are left untouched.
type ArtistUpdate struct {
	Name             *string
	AvatarURL        *string
	SpotifyID        *string
	Genres           []string
	MonthlyListeners *int64
}
