package dto

type CreateArtistRequest struct {
	Name             string   `json:"name"`
	AvatarURL        *string  `json:"avatar_url,omitempty"`
	SpotifyID        *string  `json:"spotify_id,omitempty"`
	Genres           []string `json:"genres,omitempty"`
	MonthlyListeners int64    `json:"monthly_listeners,omitempty"`
}

// UpdateArtistRequest is an inline edit; omitted fields keep their value.
type UpdateArtistRequest struct {
	Name             *string  `json:"name,omitempty"`
	AvatarURL        *string  `json:"avatar_url,omitempty"`
	SpotifyID        *string  `json:"spotify_id,omitempty"`
	Genres           []string `json:"genres,omitempty"`
	MonthlyListeners *int64   `json:"monthly_listeners,omitempty"`
}
