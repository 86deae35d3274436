package dto

import "github.com/dimitrije/rosterdesk-api/internal/spotify"

type MetadataRequest struct {
	URL string `json:"url"`
}

type MetadataErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type SpotifySearchRequest struct {
	Q string `json:"q"`
}

type SpotifySearchResponse struct {
	Artists []spotify.Artist `json:"artists"`
}

type SpotifyArtistResponse struct {
	Artist *spotify.Artist `json:"artist"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
