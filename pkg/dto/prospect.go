package dto

type CreateProspectRequest struct {
	ArtistName   string  `json:"artist_name"`
	Stage        string  `json:"stage,omitempty"`
	Priority     string  `json:"priority,omitempty"`
	Genre        *string `json:"genre,omitempty"`
	City         *string `json:"city,omitempty"`
	NextFollowUp *string `json:"next_follow_up,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

type UpdateProspectRequest struct {
	ArtistName   *string `json:"artist_name,omitempty"`
	Stage        *string `json:"stage,omitempty"`
	Priority     *string `json:"priority,omitempty"`
	Genre        *string `json:"genre,omitempty"`
	City         *string `json:"city,omitempty"`
	NextFollowUp *string `json:"next_follow_up,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

type ProspectStageCountsResponse struct {
	Counts map[string]int `json:"counts"`
}
