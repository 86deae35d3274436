package dto

type MoveSectionRequest struct {
	Direction string `json:"direction"`
}
