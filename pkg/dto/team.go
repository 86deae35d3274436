package dto

import "github.com/google/uuid"

type CreateTeamRequest struct {
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type UpdateTeamRequest struct {
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type AddMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role"`
}

type TeamResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Role      string    `json:"role"`
}

type TeamMemberResponse struct {
	ID     uuid.UUID    `json:"id"`
	UserID uuid.UUID    `json:"user_id"`
	Role   string       `json:"role"`
	User   UserResponse `json:"user"`
}
