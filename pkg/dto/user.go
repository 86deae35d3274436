package dto

import "github.com/google/uuid"

// UserResponse is the signed-in staff profile. DisplayName is what the
// dashboard header shows; IsAdmin gates the admin screens client side.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Provider    string    `json:"provider"`
	GlobalRole  string    `json:"global_role"`
	IsAdmin     bool      `json:"is_admin"`
}

type UpdateUserRequest struct {
	Name string `json:"name"`
}
