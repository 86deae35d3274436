package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Platform-wide roles. Team roles live on TeamMember.
const (
	GlobalRoleSuperAdmin = "super_admin"
	GlobalRoleUser       = "user"
)

func IsValidGlobalRole(role string) bool {
	return role == GlobalRoleSuperAdmin || role == GlobalRoleUser
}

// User is a label staff account, created on first Google or Spotify login.
type User struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	Provider   string    `json:"provider"`
	ProviderID string    `json:"-"`
	GlobalRole string    `json:"global_role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) IsSuperAdmin() bool {
	return u.GlobalRole == GlobalRoleSuperAdmin
}

// DisplayName falls back to the mailbox part of the e-mail for accounts
// whose provider sent no name.
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}
