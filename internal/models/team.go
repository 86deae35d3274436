package models

import (
	"time"

	"github.com/google/uuid"
)

// Team is a label or imprint. Artists, prospects and budgets all belong to
// exactly one team.
type Team struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TeamMember struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `json:"user,omitempty"`
}

// Team roles. Exactly one owner per team; the owner row is created with the
// team and cannot be reassigned or removed.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

func IsValidMemberRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}

// CanManage reports whether a member with this role may edit team settings
// and membership.
func CanManage(role string) bool {
	return role == RoleOwner || role == RoleAdmin
}
