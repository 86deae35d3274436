package middleware

import (
	"errors"
	"strings"

	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	UserIDKey     = "user_id"
	UserEmailKey  = "user_email"
	GlobalRoleKey = "global_role"

	// StreamTokenParam carries the access token for EventSource clients,
	// which cannot set headers.
	StreamTokenParam = "access_token"
)

// Auth accepts an access token from the Authorization header. Event stream
// requests may pass it as ?access_token= instead.
func Auth(jwtService *services.JWTService) drift.HandlerFunc {
	return func(c *drift.Context) {
		token, problem := accessToken(c)
		if problem != "" {
			c.Unauthorized(problem)
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			if errors.Is(err, services.ErrWrongTokenUse) {
				c.Unauthorized("access token required")
				return
			}
			c.Unauthorized("invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(GlobalRoleKey, claims.GlobalRole)

		c.Next()
	}
}

func accessToken(c *drift.Context) (token, problem string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if strings.Contains(c.GetHeader("Accept"), "text/event-stream") {
			if t := c.QueryParam(StreamTokenParam); t != "" {
				return t, ""
			}
		}
		return "", "missing authorization header"
	}

	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", "invalid authorization header format"
	}
	return token, ""
}

func GetUserID(c *drift.Context) uuid.UUID {
	if id, ok := c.Get(UserIDKey); ok {
		if uid, ok := id.(uuid.UUID); ok {
			return uid
		}
	}
	return uuid.Nil
}

func GetUserEmail(c *drift.Context) string {
	return contextString(c, UserEmailKey)
}

func GetGlobalRole(c *drift.Context) string {
	return contextString(c, GlobalRoleKey)
}

func contextString(c *drift.Context, key string) string {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequireSuperAdmin must run after Auth. The role comes from the token, so a
// promotion applies from the next refresh.
func RequireSuperAdmin() drift.HandlerFunc {
	return func(c *drift.Context) {
		if GetGlobalRole(c) != models.GlobalRoleSuperAdmin {
			c.Forbidden("super admin only")
			return
		}
		c.Next()
	}
}
