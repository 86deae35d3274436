package handlers

import (
	"errors"

	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type UserHandler struct {
	userService UserServiceInterface
}

func NewUserHandler(userService UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

func userResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		DisplayName: user.DisplayName(),
		AvatarURL:   user.AvatarURL,
		Provider:    user.Provider,
		GlobalRole:  user.GlobalRole,
		IsAdmin:     user.IsSuperAdmin(),
	}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.NotFound("user not found")
			return
		}
		c.InternalServerError("failed to get user")
		return
	}

	_ = c.JSON(200, userResponse(user))
}

// UpdateMe renames the caller. The name is the only profile field staff can
// edit; the rest follows the login provider.
func (h *UserHandler) UpdateMe(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	user, err := h.userService.Update(c.Request.Context(), userID, req.Name)
	if err != nil {
		if rejectInvalid(c, err, services.ErrNameRequired) {
			return
		}
		if errors.Is(err, services.ErrUserNotFound) {
			c.NotFound("user not found")
			return
		}
		c.InternalServerError("failed to update user")
		return
	}

	_ = c.JSON(200, userResponse(user))
}
