package dto

type SetGlobalRoleRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
