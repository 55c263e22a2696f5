package tenant

import "github.com/EternelCodeur/punch-smartly-backend/internal/user"

type CreateTenantRequest struct {
	Name      string  `json:"name" binding:"required,max=255"`
	Contact   *string `json:"contact" binding:"omitempty,max=255"`
	AdminName string  `json:"admin_name" binding:"required,max=255"`
}

type UpdateTenantRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=255"`
	Contact *string `json:"contact" binding:"omitempty,max=255"`
}

type TenantResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Contact *string `json:"contact"`
}

// CreatedTenantResponse carries the provisioned superadmin account; its
// one-time password appears here and nowhere else.
type CreatedTenantResponse struct {
	TenantResponse
	Superadmin user.CreatedUserResponse `json:"superadmin"`
}
