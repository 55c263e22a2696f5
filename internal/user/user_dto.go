package user

import "github.com/google/uuid"

type CreateUserRequest struct {
	Name         string  `json:"name" binding:"required,max=255"`
	Role         string  `json:"role" binding:"required"`
	TenantID     *string `json:"tenant_id"`
	EnterpriseID *string `json:"enterprise_id"`
	Password     *string `json:"password" binding:"omitempty,min=6,max=72"`
}

type UpdateUserRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=255"`
	Role         *string `json:"role"`
	TenantID     *string `json:"tenant_id"`
	EnterpriseID *string `json:"enterprise_id"`
	Password     *string `json:"password" binding:"omitempty,min=6,max=72"`
}

type ListQuery struct {
	TenantID     *uuid.UUID
	EnterpriseID *uuid.UUID
	Role         string
}

type UserResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	TenantID     *string `json:"tenant_id"`
	EnterpriseID *string `json:"enterprise_id"`
}

// CreatedUserResponse carries the plain password exactly once, at creation.
type CreatedUserResponse struct {
	UserResponse
	Password string `json:"password"`
}
