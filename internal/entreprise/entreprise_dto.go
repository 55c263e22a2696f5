package entreprise

import "github.com/google/uuid"

type CreateEntrepriseRequest struct {
	Name     string  `json:"name" binding:"required,max=255"`
	TenantID *string `json:"tenant_id"`
}

type UpdateEntrepriseRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	TenantID *string `json:"tenant_id"`
}

type ListQuery struct {
	TenantID *uuid.UUID
	Search   string
}

type EntrepriseResponse struct {
	ID       string  `json:"id"`
	TenantID *string `json:"tenant_id"`
	Name     string  `json:"name"`
}
