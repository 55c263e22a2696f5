package auth

// LoginRequest is password-only: the secret code identifies the account.
type LoginRequest struct {
	Code string `json:"code" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  AccountInfo `json:"user"`
}

type AccountInfo struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	TenantID     *string `json:"tenant_id"`
	EnterpriseID *string `json:"enterprise_id"`
}
