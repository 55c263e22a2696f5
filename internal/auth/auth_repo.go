package auth

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is the lean read model over the users table needed for login.
type Account struct {
	ID           uuid.UUID
	TenantID     *uuid.UUID
	EnterpriseID *uuid.UUID
	Name         string
	Role         string
	Password     string
}

//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock
type Repository interface {
	ListAccounts(ctx context.Context) ([]Account, error)
	FindAccount(ctx context.Context, id uuid.UUID) (*Account, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListAccounts(ctx context.Context) ([]Account, error) {
	var rows []Account
	err := r.db.WithContext(ctx).
		Table("users").
		Select("id, tenant_id, enterprise_id, name, role, password").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	var a Account
	err := r.db.WithContext(ctx).
		Table("users").
		Select("id, tenant_id, enterprise_id, name, role, password").
		Where("id = ?", id).
		Take(&a).Error
	return &a, err
}
