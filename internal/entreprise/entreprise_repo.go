package entreprise

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EternelCodeur/punch-smartly-backend/internal/scope"
)

//go:generate mockgen -source=entreprise_repo.go -destination=mock/entreprise_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, e *Entreprise) error
	FindAll(ctx context.Context, sc scope.Scope, f ListFilter) ([]Entreprise, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Entreprise, error)
	Update(ctx context.Context, e *Entreprise) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ListFilter struct {
	TenantID *uuid.UUID
	Search   string
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, e *Entreprise) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context, sc scope.Scope, f ListFilter) ([]Entreprise, error) {
	q := r.db.WithContext(ctx).
		Model(&Entreprise{}).
		Scopes(sc.Entreprises())

	if f.TenantID != nil {
		q = q.Where("tenant_id = ?", *f.TenantID)
	}
	if f.Search != "" {
		q = q.Where("name ILIKE ?", "%"+f.Search+"%")
	}

	var rows []Entreprise
	err := q.Order("name").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Entreprise, error) {
	var e Entreprise
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) Update(ctx context.Context, e *Entreprise) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Entreprise{}, "id = ?", id).Error
}
