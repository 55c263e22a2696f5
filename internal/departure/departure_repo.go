package departure

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EternelCodeur/punch-smartly-backend/internal/scope"
)

//go:generate mockgen -source=departure_repo.go -destination=mock/departure_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, d *TemporaryDeparture) error
	FindAll(ctx context.Context, sc scope.Scope, f ListFilter) ([]TemporaryDeparture, error)
	FindByID(ctx context.Context, id uuid.UUID) (*TemporaryDeparture, error)
	LockByID(ctx context.Context, id uuid.UUID) (*TemporaryDeparture, error)
	Update(ctx context.Context, d *TemporaryDeparture) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ListFilter struct {
	EmployeID    *uuid.UUID
	EntrepriseID *uuid.UUID
	From         string
	To           string
	OpenOnly     bool
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

func (r *repository) Create(ctx context.Context, d *TemporaryDeparture) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) FindAll(ctx context.Context, sc scope.Scope, f ListFilter) ([]TemporaryDeparture, error) {
	q := r.db.WithContext(ctx).
		Model(&TemporaryDeparture{}).
		Scopes(sc.EmployeOwned()).
		Preload("Employe")

	if f.EmployeID != nil {
		q = q.Where("employe_id = ?", *f.EmployeID)
	}
	if f.EntrepriseID != nil {
		q = q.Where(
			"employe_id IN (SELECT id FROM employes WHERE entreprise_id = ?)",
			*f.EntrepriseID,
		)
	}
	if f.From != "" {
		q = q.Where("date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("date <= ?", f.To)
	}
	if f.OpenOnly {
		q = q.Where("return_time IS NULL")
	}

	var rows []TemporaryDeparture
	err := q.Order("date DESC, departure_time DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*TemporaryDeparture, error) {
	var d TemporaryDeparture
	err := r.db.WithContext(ctx).
		Preload("Employe.Entreprise").
		First(&d, "id = ?", id).Error
	return &d, err
}

// LockByID reads the row FOR UPDATE so two concurrent returns serialize and
// the second one observes the first one's return_time.
func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*TemporaryDeparture, error) {
	var d TemporaryDeparture
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&d, "id = ?", id).Error
	return &d, err
}

func (r *repository) Update(ctx context.Context, d *TemporaryDeparture) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&TemporaryDeparture{}, "id = ?", id).Error
}
