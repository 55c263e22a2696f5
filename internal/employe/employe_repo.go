package employe

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EternelCodeur/punch-smartly-backend/internal/scope"
)

//go:generate mockgen -source=employe_repo.go -destination=mock/employe_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, e *Employe) error
	FindAll(ctx context.Context, sc scope.Scope, f ListFilter) ([]Employe, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Employe, error)
	ResolveOwnership(ctx context.Context, id uuid.UUID) (*Ownership, error)
	EntrepriseInTenant(ctx context.Context, entrepriseID, tenantID uuid.UUID) (bool, error)
	NormalizeDailyStatus(ctx context.Context, sc scope.Scope, entrepriseID *uuid.UUID, today string) (int64, error)
	CountsToday(ctx context.Context, sc scope.Scope, entrepriseID *uuid.UUID, today string) (TodayCounts, error)
	Update(ctx context.Context, e *Employe) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListFilter is the repository-level slice of ListQuery (today is resolved by
// the service so all status predicates agree on one date).
type ListFilter struct {
	Search               string
	EntrepriseID         *uuid.UUID
	Status               string
	ForDeparture         bool
	ExcludeDepartedToday bool
	Today                string
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

func (r *repository) Create(ctx context.Context, e *Employe) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context, sc scope.Scope, f ListFilter) ([]Employe, error) {
	q := r.db.WithContext(ctx).
		Model(&Employe{}).
		Scopes(sc.Employes()).
		Preload("Entreprise")

	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR position ILIKE ?",
			like, like, like,
		)
	}
	if f.EntrepriseID != nil {
		q = q.Where("entreprise_id = ?", *f.EntrepriseID)
	}

	switch f.Status {
	case "present":
		q = q.Where("attendance_date = ? AND arrival_signed = ?", f.Today, true)
	case "absent":
		q = q.Where("attendance_date = ? AND arrival_signed = ?", f.Today, false)
	case "left":
		q = q.Where("attendance_date = ? AND departure_signed = ?", f.Today, true)
	default:
		if f.ForDeparture {
			q = q.Where(
				"attendance_date = ? AND arrival_signed = ? AND departure_signed = ?",
				f.Today, true, false,
			)
		} else if f.ExcludeDepartedToday {
			q = q.Where(
				"attendance_date IS NULL OR attendance_date <> ? OR (attendance_date = ? AND departure_signed = ?)",
				f.Today, f.Today, false,
			)
		}
	}

	var rows []Employe
	err := q.Order("last_name, first_name").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Employe, error) {
	var e Employe
	err := r.db.WithContext(ctx).
		Preload("Entreprise").
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) ResolveOwnership(ctx context.Context, id uuid.UUID) (*Ownership, error) {
	var own Ownership
	err := r.db.WithContext(ctx).
		Table("employes").
		Select("employes.entreprise_id AS entreprise_id, entreprises.tenant_id AS tenant_id").
		Joins("LEFT JOIN entreprises ON entreprises.id = employes.entreprise_id").
		Where("employes.id = ?", id).
		Take(&own).Error
	if err != nil {
		return nil, err
	}
	return &own, nil
}

func (r *repository) EntrepriseInTenant(ctx context.Context, entrepriseID, tenantID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("entreprises").
		Where("id = ?", entrepriseID).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count > 0, err
}

// NormalizeDailyStatus stamps today's date and clears both signed flags on
// every scoped employe not yet normalized for today. Rows already stamped
// today are untouched, which makes the pass idempotent and keeps same-day
// signed flags intact.
func (r *repository) NormalizeDailyStatus(ctx context.Context, sc scope.Scope, entrepriseID *uuid.UUID, today string) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&Employe{}).
		Scopes(sc.Employes())
	if entrepriseID != nil {
		q = q.Where("entreprise_id = ?", *entrepriseID)
	}
	res := q.
		Where("attendance_date IS NULL OR attendance_date <> ?", today).
		Updates(map[string]any{
			"attendance_date":  today,
			"arrival_signed":   false,
			"departure_signed": false,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) CountsToday(ctx context.Context, sc scope.Scope, entrepriseID *uuid.UUID, today string) (TodayCounts, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&Employe{}).Scopes(sc.Employes())
		if entrepriseID != nil {
			q = q.Where("entreprise_id = ?", *entrepriseID)
		}
		return q
	}

	var counts TodayCounts
	if err := base().Count(&counts.TotalEmployees).Error; err != nil {
		return TodayCounts{}, err
	}
	if err := base().
		Where("attendance_date = ? AND arrival_signed = ?", today, true).
		Count(&counts.PresentToday).Error; err != nil {
		return TodayCounts{}, err
	}
	if err := base().
		Where("attendance_date = ? AND arrival_signed = ?", today, false).
		Count(&counts.AbsentToday).Error; err != nil {
		return TodayCounts{}, err
	}
	if err := base().
		Where("attendance_date = ? AND departure_signed = ?", today, true).
		Count(&counts.LeftToday).Error; err != nil {
		return TodayCounts{}, err
	}
	return counts, nil
}

func (r *repository) Update(ctx context.Context, e *Employe) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Employe{}, "id = ?", id).Error
}
