package tenant

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=tenant_repo.go -destination=mock/tenant_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, t *Tenant) error
	FindAll(ctx context.Context) ([]Tenant, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error

	// Cascade helpers, called in child-before-parent order inside one
	// transaction.
	DeleteUsersByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	EntrepriseIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error)
	EmployeIDs(ctx context.Context, entrepriseIDs []uuid.UUID) ([]uuid.UUID, error)
	DeleteDeparturesByEmployes(ctx context.Context, employeIDs []uuid.UUID) (int64, error)
	DeleteAbsencesByEmployes(ctx context.Context, employeIDs []uuid.UUID) (int64, error)
	DeleteAttendancesByEmployes(ctx context.Context, employeIDs []uuid.UUID) (int64, error)
	DeleteEmployes(ctx context.Context, employeIDs []uuid.UUID) (int64, error)
	DeleteEntreprises(ctx context.Context, entrepriseIDs []uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
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

func (r *repository) Create(ctx context.Context, t *Tenant) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Tenant, error) {
	var rows []Tenant
	err := r.db.WithContext(ctx).Order("name").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	var t Tenant
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) Update(ctx context.Context, t *Tenant) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *repository) DeleteUsersByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Exec("DELETE FROM users WHERE tenant_id = ?", tenantID)
	return res.RowsAffected, res.Error
}

func (r *repository) EntrepriseIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("entreprises").
		Where("tenant_id = ?", tenantID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) EmployeIDs(ctx context.Context, entrepriseIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(entrepriseIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("employes").
		Where("entreprise_id IN ?", entrepriseIDs).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) DeleteDeparturesByEmployes(ctx context.Context, employeIDs []uuid.UUID) (int64, error) {
	if len(employeIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Exec("DELETE FROM temporary_departures WHERE employe_id IN ?", employeIDs)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteAbsencesByEmployes(ctx context.Context, employeIDs []uuid.UUID) (int64, error) {
	if len(employeIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Exec("DELETE FROM absences WHERE employe_id IN ?", employeIDs)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteAttendancesByEmployes(ctx context.Context, employeIDs []uuid.UUID) (int64, error) {
	if len(employeIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Exec("DELETE FROM attendances WHERE employe_id IN ?", employeIDs)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteEmployes(ctx context.Context, employeIDs []uuid.UUID) (int64, error) {
	if len(employeIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Exec("DELETE FROM employes WHERE id IN ?", employeIDs)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteEntreprises(ctx context.Context, entrepriseIDs []uuid.UUID) (int64, error) {
	if len(entrepriseIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Exec("DELETE FROM entreprises WHERE id IN ?", entrepriseIDs)
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Tenant{}, "id = ?", id).Error
}
