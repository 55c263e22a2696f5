package absence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EternelCodeur/punch-smartly-backend/internal/scope"
)

//go:generate mockgen -source=absence_repo.go -destination=mock/absence_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetOrCreate(ctx context.Context, employeID uuid.UUID, date string, status string, reason *string) (*Absence, bool, error)
	FindAll(ctx context.Context, sc scope.Scope, f ListFilter) ([]Absence, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Absence, error)
	FindByEmployeAndRange(ctx context.Context, employeID uuid.UUID, from, to string) ([]Absence, error)
	Update(ctx context.Context, a *Absence) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ListFilter struct {
	EmployeID    *uuid.UUID
	EntrepriseID *uuid.UUID
	From         string
	To           string
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

// GetOrCreate inserts the (employe, date) row with ON CONFLICT DO NOTHING,
// then re-reads when the row already existed. The bool reports whether a new
// row was created; an existing row keeps its status and reason, and a
// concurrent insert loses the race silently.
func (r *repository) GetOrCreate(ctx context.Context, employeID uuid.UUID, date string, status string, reason *string) (*Absence, bool, error) {
	if status == "" {
		status = DefaultStatus
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, false, err
	}

	row := Absence{ID: uuid.New(), EmployeID: employeID, Date: day, Status: status, Reason: reason}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employe_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(&row)
	if res.Error != nil && !isUniqueViolation(res.Error) {
		return nil, false, res.Error
	}
	if res.Error == nil && res.RowsAffected > 0 {
		return &row, true, nil
	}

	var a Absence
	err = r.db.WithContext(ctx).
		Where("employe_id = ? AND date = ?", employeID, date).
		First(&a).Error
	if err != nil {
		return nil, false, err
	}
	return &a, false, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *repository) FindAll(ctx context.Context, sc scope.Scope, f ListFilter) ([]Absence, error) {
	q := r.db.WithContext(ctx).
		Model(&Absence{}).
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

	var rows []Absence
	err := q.Order("date DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Absence, error) {
	var a Absence
	err := r.db.WithContext(ctx).
		Preload("Employe.Entreprise").
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindByEmployeAndRange(ctx context.Context, employeID uuid.UUID, from, to string) ([]Absence, error) {
	var rows []Absence
	err := r.db.WithContext(ctx).
		Where("employe_id = ? AND date >= ? AND date <= ?", employeID, from, to).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, a *Absence) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Absence{}, "id = ?", id).Error
}
