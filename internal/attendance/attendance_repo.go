package attendance

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

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetOrCreate(ctx context.Context, employeID uuid.UUID, date time.Time) (*Attendance, error)
	FindByEmployeAndDate(ctx context.Context, employeID uuid.UUID, date time.Time) (*Attendance, error)
	FindByEmployeAndRange(ctx context.Context, employeID uuid.UUID, from, to string) ([]Attendance, error)
	LatestByEmploye(ctx context.Context, employeID uuid.UUID) (*Attendance, error)
	FindAll(ctx context.Context, sc scope.Scope, f ListFilter) ([]Attendance, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Attendance, error)
	Create(ctx context.Context, a *Attendance) error
	Update(ctx context.Context, a *Attendance) error
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
// then re-reads it under FOR UPDATE. A concurrent insert loses the race
// silently and the row lock serializes the callers, so only one of two
// concurrent stampers sees the clock field still empty.
func (r *repository) GetOrCreate(ctx context.Context, employeID uuid.UUID, date time.Time) (*Attendance, error) {
	row := Attendance{ID: uuid.New(), EmployeID: employeID, Date: date}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employe_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(&row).Error
	if err != nil && !IsUniqueViolation(err) {
		return nil, err
	}

	var a Attendance
	err = r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employe_id = ? AND date = ?", employeID, date).
		First(&a).Error
	return &a, err
}

func (r *repository) FindByEmployeAndDate(ctx context.Context, employeID uuid.UUID, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("employe_id = ? AND date = ?", employeID, date).
		First(&a).Error
	return &a, err
}

func (r *repository) FindByEmployeAndRange(ctx context.Context, employeID uuid.UUID, from, to string) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Where("employe_id = ? AND date >= ? AND date <= ?", employeID, from, to).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) LatestByEmploye(ctx context.Context, employeID uuid.UUID) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("employe_id = ?", employeID).
		Order("date DESC").
		First(&a).Error
	return &a, err
}

func (r *repository) FindAll(ctx context.Context, sc scope.Scope, f ListFilter) ([]Attendance, error) {
	q := r.db.WithContext(ctx).
		Model(&Attendance{}).
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

	var rows []Attendance
	err := q.Order("date DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Preload("Employe.Entreprise").
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Attendance{}, "id = ?", id).Error
}

// IsUniqueViolation reports whether err is a Postgres 23505 unique-key error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
