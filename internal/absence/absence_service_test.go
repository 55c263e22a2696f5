package absence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	absenceerrors "github.com/EternelCodeur/punch-smartly-backend/internal/absence/errors"
	"github.com/EternelCodeur/punch-smartly-backend/internal/actor"
	"github.com/EternelCodeur/punch-smartly-backend/internal/employe"
	"github.com/EternelCodeur/punch-smartly-backend/internal/scope"
	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/apperror"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	assert.NoError(t, err)
	return gdb, mock
}

type fakeRepo struct {
	getOrCreate func(ctx context.Context, employeID uuid.UUID, date string, status string, reason *string) (*Absence, bool, error)
	findAllFn   func(ctx context.Context, sc scope.Scope, f ListFilter) ([]Absence, error)
	findByIDFn  func(ctx context.Context, id uuid.UUID) (*Absence, error)
	updateFn    func(ctx context.Context, a *Absence) error
	deleteFn    func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }
func (f *fakeRepo) GetOrCreate(ctx context.Context, employeID uuid.UUID, date string, status string, reason *string) (*Absence, bool, error) {
	return f.getOrCreate(ctx, employeID, date, status, reason)
}
func (f *fakeRepo) FindAll(ctx context.Context, sc scope.Scope, flt ListFilter) ([]Absence, error) {
	return f.findAllFn(ctx, sc, flt)
}
func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*Absence, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindByEmployeAndRange(ctx context.Context, employeID uuid.UUID, from, to string) ([]Absence, error) {
	return nil, nil
}
func (f *fakeRepo) Update(ctx context.Context, a *Absence) error   { return f.updateFn(ctx, a) }
func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error { return f.deleteFn(ctx, id) }

type fakeEmployeRepo struct {
	ownership *employe.Ownership
}

func (f *fakeEmployeRepo) WithTx(tx *gorm.DB) employe.Repository              { return f }
func (f *fakeEmployeRepo) Create(ctx context.Context, e *employe.Employe) error { return nil }
func (f *fakeEmployeRepo) FindAll(ctx context.Context, sc scope.Scope, flt employe.ListFilter) ([]employe.Employe, error) {
	return nil, nil
}
func (f *fakeEmployeRepo) FindByID(ctx context.Context, id uuid.UUID) (*employe.Employe, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeRepo) ResolveOwnership(ctx context.Context, id uuid.UUID) (*employe.Ownership, error) {
	if f.ownership == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.ownership, nil
}
func (f *fakeEmployeRepo) EntrepriseInTenant(ctx context.Context, entrepriseID, tenantID uuid.UUID) (bool, error) {
	return true, nil
}
func (f *fakeEmployeRepo) NormalizeDailyStatus(ctx context.Context, sc scope.Scope, entrepriseID *uuid.UUID, today string) (int64, error) {
	return 0, nil
}
func (f *fakeEmployeRepo) CountsToday(ctx context.Context, sc scope.Scope, entrepriseID *uuid.UUID, today string) (employe.TodayCounts, error) {
	return employe.TodayCounts{}, nil
}
func (f *fakeEmployeRepo) Update(ctx context.Context, e *employe.Employe) error { return nil }
func (f *fakeEmployeRepo) Delete(ctx context.Context, id uuid.UUID) error       { return nil }

func ownedBy(tenantID, entrepriseID uuid.UUID) *fakeEmployeRepo {
	return &fakeEmployeRepo{ownership: &employe.Ownership{TenantID: &tenantID, EntrepriseID: &entrepriseID}}
}

func TestService_Create_SingleDay(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	entrepriseID := uuid.New()
	employeID := uuid.New()

	var gotDates []string
	repo := &fakeRepo{
		getOrCreate: func(ctx context.Context, eID uuid.UUID, date string, status string, reason *string) (*Absence, bool, error) {
			gotDates = append(gotDates, date)
			d, _ := time.Parse("2006-01-02", date)
			return &Absence{ID: uuid.New(), EmployeID: eID, Date: d, Status: status}, true, nil
		},
	}
	gdb, mock := newGormMock(t)
	svc := NewService(gdb, repo, ownedBy(tenantID, entrepriseID))

	mock.ExpectBegin()
	mock.ExpectCommit()
	date := "2026-03-12"
	resp, err := svc.Create(ctx, actor.Actor{Role: actor.RoleAdmin, TenantID: &tenantID}, CreateAbsenceRequest{EmployeID: employeID.String(), Date: &date})
	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, []string{"2026-03-12"}, gotDates)
	assert.Equal(t, DefaultStatus, resp[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_RangeExpandsPerDay(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	entrepriseID := uuid.New()
	employeID := uuid.New()

	var gotDates []string
	repo := &fakeRepo{
		getOrCreate: func(ctx context.Context, eID uuid.UUID, date string, status string, reason *string) (*Absence, bool, error) {
			gotDates = append(gotDates, date)
			assert.Equal(t, "mission", status)
			d, _ := time.Parse("2006-01-02", date)
			return &Absence{ID: uuid.New(), EmployeID: eID, Date: d, Status: status}, true, nil
		},
	}
	gdb, mock := newGormMock(t)
	svc := NewService(gdb, repo, ownedBy(tenantID, entrepriseID))

	mock.ExpectBegin()
	mock.ExpectCommit()
	start, end, status := "2026-03-30", "2026-04-02", "mission"
	resp, err := svc.Create(ctx, actor.Actor{Role: actor.RoleAdmin, TenantID: &tenantID}, CreateAbsenceRequest{
		EmployeID: employeID.String(),
		StartDate: &start,
		EndDate:   &end,
		Status:    &status,
	})
	assert.NoError(t, err)
	assert.Len(t, resp, 4)
	assert.Equal(t, []string{"2026-03-30", "2026-03-31", "2026-04-01", "2026-04-02"}, gotDates)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_InvalidRange(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	entrepriseID := uuid.New()

	gdb, _ := newGormMock(t)
	svc := NewService(gdb, &fakeRepo{}, ownedBy(tenantID, entrepriseID))
	act := actor.Actor{Role: actor.RoleAdmin, TenantID: &tenantID}

	start, end := "2026-03-10", "2026-03-05"
	_, err := svc.Create(ctx, act, CreateAbsenceRequest{EmployeID: uuid.NewString(), StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, absenceerrors.ErrInvalidRange)

	_, err = svc.Create(ctx, act, CreateAbsenceRequest{EmployeID: uuid.NewString(), StartDate: &start})
	assert.ErrorIs(t, err, absenceerrors.ErrMissingDate)

	bad := "03/10/2026"
	_, err = svc.Create(ctx, act, CreateAbsenceRequest{EmployeID: uuid.NewString(), Date: &bad})
	assert.ErrorIs(t, err, absenceerrors.ErrInvalidDate)
}

func TestService_Create_OutsideScope(t *testing.T) {
	ctx := context.Background()
	entrepriseID := uuid.New()

	gdb, _ := newGormMock(t)
	svc := NewService(gdb, &fakeRepo{}, ownedBy(uuid.New(), entrepriseID))

	myTenant := uuid.New()
	date := "2026-03-12"
	_, err := svc.Create(ctx, actor.Actor{Role: actor.RoleAdmin, TenantID: &myTenant}, CreateAbsenceRequest{EmployeID: uuid.NewString(), Date: &date})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestService_List_MonthExpansion(t *testing.T) {
	ctx := context.Background()

	var captured ListFilter
	repo := &fakeRepo{
		findAllFn: func(ctx context.Context, sc scope.Scope, f ListFilter) ([]Absence, error) {
			captured = f
			return nil, nil
		},
	}
	gdb, _ := newGormMock(t)
	svc := NewService(gdb, repo, &fakeEmployeRepo{})

	_, err := svc.List(ctx, actor.Actor{Role: actor.RoleSupertenant}, ListQuery{Month: "2026-04"})
	assert.NoError(t, err)
	assert.Equal(t, "2026-04-01", captured.From)
	assert.Equal(t, "2026-04-30", captured.To)
}

func TestService_Delete_RoleGate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	entrepriseID := uuid.New()
	absenceID := uuid.New()

	deleted := false
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*Absence, error) {
			return &Absence{
				ID:        absenceID,
				EmployeID: uuid.New(),
				Date:      time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
				Employe: &employe.Employe{
					EntrepriseID: &entrepriseID,
					Entreprise:   &employe.EntrepriseRef{ID: entrepriseID, TenantID: &tenantID},
				},
			}, nil
		},
		deleteFn: func(ctx context.Context, id uuid.UUID) error { deleted = true; return nil },
	}
	gdb, _ := newGormMock(t)
	svc := NewService(gdb, repo, &fakeEmployeRepo{})

	err := svc.Delete(ctx, actor.Actor{Role: actor.RoleUser, EnterpriseID: &entrepriseID}, absenceID.String())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.False(t, deleted)

	err = svc.Delete(ctx, actor.Actor{Role: actor.RoleAdmin, TenantID: &tenantID}, absenceID.String())
	assert.NoError(t, err)
	assert.True(t, deleted)
}
