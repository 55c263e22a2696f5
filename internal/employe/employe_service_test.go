package employe

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/EternelCodeur/punch-smartly-backend/internal/actor"
	employeerrors "github.com/EternelCodeur/punch-smartly-backend/internal/employe/errors"
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
	createFn              func(ctx context.Context, e *Employe) error
	findAllFn             func(ctx context.Context, sc scope.Scope, f ListFilter) ([]Employe, error)
	findByIDFn            func(ctx context.Context, id uuid.UUID) (*Employe, error)
	resolveOwnershipFn    func(ctx context.Context, id uuid.UUID) (*Ownership, error)
	entrepriseInTenantFn  func(ctx context.Context, entrepriseID, tenantID uuid.UUID) (bool, error)
	normalizeDailyStatus  func(ctx context.Context, sc scope.Scope, entrepriseID *uuid.UUID, today string) (int64, error)
	countsTodayFn         func(ctx context.Context, sc scope.Scope, entrepriseID *uuid.UUID, today string) (TodayCounts, error)
	updateFn              func(ctx context.Context, e *Employe) error
	deleteFn              func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository                  { return f }
func (f *fakeRepo) Create(ctx context.Context, e *Employe) error   { return f.createFn(ctx, e) }
func (f *fakeRepo) FindAll(ctx context.Context, sc scope.Scope, flt ListFilter) ([]Employe, error) {
	return f.findAllFn(ctx, sc, flt)
}
func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*Employe, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) ResolveOwnership(ctx context.Context, id uuid.UUID) (*Ownership, error) {
	return f.resolveOwnershipFn(ctx, id)
}
func (f *fakeRepo) EntrepriseInTenant(ctx context.Context, entrepriseID, tenantID uuid.UUID) (bool, error) {
	return f.entrepriseInTenantFn(ctx, entrepriseID, tenantID)
}
func (f *fakeRepo) NormalizeDailyStatus(ctx context.Context, sc scope.Scope, entrepriseID *uuid.UUID, today string) (int64, error) {
	return f.normalizeDailyStatus(ctx, sc, entrepriseID, today)
}
func (f *fakeRepo) CountsToday(ctx context.Context, sc scope.Scope, entrepriseID *uuid.UUID, today string) (TodayCounts, error) {
	return f.countsTodayFn(ctx, sc, entrepriseID, today)
}
func (f *fakeRepo) Update(ctx context.Context, e *Employe) error  { return f.updateFn(ctx, e) }
func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error { return f.deleteFn(ctx, id) }

func fixedNow() time.Time { return time.Date(2026, 3, 10, 7, 45, 0, 0, time.UTC) }

func TestService_Normalize(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	enterpriseID := uuid.New()

	var gotToday string
	var gotEntreprise *uuid.UUID
	repo := &fakeRepo{
		normalizeDailyStatus: func(ctx context.Context, sc scope.Scope, entrepriseID *uuid.UUID, today string) (int64, error) {
			gotToday = today
			gotEntreprise = entrepriseID
			return 7, nil
		},
	}
	gdb, _ := newGormMock(t)
	svc := NewService(gdb, repo).(*service)
	svc.now = fixedNow

	affected, err := svc.Normalize(ctx, actor.Actor{Role: actor.RoleAdmin, TenantID: &tenantID}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), affected)
	assert.Equal(t, "2026-03-10", gotToday)
	assert.Nil(t, gotEntreprise)

	// A plain user is pinned to their own enterprise no matter what they ask.
	other := uuid.New()
	_, err = svc.Normalize(ctx, actor.Actor{Role: actor.RoleUser, EnterpriseID: &enterpriseID}, &other)
	assert.NoError(t, err)
	assert.Equal(t, &enterpriseID, gotEntreprise)
}

func TestService_List_NormalizesFirst(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	var calls []string
	repo := &fakeRepo{
		normalizeDailyStatus: func(ctx context.Context, sc scope.Scope, entrepriseID *uuid.UUID, today string) (int64, error) {
			calls = append(calls, "normalize")
			return 3, nil
		},
		findAllFn: func(ctx context.Context, sc scope.Scope, flt ListFilter) ([]Employe, error) {
			calls = append(calls, "list")
			assert.Equal(t, "2026-03-10", flt.Today)
			return []Employe{{ID: uuid.New(), FirstName: "Awa", LastName: "Diop"}}, nil
		},
	}
	gdb, _ := newGormMock(t)
	svc := NewService(gdb, repo).(*service)
	svc.now = fixedNow

	rows, err := svc.List(ctx, actor.Actor{Role: actor.RoleAdmin, TenantID: &tenantID}, ListQuery{Status: "absent", NormalizeToday: true})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, []string{"normalize", "list"}, calls)
}

func TestService_TodayCounts(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	var calls []string
	repo := &fakeRepo{
		normalizeDailyStatus: func(ctx context.Context, sc scope.Scope, entrepriseID *uuid.UUID, today string) (int64, error) {
			calls = append(calls, "normalize")
			return 0, nil
		},
		countsTodayFn: func(ctx context.Context, sc scope.Scope, entrepriseID *uuid.UUID, today string) (TodayCounts, error) {
			calls = append(calls, "counts")
			return TodayCounts{TotalEmployees: 12, PresentToday: 8, AbsentToday: 4, LeftToday: 5}, nil
		},
	}
	gdb, _ := newGormMock(t)
	svc := NewService(gdb, repo).(*service)
	svc.now = fixedNow

	resp, err := svc.TodayCounts(ctx, actor.Actor{Role: actor.RoleAdmin, TenantID: &tenantID}, nil, true)
	assert.NoError(t, err)
	assert.Equal(t, []string{"normalize", "counts"}, calls)
	assert.Equal(t, "2026-03-10", resp.Date)
	assert.Equal(t, int64(12), resp.TotalEmployees)
	assert.Equal(t, int64(8), resp.PresentToday)
	assert.Equal(t, int64(4), resp.AbsentToday)
	assert.Equal(t, int64(5), resp.LeftToday)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	entrepriseID := uuid.New()

	t.Run("plain users cannot create", func(t *testing.T) {
		gdb, _ := newGormMock(t)
		svc := NewService(gdb, &fakeRepo{})
		_, err := svc.Create(ctx, actor.Actor{Role: actor.RoleUser, EnterpriseID: &entrepriseID}, CreateEmployeRequest{FirstName: "Awa", LastName: "Diop"})
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("admin bound to own tenant", func(t *testing.T) {
		repo := &fakeRepo{
			entrepriseInTenantFn: func(ctx context.Context, eID, tID uuid.UUID) (bool, error) {
				assert.Equal(t, entrepriseID, eID)
				assert.Equal(t, tenantID, tID)
				return false, nil
			},
		}
		gdb, _ := newGormMock(t)
		svc := NewService(gdb, repo)
		raw := entrepriseID.String()
		_, err := svc.Create(ctx, actor.Actor{Role: actor.RoleAdmin, TenantID: &tenantID}, CreateEmployeRequest{EntrepriseID: &raw, FirstName: "Awa", LastName: "Diop"})
		assert.ErrorIs(t, err, employeerrors.ErrEntrepriseOutsideTenant)
	})

	t.Run("created with entreprise attached", func(t *testing.T) {
		var created *Employe
		repo := &fakeRepo{
			entrepriseInTenantFn: func(ctx context.Context, eID, tID uuid.UUID) (bool, error) { return true, nil },
			createFn:             func(ctx context.Context, e *Employe) error { created = e; return nil },
		}
		gdb, _ := newGormMock(t)
		svc := NewService(gdb, repo)
		raw := entrepriseID.String()
		resp, err := svc.Create(ctx, actor.Actor{Role: actor.RoleAdmin, TenantID: &tenantID}, CreateEmployeRequest{EntrepriseID: &raw, FirstName: "Awa", LastName: "Diop"})
		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, entrepriseID, *created.EntrepriseID)
		assert.Equal(t, "Awa", resp.FirstName)
	})
}

func TestService_Update_OutsideScope(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	otherTenant := uuid.New()
	entrepriseID := uuid.New()
	employeID := uuid.New()

	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*Employe, error) {
			return &Employe{
				ID:           employeID,
				EntrepriseID: &entrepriseID,
				Entreprise:   &EntrepriseRef{ID: entrepriseID, TenantID: &otherTenant},
			}, nil
		},
	}
	gdb, mock := newGormMock(t)
	svc := NewService(gdb, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	name := "Moussa"
	_, err := svc.Update(ctx, actor.Actor{Role: actor.RoleAdmin, TenantID: &tenantID}, employeID.String(), UpdateEmployeRequest{FirstName: &name})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	entrepriseID := uuid.New()
	employeID := uuid.New()

	var saved *Employe
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*Employe, error) {
			return &Employe{
				ID:           employeID,
				EntrepriseID: &entrepriseID,
				FirstName:    "Awa",
				LastName:     "Diop",
				Entreprise:   &EntrepriseRef{ID: entrepriseID, TenantID: &tenantID},
			}, nil
		},
		updateFn: func(ctx context.Context, e *Employe) error { saved = e; return nil },
	}
	gdb, mock := newGormMock(t)
	svc := NewService(gdb, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	pos := "Driver"
	resp, err := svc.Update(ctx, actor.Actor{Role: actor.RoleAdmin, TenantID: &tenantID}, employeID.String(), UpdateEmployeRequest{Position: &pos})
	assert.NoError(t, err)
	assert.NotNil(t, saved)
	assert.Equal(t, "Driver", *saved.Position)
	assert.Equal(t, "Awa", resp.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	entrepriseID := uuid.New()
	employeID := uuid.New()

	deleted := false
	repo := &fakeRepo{
		resolveOwnershipFn: func(ctx context.Context, id uuid.UUID) (*Ownership, error) {
			return &Ownership{EntrepriseID: &entrepriseID, TenantID: &tenantID}, nil
		},
		deleteFn: func(ctx context.Context, id uuid.UUID) error { deleted = true; return nil },
	}
	gdb, _ := newGormMock(t)
	svc := NewService(gdb, repo)

	err := svc.Delete(ctx, actor.Actor{Role: actor.RoleUser, EnterpriseID: &entrepriseID}, employeID.String())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.False(t, deleted)

	err = svc.Delete(ctx, actor.Actor{Role: actor.RoleAdmin, TenantID: &tenantID}, employeID.String())
	assert.NoError(t, err)
	assert.True(t, deleted)
}
