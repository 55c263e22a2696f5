package entreprise

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/EternelCodeur/punch-smartly-backend/internal/actor"
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
	createFn   func(ctx context.Context, e *Entreprise) error
	findAllFn  func(ctx context.Context, sc scope.Scope, f ListFilter) ([]Entreprise, error)
	findByIDFn func(ctx context.Context, id uuid.UUID) (*Entreprise, error)
	updateFn   func(ctx context.Context, e *Entreprise) error
	deleteFn   func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, e *Entreprise) error {
	return f.createFn(ctx, e)
}
func (f *fakeRepo) FindAll(ctx context.Context, sc scope.Scope, flt ListFilter) ([]Entreprise, error) {
	return f.findAllFn(ctx, sc, flt)
}
func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*Entreprise, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) Update(ctx context.Context, e *Entreprise) error { return f.updateFn(ctx, e) }
func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error  { return f.deleteFn(ctx, id) }

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("admins cannot create", func(t *testing.T) {
		gdb, _ := newGormMock(t)
		svc := NewService(gdb, &fakeRepo{})
		_, err := svc.Create(ctx, actor.Actor{Role: actor.RoleAdmin, TenantID: &tenantID}, CreateEntrepriseRequest{Name: "Depot Nord"})
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("superadmin pinned to own tenant", func(t *testing.T) {
		var created *Entreprise
		repo := &fakeRepo{createFn: func(ctx context.Context, e *Entreprise) error { created = e; return nil }}
		gdb, _ := newGormMock(t)
		svc := NewService(gdb, repo)

		foreign := uuid.New().String()
		resp, err := svc.Create(ctx, actor.Actor{Role: actor.RoleSuperadmin, TenantID: &tenantID}, CreateEntrepriseRequest{Name: "Depot Nord", TenantID: &foreign})
		assert.NoError(t, err)
		assert.Equal(t, tenantID, *created.TenantID)
		assert.Equal(t, "Depot Nord", resp.Name)
	})

	t.Run("supertenant picks the tenant", func(t *testing.T) {
		var created *Entreprise
		repo := &fakeRepo{createFn: func(ctx context.Context, e *Entreprise) error { created = e; return nil }}
		gdb, _ := newGormMock(t)
		svc := NewService(gdb, repo)

		target := tenantID.String()
		_, err := svc.Create(ctx, actor.Actor{Role: actor.RoleSupertenant}, CreateEntrepriseRequest{Name: "Depot Sud", TenantID: &target})
		assert.NoError(t, err)
		assert.Equal(t, tenantID, *created.TenantID)
	})
}

func TestService_Get_Scoping(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	entrepriseID := uuid.New()

	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*Entreprise, error) {
			return &Entreprise{ID: entrepriseID, TenantID: &tenantID, Name: "Depot Nord"}, nil
		},
	}
	gdb, _ := newGormMock(t)
	svc := NewService(gdb, repo)

	// A user of that very enterprise can read it.
	resp, err := svc.Get(ctx, actor.Actor{Role: actor.RoleUser, EnterpriseID: &entrepriseID}, entrepriseID.String())
	assert.NoError(t, err)
	assert.Equal(t, "Depot Nord", resp.Name)

	otherEnterprise := uuid.New()
	_, err = svc.Get(ctx, actor.Actor{Role: actor.RoleUser, EnterpriseID: &otherEnterprise}, entrepriseID.String())
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	otherTenant := uuid.New()
	_, err = svc.Get(ctx, actor.Actor{Role: actor.RoleAdmin, TenantID: &otherTenant}, entrepriseID.String())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestService_Update_TenantMoveIsSupertenantOnly(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	entrepriseID := uuid.New()

	var saved *Entreprise
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*Entreprise, error) {
			return &Entreprise{ID: entrepriseID, TenantID: &tenantID, Name: "Depot Nord"}, nil
		},
		updateFn: func(ctx context.Context, e *Entreprise) error { saved = e; return nil },
	}
	gdb, _ := newGormMock(t)
	svc := NewService(gdb, repo)

	target := uuid.New().String()
	_, err := svc.Update(ctx, actor.Actor{Role: actor.RoleSuperadmin, TenantID: &tenantID}, entrepriseID.String(), UpdateEntrepriseRequest{TenantID: &target})
	assert.NoError(t, err)
	assert.Equal(t, tenantID, *saved.TenantID)

	_, err = svc.Update(ctx, actor.Actor{Role: actor.RoleSupertenant}, entrepriseID.String(), UpdateEntrepriseRequest{TenantID: &target})
	assert.NoError(t, err)
	assert.Equal(t, target, saved.TenantID.String())
}
