package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/EternelCodeur/punch-smartly-backend/internal/actor"
	"github.com/EternelCodeur/punch-smartly-backend/internal/messaging/kafka"
	"github.com/EternelCodeur/punch-smartly-backend/internal/scope"
	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/apperror"
	"github.com/EternelCodeur/punch-smartly-backend/internal/user"
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

// fakeRepo records the order of cascade calls so the child-before-parent
// ordering stays observable.
type fakeRepo struct {
	calls         []string
	entrepriseIDs []uuid.UUID
	employeIDs    []uuid.UUID
	tenants       map[uuid.UUID]*Tenant
	failOn        string
}

func (f *fakeRepo) step(name string) error {
	f.calls = append(f.calls, name)
	if f.failOn == name {
		return errors.New(name + " failed")
	}
	return nil
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, t *Tenant) error {
	if f.tenants == nil {
		f.tenants = map[uuid.UUID]*Tenant{}
	}
	f.tenants[t.ID] = t
	return f.step("create")
}
func (f *fakeRepo) FindAll(ctx context.Context) ([]Tenant, error) {
	out := make([]Tenant, 0, len(f.tenants))
	for _, t := range f.tenants {
		out = append(out, *t)
	}
	return out, nil
}
func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	if t, ok := f.tenants[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) Update(ctx context.Context, t *Tenant) error { return f.step("update") }
func (f *fakeRepo) DeleteUsersByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return 1, f.step("users")
}
func (f *fakeRepo) EntrepriseIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error) {
	return f.entrepriseIDs, f.step("entreprise_ids")
}
func (f *fakeRepo) EmployeIDs(ctx context.Context, entrepriseIDs []uuid.UUID) ([]uuid.UUID, error) {
	return f.employeIDs, f.step("employe_ids")
}
func (f *fakeRepo) DeleteDeparturesByEmployes(ctx context.Context, employeIDs []uuid.UUID) (int64, error) {
	return int64(len(employeIDs)), f.step("departures")
}
func (f *fakeRepo) DeleteAbsencesByEmployes(ctx context.Context, employeIDs []uuid.UUID) (int64, error) {
	return int64(len(employeIDs)), f.step("absences")
}
func (f *fakeRepo) DeleteAttendancesByEmployes(ctx context.Context, employeIDs []uuid.UUID) (int64, error) {
	return int64(len(employeIDs)), f.step("attendances")
}
func (f *fakeRepo) DeleteEmployes(ctx context.Context, employeIDs []uuid.UUID) (int64, error) {
	return int64(len(employeIDs)), f.step("employes")
}
func (f *fakeRepo) DeleteEntreprises(ctx context.Context, entrepriseIDs []uuid.UUID) (int64, error) {
	return int64(len(entrepriseIDs)), f.step("entreprises")
}
func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.tenants, id)
	return f.step("tenant")
}

type fakeUserRepo struct {
	created []*user.User
}

func (f *fakeUserRepo) WithTx(tx *gorm.DB) user.Repository { return f }
func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	f.created = append(f.created, u)
	return nil
}
func (f *fakeUserRepo) FindAll(ctx context.Context, sc scope.Scope, flt user.ListFilter) ([]user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error  { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error                  { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

func supertenant() actor.Actor {
	return actor.Actor{UserID: uuid.New(), Role: actor.RoleSupertenant}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	repo := &fakeRepo{}
	users := &fakeUserRepo{}
	gdb, mock := newGormMock(t)
	svc := NewService(gdb, repo, users, &fakeOutbox{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(ctx, supertenant(), CreateTenantRequest{Name: "Acme", AdminName: "Fatou Ndiaye"})
	assert.NoError(t, err)
	assert.Equal(t, "Acme", resp.Name)

	// The first superadmin is provisioned in the same transaction and the
	// plain password is surfaced exactly once.
	assert.Len(t, users.created, 1)
	admin := users.created[0]
	assert.Equal(t, "superadmin", admin.Role)
	assert.Equal(t, resp.ID, admin.TenantID.String())
	assert.NotEmpty(t, resp.Superadmin.Password)
	assert.NotEqual(t, resp.Superadmin.Password, admin.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(resp.Superadmin.Password)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_SupertenantOnly(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	gdb, _ := newGormMock(t)
	svc := NewService(gdb, &fakeRepo{}, &fakeUserRepo{}, &fakeOutbox{})

	_, err := svc.Create(ctx, actor.Actor{Role: actor.RoleSuperadmin, TenantID: &tenantID}, CreateTenantRequest{Name: "Acme", AdminName: "X"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestService_Delete_CascadeOrder(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	repo := &fakeRepo{
		tenants:       map[uuid.UUID]*Tenant{tenantID: {ID: tenantID, Name: "Acme"}},
		entrepriseIDs: []uuid.UUID{uuid.New(), uuid.New()},
		employeIDs:    []uuid.UUID{uuid.New(), uuid.New(), uuid.New()},
	}
	outbox := &fakeOutbox{}
	gdb, mock := newGormMock(t)
	svc := NewService(gdb, repo, &fakeUserRepo{}, outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()
	err := svc.Delete(ctx, supertenant(), tenantID.String())
	assert.NoError(t, err)

	assert.Equal(t, []string{
		"users",
		"entreprise_ids",
		"employe_ids",
		"departures",
		"absences",
		"attendances",
		"employes",
		"entreprises",
		"tenant",
	}, repo.calls)

	assert.Len(t, outbox.events, 1)
	assert.Equal(t, "tenant.purged", outbox.events[0].EventType)
	assert.Contains(t, string(outbox.events[0].Payload), `"entreprises_deleted":2`)
	assert.Contains(t, string(outbox.events[0].Payload), `"employes_deleted":3`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Delete_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	repo := &fakeRepo{
		tenants:    map[uuid.UUID]*Tenant{tenantID: {ID: tenantID, Name: "Acme"}},
		employeIDs: []uuid.UUID{uuid.New()},
		failOn:     "attendances",
	}
	gdb, mock := newGormMock(t)
	svc := NewService(gdb, repo, &fakeUserRepo{}, &fakeOutbox{})

	mock.ExpectBegin()
	mock.ExpectRollback()
	err := svc.Delete(ctx, supertenant(), tenantID.String())
	assert.Error(t, err)
	assert.NotContains(t, repo.calls, "tenant")
	assert.NoError(t, mock.ExpectationsWereMet())
}
