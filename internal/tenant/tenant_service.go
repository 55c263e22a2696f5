package tenant

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EternelCodeur/punch-smartly-backend/internal/actor"
	"github.com/EternelCodeur/punch-smartly-backend/internal/events"
	"github.com/EternelCodeur/punch-smartly-backend/internal/messaging/kafka"
	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/apperror"
	tenanterrors "github.com/EternelCodeur/punch-smartly-backend/internal/tenant/errors"
	"github.com/EternelCodeur/punch-smartly-backend/internal/user"
)

//go:generate mockgen -source=tenant_service.go -destination=mock/tenant_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, act actor.Actor, req CreateTenantRequest) (CreatedTenantResponse, error)
	List(ctx context.Context, act actor.Actor) ([]TenantResponse, error)
	Get(ctx context.Context, act actor.Actor, id string) (TenantResponse, error)
	Update(ctx context.Context, act actor.Actor, id string, req UpdateTenantRequest) (TenantResponse, error)
	Delete(ctx context.Context, act actor.Actor, id string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	users  user.Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *gorm.DB, repo Repository, users user.Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("tenant.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("tenant.service")
	}
	return &service{db: db, repo: repo, users: users, outbox: outbox, logger: l, now: time.Now}
}

// Create provisions the tenant together with its first superadmin account.
// Both rows commit together; the generated password is returned once.
func (s *service) Create(ctx context.Context, act actor.Actor, req CreateTenantRequest) (CreatedTenantResponse, error) {
	if !act.Is(actor.RoleSupertenant) {
		return CreatedTenantResponse{}, apperror.ErrForbidden
	}

	plain, err := user.GeneratePassword(12)
	if err != nil {
		return CreatedTenantResponse{}, err
	}
	hash, err := user.HashPassword(plain)
	if err != nil {
		return CreatedTenantResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return CreatedTenantResponse{}, tx.Error
	}
	defer tx.Rollback()

	t := &Tenant{ID: uuid.New(), Name: req.Name, Contact: req.Contact}
	if err := s.repo.WithTx(tx).Create(ctx, t); err != nil {
		s.logger.Error("create tenant failed", zap.Error(err))
		return CreatedTenantResponse{}, err
	}

	admin := &user.User{
		ID:       uuid.New(),
		TenantID: &t.ID,
		Name:     req.AdminName,
		Role:     string(actor.RoleSuperadmin),
		Password: hash,
	}
	if err := s.users.WithTx(tx).Create(ctx, admin); err != nil {
		s.logger.Error("provision tenant superadmin failed", zap.Error(err))
		return CreatedTenantResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return CreatedTenantResponse{}, err
	}

	s.logger.Info("tenant created",
		zap.String("tenant_id", t.ID.String()),
		zap.String("superadmin_id", admin.ID.String()),
	)

	resp := CreatedTenantResponse{TenantResponse: mapToResponse(*t)}
	resp.Superadmin = user.CreatedUserResponse{
		UserResponse: user.UserResponse{
			ID:       admin.ID.String(),
			Name:     admin.Name,
			Role:     admin.Role,
			TenantID: strPtr(t.ID.String()),
		},
		Password: plain,
	}
	return resp, nil
}

func (s *service) List(ctx context.Context, act actor.Actor) ([]TenantResponse, error) {
	if !act.Is(actor.RoleSupertenant) {
		return nil, apperror.ErrForbidden
	}

	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]TenantResponse, len(rows))
	for i, t := range rows {
		resp[i] = mapToResponse(t)
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, act actor.Actor, id string) (TenantResponse, error) {
	if !act.Is(actor.RoleSupertenant) {
		return TenantResponse{}, apperror.ErrForbidden
	}

	t, err := s.find(ctx, id)
	if err != nil {
		return TenantResponse{}, err
	}
	return mapToResponse(*t), nil
}

func (s *service) Update(ctx context.Context, act actor.Actor, id string, req UpdateTenantRequest) (TenantResponse, error) {
	if !act.Is(actor.RoleSupertenant) {
		return TenantResponse{}, apperror.ErrForbidden
	}

	t, err := s.find(ctx, id)
	if err != nil {
		return TenantResponse{}, err
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Contact != nil {
		t.Contact = req.Contact
	}

	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.Error("update tenant failed", zap.String("tenant_id", id), zap.Error(err))
		return TenantResponse{}, err
	}
	s.logger.Info("tenant updated", zap.String("tenant_id", id))
	return mapToResponse(*t), nil
}

// Delete purges the tenant and everything it owns in one transaction,
// children before parents. Any failure rolls the whole cascade back. The
// tenant.purged event rides the same transaction through the outbox.
func (s *service) Delete(ctx context.Context, act actor.Actor, id string) error {
	if !act.Is(actor.RoleSupertenant) {
		return apperror.ErrForbidden
	}

	t, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.DeleteUsersByTenant(ctx, t.ID); err != nil {
		return err
	}

	entrepriseIDs, err := qtx.EntrepriseIDs(ctx, t.ID)
	if err != nil {
		return err
	}
	employeIDs, err := qtx.EmployeIDs(ctx, entrepriseIDs)
	if err != nil {
		return err
	}

	if _, err := qtx.DeleteDeparturesByEmployes(ctx, employeIDs); err != nil {
		return err
	}
	if _, err := qtx.DeleteAbsencesByEmployes(ctx, employeIDs); err != nil {
		return err
	}
	if _, err := qtx.DeleteAttendancesByEmployes(ctx, employeIDs); err != nil {
		return err
	}

	employesDeleted, err := qtx.DeleteEmployes(ctx, employeIDs)
	if err != nil {
		return err
	}
	entreprisesDeleted, err := qtx.DeleteEntreprises(ctx, entrepriseIDs)
	if err != nil {
		return err
	}
	if err := qtx.Delete(ctx, t.ID); err != nil {
		return err
	}

	event, err := kafka.NewOutboxEvent(
		"tenant", t.ID.String(),
		events.EventTenantPurged, events.TenantTopic,
		events.TenantPurgedEvent{
			EventType:   events.EventTenantPurged,
			TenantID:    t.ID.String(),
			Entreprises: entreprisesDeleted,
			Employes:    employesDeleted,
			OccurredAt:  s.now().UTC(),
		},
	)
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("tenant cascade delete failed", zap.String("tenant_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("tenant purged",
		zap.String("tenant_id", id),
		zap.Int64("entreprises", entreprisesDeleted),
		zap.Int64("employes", employesDeleted),
	)
	return nil
}

func (s *service) find(ctx context.Context, id string) (*Tenant, error) {
	tenantID, err := uuid.Parse(id)
	if err != nil {
		return nil, tenanterrors.ErrInvalidTenantID
	}
	t, err := s.repo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tenanterrors.ErrTenantNotFound
		}
		return nil, err
	}
	return t, nil
}

func strPtr(s string) *string {
	return &s
}

func mapToResponse(t Tenant) TenantResponse {
	return TenantResponse{
		ID:      t.ID.String(),
		Name:    t.Name,
		Contact: t.Contact,
	}
}
