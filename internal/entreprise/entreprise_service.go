package entreprise

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EternelCodeur/punch-smartly-backend/internal/actor"
	entrepriseerrors "github.com/EternelCodeur/punch-smartly-backend/internal/entreprise/errors"
	"github.com/EternelCodeur/punch-smartly-backend/internal/scope"
	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/apperror"
)

//go:generate mockgen -source=entreprise_service.go -destination=mock/entreprise_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, act actor.Actor, req CreateEntrepriseRequest) (EntrepriseResponse, error)
	List(ctx context.Context, act actor.Actor, q ListQuery) ([]EntrepriseResponse, error)
	Get(ctx context.Context, act actor.Actor, id string) (EntrepriseResponse, error)
	Update(ctx context.Context, act actor.Actor, id string, req UpdateEntrepriseRequest) (EntrepriseResponse, error)
	Delete(ctx context.Context, act actor.Actor, id string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("entreprise.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("entreprise.service")
	}
	return &service{db: db, repo: repo, logger: l, now: time.Now}
}

// Create adds an entreprise. A superadmin is always pinned to their own
// tenant; only a supertenant may pick the tenant freely.
func (s *service) Create(ctx context.Context, act actor.Actor, req CreateEntrepriseRequest) (EntrepriseResponse, error) {
	if !act.Is(actor.RoleSupertenant, actor.RoleSuperadmin) {
		return EntrepriseResponse{}, apperror.ErrForbidden
	}

	var tenantID *uuid.UUID
	switch act.Role {
	case actor.RoleSuperadmin:
		if act.TenantID == nil {
			return EntrepriseResponse{}, apperror.ErrForbidden
		}
		tenantID = act.TenantID
	default:
		if req.TenantID != nil && *req.TenantID != "" {
			id, err := uuid.Parse(*req.TenantID)
			if err != nil {
				return EntrepriseResponse{}, entrepriseerrors.ErrInvalidTenantID
			}
			tenantID = &id
		}
	}

	e := &Entreprise{
		ID:       uuid.New(),
		TenantID: tenantID,
		Name:     req.Name,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("create entreprise failed", zap.Error(err))
		return EntrepriseResponse{}, err
	}

	s.logger.Info("entreprise created",
		zap.String("entreprise_id", e.ID.String()),
		zap.String("actor_id", act.UserID.String()),
	)
	return mapToResponse(*e), nil
}

func (s *service) List(ctx context.Context, act actor.Actor, q ListQuery) ([]EntrepriseResponse, error) {
	sc := scope.Resolve(act)

	rows, err := s.repo.FindAll(ctx, sc, ListFilter{TenantID: q.TenantID, Search: q.Search})
	if err != nil {
		return nil, err
	}

	resp := make([]EntrepriseResponse, len(rows))
	for i, e := range rows {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, act actor.Actor, id string) (EntrepriseResponse, error) {
	e, err := s.find(ctx, id)
	if err != nil {
		return EntrepriseResponse{}, err
	}
	eID := e.ID
	if !scope.Resolve(act).Covers(e.TenantID, &eID) {
		return EntrepriseResponse{}, apperror.ErrForbidden
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, act actor.Actor, id string, req UpdateEntrepriseRequest) (EntrepriseResponse, error) {
	if !act.Is(actor.RoleSupertenant, actor.RoleSuperadmin) {
		return EntrepriseResponse{}, apperror.ErrForbidden
	}

	e, err := s.find(ctx, id)
	if err != nil {
		return EntrepriseResponse{}, err
	}
	eID := e.ID
	if !scope.Resolve(act).Covers(e.TenantID, &eID) {
		return EntrepriseResponse{}, apperror.ErrForbidden
	}

	if req.Name != nil {
		e.Name = *req.Name
	}
	// Only a supertenant may move an entreprise between tenants.
	if req.TenantID != nil && act.Role == actor.RoleSupertenant {
		if *req.TenantID == "" {
			e.TenantID = nil
		} else {
			tid, err := uuid.Parse(*req.TenantID)
			if err != nil {
				return EntrepriseResponse{}, entrepriseerrors.ErrInvalidTenantID
			}
			e.TenantID = &tid
		}
	}

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("update entreprise failed", zap.String("entreprise_id", id), zap.Error(err))
		return EntrepriseResponse{}, err
	}
	s.logger.Info("entreprise updated", zap.String("entreprise_id", id))
	return mapToResponse(*e), nil
}

func (s *service) Delete(ctx context.Context, act actor.Actor, id string) error {
	if !act.Is(actor.RoleSupertenant, actor.RoleSuperadmin) {
		return apperror.ErrForbidden
	}

	e, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	eID := e.ID
	if !scope.Resolve(act).Covers(e.TenantID, &eID) {
		return apperror.ErrForbidden
	}

	if err := s.repo.Delete(ctx, e.ID); err != nil {
		s.logger.Error("delete entreprise failed", zap.String("entreprise_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("entreprise deleted", zap.String("entreprise_id", id))
	return nil
}

func (s *service) find(ctx context.Context, id string) (*Entreprise, error) {
	entrepriseID, err := uuid.Parse(id)
	if err != nil {
		return nil, entrepriseerrors.ErrInvalidEntrepriseID
	}
	e, err := s.repo.FindByID(ctx, entrepriseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entrepriseerrors.ErrEntrepriseNotFound
		}
		return nil, err
	}
	return e, nil
}

func mapToResponse(e Entreprise) EntrepriseResponse {
	resp := EntrepriseResponse{
		ID:   e.ID.String(),
		Name: e.Name,
	}
	if e.TenantID != nil {
		v := e.TenantID.String()
		resp.TenantID = &v
	}
	return resp
}
