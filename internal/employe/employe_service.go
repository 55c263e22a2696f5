package employe

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EternelCodeur/punch-smartly-backend/internal/actor"
	employeerrors "github.com/EternelCodeur/punch-smartly-backend/internal/employe/errors"
	"github.com/EternelCodeur/punch-smartly-backend/internal/scope"
	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/apperror"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=employe_service.go -destination=mock/employe_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, act actor.Actor, q ListQuery) ([]EmployeResponse, error)
	TodayCounts(ctx context.Context, act actor.Actor, entrepriseID *uuid.UUID, normalize bool) (TodayCountsResponse, error)
	Normalize(ctx context.Context, act actor.Actor, entrepriseID *uuid.UUID) (int64, error)
	Create(ctx context.Context, act actor.Actor, req CreateEmployeRequest) (EmployeResponse, error)
	Get(ctx context.Context, act actor.Actor, id string) (EmployeResponse, error)
	Update(ctx context.Context, act actor.Actor, id string, req UpdateEmployeRequest) (EmployeResponse, error)
	Delete(ctx context.Context, act actor.Actor, id string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employe.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employe.service")
	}
	return &service{db: db, repo: repo, logger: l, now: time.Now}
}

func (s *service) today() string {
	return s.now().UTC().Format(dateLayout)
}

// Normalize is the explicit daily reset: every scoped employe not yet stamped
// for today gets attendance_date=today with both signed flags cleared. It must
// run before any present/absent/left filter or counts query for the same
// scope, and running it twice for one day is a no-op the second time.
func (s *service) Normalize(ctx context.Context, act actor.Actor, entrepriseID *uuid.UUID) (int64, error) {
	sc := scope.Resolve(act)
	if act.Role == actor.RoleUser {
		entrepriseID = act.EnterpriseID
	}

	affected, err := s.repo.NormalizeDailyStatus(ctx, sc, entrepriseID, s.today())
	if err != nil {
		s.logger.Error("daily status normalization failed", zap.Error(err))
		return 0, err
	}
	if affected > 0 {
		s.logger.Debug("daily status normalized",
			zap.Int64("rows", affected),
			zap.String("date", s.today()),
		)
	}
	return affected, nil
}

func (s *service) List(ctx context.Context, act actor.Actor, q ListQuery) ([]EmployeResponse, error) {
	sc := scope.Resolve(act)
	if act.Role == actor.RoleUser {
		q.EntrepriseID = act.EnterpriseID
	}

	if q.NormalizeToday {
		if _, err := s.Normalize(ctx, act, q.EntrepriseID); err != nil {
			return nil, err
		}
	}

	rows, err := s.repo.FindAll(ctx, sc, ListFilter{
		Search:               q.Search,
		EntrepriseID:         q.EntrepriseID,
		Status:               q.Status,
		ForDeparture:         q.ForDeparture,
		ExcludeDepartedToday: q.ExcludeDepartedToday,
		Today:                s.today(),
	})
	if err != nil {
		return nil, err
	}

	resp := make([]EmployeResponse, len(rows))
	for i, e := range rows {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

func (s *service) TodayCounts(ctx context.Context, act actor.Actor, entrepriseID *uuid.UUID, normalize bool) (TodayCountsResponse, error) {
	sc := scope.Resolve(act)
	if act.Role == actor.RoleUser {
		entrepriseID = act.EnterpriseID
	}

	// Counts classify by attendance_date=today, so stale rows must be reset
	// first or a day rollover reports yesterday's signatures.
	if normalize {
		if _, err := s.Normalize(ctx, act, entrepriseID); err != nil {
			return TodayCountsResponse{}, err
		}
	}

	counts, err := s.repo.CountsToday(ctx, sc, entrepriseID, s.today())
	if err != nil {
		s.logger.Error("today counts failed", zap.Error(err))
		return TodayCountsResponse{}, err
	}

	return TodayCountsResponse{
		Date:           s.today(),
		TotalEmployees: counts.TotalEmployees,
		PresentToday:   counts.PresentToday,
		AbsentToday:    counts.AbsentToday,
		LeftToday:      counts.LeftToday,
	}, nil
}

func (s *service) Create(ctx context.Context, act actor.Actor, req CreateEmployeRequest) (EmployeResponse, error) {
	if !act.Is(actor.RoleSupertenant, actor.RoleSuperadmin, actor.RoleAdmin) {
		return EmployeResponse{}, apperror.ErrForbidden
	}

	var entrepriseID *uuid.UUID
	if req.EntrepriseID != nil && *req.EntrepriseID != "" {
		id, err := uuid.Parse(*req.EntrepriseID)
		if err != nil {
			return EmployeResponse{}, employeerrors.ErrInvalidEntrepriseID
		}
		entrepriseID = &id
	}

	// Tenant-bound roles may only attach employes to entreprises of their
	// own tenant; a missing tenant id denies outright.
	if entrepriseID != nil && act.Is(actor.RoleSuperadmin, actor.RoleAdmin) {
		if act.TenantID == nil {
			return EmployeResponse{}, apperror.ErrForbidden
		}
		ok, err := s.repo.EntrepriseInTenant(ctx, *entrepriseID, *act.TenantID)
		if err != nil {
			return EmployeResponse{}, err
		}
		if !ok {
			return EmployeResponse{}, employeerrors.ErrEntrepriseOutsideTenant
		}
	}

	e := &Employe{
		ID:           uuid.New(),
		EntrepriseID: entrepriseID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Position:     req.Position,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("create employe failed", zap.Error(err))
		return EmployeResponse{}, err
	}

	s.logger.Info("employe created",
		zap.String("employe_id", e.ID.String()),
		zap.String("actor_id", act.UserID.String()),
	)
	return mapToResponse(*e), nil
}

func (s *service) Get(ctx context.Context, act actor.Actor, id string) (EmployeResponse, error) {
	employeID, err := uuid.Parse(id)
	if err != nil {
		return EmployeResponse{}, employeerrors.ErrInvalidEmployeID
	}

	e, err := s.repo.FindByID(ctx, employeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeResponse{}, employeerrors.ErrEmployeNotFound
		}
		return EmployeResponse{}, err
	}

	if !scope.Resolve(act).Covers(ownershipOf(e)) {
		return EmployeResponse{}, apperror.ErrForbidden
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, act actor.Actor, id string, req UpdateEmployeRequest) (EmployeResponse, error) {
	if !act.Is(actor.RoleSupertenant, actor.RoleSuperadmin, actor.RoleAdmin) {
		return EmployeResponse{}, apperror.ErrForbidden
	}

	employeID, err := uuid.Parse(id)
	if err != nil {
		return EmployeResponse{}, employeerrors.ErrInvalidEmployeID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return EmployeResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByID(ctx, employeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeResponse{}, employeerrors.ErrEmployeNotFound
		}
		return EmployeResponse{}, err
	}

	sc := scope.Resolve(act)
	if !sc.Covers(ownershipOf(e)) {
		return EmployeResponse{}, apperror.ErrForbidden
	}

	if req.EntrepriseID != nil {
		if *req.EntrepriseID == "" {
			e.EntrepriseID = nil
			e.Entreprise = nil
		} else {
			targetID, err := uuid.Parse(*req.EntrepriseID)
			if err != nil {
				return EmployeResponse{}, employeerrors.ErrInvalidEntrepriseID
			}
			if act.Is(actor.RoleSuperadmin, actor.RoleAdmin) {
				if act.TenantID == nil {
					return EmployeResponse{}, apperror.ErrForbidden
				}
				ok, err := qtx.EntrepriseInTenant(ctx, targetID, *act.TenantID)
				if err != nil {
					return EmployeResponse{}, err
				}
				if !ok {
					return EmployeResponse{}, employeerrors.ErrEntrepriseOutsideTenant
				}
			}
			e.EntrepriseID = &targetID
			e.Entreprise = nil
		}
	}
	if req.FirstName != nil {
		e.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		e.LastName = *req.LastName
	}
	if req.Position != nil {
		e.Position = req.Position
	}

	if err := qtx.Update(ctx, e); err != nil {
		s.logger.Error("update employe failed", zap.String("employe_id", id), zap.Error(err))
		return EmployeResponse{}, err
	}
	if err := tx.Commit().Error; err != nil {
		return EmployeResponse{}, err
	}

	s.logger.Info("employe updated", zap.String("employe_id", id))
	return mapToResponse(*e), nil
}

func (s *service) Delete(ctx context.Context, act actor.Actor, id string) error {
	if !act.Is(actor.RoleSupertenant, actor.RoleSuperadmin, actor.RoleAdmin) {
		return apperror.ErrForbidden
	}

	employeID, err := uuid.Parse(id)
	if err != nil {
		return employeerrors.ErrInvalidEmployeID
	}

	own, err := s.repo.ResolveOwnership(ctx, employeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return employeerrors.ErrEmployeNotFound
		}
		return err
	}
	if !scope.Resolve(act).Covers(own.TenantID, own.EntrepriseID) {
		return apperror.ErrForbidden
	}

	if err := s.repo.Delete(ctx, employeID); err != nil {
		s.logger.Error("delete employe failed", zap.String("employe_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("employe deleted", zap.String("employe_id", id))
	return nil
}

func ownershipOf(e *Employe) (tenantID, entrepriseID *uuid.UUID) {
	if e.Entreprise != nil {
		tenantID = e.Entreprise.TenantID
	}
	return tenantID, e.EntrepriseID
}

func mapToResponse(e Employe) EmployeResponse {
	resp := EmployeResponse{
		ID:              e.ID.String(),
		FirstName:       e.FirstName,
		LastName:        e.LastName,
		Position:        e.Position,
		ArrivalSigned:   e.ArrivalSigned,
		DepartureSigned: e.DepartureSigned,
	}
	if e.EntrepriseID != nil {
		v := e.EntrepriseID.String()
		resp.EntrepriseID = &v
	}
	if e.AttendanceDate != nil {
		v := e.AttendanceDate.Format(dateLayout)
		resp.AttendanceDate = &v
	}
	if e.Entreprise != nil {
		resp.Entreprise = &EntrepriseSummary{
			ID:   e.Entreprise.ID.String(),
			Name: e.Entreprise.Name,
		}
	}
	return resp
}
