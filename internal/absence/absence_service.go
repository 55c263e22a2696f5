package absence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EternelCodeur/punch-smartly-backend/internal/actor"
	absenceerrors "github.com/EternelCodeur/punch-smartly-backend/internal/absence/errors"
	"github.com/EternelCodeur/punch-smartly-backend/internal/employe"
	employeerrors "github.com/EternelCodeur/punch-smartly-backend/internal/employe/errors"
	"github.com/EternelCodeur/punch-smartly-backend/internal/scope"
	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/apperror"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

//go:generate mockgen -source=absence_service.go -destination=mock/absence_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, act actor.Actor, req CreateAbsenceRequest) ([]AbsenceResponse, error)
	List(ctx context.Context, act actor.Actor, q ListQuery) ([]AbsenceResponse, error)
	Get(ctx context.Context, act actor.Actor, id string) (AbsenceResponse, error)
	Update(ctx context.Context, act actor.Actor, id string, req UpdateAbsenceRequest) (AbsenceResponse, error)
	Delete(ctx context.Context, act actor.Actor, id string) error
}

type service struct {
	db       *gorm.DB
	repo     Repository
	employes employe.Repository
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(db *gorm.DB, repo Repository, employes employe.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("absence.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("absence.service")
	}
	return &service{db: db, repo: repo, employes: employes, logger: l, now: time.Now}
}

// Create records an absence for a single date or expands a
// [start_date, end_date] range into one row per day inside one transaction.
// Days already recorded are left untouched.
func (s *service) Create(ctx context.Context, act actor.Actor, req CreateAbsenceRequest) ([]AbsenceResponse, error) {
	employeID, err := uuid.Parse(req.EmployeID)
	if err != nil {
		return nil, absenceerrors.ErrInvalidEmployeID
	}

	own, err := s.employes.ResolveOwnership(ctx, employeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeerrors.ErrEmployeNotFound
		}
		return nil, err
	}
	if !scope.Resolve(act).Covers(own.TenantID, own.EntrepriseID) {
		return nil, apperror.ErrForbidden
	}

	from, to, err := resolveRange(req)
	if err != nil {
		return nil, err
	}

	status := DefaultStatus
	if req.Status != nil && *req.Status != "" {
		status = *req.Status
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	var resp []AbsenceResponse
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		a, _, err := qtx.GetOrCreate(ctx, employeID, d.Format(dateLayout), status, req.Reason)
		if err != nil {
			s.logger.Error("create absence failed",
				zap.String("employe_id", employeID.String()),
				zap.String("date", d.Format(dateLayout)),
				zap.Error(err),
			)
			return nil, err
		}
		resp = append(resp, mapToResponse(*a))
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.logger.Info("absence recorded",
		zap.String("employe_id", employeID.String()),
		zap.String("from", from.Format(dateLayout)),
		zap.String("to", to.Format(dateLayout)),
		zap.Int("days", len(resp)),
	)
	return resp, nil
}

func resolveRange(req CreateAbsenceRequest) (time.Time, time.Time, error) {
	if req.Date != nil && *req.Date != "" {
		d, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return time.Time{}, time.Time{}, absenceerrors.ErrInvalidDate
		}
		return d, d, nil
	}

	if req.StartDate == nil || req.EndDate == nil {
		return time.Time{}, time.Time{}, absenceerrors.ErrMissingDate
	}
	from, err := time.Parse(dateLayout, *req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, absenceerrors.ErrInvalidDate
	}
	to, err := time.Parse(dateLayout, *req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, absenceerrors.ErrInvalidDate
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, absenceerrors.ErrInvalidRange
	}
	return from, to, nil
}

func (s *service) List(ctx context.Context, act actor.Actor, q ListQuery) ([]AbsenceResponse, error) {
	sc := scope.Resolve(act)

	f := ListFilter{
		EmployeID:    q.EmployeID,
		EntrepriseID: q.EntrepriseID,
		From:         q.From,
		To:           q.To,
	}
	if q.Month != "" {
		first, err := time.Parse(monthLayout, q.Month)
		if err != nil {
			return nil, absenceerrors.ErrInvalidDate
		}
		f.From = first.Format(dateLayout)
		f.To = first.AddDate(0, 1, -1).Format(dateLayout)
	}

	rows, err := s.repo.FindAll(ctx, sc, f)
	if err != nil {
		return nil, err
	}

	resp := make([]AbsenceResponse, len(rows))
	for i, a := range rows {
		resp[i] = mapToResponse(a)
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, act actor.Actor, id string) (AbsenceResponse, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return AbsenceResponse{}, err
	}
	if !scope.Resolve(act).Covers(ownershipOf(a)) {
		return AbsenceResponse{}, apperror.ErrForbidden
	}
	return mapToResponse(*a), nil
}

func (s *service) Update(ctx context.Context, act actor.Actor, id string, req UpdateAbsenceRequest) (AbsenceResponse, error) {
	if !act.Is(actor.RoleSupertenant, actor.RoleSuperadmin, actor.RoleAdmin) {
		return AbsenceResponse{}, apperror.ErrForbidden
	}

	a, err := s.find(ctx, id)
	if err != nil {
		return AbsenceResponse{}, err
	}
	if !scope.Resolve(act).Covers(ownershipOf(a)) {
		return AbsenceResponse{}, apperror.ErrForbidden
	}

	if req.Date != nil {
		d, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return AbsenceResponse{}, absenceerrors.ErrInvalidDate
		}
		a.Date = d
	}
	if req.Status != nil && *req.Status != "" {
		a.Status = *req.Status
	}
	if req.Reason != nil {
		a.Reason = req.Reason
	}

	if err := s.repo.Update(ctx, a); err != nil {
		s.logger.Error("update absence failed", zap.String("absence_id", id), zap.Error(err))
		return AbsenceResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) Delete(ctx context.Context, act actor.Actor, id string) error {
	if !act.Is(actor.RoleSupertenant, actor.RoleSuperadmin, actor.RoleAdmin) {
		return apperror.ErrForbidden
	}

	a, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !scope.Resolve(act).Covers(ownershipOf(a)) {
		return apperror.ErrForbidden
	}

	if err := s.repo.Delete(ctx, a.ID); err != nil {
		s.logger.Error("delete absence failed", zap.String("absence_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("absence deleted", zap.String("absence_id", id))
	return nil
}

func (s *service) find(ctx context.Context, id string) (*Absence, error) {
	absenceID, err := uuid.Parse(id)
	if err != nil {
		return nil, absenceerrors.ErrInvalidAbsenceID
	}
	a, err := s.repo.FindByID(ctx, absenceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, absenceerrors.ErrAbsenceNotFound
		}
		return nil, err
	}
	return a, nil
}

func ownershipOf(a *Absence) (tenantID, entrepriseID *uuid.UUID) {
	if a.Employe == nil {
		return nil, nil
	}
	if a.Employe.Entreprise != nil {
		tenantID = a.Employe.Entreprise.TenantID
	}
	return tenantID, a.Employe.EntrepriseID
}

func mapToResponse(a Absence) AbsenceResponse {
	return AbsenceResponse{
		ID:        a.ID.String(),
		EmployeID: a.EmployeID.String(),
		Date:      a.Date.Format(dateLayout),
		Status:    a.Status,
		Reason:    a.Reason,
	}
}
