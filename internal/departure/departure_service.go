package departure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EternelCodeur/punch-smartly-backend/internal/actor"
	departureerrors "github.com/EternelCodeur/punch-smartly-backend/internal/departure/errors"
	"github.com/EternelCodeur/punch-smartly-backend/internal/employe"
	employeerrors "github.com/EternelCodeur/punch-smartly-backend/internal/employe/errors"
	"github.com/EternelCodeur/punch-smartly-backend/internal/events"
	"github.com/EternelCodeur/punch-smartly-backend/internal/messaging/kafka"
	"github.com/EternelCodeur/punch-smartly-backend/internal/scope"
	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/apperror"
	"github.com/EternelCodeur/punch-smartly-backend/internal/signature"
)

const (
	dateLayout  = "2006-01-02"
	timeLayout  = "15:04"
	monthLayout = "2006-01"
)

//go:generate mockgen -source=departure_service.go -destination=mock/departure_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, act actor.Actor, req CreateDepartureRequest) (DepartureResponse, error)
	MarkReturn(ctx context.Context, act actor.Actor, id string, req ReturnRequest) (DepartureResponse, error)
	List(ctx context.Context, act actor.Actor, q ListQuery) ([]DepartureResponse, error)
	Get(ctx context.Context, act actor.Actor, id string) (DepartureResponse, error)
	Update(ctx context.Context, act actor.Actor, id string, req UpdateDepartureRequest) (DepartureResponse, error)
	Delete(ctx context.Context, act actor.Actor, id string) error
}

type service struct {
	db       *gorm.DB
	repo     Repository
	employes employe.Repository
	outbox   kafka.OutboxRepository
	ingestor *signature.Ingestor
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(
	db *gorm.DB,
	repo Repository,
	employes employe.Repository,
	outbox kafka.OutboxRepository,
	ingestor *signature.Ingestor,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("departure.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("departure.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		employes: employes,
		outbox:   outbox,
		ingestor: ingestor,
		logger:   l,
		now:      time.Now,
	}
}

// Create opens a temporary departure dated today.
func (s *service) Create(ctx context.Context, act actor.Actor, req CreateDepartureRequest) (DepartureResponse, error) {
	employeID, err := uuid.Parse(req.EmployeID)
	if err != nil {
		return DepartureResponse{}, departureerrors.ErrInvalidEmployeID
	}

	own, err := s.employes.ResolveOwnership(ctx, employeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartureResponse{}, employeerrors.ErrEmployeNotFound
		}
		return DepartureResponse{}, err
	}
	if !scope.Resolve(act).Covers(own.TenantID, own.EntrepriseID) {
		return DepartureResponse{}, apperror.ErrForbidden
	}

	n := s.now().UTC()
	departureTime := n.Format(timeLayout)
	if req.DepartureTime != nil && *req.DepartureTime != "" {
		if _, err := time.Parse(timeLayout, *req.DepartureTime); err != nil {
			return DepartureResponse{}, departureerrors.ErrInvalidTime
		}
		departureTime = *req.DepartureTime
	}

	d := &TemporaryDeparture{
		ID:            uuid.New(),
		EmployeID:     employeID,
		Date:          time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC),
		DepartureTime: departureTime,
		Reason:        req.Reason,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		s.logger.Error("create temporary departure failed",
			zap.String("employe_id", employeID.String()),
			zap.Error(err),
		)
		return DepartureResponse{}, err
	}

	s.logger.Info("temporary departure opened",
		zap.String("departure_id", d.ID.String()),
		zap.String("employe_id", employeID.String()),
	)
	return mapToResponse(*d), nil
}

// MarkReturn closes the departure exactly once. The row is locked for the
// transaction, so a concurrent second return sees the stamp and conflicts.
// Signature ingestion is best effort: a nil artifact never blocks the commit.
func (s *service) MarkReturn(ctx context.Context, act actor.Actor, id string, req ReturnRequest) (DepartureResponse, error) {
	departureID, err := uuid.Parse(id)
	if err != nil {
		return DepartureResponse{}, departureerrors.ErrInvalidDepartureID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return DepartureResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	d, err := qtx.LockByID(ctx, departureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartureResponse{}, departureerrors.ErrDepartureNotFound
		}
		return DepartureResponse{}, err
	}

	own, err := s.employes.WithTx(tx).ResolveOwnership(ctx, d.EmployeID)
	if err != nil {
		return DepartureResponse{}, err
	}
	if !scope.Resolve(act).Covers(own.TenantID, own.EntrepriseID) {
		return DepartureResponse{}, apperror.ErrForbidden
	}

	if d.ReturnTime != nil {
		return DepartureResponse{}, departureerrors.ErrAlreadyReturned
	}

	returnTime := s.now().UTC().Format(timeLayout)
	if req.ReturnTime != nil && *req.ReturnTime != "" {
		if _, err := time.Parse(timeLayout, *req.ReturnTime); err != nil {
			return DepartureResponse{}, departureerrors.ErrInvalidTime
		}
		returnTime = *req.ReturnTime
	}

	d.ReturnTime = &returnTime
	d.ReturnSignature = req.Signature
	if req.Signature != nil {
		prefix := fmt.Sprintf("signatures/%s_%s_return", d.EmployeID, d.Date.Format(dateLayout))
		d.ReturnSignatureFileURL = s.ingestor.Ingest(ctx, *req.Signature, prefix)
	}

	if err := qtx.Update(ctx, d); err != nil {
		s.logger.Error("mark return failed", zap.String("departure_id", id), zap.Error(err))
		return DepartureResponse{}, err
	}

	event, err := kafka.NewOutboxEvent(
		"temporary_departure", d.ID.String(),
		events.EventDepartureReturned, events.DepartureTopic,
		events.DepartureReturnedEvent{
			EventType:   events.EventDepartureReturned,
			DepartureID: d.ID.String(),
			EmployeID:   d.EmployeID.String(),
			Date:        d.Date.Format(dateLayout),
			ReturnTime:  returnTime,
			OccurredAt:  s.now().UTC(),
		},
	)
	if err != nil {
		return DepartureResponse{}, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		return DepartureResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return DepartureResponse{}, err
	}

	s.logger.Info("temporary departure closed",
		zap.String("departure_id", id),
		zap.String("return_time", returnTime),
	)
	return mapToResponse(*d), nil
}

func (s *service) List(ctx context.Context, act actor.Actor, q ListQuery) ([]DepartureResponse, error) {
	sc := scope.Resolve(act)

	f := ListFilter{
		EmployeID:    q.EmployeID,
		EntrepriseID: q.EntrepriseID,
		From:         q.From,
		To:           q.To,
		OpenOnly:     q.OpenOnly,
	}
	if q.Month != "" {
		first, err := time.Parse(monthLayout, q.Month)
		if err != nil {
			return nil, apperror.InvalidField("month")
		}
		f.From = first.Format(dateLayout)
		f.To = first.AddDate(0, 1, -1).Format(dateLayout)
	}

	rows, err := s.repo.FindAll(ctx, sc, f)
	if err != nil {
		return nil, err
	}

	resp := make([]DepartureResponse, len(rows))
	for i, d := range rows {
		resp[i] = mapToResponse(d)
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, act actor.Actor, id string) (DepartureResponse, error) {
	d, err := s.find(ctx, id)
	if err != nil {
		return DepartureResponse{}, err
	}
	if !scope.Resolve(act).Covers(ownershipOf(d)) {
		return DepartureResponse{}, apperror.ErrForbidden
	}
	return mapToResponse(*d), nil
}

func (s *service) Update(ctx context.Context, act actor.Actor, id string, req UpdateDepartureRequest) (DepartureResponse, error) {
	if !act.Is(actor.RoleSupertenant, actor.RoleSuperadmin, actor.RoleAdmin) {
		return DepartureResponse{}, apperror.ErrForbidden
	}

	d, err := s.find(ctx, id)
	if err != nil {
		return DepartureResponse{}, err
	}
	if !scope.Resolve(act).Covers(ownershipOf(d)) {
		return DepartureResponse{}, apperror.ErrForbidden
	}

	if req.DepartureTime != nil {
		if _, err := time.Parse(timeLayout, *req.DepartureTime); err != nil {
			return DepartureResponse{}, departureerrors.ErrInvalidTime
		}
		d.DepartureTime = *req.DepartureTime
	}
	if req.ReturnTime != nil {
		if *req.ReturnTime == "" {
			d.ReturnTime = nil
		} else {
			if _, err := time.Parse(timeLayout, *req.ReturnTime); err != nil {
				return DepartureResponse{}, departureerrors.ErrInvalidTime
			}
			d.ReturnTime = req.ReturnTime
		}
	}
	if req.Reason != nil {
		d.Reason = req.Reason
	}

	if err := s.repo.Update(ctx, d); err != nil {
		s.logger.Error("update temporary departure failed", zap.String("departure_id", id), zap.Error(err))
		return DepartureResponse{}, err
	}
	return mapToResponse(*d), nil
}

func (s *service) Delete(ctx context.Context, act actor.Actor, id string) error {
	if !act.Is(actor.RoleSupertenant, actor.RoleSuperadmin, actor.RoleAdmin) {
		return apperror.ErrForbidden
	}

	d, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !scope.Resolve(act).Covers(ownershipOf(d)) {
		return apperror.ErrForbidden
	}

	if err := s.repo.Delete(ctx, d.ID); err != nil {
		s.logger.Error("delete temporary departure failed", zap.String("departure_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("temporary departure deleted", zap.String("departure_id", id))
	return nil
}

func (s *service) find(ctx context.Context, id string) (*TemporaryDeparture, error) {
	departureID, err := uuid.Parse(id)
	if err != nil {
		return nil, departureerrors.ErrInvalidDepartureID
	}
	d, err := s.repo.FindByID(ctx, departureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, departureerrors.ErrDepartureNotFound
		}
		return nil, err
	}
	return d, nil
}

func ownershipOf(d *TemporaryDeparture) (tenantID, entrepriseID *uuid.UUID) {
	if d.Employe == nil {
		return nil, nil
	}
	if d.Employe.Entreprise != nil {
		tenantID = d.Employe.Entreprise.TenantID
	}
	return tenantID, d.Employe.EntrepriseID
}

func mapToResponse(d TemporaryDeparture) DepartureResponse {
	resp := DepartureResponse{
		ID:            d.ID.String(),
		EmployeID:     d.EmployeID.String(),
		Date:          d.Date.Format(dateLayout),
		DepartureTime: d.DepartureTime,
		Reason:        d.Reason,
		ReturnTime:    d.ReturnTime,
	}
	if d.ReturnSignatureFileURL != nil {
		resp.ReturnSignature = d.ReturnSignatureFileURL
	} else {
		resp.ReturnSignature = d.ReturnSignature
	}
	return resp
}
