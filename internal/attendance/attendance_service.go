package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EternelCodeur/punch-smartly-backend/internal/absence"
	"github.com/EternelCodeur/punch-smartly-backend/internal/actor"
	attendanceerrors "github.com/EternelCodeur/punch-smartly-backend/internal/attendance/errors"
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

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, act actor.Actor, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, act actor.Actor, req CheckInRequest) (AttendanceResponse, error)
	CheckInOnField(ctx context.Context, act actor.Actor, req CheckInRequest) (AttendanceResponse, error)
	Summary(ctx context.Context, act actor.Actor, employeID string, month string) (SummaryResponse, error)
	List(ctx context.Context, act actor.Actor, q ListQuery) ([]AttendanceResponse, error)
	Create(ctx context.Context, act actor.Actor, req CreateAttendanceRequest) (AttendanceResponse, error)
	Get(ctx context.Context, act actor.Actor, id string) (AttendanceResponse, error)
	Update(ctx context.Context, act actor.Actor, id string, req UpdateAttendanceRequest) (AttendanceResponse, error)
	Delete(ctx context.Context, act actor.Actor, id string) error
}

type service struct {
	db       *gorm.DB
	repo     Repository
	employes employe.Repository
	absences absence.Repository
	outbox   kafka.OutboxRepository
	ingestor *signature.Ingestor
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(
	db *gorm.DB,
	repo Repository,
	employes employe.Repository,
	absences absence.Repository,
	outbox kafka.OutboxRepository,
	ingestor *signature.Ingestor,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		employes: employes,
		absences: absences,
		outbox:   outbox,
		ingestor: ingestor,
		logger:   l,
		now:      time.Now,
	}
}

func (s *service) today() time.Time {
	n := s.now().UTC()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// resolveTarget checks that the employe exists and is visible to the actor.
func (s *service) resolveTarget(ctx context.Context, act actor.Actor, rawID string) (uuid.UUID, error) {
	employeID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, attendanceerrors.ErrInvalidEmployeID
	}

	own, err := s.employes.ResolveOwnership(ctx, employeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, employeerrors.ErrEmployeNotFound
		}
		return uuid.Nil, err
	}
	if !scope.Resolve(act).Covers(own.TenantID, own.EntrepriseID) {
		return uuid.Nil, apperror.ErrForbidden
	}
	return employeID, nil
}

func (s *service) resolveDate(raw *string) (time.Time, error) {
	if raw == nil || *raw == "" {
		return s.today(), nil
	}
	d, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidDate
	}
	return d, nil
}

// CheckIn records the arrival for the requested date (today by default).
// The row, the employe's daily flags and the outbox event commit together;
// a second check-in for the same day is a conflict.
func (s *service) CheckIn(ctx context.Context, act actor.Actor, req CheckInRequest) (AttendanceResponse, error) {
	employeID, err := s.resolveTarget(ctx, act, req.EmployeID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	date, err := s.resolveDate(req.Date)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return AttendanceResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.GetOrCreate(ctx, employeID, date)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if a.CheckInAt != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	}

	at := s.now().UTC()
	a.CheckInAt = &at
	a.CheckInSignature = req.Signature
	if req.Signature != nil {
		a.CheckInSignatureFileURL = s.ingestor.Ingest(ctx, *req.Signature, s.signaturePrefix(employeID, date, "in"))
	}

	if err := qtx.Update(ctx, a); err != nil {
		s.logger.Error("check-in failed", zap.String("employe_id", employeID.String()), zap.Error(err))
		return AttendanceResponse{}, err
	}

	if err := s.markArrival(ctx, tx, employeID, date); err != nil {
		return AttendanceResponse{}, err
	}

	if err := s.enqueueCheckedIn(ctx, tx, a); err != nil {
		return AttendanceResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("check-in recorded",
		zap.String("employe_id", employeID.String()),
		zap.String("date", date.Format(dateLayout)),
	)
	return mapToResponse(*a), nil
}

// CheckOut records the departure. It refuses when no check-in exists for the
// date and when the departure was already recorded.
func (s *service) CheckOut(ctx context.Context, act actor.Actor, req CheckInRequest) (AttendanceResponse, error) {
	employeID, err := s.resolveTarget(ctx, act, req.EmployeID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	date, err := s.resolveDate(req.Date)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return AttendanceResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindByEmployeAndDate(ctx, employeID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNotCheckedIn
		}
		return AttendanceResponse{}, err
	}
	if a.CheckInAt == nil {
		return AttendanceResponse{}, attendanceerrors.ErrNotCheckedIn
	}
	if a.CheckOutAt != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}

	at := s.now().UTC()
	a.CheckOutAt = &at
	a.CheckOutSignature = req.Signature
	if req.Signature != nil {
		a.CheckOutSignatureFileURL = s.ingestor.Ingest(ctx, *req.Signature, s.signaturePrefix(employeID, date, "out"))
	}

	if err := qtx.Update(ctx, a); err != nil {
		s.logger.Error("check-out failed", zap.String("employe_id", employeID.String()), zap.Error(err))
		return AttendanceResponse{}, err
	}

	if err := s.markDeparture(ctx, tx, employeID, date); err != nil {
		return AttendanceResponse{}, err
	}

	event, err := kafka.NewOutboxEvent(
		"attendance", a.ID.String(),
		events.EventAttendanceCheckedOut, events.AttendanceTopic,
		events.AttendanceCheckedOutEvent{
			EventType:    events.EventAttendanceCheckedOut,
			AttendanceID: a.ID.String(),
			EmployeID:    a.EmployeID.String(),
			Date:         a.Date.Format(dateLayout),
			OccurredAt:   s.now().UTC(),
		},
	)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		return AttendanceResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("check-out recorded",
		zap.String("employe_id", employeID.String()),
		zap.String("date", date.Format(dateLayout)),
	)
	return mapToResponse(*a), nil
}

// CheckInOnField is the admin shortcut for employes working off-site: the row
// is created if needed, marked on_field, and the arrival is stamped only when
// still missing. It never conflicts on an existing check-in.
func (s *service) CheckInOnField(ctx context.Context, act actor.Actor, req CheckInRequest) (AttendanceResponse, error) {
	if !act.Is(actor.RoleAdmin) {
		return AttendanceResponse{}, apperror.ErrForbidden
	}

	employeID, err := s.resolveTarget(ctx, act, req.EmployeID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	date, err := s.resolveDate(req.Date)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return AttendanceResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.GetOrCreate(ctx, employeID, date)
	if err != nil {
		return AttendanceResponse{}, err
	}

	a.OnField = true
	newCheckIn := a.CheckInAt == nil
	if newCheckIn {
		at := s.now().UTC()
		a.CheckInAt = &at
		a.CheckInSignature = req.Signature
		if req.Signature != nil {
			a.CheckInSignatureFileURL = s.ingestor.Ingest(ctx, *req.Signature, s.signaturePrefix(employeID, date, "in"))
		}
	}

	if err := qtx.Update(ctx, a); err != nil {
		s.logger.Error("on-field check-in failed", zap.String("employe_id", employeID.String()), zap.Error(err))
		return AttendanceResponse{}, err
	}

	if err := s.markArrival(ctx, tx, employeID, date); err != nil {
		return AttendanceResponse{}, err
	}

	if newCheckIn {
		if err := s.enqueueCheckedIn(ctx, tx, a); err != nil {
			return AttendanceResponse{}, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("on-field check-in recorded",
		zap.String("employe_id", employeID.String()),
		zap.String("date", date.Format(dateLayout)),
	)
	return mapToResponse(*a), nil
}

func (s *service) enqueueCheckedIn(ctx context.Context, tx *gorm.DB, a *Attendance) error {
	event, err := kafka.NewOutboxEvent(
		"attendance", a.ID.String(),
		events.EventAttendanceCheckedIn, events.AttendanceTopic,
		events.AttendanceCheckedInEvent{
			EventType:    events.EventAttendanceCheckedIn,
			AttendanceID: a.ID.String(),
			EmployeID:    a.EmployeID.String(),
			Date:         a.Date.Format(dateLayout),
			OnField:      a.OnField,
			OccurredAt:   s.now().UTC(),
		},
	)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

// markArrival syncs the employe's daily status flags with a check-in. A
// backfill for a past date leaves today's flags alone.
func (s *service) markArrival(ctx context.Context, tx *gorm.DB, employeID uuid.UUID, date time.Time) error {
	if !date.Equal(s.today()) {
		return nil
	}

	eqtx := s.employes.WithTx(tx)
	e, err := eqtx.FindByID(ctx, employeID)
	if err != nil {
		return err
	}

	if e.AttendanceDate == nil || !e.AttendanceDate.Equal(date) {
		d := date
		e.AttendanceDate = &d
		e.DepartureSigned = false
	}
	e.ArrivalSigned = true
	return eqtx.Update(ctx, e)
}

func (s *service) markDeparture(ctx context.Context, tx *gorm.DB, employeID uuid.UUID, date time.Time) error {
	if !date.Equal(s.today()) {
		return nil
	}

	eqtx := s.employes.WithTx(tx)
	e, err := eqtx.FindByID(ctx, employeID)
	if err != nil {
		return err
	}

	if e.AttendanceDate == nil || !e.AttendanceDate.Equal(date) {
		d := date
		e.AttendanceDate = &d
	}
	e.DepartureSigned = true
	return eqtx.Update(ctx, e)
}

func (s *service) signaturePrefix(employeID uuid.UUID, date time.Time, kind string) string {
	return fmt.Sprintf("signatures/%s_%s_%s", employeID, date.Format(dateLayout), kind)
}

// Summary aggregates one employe's month: per calendar day the in/out times,
// worked minutes and leave flag, plus the month total over days with both
// stamps.
func (s *service) Summary(ctx context.Context, act actor.Actor, rawEmployeID string, month string) (SummaryResponse, error) {
	employeID, err := uuid.Parse(rawEmployeID)
	if err != nil {
		return SummaryResponse{}, attendanceerrors.ErrInvalidEmployeID
	}

	e, err := s.employes.FindByID(ctx, employeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SummaryResponse{}, employeerrors.ErrEmployeNotFound
		}
		return SummaryResponse{}, err
	}

	// The enterprise gate for plain users holds regardless of the month
	// requested.
	if act.Role == actor.RoleUser {
		if act.EnterpriseID == nil || e.EntrepriseID == nil || *e.EntrepriseID != *act.EnterpriseID {
			return SummaryResponse{}, apperror.ErrForbidden
		}
	} else {
		var tenantID *uuid.UUID
		if e.Entreprise != nil {
			tenantID = e.Entreprise.TenantID
		}
		if !scope.Resolve(act).Covers(tenantID, e.EntrepriseID) {
			return SummaryResponse{}, apperror.ErrForbidden
		}
	}

	first, err := s.resolveMonth(ctx, employeID, month)
	if err != nil {
		return SummaryResponse{}, err
	}
	last := first.AddDate(0, 1, -1)
	from, to := first.Format(dateLayout), last.Format(dateLayout)

	attRows, err := s.repo.FindByEmployeAndRange(ctx, employeID, from, to)
	if err != nil {
		return SummaryResponse{}, err
	}
	absRows, err := s.absences.FindByEmployeAndRange(ctx, employeID, from, to)
	if err != nil {
		return SummaryResponse{}, err
	}

	attByDay := make(map[string]*Attendance, len(attRows))
	for i := range attRows {
		attByDay[attRows[i].Date.Format(dateLayout)] = &attRows[i]
	}
	absByDay := make(map[string]*absence.Absence, len(absRows))
	for i := range absRows {
		absByDay[absRows[i].Date.Format(dateLayout)] = &absRows[i]
	}

	resp := SummaryResponse{
		EmployeID: employeID.String(),
		Month:     first.Format(monthLayout),
		PerDay:    make([]SummaryDay, 0, last.Day()),
	}

	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		day := SummaryDay{Date: key}

		if a, ok := attByDay[key]; ok {
			day.In = formatClock(a.CheckInAt)
			day.Out = formatClock(a.CheckOutAt)
			day.InSignature = signatureRef(a.CheckInSignatureFileURL, a.CheckInSignature)
			day.OutSignature = signatureRef(a.CheckOutSignatureFileURL, a.CheckOutSignature)
			day.OnField = a.OnField
			if a.CheckInAt != nil && a.CheckOutAt != nil {
				// Worked minutes come from the displayed HH:MM stamps;
				// stored seconds never shift the count.
				in := a.CheckInAt.Truncate(time.Minute)
				out := a.CheckOutAt.Truncate(time.Minute)
				mins := int(out.Sub(in).Minutes())
				if mins < 0 {
					mins = 0
				}
				day.Mins = mins
				resp.MonthMins += mins
			}
		} else if abs, ok := absByDay[key]; ok {
			leave := true
			day.Leave = &leave
			status := abs.Status
			if status == "" {
				status = absence.DefaultStatus
			}
			day.LeaveStatus = &status
		}

		resp.PerDay = append(resp.PerDay, day)
	}

	return resp, nil
}

// resolveMonth picks the explicit month, else the month of the employe's most
// recent attendance, else the current month.
func (s *service) resolveMonth(ctx context.Context, employeID uuid.UUID, month string) (time.Time, error) {
	if month != "" {
		first, err := time.Parse(monthLayout, month)
		if err != nil {
			return time.Time{}, attendanceerrors.ErrInvalidMonth
		}
		return first, nil
	}

	latest, err := s.repo.LatestByEmploye(ctx, employeID)
	if err == nil {
		return time.Date(latest.Date.Year(), latest.Date.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, err
	}

	n := s.now().UTC()
	return time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

func (s *service) List(ctx context.Context, act actor.Actor, q ListQuery) ([]AttendanceResponse, error) {
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
			return nil, attendanceerrors.ErrInvalidMonth
		}
		f.From = first.Format(dateLayout)
		f.To = first.AddDate(0, 1, -1).Format(dateLayout)
	} else if q.EmployeID != nil && q.From == "" && q.To == "" {
		// Employee-targeted lists default to the current month.
		first := time.Date(s.now().UTC().Year(), s.now().UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
		f.From = first.Format(dateLayout)
		f.To = first.AddDate(0, 1, -1).Format(dateLayout)
	}

	rows, err := s.repo.FindAll(ctx, sc, f)
	if err != nil {
		return nil, err
	}

	resp := make([]AttendanceResponse, len(rows))
	for i, a := range rows {
		resp[i] = mapToResponse(a)
	}
	return resp, nil
}

func (s *service) Create(ctx context.Context, act actor.Actor, req CreateAttendanceRequest) (AttendanceResponse, error) {
	employeID, err := s.resolveTarget(ctx, act, req.EmployeID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDate
	}

	a := &Attendance{ID: uuid.New(), EmployeID: employeID, Date: date}
	if a.CheckInAt, err = combineClock(date, req.CheckInTime); err != nil {
		return AttendanceResponse{}, err
	}
	if a.CheckOutAt, err = combineClock(date, req.CheckOutTime); err != nil {
		return AttendanceResponse{}, err
	}
	if req.OnField != nil {
		a.OnField = *req.OnField
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if IsUniqueViolation(err) {
			return AttendanceResponse{}, attendanceerrors.ErrDuplicateAttendance
		}
		s.logger.Error("create attendance failed", zap.String("employe_id", employeID.String()), zap.Error(err))
		return AttendanceResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) Get(ctx context.Context, act actor.Actor, id string) (AttendanceResponse, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !scope.Resolve(act).Covers(ownershipOf(a)) {
		return AttendanceResponse{}, apperror.ErrForbidden
	}
	return mapToResponse(*a), nil
}

func (s *service) Update(ctx context.Context, act actor.Actor, id string, req UpdateAttendanceRequest) (AttendanceResponse, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !scope.Resolve(act).Covers(ownershipOf(a)) {
		return AttendanceResponse{}, apperror.ErrForbidden
	}

	if req.CheckInTime != nil {
		if a.CheckInAt, err = combineClock(a.Date, req.CheckInTime); err != nil {
			return AttendanceResponse{}, err
		}
	}
	if req.CheckOutTime != nil {
		if a.CheckOutAt, err = combineClock(a.Date, req.CheckOutTime); err != nil {
			return AttendanceResponse{}, err
		}
	}
	if req.OnField != nil {
		a.OnField = *req.OnField
	}

	if err := s.repo.Update(ctx, a); err != nil {
		s.logger.Error("update attendance failed", zap.String("attendance_id", id), zap.Error(err))
		return AttendanceResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) Delete(ctx context.Context, act actor.Actor, id string) error {
	a, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !scope.Resolve(act).Covers(ownershipOf(a)) {
		return apperror.ErrForbidden
	}

	if err := s.repo.Delete(ctx, a.ID); err != nil {
		s.logger.Error("delete attendance failed", zap.String("attendance_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("attendance deleted", zap.String("attendance_id", id))
	return nil
}

func (s *service) find(ctx context.Context, id string) (*Attendance, error) {
	attendanceID, err := uuid.Parse(id)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidAttendanceID
	}
	a, err := s.repo.FindByID(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendanceerrors.ErrAttendanceNotFound
		}
		return nil, err
	}
	return a, nil
}

func ownershipOf(a *Attendance) (tenantID, entrepriseID *uuid.UUID) {
	if a.Employe == nil {
		return nil, nil
	}
	if a.Employe.Entreprise != nil {
		tenantID = a.Employe.Entreprise.TenantID
	}
	return tenantID, a.Employe.EntrepriseID
}

func formatClock(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(timeLayout)
	return &v
}

// combineClock merges an HH:MM string onto a date, keeping UTC.
func combineClock(date time.Time, clock *string) (*time.Time, error) {
	if clock == nil || *clock == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, *clock)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidTime
	}
	v := time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	return &v, nil
}

func signatureRef(fileURL, raw *string) *string {
	if fileURL != nil {
		return fileURL
	}
	return raw
}

func mapToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:                a.ID.String(),
		EmployeID:         a.EmployeID.String(),
		Date:              a.Date.Format(dateLayout),
		CheckInAt:         formatClock(a.CheckInAt),
		CheckInSignature:  signatureRef(a.CheckInSignatureFileURL, a.CheckInSignature),
		CheckOutAt:        formatClock(a.CheckOutAt),
		CheckOutSignature: signatureRef(a.CheckOutSignatureFileURL, a.CheckOutSignature),
		OnField:           a.OnField,
	}
}
