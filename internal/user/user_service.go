package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EternelCodeur/punch-smartly-backend/internal/actor"
	"github.com/EternelCodeur/punch-smartly-backend/internal/scope"
	"github.com/EternelCodeur/punch-smartly-backend/internal/shared/apperror"
	usererrors "github.com/EternelCodeur/punch-smartly-backend/internal/user/errors"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, act actor.Actor, req CreateUserRequest) (CreatedUserResponse, error)
	List(ctx context.Context, act actor.Actor, q ListQuery) ([]UserResponse, error)
	Get(ctx context.Context, act actor.Actor, id string) (UserResponse, error)
	Update(ctx context.Context, act actor.Actor, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, act actor.Actor, id string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{db: db, repo: repo, logger: l, now: time.Now}
}

// Create provisions an account. The plain password is returned exactly once;
// when the request omits one a random code is generated. Superadmins are
// pinned to their own tenant and nobody below supertenant can mint a
// supertenant.
func (s *service) Create(ctx context.Context, act actor.Actor, req CreateUserRequest) (CreatedUserResponse, error) {
	if !act.Is(actor.RoleSupertenant, actor.RoleSuperadmin) {
		return CreatedUserResponse{}, apperror.ErrForbidden
	}

	role, ok := actor.ParseRole(req.Role)
	if !ok {
		return CreatedUserResponse{}, usererrors.ErrInvalidRole
	}
	if role == actor.RoleSupertenant && act.Role != actor.RoleSupertenant {
		return CreatedUserResponse{}, usererrors.ErrRoleEscalation
	}

	tenantID, err := parseOptionalUUID(req.TenantID, usererrors.ErrInvalidTenantID)
	if err != nil {
		return CreatedUserResponse{}, err
	}
	enterpriseID, err := parseOptionalUUID(req.EnterpriseID, usererrors.ErrInvalidEnterpriseID)
	if err != nil {
		return CreatedUserResponse{}, err
	}

	if act.Role == actor.RoleSuperadmin {
		if act.TenantID == nil {
			return CreatedUserResponse{}, apperror.ErrForbidden
		}
		tenantID = act.TenantID
	}

	plain := ""
	if req.Password != nil && *req.Password != "" {
		plain = *req.Password
	} else {
		plain, err = GeneratePassword(12)
		if err != nil {
			return CreatedUserResponse{}, err
		}
	}
	hash, err := HashPassword(plain)
	if err != nil {
		return CreatedUserResponse{}, err
	}

	u := &User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		EnterpriseID: enterpriseID,
		Name:         req.Name,
		Role:         string(role),
		Password:     hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.Error("create user failed", zap.Error(err))
		return CreatedUserResponse{}, err
	}

	s.logger.Info("user created",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role),
		zap.String("actor_id", act.UserID.String()),
	)
	return CreatedUserResponse{UserResponse: mapToResponse(*u), Password: plain}, nil
}

func (s *service) List(ctx context.Context, act actor.Actor, q ListQuery) ([]UserResponse, error) {
	sc := scope.Resolve(act)

	f := ListFilter{TenantID: q.TenantID, EnterpriseID: q.EnterpriseID, Role: q.Role}
	rows, err := s.repo.FindAll(ctx, sc, f)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(rows))
	for i, u := range rows {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, act actor.Actor, id string) (UserResponse, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	if !scope.Resolve(act).Covers(u.TenantID, u.EnterpriseID) && act.UserID != u.ID {
		return UserResponse{}, apperror.ErrForbidden
	}
	return mapToResponse(*u), nil
}

func (s *service) Update(ctx context.Context, act actor.Actor, id string, req UpdateUserRequest) (UserResponse, error) {
	if !act.Is(actor.RoleSupertenant, actor.RoleSuperadmin) {
		return UserResponse{}, apperror.ErrForbidden
	}

	u, err := s.find(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	if !scope.Resolve(act).Covers(u.TenantID, u.EnterpriseID) {
		return UserResponse{}, apperror.ErrForbidden
	}

	if req.Role != nil {
		role, ok := actor.ParseRole(*req.Role)
		if !ok {
			return UserResponse{}, usererrors.ErrInvalidRole
		}
		if role == actor.RoleSupertenant && act.Role != actor.RoleSupertenant {
			return UserResponse{}, usererrors.ErrRoleEscalation
		}
		u.Role = string(role)
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.TenantID != nil && act.Role == actor.RoleSupertenant {
		tenantID, err := parseOptionalUUID(req.TenantID, usererrors.ErrInvalidTenantID)
		if err != nil {
			return UserResponse{}, err
		}
		u.TenantID = tenantID
	}
	if req.EnterpriseID != nil {
		enterpriseID, err := parseOptionalUUID(req.EnterpriseID, usererrors.ErrInvalidEnterpriseID)
		if err != nil {
			return UserResponse{}, err
		}
		u.EnterpriseID = enterpriseID
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return UserResponse{}, err
		}
		u.Password = hash
	}

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("update user failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}
	s.logger.Info("user updated", zap.String("user_id", id))
	return mapToResponse(*u), nil
}

func (s *service) Delete(ctx context.Context, act actor.Actor, id string) error {
	if !act.Is(actor.RoleSupertenant, actor.RoleSuperadmin) {
		return apperror.ErrForbidden
	}

	u, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !scope.Resolve(act).Covers(u.TenantID, u.EnterpriseID) {
		return apperror.ErrForbidden
	}

	if err := s.repo.Delete(ctx, u.ID); err != nil {
		s.logger.Error("delete user failed", zap.String("user_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

func (s *service) find(ctx context.Context, id string) (*User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, usererrors.ErrInvalidUserID
	}
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func parseOptionalUUID(raw *string, invalid error) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, invalid
	}
	return &id, nil
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:   u.ID.String(),
		Name: u.Name,
		Role: u.Role,
	}
	if u.TenantID != nil {
		v := u.TenantID.String()
		resp.TenantID = &v
	}
	if u.EnterpriseID != nil {
		v := u.EnterpriseID.String()
		resp.EnterpriseID = &v
	}
	return resp
}
