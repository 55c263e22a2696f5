package auth

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/EternelCodeur/punch-smartly-backend/internal/actor"
	autherrors "github.com/EternelCodeur/punch-smartly-backend/internal/auth/errors"
)

const TokenTTL = 12 * time.Hour

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Me(ctx context.Context, act actor.Actor) (AccountInfo, error)
}

type service struct {
	repo   Repository
	secret func() []byte
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		repo:   repo,
		secret: func() []byte { return []byte(os.Getenv("JWT_SECRET")) },
		logger: l,
		now:    time.Now,
	}
}

// Login matches the submitted code against every account's bcrypt hash.
// There is no username: the code alone identifies the account, so the scan
// has to try each hash until one verifies.
func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return LoginResponse{}, err
	}

	var matched *Account
	for i := range accounts {
		if bcrypt.CompareHashAndPassword([]byte(accounts[i].Password), []byte(req.Code)) == nil {
			matched = &accounts[i]
			break
		}
	}
	if matched == nil {
		s.logger.Warn("login rejected")
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.issueToken(matched)
	if err != nil {
		s.logger.Error("issue token failed", zap.Error(err))
		return LoginResponse{}, err
	}

	s.logger.Info("login succeeded",
		zap.String("user_id", matched.ID.String()),
		zap.String("role", matched.Role),
	)
	return LoginResponse{Token: token, User: accountInfo(matched)}, nil
}

func (s *service) issueToken(a *Account) (string, error) {
	now := s.now().UTC()
	claims := jwt.MapClaims{
		"sub":  a.ID.String(),
		"role": a.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(TokenTTL).Unix(),
	}
	if a.TenantID != nil {
		claims["tenant_id"] = a.TenantID.String()
	}
	if a.EnterpriseID != nil {
		claims["enterprise_id"] = a.EnterpriseID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret())
}

func (s *service) Me(ctx context.Context, act actor.Actor) (AccountInfo, error) {
	a, err := s.repo.FindAccount(ctx, act.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AccountInfo{}, autherrors.ErrInvalidToken
		}
		return AccountInfo{}, err
	}
	return accountInfo(a), nil
}

func accountInfo(a *Account) AccountInfo {
	info := AccountInfo{
		ID:   a.ID.String(),
		Name: a.Name,
		Role: a.Role,
	}
	if a.TenantID != nil {
		v := a.TenantID.String()
		info.TenantID = &v
	}
	if a.EnterpriseID != nil {
		v := a.EnterpriseID.String()
		info.EnterpriseID = &v
	}
	return info
}
