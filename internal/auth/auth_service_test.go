package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/EternelCodeur/punch-smartly-backend/internal/actor"
	autherrors "github.com/EternelCodeur/punch-smartly-backend/internal/auth/errors"
)

type fakeRepo struct {
	accounts []Account
}

func (f *fakeRepo) ListAccounts(ctx context.Context) ([]Account, error) {
	return f.accounts, nil
}

func (f *fakeRepo) FindAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	for i := range f.accounts {
		if f.accounts[i].ID == id {
			return &f.accounts[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func hash(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

var frozenNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *service {
	svc := NewService(repo).(*service)
	svc.secret = func() []byte { return []byte("test-secret") }
	svc.now = func() time.Time { return frozenNow }
	return svc
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	adminID := uuid.New()

	repo := &fakeRepo{accounts: []Account{
		{ID: uuid.New(), Name: "Other", Role: "user", Password: hash(t, "other-code")},
		{ID: adminID, TenantID: &tenantID, Name: "Fatou", Role: "admin", Password: hash(t, "secret-code")},
	}}
	svc := newTestService(repo)

	resp, err := svc.Login(ctx, LoginRequest{Code: "secret-code"})
	assert.NoError(t, err)
	assert.Equal(t, adminID.String(), resp.User.ID)
	assert.Equal(t, "admin", resp.User.Role)
	assert.NotEmpty(t, resp.Token)

	// Claim validation runs against the same frozen clock that issued the
	// token, so the test does not depend on when it runs.
	parsed, err := jwt.Parse(resp.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return frozenNow }))
	assert.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, adminID.String(), claims["sub"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, tenantID.String(), claims["tenant_id"])

	iat := int64(claims["iat"].(float64))
	exp := int64(claims["exp"].(float64))
	assert.Equal(t, int64(TokenTTL/time.Second), exp-iat)
}

func TestService_Login_WrongCode(t *testing.T) {
	ctx := context.Background()

	repo := &fakeRepo{accounts: []Account{
		{ID: uuid.New(), Name: "Fatou", Role: "admin", Password: hash(t, "secret-code")},
	}}
	svc := newTestService(repo)

	_, err := svc.Login(ctx, LoginRequest{Code: "wrong"})
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestService_Me(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	enterpriseID := uuid.New()

	repo := &fakeRepo{accounts: []Account{
		{ID: userID, EnterpriseID: &enterpriseID, Name: "Marie", Role: "user", Password: "x"},
	}}
	svc := newTestService(repo)

	info, err := svc.Me(ctx, actor.Actor{UserID: userID, Role: actor.RoleUser})
	assert.NoError(t, err)
	assert.Equal(t, "Marie", info.Name)
	assert.Equal(t, enterpriseID.String(), *info.EnterpriseID)

	_, err = svc.Me(ctx, actor.Actor{UserID: uuid.New()})
	assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
}
