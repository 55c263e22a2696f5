package scope

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/EternelCodeur/punch-smartly-backend/internal/actor"
)

func TestResolve(t *testing.T) {
	tenantID := uuid.New()
	enterpriseID := uuid.New()

	t.Run("supertenant sees everything", func(t *testing.T) {
		s := Resolve(actor.Actor{Role: actor.RoleSupertenant})
		assert.Equal(t, KindAll, s.Kind())
	})

	t.Run("superadmin is tenant scoped", func(t *testing.T) {
		s := Resolve(actor.Actor{Role: actor.RoleSuperadmin, TenantID: &tenantID})
		assert.Equal(t, KindTenant, s.Kind())
	})

	t.Run("admin is tenant scoped", func(t *testing.T) {
		s := Resolve(actor.Actor{Role: actor.RoleAdmin, TenantID: &tenantID})
		assert.Equal(t, KindTenant, s.Kind())
	})

	t.Run("user is enterprise scoped", func(t *testing.T) {
		s := Resolve(actor.Actor{Role: actor.RoleUser, EnterpriseID: &enterpriseID})
		assert.Equal(t, KindEnterprise, s.Kind())
	})

	t.Run("missing ownership id denies", func(t *testing.T) {
		assert.Equal(t, KindDeny, Resolve(actor.Actor{Role: actor.RoleSuperadmin}).Kind())
		assert.Equal(t, KindDeny, Resolve(actor.Actor{Role: actor.RoleAdmin}).Kind())
		assert.Equal(t, KindDeny, Resolve(actor.Actor{Role: actor.RoleUser}).Kind())
	})

	t.Run("unknown role denies", func(t *testing.T) {
		s := Resolve(actor.Actor{Role: actor.Role("manager"), TenantID: &tenantID, EnterpriseID: &enterpriseID})
		assert.Equal(t, KindDeny, s.Kind())
	})
}

func TestCovers(t *testing.T) {
	tenantID := uuid.New()
	otherTenant := uuid.New()
	enterpriseID := uuid.New()
	otherEnterprise := uuid.New()

	all := Resolve(actor.Actor{Role: actor.RoleSupertenant})
	assert.True(t, all.Covers(nil, nil))
	assert.True(t, all.Covers(&tenantID, &enterpriseID))

	tenant := Resolve(actor.Actor{Role: actor.RoleAdmin, TenantID: &tenantID})
	assert.True(t, tenant.Covers(&tenantID, nil))
	assert.True(t, tenant.Covers(&tenantID, &otherEnterprise))
	assert.False(t, tenant.Covers(&otherTenant, nil))
	assert.False(t, tenant.Covers(nil, &enterpriseID))

	enterprise := Resolve(actor.Actor{Role: actor.RoleUser, EnterpriseID: &enterpriseID})
	assert.True(t, enterprise.Covers(nil, &enterpriseID))
	assert.True(t, enterprise.Covers(&otherTenant, &enterpriseID))
	assert.False(t, enterprise.Covers(&tenantID, &otherEnterprise))
	assert.False(t, enterprise.Covers(&tenantID, nil))

	deny := Resolve(actor.Actor{Role: actor.RoleUser})
	assert.False(t, deny.Covers(&tenantID, &enterpriseID))
}
