// Package scope derives row-visibility predicates from an actor. The same
// Scope value drives list filtering (as GORM scopes) and mutation
// authorization (Covers). Resolution fails closed: a role whose required
// tenant/enterprise id is missing gets a scope that matches nothing.
package scope

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EternelCodeur/punch-smartly-backend/internal/actor"
)

type Kind int

const (
	KindDeny Kind = iota
	KindAll
	KindTenant
	KindEnterprise
)

type Scope struct {
	kind         Kind
	tenantID     uuid.UUID
	enterpriseID uuid.UUID
}

// Resolve maps an actor to its visibility scope.
func Resolve(a actor.Actor) Scope {
	switch a.Role {
	case actor.RoleSupertenant:
		return Scope{kind: KindAll}
	case actor.RoleSuperadmin, actor.RoleAdmin:
		if a.TenantID == nil {
			return Scope{kind: KindDeny}
		}
		return Scope{kind: KindTenant, tenantID: *a.TenantID}
	case actor.RoleUser:
		if a.EnterpriseID == nil {
			return Scope{kind: KindDeny}
		}
		return Scope{kind: KindEnterprise, enterpriseID: *a.EnterpriseID}
	default:
		return Scope{kind: KindDeny}
	}
}

func (s Scope) Kind() Kind { return s.kind }

// Covers tells whether a target owned by the given enterprise/tenant is
// inside this scope. Used on mutations: a miss is an authorization error,
// never silent filtering.
func (s Scope) Covers(tenantID, enterpriseID *uuid.UUID) bool {
	switch s.kind {
	case KindAll:
		return true
	case KindTenant:
		return tenantID != nil && *tenantID == s.tenantID
	case KindEnterprise:
		return enterpriseID != nil && *enterpriseID == s.enterpriseID
	default:
		return false
	}
}

// Employes restricts a query over the employes table.
func (s Scope) Employes() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch s.kind {
		case KindAll:
			return db
		case KindTenant:
			return db.Where(
				"entreprise_id IN (SELECT id FROM entreprises WHERE tenant_id = ?)",
				s.tenantID,
			)
		case KindEnterprise:
			return db.Where("entreprise_id = ?", s.enterpriseID)
		default:
			return db.Where("1 = 0")
		}
	}
}

// EmployeOwned restricts a query over any table owned through an employe_id
// column (attendances, absences, temporary_departures).
func (s Scope) EmployeOwned() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch s.kind {
		case KindAll:
			return db
		case KindTenant:
			return db.Where(
				"employe_id IN (SELECT id FROM employes WHERE entreprise_id IN (SELECT id FROM entreprises WHERE tenant_id = ?))",
				s.tenantID,
			)
		case KindEnterprise:
			return db.Where(
				"employe_id IN (SELECT id FROM employes WHERE entreprise_id = ?)",
				s.enterpriseID,
			)
		default:
			return db.Where("1 = 0")
		}
	}
}

// Entreprises restricts a query over the entreprises table.
func (s Scope) Entreprises() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch s.kind {
		case KindAll:
			return db
		case KindTenant:
			return db.Where("tenant_id = ?", s.tenantID)
		case KindEnterprise:
			return db.Where("id = ?", s.enterpriseID)
		default:
			return db.Where("1 = 0")
		}
	}
}

// Users restricts a query over the users table.
func (s Scope) Users() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch s.kind {
		case KindAll:
			return db
		case KindTenant:
			return db.Where("tenant_id = ?", s.tenantID)
		case KindEnterprise:
			return db.Where("enterprise_id = ?", s.enterpriseID)
		default:
			return db.Where("1 = 0")
		}
	}
}
