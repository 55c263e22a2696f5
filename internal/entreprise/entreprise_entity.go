package entreprise

import (
	"time"

	"github.com/google/uuid"
)

// Entreprise is one site/company under a tenant. tenant_id is nullable for
// rows created before the tenant layer existed.
type Entreprise struct {
	ID       uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID *uuid.UUID `gorm:"column:tenant_id;type:uuid;index"`
	Name     string     `gorm:"column:name;type:varchar(255);not null"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Entreprise) TableName() string {
	return "entreprises"
}
