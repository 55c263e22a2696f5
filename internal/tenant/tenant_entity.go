package tenant

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is the top of the ownership chain:
// tenant → entreprises → employes → attendance records.
type Tenant struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name    string    `gorm:"column:name;type:varchar(255);not null"`
	Contact *string   `gorm:"column:contact;type:varchar(255)"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}
