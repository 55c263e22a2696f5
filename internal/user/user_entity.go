package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an account able to log in. Role is stored lower-case and parsed
// case-insensitively into the actor role enum.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     *uuid.UUID `gorm:"column:tenant_id;type:uuid;index"`
	EnterpriseID *uuid.UUID `gorm:"column:enterprise_id;type:uuid;index"`
	Name         string     `gorm:"column:name;type:varchar(255);not null"`
	Role         string     `gorm:"column:role;type:varchar(20);not null"`
	Password     string     `gorm:"column:password;type:varchar(255);not null"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}
