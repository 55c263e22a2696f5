package attendance

import (
	"time"

	"github.com/google/uuid"

	"github.com/EternelCodeur/punch-smartly-backend/internal/employe"
)

// Attendance is one employe's presence record for one calendar day. The
// unique (employe_id, date) key is the concurrency anchor: concurrent
// check-ins race on the insert and the loser sees the winner's row.
type Attendance struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeID uuid.UUID `gorm:"column:employe_id;type:uuid;not null;uniqueIndex:idx_attendances_employe_date"`
	Date      time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_attendances_employe_date"`

	CheckInAt               *time.Time `gorm:"column:check_in_at"`
	CheckInSignature        *string    `gorm:"column:check_in_signature;type:text"`
	CheckInSignatureFileURL *string    `gorm:"column:check_in_signature_file_url;type:text"`

	CheckOutAt               *time.Time `gorm:"column:check_out_at"`
	CheckOutSignature        *string    `gorm:"column:check_out_signature;type:text"`
	CheckOutSignatureFileURL *string    `gorm:"column:check_out_signature_file_url;type:text"`

	OnField bool `gorm:"column:on_field;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	Employe *employe.Employe `gorm:"foreignKey:EmployeID;references:ID"`
}

func (Attendance) TableName() string {
	return "attendances"
}
