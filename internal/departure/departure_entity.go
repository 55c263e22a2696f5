package departure

import (
	"time"

	"github.com/google/uuid"

	"github.com/EternelCodeur/punch-smartly-backend/internal/employe"
)

// TemporaryDeparture is a mid-day exit. The record is open until return_time
// is set; the return transition happens exactly once.
type TemporaryDeparture struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeID     uuid.UUID `gorm:"column:employe_id;type:uuid;not null;index"`
	Date          time.Time `gorm:"column:date;type:date;not null"`
	DepartureTime string    `gorm:"column:departure_time;type:varchar(5);not null"`
	Reason        *string   `gorm:"column:reason;type:text"`

	ReturnTime             *string `gorm:"column:return_time;type:varchar(5)"`
	ReturnSignature        *string `gorm:"column:return_signature;type:text"`
	ReturnSignatureFileURL *string `gorm:"column:return_signature_file_url;type:text"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	Employe *employe.Employe `gorm:"foreignKey:EmployeID;references:ID"`
}

func (TemporaryDeparture) TableName() string {
	return "temporary_departures"
}
