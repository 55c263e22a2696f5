package absence

import (
	"time"

	"github.com/google/uuid"

	"github.com/EternelCodeur/punch-smartly-backend/internal/employe"
)

// DefaultStatus is applied when a row is created without an explicit status.
const DefaultStatus = "conge"

// Absence marks one employe as away for one calendar day. A date range is
// stored as one row per day so the month summary can join on exact dates.
type Absence struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeID uuid.UUID `gorm:"column:employe_id;type:uuid;not null;uniqueIndex:idx_absences_employe_date"`
	Date      time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_absences_employe_date"`
	Status    string    `gorm:"column:status;type:varchar(50);not null;default:conge"`
	Reason    *string   `gorm:"column:reason;type:text"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	Employe *employe.Employe `gorm:"foreignKey:EmployeID;references:ID"`
}

func (Absence) TableName() string {
	return "absences"
}
