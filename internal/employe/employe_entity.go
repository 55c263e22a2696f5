package employe

import (
	"time"

	"github.com/google/uuid"
)

// Employe carries the identity fields plus the three daily status fields
// (attendance_date, arrival_signed, departure_signed). The daily fields only
// mean anything for the date they were last normalized to: any row whose
// attendance_date is not today is stale until the normalizer runs.
type Employe struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EntrepriseID *uuid.UUID `gorm:"column:entreprise_id;type:uuid;index"`
	FirstName    string     `gorm:"column:first_name;type:varchar(255);not null"`
	LastName     string     `gorm:"column:last_name;type:varchar(255);not null"`
	Position     *string    `gorm:"column:position;type:varchar(255)"`

	AttendanceDate  *time.Time `gorm:"column:attendance_date;type:date"`
	ArrivalSigned   bool       `gorm:"column:arrival_signed;not null;default:false"`
	DepartureSigned bool       `gorm:"column:departure_signed;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	Entreprise *EntrepriseRef `gorm:"foreignKey:EntrepriseID;references:ID"`
}

func (Employe) TableName() string {
	return "employes"
}

// EntrepriseRef is the minimal join target used to resolve ownership.
type EntrepriseRef struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID *uuid.UUID `gorm:"column:tenant_id;type:uuid"`
	Name     string     `gorm:"column:name"`
}

func (EntrepriseRef) TableName() string {
	return "entreprises"
}

// Ownership locates an employe in the tenant/enterprise hierarchy; either id
// may be nil for legacy rows that are not attached to an entreprise.
type Ownership struct {
	EntrepriseID *uuid.UUID
	TenantID     *uuid.UUID
}

// TodayCounts are four independent counts over one scope; an employee who
// left is still counted present.
type TodayCounts struct {
	TotalEmployees int64
	PresentToday   int64
	AbsentToday    int64
	LeftToday      int64
}
