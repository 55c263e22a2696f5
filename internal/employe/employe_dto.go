package employe

import "github.com/google/uuid"

type CreateEmployeRequest struct {
	EntrepriseID *string `json:"entreprise_id"`
	FirstName    string  `json:"first_name" binding:"required,max=255"`
	LastName     string  `json:"last_name" binding:"required,max=255"`
	Position     *string `json:"position" binding:"omitempty,max=255"`
}

type UpdateEmployeRequest struct {
	EntrepriseID *string `json:"entreprise_id"`
	FirstName    *string `json:"first_name" binding:"omitempty,max=255"`
	LastName     *string `json:"last_name" binding:"omitempty,max=255"`
	Position     *string `json:"position" binding:"omitempty,max=255"`
}

// ListQuery mirrors the list endpoint's filters. NormalizeToday defaults to
// true at the handler so "absent" rows are explicit for the current date.
type ListQuery struct {
	Search               string
	EntrepriseID         *uuid.UUID
	Status               string // present | absent | left
	ForDeparture         bool
	ExcludeDepartedToday bool
	NormalizeToday       bool
}

type EntrepriseSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EmployeResponse struct {
	ID              string             `json:"id"`
	EntrepriseID    *string            `json:"entreprise_id"`
	FirstName       string             `json:"first_name"`
	LastName        string             `json:"last_name"`
	Position        *string            `json:"position,omitempty"`
	AttendanceDate  *string            `json:"attendance_date"`
	ArrivalSigned   bool               `json:"arrival_signed"`
	DepartureSigned bool               `json:"departure_signed"`
	Entreprise      *EntrepriseSummary `json:"entreprise,omitempty"`
}

type TodayCountsResponse struct {
	Date           string `json:"date"`
	TotalEmployees int64  `json:"totalEmployees"`
	PresentToday   int64  `json:"presentToday"`
	AbsentToday    int64  `json:"absentToday"`
	LeftToday      int64  `json:"leftToday"`
}
