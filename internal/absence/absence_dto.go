package absence

import "github.com/google/uuid"

// CreateAbsenceRequest covers both forms of the create endpoint: a single
// date, or a [start_date, end_date] range expanded to one row per day.
type CreateAbsenceRequest struct {
	EmployeID string  `json:"employe_id" binding:"required"`
	Date      *string `json:"date"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Status    *string `json:"status" binding:"omitempty,max=50"`
	Reason    *string `json:"reason"`
}

type UpdateAbsenceRequest struct {
	Date   *string `json:"date"`
	Status *string `json:"status" binding:"omitempty,max=50"`
	Reason *string `json:"reason"`
}

type ListQuery struct {
	EmployeID    *uuid.UUID
	EntrepriseID *uuid.UUID
	Month        string // YYYY-MM
	From         string // YYYY-MM-DD
	To           string
}

type AbsenceResponse struct {
	ID        string  `json:"id"`
	EmployeID string  `json:"employe_id"`
	Date      string  `json:"date"`
	Status    string  `json:"status"`
	Reason    *string `json:"reason"`
}
