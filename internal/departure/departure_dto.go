package departure

import "github.com/google/uuid"

type CreateDepartureRequest struct {
	EmployeID     string  `json:"employe_id" binding:"required"`
	DepartureTime *string `json:"departure_time"` // HH:MM, defaults to now
	Reason        *string `json:"reason"`
}

type ReturnRequest struct {
	ReturnTime *string `json:"return_time"` // HH:MM, defaults to now
	Signature  *string `json:"signature"`
}

type UpdateDepartureRequest struct {
	DepartureTime *string `json:"departure_time"`
	ReturnTime    *string `json:"return_time"`
	Reason        *string `json:"reason"`
}

type ListQuery struct {
	EmployeID    *uuid.UUID
	EntrepriseID *uuid.UUID
	Month        string
	From         string
	To           string
	OpenOnly     bool
}

type DepartureResponse struct {
	ID              string  `json:"id"`
	EmployeID       string  `json:"employe_id"`
	Date            string  `json:"date"`
	DepartureTime   string  `json:"departure_time"`
	Reason          *string `json:"reason"`
	ReturnTime      *string `json:"return_time"`
	ReturnSignature *string `json:"return_signature"`
}
