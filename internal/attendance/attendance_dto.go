package attendance

import "github.com/google/uuid"

// CheckInRequest drives check-in, check-out and the on-field variant. Date is
// optional and defaults to today; an explicit past date is a backfill and
// does not touch the employe's daily status flags.
type CheckInRequest struct {
	EmployeID string  `json:"employe_id" binding:"required"`
	Date      *string `json:"date"`
	Signature *string `json:"signature"`
}

type CreateAttendanceRequest struct {
	EmployeID    string  `json:"employe_id" binding:"required"`
	Date         string  `json:"date" binding:"required"`
	CheckInTime  *string `json:"check_in_time"`  // HH:MM
	CheckOutTime *string `json:"check_out_time"` // HH:MM
	OnField      *bool   `json:"on_field"`
}

type UpdateAttendanceRequest struct {
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	OnField      *bool   `json:"on_field"`
}

type ListQuery struct {
	EmployeID    *uuid.UUID
	EntrepriseID *uuid.UUID
	Month        string // YYYY-MM
	From         string // YYYY-MM-DD
	To           string
}

type AttendanceResponse struct {
	ID                string  `json:"id"`
	EmployeID         string  `json:"employe_id"`
	Date              string  `json:"date"`
	CheckInAt         *string `json:"check_in_at"`
	CheckInSignature  *string `json:"check_in_signature"`
	CheckOutAt        *string `json:"check_out_at"`
	CheckOutSignature *string `json:"check_out_signature"`
	OnField           bool    `json:"on_field"`
}

// SummaryDay is one calendar day of the month summary. Leave and LeaveStatus
// are set only for days without an attendance row and serialize as null
// otherwise.
type SummaryDay struct {
	Date         string  `json:"date"`
	In           *string `json:"in"`
	Out          *string `json:"out"`
	InSignature  *string `json:"inSignature"`
	OutSignature *string `json:"outSignature"`
	OnField      bool    `json:"onField"`
	Mins         int     `json:"mins"`
	Leave        *bool   `json:"leave"`
	LeaveStatus  *string `json:"leaveStatus"`
}

type SummaryResponse struct {
	EmployeID string       `json:"employe_id"`
	Month     string       `json:"month"`
	MonthMins int          `json:"monthMins"`
	PerDay    []SummaryDay `json:"perDay"`
}
