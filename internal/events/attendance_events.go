package events

import "time"

const AttendanceTopic = "attendance.tracking.v1"

const (
	EventAttendanceCheckedIn  = "attendance.checked_in"
	EventAttendanceCheckedOut = "attendance.checked_out"
)

type AttendanceCheckedInEvent struct {
	EventType    string    `json:"event_type"`
	AttendanceID string    `json:"attendance_id"`
	EmployeID    string    `json:"employe_id"`
	Date         string    `json:"date"`
	OnField      bool      `json:"on_field"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type AttendanceCheckedOutEvent struct {
	EventType    string    `json:"event_type"`
	AttendanceID string    `json:"attendance_id"`
	EmployeID    string    `json:"employe_id"`
	Date         string    `json:"date"`
	OccurredAt   time.Time `json:"occurred_at"`
}
