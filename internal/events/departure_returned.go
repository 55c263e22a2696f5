package events

import "time"

const DepartureTopic = "attendance.departures.v1"

const EventDepartureReturned = "departure.returned"

type DepartureReturnedEvent struct {
	EventType   string    `json:"event_type"`
	DepartureID string    `json:"departure_id"`
	EmployeID   string    `json:"employe_id"`
	Date        string    `json:"date"`
	ReturnTime  string    `json:"return_time"`
	OccurredAt  time.Time `json:"occurred_at"`
}
