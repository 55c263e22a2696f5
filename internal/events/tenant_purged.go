package events

import "time"

const TenantTopic = "tenant.lifecycle.v1"

const EventTenantPurged = "tenant.purged"

// TenantPurgedEvent is emitted after a tenant and all of its dependent rows
// have been deleted in one transaction.
type TenantPurgedEvent struct {
	EventType   string    `json:"event_type"`
	TenantID    string    `json:"tenant_id"`
	Entreprises int64     `json:"entreprises_deleted"`
	Employes    int64     `json:"employes_deleted"`
	OccurredAt  time.Time `json:"occurred_at"`
}
