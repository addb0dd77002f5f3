package pkg

import "time"

const (
	// TableStatusTopic delivers authoritative status changes for tables.
	TableStatusTopic = "tables.status"
	// SessionTableTopic groups events emitted by the session workflow that
	// relate to table occupancy.
	SessionTableTopic = "sessions.tables"

	// EventTableStatusChanged identifies a table status change event payload.
	EventTableStatusChanged = "table.status.changed"
	// EventSessionTableRejected identifies a rejected attempt to bind a
	// session to a table.
	EventSessionTableRejected = "session.table.rejected"
)

// TableStatusEvent captures the minimal information displays and the session
// workflow need to reason about a table's availability.
type TableStatusEvent struct {
	EventType      string    `json:"event_type"`
	TableID        string    `json:"table_id"`
	TableNumber    string    `json:"table_number,omitempty"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	SessionID      string    `json:"session_id,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Source         string    `json:"source,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// SessionTableRejectionEvent captures rejections performed by the session
// workflow whenever table occupancy blocks an operation.
type SessionTableRejectionEvent struct {
	EventType  string    `json:"event_type"`
	TableID    string    `json:"table_id"`
	SessionID  string    `json:"session_id,omitempty"`
	Action     string    `json:"action"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
