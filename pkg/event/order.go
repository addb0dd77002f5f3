package event

import "time"

const (
	OrdersTopic          = "orders.events"
	EventOrderCreated    = "order.created"
	EventOrderConfirmed  = "order.confirmed"
	EventOrderCompleted  = "order.completed"
	EventOrderVoided     = "order.voided"
	EventOrderStatus     = "order.status_changed"
	EventOrderItemStatus = "order.item.status_changed"
)

// OrderEvent announces order lifecycle transitions. Displays treat it as a
// refresh signal keyed by order_id and re-fetch authoritative state; the
// payload carries denormalized fields for convenience only.
type OrderEvent struct {
	EventType   string    `json:"event_type"`
	OccurredAt  time.Time `json:"occurred_at"`
	OrderID     string    `json:"order_id"`
	SessionID   string    `json:"session_id,omitempty"`
	TableID     string    `json:"table_id,omitempty"`
	TableNumber string    `json:"table_number,omitempty"`
	Status      string    `json:"status"`
	Total       float64   `json:"total"`
	ItemCount   int       `json:"item_count,omitempty"`
	TicketCount int       `json:"ticket_count,omitempty"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// OrderItemStatusEvent reports a single line item advancing, used to keep
// terminal views in sync with station progress.
type OrderItemStatusEvent struct {
	EventType      string    `json:"event_type"`
	OccurredAt     time.Time `json:"occurred_at"`
	OrderID        string    `json:"order_id"`
	OrderItemID    string    `json:"order_item_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
}
