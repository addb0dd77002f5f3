package event

import "time"

const (
	SessionsTopic          = "sessions.events"
	EventSessionOpened     = "session.opened"
	EventSessionOrderAdded = "session.order_added"
	EventSessionClosed     = "session.closed"
	EventSessionAbandoned  = "session.abandoned"
)

// SessionEvent announces tab lifecycle transitions. On session.closed the
// totals are final and the payload is what the receipt component consumes.
type SessionEvent struct {
	EventType     string    `json:"event_type"`
	OccurredAt    time.Time `json:"occurred_at"`
	SessionID     string    `json:"session_id"`
	SessionNumber string    `json:"session_number"`
	TableID       string    `json:"table_id"`
	TableNumber   string    `json:"table_number,omitempty"`
	Status        string    `json:"status"`
	OrderID       string    `json:"order_id,omitempty"`

	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`

	PaymentMethod   string  `json:"payment_method,omitempty"`
	AmountTendered  float64 `json:"amount_tendered,omitempty"`
	ReferenceNumber string  `json:"reference_number,omitempty"`
}
