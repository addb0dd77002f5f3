package event

import "time"

const (
	TicketsTopic            = "tickets.events"
	EventTicketCreated      = "ticket.created"
	EventTicketStatusChange = "ticket.status_changed"
)

type TicketEventMetadata struct {
	EventType   string    `json:"event_type"`
	OccurredAt  time.Time `json:"occurred_at"`
	TicketID    string    `json:"ticket_id"`
	OrderID     string    `json:"order_id"`
	OrderItemID string    `json:"order_item_id,omitempty"`
	ProductID   string    `json:"product_id,omitempty"`
	Destination string    `json:"destination"`

	// Denormalized data for station displays
	ProductName string `json:"product_name,omitempty"`
	TableNumber string `json:"table_number,omitempty"`
}

type TicketCreatedEvent struct {
	TicketEventMetadata
	Status              string `json:"status"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
	Urgent              bool   `json:"urgent,omitempty"`
}

type TicketStatusChangedEvent struct {
	TicketEventMetadata
	NewStatus           string     `json:"new_status"`
	PreviousStatus      string     `json:"previous_status"`
	SpecialInstructions string     `json:"special_instructions,omitempty"`
	StartedAt           *time.Time `json:"started_at,omitempty"`
	ReadyAt             *time.Time `json:"ready_at,omitempty"`
	ServedAt            *time.Time `json:"served_at,omitempty"`
}
