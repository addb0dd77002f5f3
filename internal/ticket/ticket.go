package ticket

import (
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

type TicketID = uuid.UUID
type OrderID = uuid.UUID
type OrderItemID = uuid.UUID
type ProductID = uuid.UUID

// PrepTicket is a per-item work order for one preparation station. It always
// carries the resolved product name; when the line originated from a package,
// SpecialInstructions records the package context.
type PrepTicket struct {
	ID          TicketID    `bson:"_id" json:"id"`
	OrderID     OrderID     `bson:"order_id" json:"order_id"`
	OrderItemID OrderItemID `bson:"order_item_id" json:"order_item_id"`
	ProductID   ProductID   `bson:"product_id" json:"product_id"`
	ProductName string      `bson:"product_name" json:"product_name"`
	Destination string      `bson:"destination" json:"destination"`
	Quantity    int         `bson:"quantity" json:"quantity"`
	Status      string      `bson:"status" json:"status"`

	SpecialInstructions string `bson:"special_instructions,omitempty" json:"special_instructions,omitempty"`
	Urgent              bool   `bson:"urgent" json:"urgent"`

	// Denormalized data for display purposes
	TableNumber string `bson:"table_number,omitempty" json:"table_number,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	StartedAt *time.Time `bson:"started_at,omitempty" json:"started_at,omitempty"`
	ReadyAt   *time.Time `bson:"ready_at,omitempty" json:"ready_at,omitempty"`
	ServedAt  *time.Time `bson:"served_at,omitempty" json:"served_at,omitempty"`

	ModelVersion int `bson:"model_version" json:"model_version"`
}

func (t *PrepTicket) GetID() uuid.UUID {
	return t.ID
}

func (t *PrepTicket) ResourceType() string {
	return "prep-ticket"
}

func (t *PrepTicket) SetID(id uuid.UUID) {
	t.ID = id
}

func NewPrepTicket() *PrepTicket {
	return &PrepTicket{
		ID:     aqm.GenerateNewID(),
		Status: "pending",
	}
}

func (t *PrepTicket) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = aqm.GenerateNewID()
	}
}

func (t *PrepTicket) BeforeCreate() {
	t.EnsureID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
}

func (t *PrepTicket) BeforeUpdate() {
	t.UpdatedAt = time.Now()
}

func (t *PrepTicket) Start() {
	now := time.Now()
	t.Status = "preparing"
	t.StartedAt = &now
	t.UpdatedAt = now
}

func (t *PrepTicket) MarkReady() {
	now := time.Now()
	t.Status = "ready"
	t.ReadyAt = &now
	t.UpdatedAt = now
}

func (t *PrepTicket) MarkServed() {
	now := time.Now()
	t.Status = "served"
	t.ServedAt = &now
	t.UpdatedAt = now
}

func (t *PrepTicket) MarkUrgent() {
	t.Urgent = true
	t.UpdatedAt = time.Now()
}

// Done reports whether the ticket reached its terminal state.
func (t *PrepTicket) Done() bool {
	return t.Status == "served"
}
