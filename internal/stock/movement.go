package stock

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

const (
	MovementSale       = "sale"
	MovementReturn     = "return"
	MovementAdjustment = "adjustment"
)

// StockMovement is one append-only ledger entry. Quantity is always positive;
// the movement type carries the direction (sale subtracts, return and positive
// adjustments add back).
type StockMovement struct {
	ID           uuid.UUID `bson:"_id" json:"id"`
	ProductID    uuid.UUID `bson:"product_id" json:"product_id"`
	MovementType string    `bson:"movement_type" json:"movement_type"`
	Quantity     int       `bson:"quantity" json:"quantity"`

	// ReferenceOrderID ties sale and return entries to the order that caused
	// them. It is the idempotency key for deductions.
	ReferenceOrderID *uuid.UUID `bson:"reference_order_id,omitempty" json:"reference_order_id,omitempty"`

	Reason      string `bson:"reason,omitempty" json:"reason,omitempty"`
	PerformedBy string `bson:"performed_by,omitempty" json:"performed_by,omitempty"`

	// StockBefore and StockAfter snapshot the on-hand count around the
	// movement for audit reads.
	StockBefore int `bson:"stock_before" json:"stock_before"`
	StockAfter  int `bson:"stock_after" json:"stock_after"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	ModelVersion int `bson:"model_version" json:"model_version"`
}

func (m *StockMovement) GetID() uuid.UUID {
	return m.ID
}

func (m *StockMovement) ResourceType() string {
	return "stock-movement"
}

func (m *StockMovement) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = apt.GenerateNewID()
	}
}

func (m *StockMovement) BeforeCreate() {
	m.EnsureID()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
}
