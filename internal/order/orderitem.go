package order

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// OrderItem is one line of an order. Exactly one of ProductID or PackageID is
// set; Name snapshots the catalog name at sale time so voids and receipts
// survive later renames.
type OrderItem struct {
	ID      uuid.UUID `json:"id" bson:"_id"`
	OrderID uuid.UUID `json:"order_id" bson:"order_id"`

	ProductID *uuid.UUID `json:"product_id,omitempty" bson:"product_id,omitempty"`
	PackageID *uuid.UUID `json:"package_id,omitempty" bson:"package_id,omitempty"`

	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	UnitPrice float64 `json:"unit_price" bson:"unit_price"`

	// Discount is a flat peso amount off this line.
	Discount      float64 `json:"discount,omitempty" bson:"discount,omitempty"`
	Complimentary bool    `json:"complimentary,omitempty" bson:"complimentary,omitempty"`

	Notes  string `json:"notes,omitempty" bson:"notes,omitempty"`
	Status string `json:"status" bson:"status"`

	ServedAt  *time.Time `json:"served_at,omitempty" bson:"served_at,omitempty"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	CreatedBy string     `json:"created_by" bson:"created_by"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
	UpdatedBy string     `json:"updated_by" bson:"updated_by"`
}

func (oi *OrderItem) GetID() uuid.UUID {
	return oi.ID
}

func (oi *OrderItem) ResourceType() string {
	return "order-item"
}

func (oi *OrderItem) SetID(id uuid.UUID) {
	oi.ID = id
}

func NewOrderItem() *OrderItem {
	return &OrderItem{
		ID:     apt.GenerateNewID(),
		Status: "pending",
	}
}

func (oi *OrderItem) EnsureID() {
	if oi.ID == uuid.Nil {
		oi.ID = apt.GenerateNewID()
	}
}

func (oi *OrderItem) BeforeCreate() {
	oi.EnsureID()
	oi.CreatedAt = time.Now()
	oi.UpdatedAt = time.Now()
}

func (oi *OrderItem) BeforeUpdate() {
	oi.UpdatedAt = time.Now()
}

func (oi *OrderItem) MarkAsPreparing() {
	oi.Status = "preparing"
	oi.UpdatedAt = time.Now()
}

func (oi *OrderItem) MarkAsReady() {
	oi.Status = "ready"
	oi.UpdatedAt = time.Now()
}

func (oi *OrderItem) MarkAsServed() {
	now := time.Now()
	oi.Status = "served"
	oi.ServedAt = &now
	oi.UpdatedAt = now
}

// GrossTotal is quantity times unit price before any discount.
func (oi *OrderItem) GrossTotal() float64 {
	return float64(oi.Quantity) * oi.UnitPrice
}

// LineDiscount is the amount actually taken off this line. A complimentary
// line is discounted in full.
func (oi *OrderItem) LineDiscount() float64 {
	if oi.Complimentary {
		return oi.GrossTotal()
	}
	if oi.Discount > oi.GrossTotal() {
		return oi.GrossTotal()
	}
	return oi.Discount
}

// LineTotal is what the guest pays for this line. Never negative.
func (oi *OrderItem) LineTotal() float64 {
	return oi.GrossTotal() - oi.LineDiscount()
}
