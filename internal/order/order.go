package order

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/enums/orderstatus"
)

type Order struct {
	ID        uuid.UUID  `json:"id" bson:"_id"`
	SessionID *uuid.UUID `json:"session_id,omitempty" bson:"session_id,omitempty"`
	TableID   *uuid.UUID `json:"table_id,omitempty" bson:"table_id,omitempty"`

	// TableNumber is denormalized onto the order so tickets and displays
	// never need a table lookup.
	TableNumber string `json:"table_number,omitempty" bson:"table_number,omitempty"`

	CustomerID *uuid.UUID `json:"customer_id,omitempty" bson:"customer_id,omitempty"`
	CashierID  string     `json:"cashier_id,omitempty" bson:"cashier_id,omitempty"`

	Status string `json:"status" bson:"status"`

	Subtotal      float64 `json:"subtotal" bson:"subtotal"`
	DiscountTotal float64 `json:"discount_total" bson:"discount_total"`
	Total         float64 `json:"total" bson:"total"`

	// Warnings collects non-blocking confirmation notes (cleared optional
	// refs, flexible stock shortfalls) for the terminal to show once.
	Warnings []string `json:"warnings,omitempty" bson:"warnings,omitempty"`

	VoidReason string     `json:"void_reason,omitempty" bson:"void_reason,omitempty"`
	VoidedBy   string     `json:"voided_by,omitempty" bson:"voided_by,omitempty"`
	VoidedAt   *time.Time `json:"voided_at,omitempty" bson:"voided_at,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty" bson:"confirmed_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	CreatedBy string    `json:"created_by" bson:"created_by"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	UpdatedBy string    `json:"updated_by" bson:"updated_by"`
}

func (o *Order) GetID() uuid.UUID {
	return o.ID
}

func (o *Order) ResourceType() string {
	return "order"
}

func (o *Order) SetID(id uuid.UUID) {
	o.ID = id
}

func NewOrder() *Order {
	return &Order{
		ID:     apt.GenerateNewID(),
		Status: orderstatus.Statuses.Draft.Code(),
	}
}

func (o *Order) EnsureID() {
	if o.ID == uuid.Nil {
		o.ID = apt.GenerateNewID()
	}
}

func (o *Order) BeforeCreate() {
	o.EnsureID()
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()
}

func (o *Order) BeforeUpdate() {
	o.UpdatedAt = time.Now()
}

func (o *Order) MarkAsConfirmed() {
	now := time.Now()
	o.Status = orderstatus.Statuses.Confirmed.Code()
	o.ConfirmedAt = &now
	o.UpdatedAt = now
}

func (o *Order) MarkAsPreparing() {
	o.Status = orderstatus.Statuses.Preparing.Code()
	o.UpdatedAt = time.Now()
}

func (o *Order) MarkAsReady() {
	o.Status = orderstatus.Statuses.Ready.Code()
	o.UpdatedAt = time.Now()
}

func (o *Order) MarkAsServed() {
	o.Status = orderstatus.Statuses.Served.Code()
	o.UpdatedAt = time.Now()
}

func (o *Order) MarkAsCompleted() {
	now := time.Now()
	o.Status = orderstatus.Statuses.Completed.Code()
	o.CompletedAt = &now
	o.UpdatedAt = now
}

func (o *Order) MarkAsVoided(reason, voidedBy string) {
	now := time.Now()
	o.Status = orderstatus.Statuses.Voided.Code()
	o.VoidReason = reason
	o.VoidedBy = voidedBy
	o.VoidedAt = &now
	o.UpdatedAt = now
}

// Terminal reports whether the order reached a final state.
func (o *Order) Terminal() bool {
	s := orderstatus.ByName(o.Status)
	return s != nil && s.Terminal()
}

// Voided reports whether the order is excluded from session totals.
func (o *Order) Voided() bool {
	return o.Status == orderstatus.Statuses.Voided.Code()
}
