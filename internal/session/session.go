package session

import (
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/Malon0825/beerhive-sales-system-sub000/pkg/enums/sessionstatus"
)

// Session is a dining tab: one continuous visit at one table, aggregating
// zero or more orders. Totals are always recomputed from the current set of
// non-voided orders, never adjusted incrementally.
type Session struct {
	ID            uuid.UUID `json:"id" bson:"_id"`
	SessionNumber string    `json:"session_number" bson:"session_number"`

	TableID     uuid.UUID  `json:"table_id" bson:"table_id"`
	TableNumber string     `json:"table_number,omitempty" bson:"table_number,omitempty"`
	CustomerID  *uuid.UUID `json:"customer_id,omitempty" bson:"customer_id,omitempty"`

	Status string `json:"status" bson:"status"`

	Subtotal      float64 `json:"subtotal" bson:"subtotal"`
	DiscountTotal float64 `json:"discount_total" bson:"discount_total"`
	TaxTotal      float64 `json:"tax_total" bson:"tax_total"`
	Total         float64 `json:"total" bson:"total"`

	PaymentMethod   string  `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	AmountTendered  float64 `json:"amount_tendered,omitempty" bson:"amount_tendered,omitempty"`
	ReferenceNumber string  `json:"reference_number,omitempty" bson:"reference_number,omitempty"`

	Notes string `json:"notes,omitempty" bson:"notes,omitempty"`

	OpenedAt time.Time  `json:"opened_at" bson:"opened_at"`
	OpenedBy string     `json:"opened_by,omitempty" bson:"opened_by,omitempty"`
	ClosedAt *time.Time `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
	ClosedBy string     `json:"closed_by,omitempty" bson:"closed_by,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (s *Session) GetID() uuid.UUID {
	return s.ID
}

func (s *Session) ResourceType() string {
	return "session"
}

func (s *Session) SetID(id uuid.UUID) {
	s.ID = id
}

func NewSession(tableID uuid.UUID) *Session {
	now := time.Now()
	return &Session{
		ID:       apt.GenerateNewID(),
		TableID:  tableID,
		Status:   sessionstatus.Statuses.Open.Code(),
		OpenedAt: now,
	}
}

func (s *Session) EnsureID() {
	if s.ID == uuid.Nil {
		s.ID = apt.GenerateNewID()
	}
}

func (s *Session) BeforeCreate() {
	s.EnsureID()
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
}

func (s *Session) BeforeUpdate() {
	s.UpdatedAt = time.Now()
}

// Open reports whether the session still accepts orders.
func (s *Session) Open() bool {
	return s.Status == sessionstatus.Statuses.Open.Code()
}

func (s *Session) MarkAsClosed(closedBy string) {
	now := time.Now()
	s.Status = sessionstatus.Statuses.Closed.Code()
	s.ClosedAt = &now
	s.ClosedBy = closedBy
	s.UpdatedAt = now
}

func (s *Session) MarkAsAbandoned(closedBy string) {
	now := time.Now()
	s.Status = sessionstatus.Statuses.Abandoned.Code()
	s.ClosedAt = &now
	s.ClosedBy = closedBy
	s.UpdatedAt = now
}

// SessionNumberFor builds the human-readable tab number for a given day and
// per-day sequence, e.g. TAB-20260828-0007.
func SessionNumberFor(t time.Time, seq int) string {
	return fmt.Sprintf("TAB-%s-%04d", t.Format("20060102"), seq)
}
