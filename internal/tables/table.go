package tables

import (
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusOccupied  = "occupied"
	StatusCleaning  = "cleaning"
)

type Table struct {
	ID       uuid.UUID `json:"id" bson:"_id"`
	Number   string    `json:"number" bson:"number"`
	Status   string    `json:"status" bson:"status"`
	Area     string    `json:"area,omitempty" bson:"area,omitempty"`
	Capacity int       `json:"capacity" bson:"capacity"`
	IsActive bool      `json:"is_active" bson:"is_active"`

	// CurrentSessionID is set while the table is occupied and is the anchor
	// of the one-open-session-per-table rule.
	CurrentSessionID *uuid.UUID `json:"current_session_id,omitempty" bson:"current_session_id,omitempty"`

	Notes []Note `json:"notes,omitempty" bson:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	CreatedBy string    `json:"created_by" bson:"created_by"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	UpdatedBy string    `json:"updated_by" bson:"updated_by"`
}

type Note struct {
	ID        uuid.UUID `json:"id" bson:"id"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	CreatedBy string    `json:"created_by" bson:"created_by"`
}

func (t *Table) GetID() uuid.UUID {
	return t.ID
}

func (t *Table) ResourceType() string {
	return "table"
}

func (t *Table) SetID(id uuid.UUID) {
	t.ID = id
}

func NewTable(number string, capacity int) *Table {
	return &Table{
		ID:       aqm.GenerateNewID(),
		Number:   number,
		Capacity: capacity,
		Status:   StatusAvailable,
		IsActive: true,
		Notes:    []Note{},
	}
}

func (t *Table) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = aqm.GenerateNewID()
	}
}

func (t *Table) BeforeCreate() {
	t.EnsureID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
}

func (t *Table) BeforeUpdate() {
	t.UpdatedAt = time.Now()
}

func (t *Table) AddNote(content, createdBy string) {
	if t.Notes == nil {
		t.Notes = []Note{}
	}
	note := Note{
		ID:        aqm.GenerateNewID(),
		Content:   content,
		CreatedAt: time.Now(),
		CreatedBy: createdBy,
	}
	t.Notes = append(t.Notes, note)
}

// Seatable reports whether a new session may open on this table.
func (t *Table) Seatable() bool {
	return t.IsActive && (t.Status == StatusAvailable || t.Status == StatusReserved)
}

func (t *Table) Occupy(sessionID uuid.UUID) {
	t.Status = StatusOccupied
	t.CurrentSessionID = &sessionID
	t.UpdatedAt = time.Now()
}

// Release moves an occupied table to cleaning. Tables never jump straight
// back to available; staff confirm the cleanup first.
func (t *Table) Release() {
	t.Status = StatusCleaning
	t.CurrentSessionID = nil
	t.UpdatedAt = time.Now()
}

func (t *Table) FinishCleaning() {
	t.Status = StatusAvailable
	t.UpdatedAt = time.Now()
}

func (t *Table) Reserve() {
	t.Status = StatusReserved
	t.UpdatedAt = time.Now()
}

func (t *Table) CancelReservation() {
	t.Status = StatusAvailable
	t.UpdatedAt = time.Now()
}
