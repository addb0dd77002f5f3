package catalog

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

type Product struct {
	ID           uuid.UUID `json:"id" bson:"_id"`
	CategoryID   uuid.UUID `json:"category_id" bson:"category_id"`
	Name         string    `json:"name" bson:"name"`
	SKU          string    `json:"sku,omitempty" bson:"sku,omitempty"`
	UnitPrice    float64   `json:"unit_price" bson:"unit_price"`
	CurrentStock int       `json:"current_stock" bson:"current_stock"`
	ReorderPoint int       `json:"reorder_point" bson:"reorder_point"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	CreatedBy    string    `json:"created_by" bson:"created_by"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
	UpdatedBy    string    `json:"updated_by" bson:"updated_by"`
}

func (p *Product) GetID() uuid.UUID {
	return p.ID
}

func (p *Product) ResourceType() string {
	return "product"
}

func (p *Product) SetID(id uuid.UUID) {
	p.ID = id
}

func NewProduct(categoryID uuid.UUID, name string, unitPrice float64) *Product {
	return &Product{
		ID:         apt.GenerateNewID(),
		CategoryID: categoryID,
		Name:       name,
		UnitPrice:  unitPrice,
		IsActive:   true,
	}
}

func (p *Product) EnsureID() {
	if p.ID == uuid.Nil {
		p.ID = apt.GenerateNewID()
	}
}

func (p *Product) BeforeCreate() {
	p.EnsureID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
}

func (p *Product) BeforeUpdate() {
	p.UpdatedAt = time.Now()
}

// LowStock reports whether the product sits at or below its reorder point.
func (p *Product) LowStock() bool {
	return p.ReorderPoint > 0 && p.CurrentStock <= p.ReorderPoint
}
