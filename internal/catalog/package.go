package catalog

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// Package bundles several products under one priced menu entry, e.g.
// "Party Bucket" = 12x Beer + 2x Sisig. Ordering a package expands it into
// its constituent products at routing time.
type Package struct {
	ID        uuid.UUID     `json:"id" bson:"_id"`
	Name      string        `json:"name" bson:"name"`
	Price     float64       `json:"price" bson:"price"`
	Items     []PackageItem `json:"items" bson:"items"`
	IsActive  bool          `json:"is_active" bson:"is_active"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	CreatedBy string        `json:"created_by" bson:"created_by"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
	UpdatedBy string        `json:"updated_by" bson:"updated_by"`
}

// PackageItem is one constituent of a package. Quantity is the ratio per one
// package unit: ordering the package N times yields N x Quantity of the
// product.
type PackageItem struct {
	ProductID uuid.UUID `json:"product_id" bson:"product_id"`
	Quantity  int       `json:"quantity" bson:"quantity"`
}

func (p *Package) GetID() uuid.UUID {
	return p.ID
}

func (p *Package) ResourceType() string {
	return "package"
}

func (p *Package) SetID(id uuid.UUID) {
	p.ID = id
}

func NewPackage(name string, price float64) *Package {
	return &Package{
		ID:       apt.GenerateNewID(),
		Name:     name,
		Price:    price,
		Items:    []PackageItem{},
		IsActive: true,
	}
}

func (p *Package) EnsureID() {
	if p.ID == uuid.Nil {
		p.ID = apt.GenerateNewID()
	}
}

func (p *Package) BeforeCreate() {
	p.EnsureID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
}

func (p *Package) BeforeUpdate() {
	p.UpdatedAt = time.Now()
}

func (p *Package) AddItem(productID uuid.UUID, quantity int) {
	p.Items = append(p.Items, PackageItem{ProductID: productID, Quantity: quantity})
}
