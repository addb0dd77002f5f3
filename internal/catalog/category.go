package catalog

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// Strictness controls how the stock ledger treats insufficient stock for
// products in a category: strict goods (bottled beverages, alcohol) block the
// sale, flexible goods (cooked food) only raise a warning.
const (
	StrictnessStrict   = "strict"
	StrictnessFlexible = "flexible"
)

type Category struct {
	ID   uuid.UUID `json:"id" bson:"_id"`
	Name string    `json:"name" bson:"name"`
	// DefaultDestination routes products of this category to a preparation
	// station before any name-based fallback applies. Empty means unset.
	DefaultDestination string    `json:"default_destination,omitempty" bson:"default_destination,omitempty"`
	Strictness         string    `json:"strictness" bson:"strictness"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`
	CreatedBy          string    `json:"created_by" bson:"created_by"`
	UpdatedAt          time.Time `json:"updated_at" bson:"updated_at"`
	UpdatedBy          string    `json:"updated_by" bson:"updated_by"`
}

func (c *Category) GetID() uuid.UUID {
	return c.ID
}

func (c *Category) ResourceType() string {
	return "category"
}

func (c *Category) SetID(id uuid.UUID) {
	c.ID = id
}

func NewCategory(name, strictness string) *Category {
	if strictness == "" {
		strictness = StrictnessFlexible
	}
	return &Category{
		ID:         apt.GenerateNewID(),
		Name:       name,
		Strictness: strictness,
	}
}

func (c *Category) EnsureID() {
	if c.ID == uuid.Nil {
		c.ID = apt.GenerateNewID()
	}
}

func (c *Category) BeforeCreate() {
	c.EnsureID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
}

func (c *Category) BeforeUpdate() {
	c.UpdatedAt = time.Now()
}

// Strict reports whether products in this category require sufficient stock
// before a sale is allowed.
func (c *Category) Strict() bool {
	return c.Strictness == StrictnessStrict
}
