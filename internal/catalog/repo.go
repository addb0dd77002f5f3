package catalog

import (
	"context"

	"github.com/google/uuid"
)

type ProductRepo interface {
	Create(ctx context.Context, p *Product) error
	Get(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*Product, error)
	Save(ctx context.Context, p *Product) error
	// AdjustStock atomically applies delta to current_stock and returns the
	// resulting level. All stock mutations go through the ledger, which pairs
	// each call with an audit movement.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryRepo interface {
	Create(ctx context.Context, c *Category) error
	Get(ctx context.Context, id uuid.UUID) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Save(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PackageRepo interface {
	Create(ctx context.Context, p *Package) error
	Get(ctx context.Context, id uuid.UUID) (*Package, error)
	List(ctx context.Context) ([]*Package, error)
	Save(ctx context.Context, p *Package) error
	Delete(ctx context.Context, id uuid.UUID) error
}
