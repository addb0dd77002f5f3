package stock

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Malon0825/beerhive-sales-system-sub000/internal/catalog"
)

// MockProductRepo is a test mock for catalog.ProductRepo
type MockProductRepo struct {
	products        map[uuid.UUID]*catalog.Product
	GetFunc         func(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
	ListFunc        func(ctx context.Context) ([]*catalog.Product, error)
	AdjustStockFunc func(ctx context.Context, id uuid.UUID, delta int) (int, error)
}

func NewMockProductRepo() *MockProductRepo {
	return &MockProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (m *MockProductRepo) Create(ctx context.Context, p *catalog.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *MockProductRepo) Get(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return m.products[id], nil
}

func (m *MockProductRepo) List(ctx context.Context) ([]*catalog.Product, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	result := make([]*catalog.Product, 0, len(m.products))
	for _, p := range m.products {
		result = append(result, p)
	}
	return result, nil
}

func (m *MockProductRepo) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*catalog.Product, error) {
	result := make([]*catalog.Product, 0)
	for _, p := range m.products {
		if p.CategoryID == categoryID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *MockProductRepo) Save(ctx context.Context, p *catalog.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *MockProductRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	if m.AdjustStockFunc != nil {
		return m.AdjustStockFunc(ctx, id, delta)
	}
	p, exists := m.products[id]
	if !exists {
		return 0, errors.New("product not found")
	}
	p.CurrentStock += delta
	return p.CurrentStock, nil
}

func (m *MockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.products, id)
	return nil
}

// MockCategoryRepo is a test mock for catalog.CategoryRepo
type MockCategoryRepo struct {
	categories map[uuid.UUID]*catalog.Category
	GetFunc    func(ctx context.Context, id uuid.UUID) (*catalog.Category, error)
	ListFunc   func(ctx context.Context) ([]*catalog.Category, error)
}

func NewMockCategoryRepo() *MockCategoryRepo {
	return &MockCategoryRepo{categories: make(map[uuid.UUID]*catalog.Category)}
}

func (m *MockCategoryRepo) Create(ctx context.Context, c *catalog.Category) error {
	m.categories[c.ID] = c
	return nil
}

func (m *MockCategoryRepo) Get(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return m.categories[id], nil
}

func (m *MockCategoryRepo) List(ctx context.Context) ([]*catalog.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	result := make([]*catalog.Category, 0, len(m.categories))
	for _, c := range m.categories {
		result = append(result, c)
	}
	return result, nil
}

func (m *MockCategoryRepo) Save(ctx context.Context, c *catalog.Category) error {
	m.categories[c.ID] = c
	return nil
}

func (m *MockCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.categories, id)
	return nil
}

// MockMovementRepo is a test mock for MovementRepo. It enforces the same
// uniqueness rule as the MongoDB index: one sale and one return entry per
// (order, product).
type MockMovementRepo struct {
	Movements  []*StockMovement
	InsertFunc func(ctx context.Context, m *StockMovement) error
	ListFunc   func(ctx context.Context, filter MovementFilter) ([]StockMovement, error)
}

func NewMockMovementRepo() *MockMovementRepo {
	return &MockMovementRepo{Movements: make([]*StockMovement, 0)}
}

func (m *MockMovementRepo) Insert(ctx context.Context, mv *StockMovement) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, mv)
	}
	if mv.ReferenceOrderID != nil && (mv.MovementType == MovementSale || mv.MovementType == MovementReturn) {
		for _, existing := range m.Movements {
			if existing.MovementType == mv.MovementType &&
				existing.ProductID == mv.ProductID &&
				existing.ReferenceOrderID != nil &&
				*existing.ReferenceOrderID == *mv.ReferenceOrderID {
				return ErrDuplicateMovement
			}
		}
	}
	m.Movements = append(m.Movements, mv)
	return nil
}

func (m *MockMovementRepo) List(ctx context.Context, filter MovementFilter) ([]StockMovement, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	result := make([]StockMovement, 0)
	for _, mv := range m.Movements {
		if filter.ProductID != nil && mv.ProductID != *filter.ProductID {
			continue
		}
		if filter.MovementType != nil && mv.MovementType != *filter.MovementType {
			continue
		}
		if filter.ReferenceOrderID != nil && (mv.ReferenceOrderID == nil || *mv.ReferenceOrderID != *filter.ReferenceOrderID) {
			continue
		}
		result = append(result, *mv)
	}
	return result, nil
}

func (m *MockMovementRepo) ListByOrder(ctx context.Context, orderID uuid.UUID, movementType string) ([]StockMovement, error) {
	return m.List(ctx, MovementFilter{ReferenceOrderID: &orderID, MovementType: &movementType})
}

// MockPublisher is a test mock for events.Publisher
type MockPublisher struct {
	PublishedEvents []PublishedEvent
	PublishFunc     func(ctx context.Context, topic string, data []byte) error
}

type PublishedEvent struct {
	Topic string
	Data  []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{PublishedEvents: make([]PublishedEvent, 0)}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, data)
	}
	m.PublishedEvents = append(m.PublishedEvents, PublishedEvent{Topic: topic, Data: data})
	return nil
}
