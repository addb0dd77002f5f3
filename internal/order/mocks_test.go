package order

import (
	"context"
	"fmt"
	"sync"

	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/Malon0825/beerhive-sales-system-sub000/internal/catalog"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/stock"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/tables"
	"github.com/Malon0825/beerhive-sales-system-sub000/internal/ticket"
)

type MockOrderRepo struct {
	mu     sync.Mutex
	Orders map[uuid.UUID]*Order

	CreateFunc func(ctx context.Context, o *Order) error
	GetFunc    func(ctx context.Context, id uuid.UUID) (*Order, error)
	SaveFunc   func(ctx context.Context, o *Order) error
}

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{Orders: make(map[uuid.UUID]*Order)}
}

func (m *MockOrderRepo) Create(ctx context.Context, o *Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Orders[o.ID] = o
	return nil
}

func (m *MockOrderRepo) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Orders[id], nil
}

func (m *MockOrderRepo) List(ctx context.Context) ([]*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Order, 0, len(m.Orders))
	for _, o := range m.Orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *MockOrderRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Order
	for _, o := range m.Orders {
		if o.SessionID != nil && *o.SessionID == sessionID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MockOrderRepo) ListByStatus(ctx context.Context, status string) ([]*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Order
	for _, o := range m.Orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MockOrderRepo) Save(ctx context.Context, o *Order) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, o)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Orders[o.ID] = o
	return nil
}

func (m *MockOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Orders, id)
	return nil
}

type MockOrderItemRepo struct {
	mu    sync.Mutex
	Items map[uuid.UUID]*OrderItem

	CreateFunc func(ctx context.Context, item *OrderItem) error
	SaveFunc   func(ctx context.Context, item *OrderItem) error
}

func NewMockOrderItemRepo() *MockOrderItemRepo {
	return &MockOrderItemRepo{Items: make(map[uuid.UUID]*OrderItem)}
}

func (m *MockOrderItemRepo) Create(ctx context.Context, item *OrderItem) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, item)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items[item.ID] = item
	return nil
}

func (m *MockOrderItemRepo) Get(ctx context.Context, id uuid.UUID) (*OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Items[id], nil
}

func (m *MockOrderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*OrderItem
	for _, item := range m.Items {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *MockOrderItemRepo) Save(ctx context.Context, item *OrderItem) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, item)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items[item.ID] = item
	return nil
}

func (m *MockOrderItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Items, id)
	return nil
}

type MockProductRepo struct {
	mu       sync.Mutex
	Products map[uuid.UUID]*catalog.Product
}

func NewMockProductRepo() *MockProductRepo {
	return &MockProductRepo{Products: make(map[uuid.UUID]*catalog.Product)}
}

func (m *MockProductRepo) Create(ctx context.Context, p *catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Products[p.ID] = p
	return nil
}

func (m *MockProductRepo) Get(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Products[id], nil
}

func (m *MockProductRepo) List(ctx context.Context) ([]*catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*catalog.Product, 0, len(m.Products))
	for _, p := range m.Products {
		out = append(out, p)
	}
	return out, nil
}

func (m *MockProductRepo) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*catalog.Product
	for _, p := range m.Products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockProductRepo) Save(ctx context.Context, p *catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Products[p.ID] = p
	return nil
}

func (m *MockProductRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Products[id]
	if !ok {
		return 0, fmt.Errorf("product %s not found", id)
	}
	p.CurrentStock += delta
	return p.CurrentStock, nil
}

func (m *MockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Products, id)
	return nil
}

type MockCategoryRepo struct {
	mu         sync.Mutex
	Categories map[uuid.UUID]*catalog.Category
}

func NewMockCategoryRepo() *MockCategoryRepo {
	return &MockCategoryRepo{Categories: make(map[uuid.UUID]*catalog.Category)}
}

func (m *MockCategoryRepo) Create(ctx context.Context, c *catalog.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Categories[c.ID] = c
	return nil
}

func (m *MockCategoryRepo) Get(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Categories[id], nil
}

func (m *MockCategoryRepo) List(ctx context.Context) ([]*catalog.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*catalog.Category, 0, len(m.Categories))
	for _, c := range m.Categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *MockCategoryRepo) Save(ctx context.Context, c *catalog.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Categories[c.ID] = c
	return nil
}

func (m *MockCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Categories, id)
	return nil
}

type MockPackageRepo struct {
	mu       sync.Mutex
	Packages map[uuid.UUID]*catalog.Package
}

func NewMockPackageRepo() *MockPackageRepo {
	return &MockPackageRepo{Packages: make(map[uuid.UUID]*catalog.Package)}
}

func (m *MockPackageRepo) Create(ctx context.Context, p *catalog.Package) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Packages[p.ID] = p
	return nil
}

func (m *MockPackageRepo) Get(ctx context.Context, id uuid.UUID) (*catalog.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Packages[id], nil
}

func (m *MockPackageRepo) List(ctx context.Context) ([]*catalog.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*catalog.Package, 0, len(m.Packages))
	for _, p := range m.Packages {
		out = append(out, p)
	}
	return out, nil
}

func (m *MockPackageRepo) Save(ctx context.Context, p *catalog.Package) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Packages[p.ID] = p
	return nil
}

func (m *MockPackageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Packages, id)
	return nil
}

// MockMovementRepo mirrors the partial unique index on
// (reference_order_id, product_id) per sale/return movement type.
type MockMovementRepo struct {
	mu        sync.Mutex
	Movements []*stock.StockMovement
}

func NewMockMovementRepo() *MockMovementRepo {
	return &MockMovementRepo{}
}

func (m *MockMovementRepo) Insert(ctx context.Context, movement *stock.StockMovement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if movement.ReferenceOrderID != nil &&
		(movement.MovementType == stock.MovementSale || movement.MovementType == stock.MovementReturn) {
		for _, existing := range m.Movements {
			if existing.ReferenceOrderID == nil {
				continue
			}
			if *existing.ReferenceOrderID == *movement.ReferenceOrderID &&
				existing.ProductID == movement.ProductID &&
				existing.MovementType == movement.MovementType {
				return stock.ErrDuplicateMovement
			}
		}
	}

	m.Movements = append(m.Movements, movement)
	return nil
}

func (m *MockMovementRepo) List(ctx context.Context, filter stock.MovementFilter) ([]*stock.StockMovement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*stock.StockMovement
	for _, movement := range m.Movements {
		if filter.ProductID != nil && movement.ProductID != *filter.ProductID {
			continue
		}
		if filter.MovementType != nil && movement.MovementType != *filter.MovementType {
			continue
		}
		if filter.ReferenceOrderID != nil {
			if movement.ReferenceOrderID == nil || *movement.ReferenceOrderID != *filter.ReferenceOrderID {
				continue
			}
		}
		out = append(out, movement)
	}
	return out, nil
}

func (m *MockMovementRepo) ListByOrder(ctx context.Context, orderID uuid.UUID, movementType string) ([]*stock.StockMovement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*stock.StockMovement
	for _, movement := range m.Movements {
		if movement.ReferenceOrderID == nil || *movement.ReferenceOrderID != orderID {
			continue
		}
		if movement.MovementType != movementType {
			continue
		}
		out = append(out, movement)
	}
	return out, nil
}

type MockTableRepo struct {
	mu     sync.Mutex
	Tables map[uuid.UUID]*tables.Table
}

func NewMockTableRepo() *MockTableRepo {
	return &MockTableRepo{Tables: make(map[uuid.UUID]*tables.Table)}
}

func (m *MockTableRepo) Create(ctx context.Context, t *tables.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tables[t.ID] = t
	return nil
}

func (m *MockTableRepo) Get(ctx context.Context, id uuid.UUID) (*tables.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Tables[id], nil
}

func (m *MockTableRepo) GetByNumber(ctx context.Context, number string) (*tables.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Tables {
		if t.Number == number {
			return t, nil
		}
	}
	return nil, nil
}

func (m *MockTableRepo) List(ctx context.Context) ([]*tables.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*tables.Table, 0, len(m.Tables))
	for _, t := range m.Tables {
		out = append(out, t)
	}
	return out, nil
}

func (m *MockTableRepo) ListByStatus(ctx context.Context, status string) ([]*tables.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*tables.Table
	for _, t := range m.Tables {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MockTableRepo) Save(ctx context.Context, t *tables.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tables[t.ID] = t
	return nil
}

func (m *MockTableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Tables, id)
	return nil
}

type MockCustomerDirectory struct {
	Known      map[uuid.UUID]bool
	ExistsFunc func(ctx context.Context, id uuid.UUID) (bool, error)
}

func NewMockCustomerDirectory() *MockCustomerDirectory {
	return &MockCustomerDirectory{Known: make(map[uuid.UUID]bool)}
}

func (m *MockCustomerDirectory) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return m.Known[id], nil
}

type MockTicketRepo struct {
	mu      sync.Mutex
	Tickets []*ticket.PrepTicket

	CreateFunc func(ctx context.Context, t *ticket.PrepTicket) error
}

func NewMockTicketRepo() *MockTicketRepo {
	return &MockTicketRepo{}
}

func (m *MockTicketRepo) Create(ctx context.Context, t *ticket.PrepTicket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tickets = append(m.Tickets, t)
	return nil
}

func (m *MockTicketRepo) Update(ctx context.Context, t *ticket.PrepTicket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.Tickets {
		if existing.ID == t.ID {
			m.Tickets[i] = t
			return nil
		}
	}
	return fmt.Errorf("ticket %s not found", t.ID)
}

func (m *MockTicketRepo) FindByID(ctx context.Context, id ticket.TicketID) (*ticket.PrepTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Tickets {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (m *MockTicketRepo) FindByOrderItemID(ctx context.Context, id ticket.OrderItemID) (*ticket.PrepTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.Tickets {
		if t.OrderItemID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (m *MockTicketRepo) List(ctx context.Context, filter ticket.TicketFilter) ([]ticket.PrepTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ticket.PrepTicket
	for _, t := range m.Tickets {
		if filter.Destination != nil && t.Destination != *filter.Destination {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.OrderID != nil && t.OrderID != *filter.OrderID {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

type PublishedEvent struct {
	Topic string
	Data  []byte
}

type MockPublisher struct {
	mu              sync.Mutex
	PublishedEvents []PublishedEvent
	PublishFunc     func(ctx context.Context, topic string, data []byte) error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedEvents = append(m.PublishedEvents, PublishedEvent{Topic: topic, Data: data})
	return nil
}

func (m *MockPublisher) EventsFor(topic string) []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []PublishedEvent
	for _, evt := range m.PublishedEvents {
		if evt.Topic == topic {
			out = append(out, evt)
		}
	}
	return out
}

type Notification struct {
	Title      string
	Message    string
	TargetRole string
}

type MockNotifier struct {
	mu            sync.Mutex
	Notifications []Notification
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Notify(ctx context.Context, title, message, targetRole string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = append(m.Notifications, Notification{Title: title, Message: message, TargetRole: targetRole})
}

type MockSubscriber struct {
	Handlers map[string]events.HandlerFunc
}

func NewMockSubscriber() *MockSubscriber {
	return &MockSubscriber{Handlers: make(map[string]events.HandlerFunc)}
}

func (m *MockSubscriber) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	m.Handlers[topic] = handler
	return nil
}

func (m *MockSubscriber) Deliver(ctx context.Context, topic string, data []byte) error {
	handler, ok := m.Handlers[topic]
	if !ok {
		return fmt.Errorf("no handler for topic %s", topic)
	}
	return handler(ctx, data)
}
